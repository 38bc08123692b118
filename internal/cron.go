package internal

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

const CRON_SCHEDULE_STATIONS = "0 */6 * * *" // Every 6 hours
const CRON_SCHEDULE_PRICES = "10 */1 * * *"  // Every hour

// StartCron schedules the recurring refresh of stations and official prices
// from the open-data publication.
func StartCron(client OfficialDataClient, repo GasStationsRepository) (*cron.Cron, error) {

	c := cron.New()

	log.Print("Starting CRON jobs to refresh gas stations and official prices")

	if _, err := c.AddFunc(CRON_SCHEDULE_STATIONS, func() {
		numStations, err := client.GetStations(context.Background(), repo.InsertStations)
		if err != nil {
			log.Printf("Error fetching stations: %v\n", err)
			return
		}
		log.Printf("Upserted %d gas stations", numStations)
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(CRON_SCHEDULE_PRICES, func() {
		numPrices, err := client.GetOfficialPrices(context.Background(), repo.InsertScrapedPrices)
		if err != nil {
			log.Printf("Error fetching official prices: %v\n", err)
			return
		}
		log.Printf("Ingested %d official prices", numPrices)
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
