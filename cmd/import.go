package cmd

import (
	"context"
	"fmt"
	"log"
)

func Import(dbPath string) error {

	client, repo, _, err := bootstrap(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Printf("failed to close repository: %v", err)
		}
	}()

	ctx := context.Background()

	numStations, err := client.GetStations(ctx, repo.InsertStations)
	if err != nil {
		return fmt.Errorf("failed to fetch gas stations: %w", err)
	}
	log.Printf("imported %d gas stations", numStations)

	numPrices, err := client.GetOfficialPrices(ctx, repo.InsertScrapedPrices)
	if err != nil {
		return fmt.Errorf("failed to fetch official prices: %w", err)
	}
	log.Printf("imported %d official prices", numPrices)

	return nil
}
