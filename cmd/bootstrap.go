package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rm-hull/godx"

	"github.com/gasoradar/gasoradar-api/internal"
	"github.com/gasoradar/gasoradar-api/internal/brands"
)

const defaultOpenDataUrl = "https://api.datos.gob.mx/v1/precio-gasolina"

// bootstrap initialises shared resources used by both the API server and
// import commands: environment, database, repository, protection layer and
// the open-data client.
func bootstrap(dbPath string) (internal.OfficialDataClient, internal.GasStationsRepository, *internal.GasStationsService, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	godx.GitVersion()
	godx.EnvironmentVars()
	godx.UserInfo()

	db, err := internal.Connect(dbPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := internal.Migrate("migrations", dbPath); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("failed to migrate SQL: %w", err)
	}

	repo := internal.NewGasStationsRepository(db)

	cfg := internal.LoadConfig()
	protection := internal.NewProtectionService(repo, cfg)
	svc := internal.NewGasStationsService(repo, protection)

	baseUrl := os.Getenv("OPEN_DATA_URL")
	if baseUrl == "" {
		baseUrl = defaultOpenDataUrl
	}
	client := internal.NewOfficialDataClient(baseUrl, brands.Normalize)

	return client, repo, svc, nil
}
