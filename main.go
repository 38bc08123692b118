package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/gasoradar/gasoradar-api/cmd"
)

func main() {
	var dbPath string
	var port int
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "gasoradar-api",
		Short: "Crowd-sourced fuel price API",
	}
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "data/gasoradar.db", "path to the SQLite database")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(dbPath, port, debug)
		},
	}
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "expose pprof endpoints")

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import stations and official prices from the open-data publication",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.Import(dbPath)
		},
	}

	rootCmd.AddCommand(serveCmd, importCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
