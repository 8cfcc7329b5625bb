package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"stopstats/adapters/api"
	"stopstats/adapters/astro"
	"stopstats/adapters/excel"
	"stopstats/adapters/postgres"
	"stopstats/internal"
	"stopstats/internal/config"
	"stopstats/ports"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	log := internal.DefaultLogger

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	schema := cfg.Columns.Schema()

	var source ports.RecordSource
	switch {
	case cfg.Database.URL != "":
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer db.Close()
		source = postgres.NewSource(db, cfg.Database.StopsQuery, cfg.Database.PopulationQuery, schema)
		log.Info("record source: postgres")
	case cfg.Data.StopsFile != "":
		source = excel.NewSource(cfg.Data.StopsFile, cfg.Data.PopulationFile, schema)
		log.Info("record source: %s", cfg.Data.StopsFile)
	default:
		fmt.Fprintln(os.Stderr, "set DATABASE_URL or STOPS_FILE")
		os.Exit(1)
	}

	svc, err := api.NewService(context.Background(), source, astro.NewCalculator(), schema, cfg.Location.Location())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	server := api.NewServer(svc)
	log.Info("listening on :%s", cfg.Server.Port)
	if err := http.ListenAndServe(":"+cfg.Server.Port, server.Handler()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
