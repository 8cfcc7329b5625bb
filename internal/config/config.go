package config

import (
	"fmt"
	"os"
	"strconv"

	"stopstats/domain/core"
	"stopstats/domain/solar"
	"stopstats/domain/stops"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
	Location LocationConfig
	Columns  ColumnConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the optional Postgres record source settings
type DatabaseConfig struct {
	URL             string
	StopsQuery      string
	PopulationQuery string
}

// DataConfig holds file record source paths
type DataConfig struct {
	StopsFile      string
	PopulationFile string
}

// LocationConfig holds the analysis location for solar calculations
type LocationConfig struct {
	Latitude  float64
	Longitude float64
	Timezone  string
}

// ColumnConfig carries column-name overrides; empty fields keep the
// documented defaults
type ColumnConfig struct {
	Date       string
	Time       string
	Group      string
	Search     string
	Arrest     string
	Frisk      string
	Contraband string
	Population string
}

// Load reads configuration from environment variables. Coordinates that do
// not parse as numbers are an ErrInvalidLocation, not a default.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			StopsQuery:      getEnv("STOPS_QUERY", "SELECT * FROM stops"),
			PopulationQuery: getEnv("POPULATION_QUERY", "SELECT * FROM population"),
		},
		Data: DataConfig{
			StopsFile:      os.Getenv("STOPS_FILE"),
			PopulationFile: os.Getenv("POPULATION_FILE"),
		},
		Location: LocationConfig{
			Timezone: getEnv("ANALYSIS_TIMEZONE", "UTC"),
		},
		Columns: ColumnConfig{
			Date:       os.Getenv("COLUMN_DATE"),
			Time:       os.Getenv("COLUMN_TIME"),
			Group:      os.Getenv("COLUMN_GROUP"),
			Search:     os.Getenv("COLUMN_SEARCH"),
			Arrest:     os.Getenv("COLUMN_ARREST"),
			Frisk:      os.Getenv("COLUMN_FRISK"),
			Contraband: os.Getenv("COLUMN_CONTRABAND"),
			Population: os.Getenv("COLUMN_POPULATION"),
		},
	}

	var err error
	cfg.Location.Latitude, err = floatEnv("ANALYSIS_LATITUDE")
	if err != nil {
		return nil, err
	}
	cfg.Location.Longitude, err = floatEnv("ANALYSIS_LONGITUDE")
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Schema resolves column overrides against the documented defaults.
func (c ColumnConfig) Schema() stops.Schema {
	s := stops.DefaultSchema()
	override(&s.Date, c.Date)
	override(&s.Time, c.Time)
	override(&s.Group, c.Group)
	override(&s.Search, c.Search)
	override(&s.Arrest, c.Arrest)
	override(&s.Frisk, c.Frisk)
	override(&s.Contraband, c.Contraband)
	override(&s.Population, c.Population)
	return s
}

// Location converts the config into the solar domain value.
func (c LocationConfig) Location() solar.Location {
	return solar.Location{
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Timezone:  c.Timezone,
	}
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func floatEnv(key string) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, core.NewLocationError(fmt.Sprintf("%s=%q is not numeric", key, v))
	}
	return f, nil
}
