package api

import (
	"context"
	"fmt"

	"stopstats/domain/core"
	"stopstats/domain/frame"
	"stopstats/domain/solar"
	"stopstats/domain/stops"
	"stopstats/internal"
	"stopstats/internal/analysis"
	apperrors "stopstats/internal/errors"
	"stopstats/ports"
)

// Service holds the loaded tables and wires the analyses together. Tables
// are read-only after construction, so handlers share them without locking.
type Service struct {
	stops      frame.Table
	population frame.Table
	schema     stops.Schema
	location   solar.Location
	calc       ports.SolarCalculator
	log        *internal.Logger
}

// NewService loads both tables from the source up front.
func NewService(ctx context.Context, source ports.RecordSource, calc ports.SolarCalculator, schema stops.Schema, location solar.Location) (*Service, error) {
	stopsTable, err := source.Stops(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load stop records")
	}
	if stopsTable.Len() == 0 {
		return nil, fmt.Errorf("%w: stop records", core.ErrEmptyTable)
	}
	population, err := source.Population(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load population table")
	}
	return &Service{
		stops:      stopsTable,
		population: population,
		schema:     schema,
		location:   location,
		calc:       calc,
		log:        internal.DefaultLogger,
	}, nil
}

// RateKinds maps each rate kind to its output column name.
var RateKinds = map[string]string{
	"size":   "n",
	"stop":   "stop_rate",
	"search": "search_rate",
	"arrest": "arrest_rate",
	"frisk":  "frisk_rate",
	"hit":    "hit_rate",
}

// Rates dispatches one aggregation by kind.
func (s *Service) Rates(kind string, by []string) (frame.Table, error) {
	switch kind {
	case "size":
		return analysis.GroupSize(s.stops, by, true)
	case "stop":
		return analysis.StopRates(s.stops, s.population, by, s.schema)
	case "search":
		return analysis.SearchRates(s.stops, by, s.schema)
	case "arrest":
		return analysis.ArrestRates(s.stops, by, s.schema)
	case "frisk":
		return analysis.FriskRates(s.stops, by, s.schema)
	case "hit":
		return analysis.HitRates(s.stops, by, s.schema)
	default:
		return frame.Table{}, apperrors.New(apperrors.CodeBadInput, fmt.Sprintf("unknown rate kind %q", kind))
	}
}

// Compare aggregates a rate grouped by the demographic column plus any
// extra breakdown columns, then pivots it into majority-versus-minority
// rows.
func (s *Service) Compare(kind string, extraBy []string, majority string, minorities []string) (frame.Table, error) {
	rateCol, ok := RateKinds[kind]
	if !ok || kind == "size" {
		return frame.Table{}, apperrors.New(apperrors.CodeBadInput, fmt.Sprintf("cannot compare rate kind %q", kind))
	}

	by := append(append([]string{}, extraBy...), s.schema.Group)
	rates, err := s.Rates(kind, by)
	if err != nil {
		return frame.Table{}, err
	}
	return analysis.CompareRates(rates, rateCol, majority, minorities, s.schema.Group)
}

// Solar computes civil sunset and dusk for every distinct stop date.
func (s *Service) Solar(ctx context.Context) (solar.Table, error) {
	dates, err := analysis.UniqueDates(s.stops, s.schema.Date)
	if err != nil {
		return nil, err
	}
	s.log.Debug("computing solar times for %d dates", len(dates))
	return s.calc.Times(ctx, dates, s.location)
}

// Observations runs the full twilight pipeline: solar times for every stop
// date, then the intertwilight filter.
func (s *Service) Observations(ctx context.Context) ([]solar.Observation, error) {
	times, err := s.Solar(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.IntertwilightObservations(s.stops, times, s.schema)
}

// Vod estimates per-group daylight and darkness stop shares in the window.
func (s *Service) Vod(ctx context.Context, start, end string) (solar.Rates, error) {
	obs, err := s.Observations(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.VodRates(obs, start, end, s.schema)
}

// VodProfiles summarizes minutes-after-dark per group over the filtered
// observations.
func (s *Service) VodProfiles(ctx context.Context) ([]analysis.DarknessProfile, error) {
	obs, err := s.Observations(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.DarknessProfiles(obs, s.schema), nil
}

// Schema exposes the resolved column mapping.
func (s *Service) Schema() stops.Schema {
	return s.schema
}
