package astro

import (
	"context"
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"golang.org/x/sync/errgroup"

	"stopstats/domain/core"
	"stopstats/domain/solar"
)

// civilElevation is the solar elevation angle, in degrees, at which civil
// twilight ends.
const civilElevation = -6.0

// Calculator computes civil sunset and dusk with go-sunrise's solar
// position formulas, at elevation 0, localized to the analysis timezone.
type Calculator struct {
	// Workers caps the per-date fan-out. Zero means DefaultWorkers.
	Workers int
}

// DefaultWorkers bounds concurrent per-date computations.
const DefaultWorkers = 8

// NewCalculator creates a solar calculator with default fan-out.
func NewCalculator() *Calculator {
	return &Calculator{Workers: DefaultWorkers}
}

// Times returns one solar row per input date, in input order. Dates are
// computed concurrently but results are slotted by index, so output is
// deterministic for a fixed (dates, location) input.
func (c *Calculator) Times(ctx context.Context, dates []time.Time, loc solar.Location) (solar.Table, error) {
	tz, err := loc.Validate()
	if err != nil {
		return nil, err
	}

	workers := c.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	table := make(solar.Table, len(dates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, date := range dates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := timesFor(date, loc, tz)
			if err != nil {
				return err
			}
			table[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}

func timesFor(date time.Time, loc solar.Location, tz *time.Location) (solar.Times, error) {
	year, month, day := date.Date()

	_, set := sunrise.SunriseSunset(loc.Latitude, loc.Longitude, year, month, day)
	_, dusk := sunrise.TimeOfElevation(loc.Latitude, loc.Longitude, civilElevation, year, month, day)

	// go-sunrise reports zero times for polar day and polar night
	if set.IsZero() || dusk.IsZero() {
		return solar.Times{}, fmt.Errorf("%w: (%.4f, %.4f) on %s",
			core.ErrNoTwilight, loc.Latitude, loc.Longitude, date.Format("2006-01-02"))
	}

	set = set.In(tz)
	dusk = dusk.In(tz)
	return solar.Times{
		Date:         date,
		Sunset:       set,
		Dusk:         dusk,
		SunsetMinute: core.MinuteOf(set),
		DuskMinute:   core.MinuteOf(dusk),
	}, nil
}
