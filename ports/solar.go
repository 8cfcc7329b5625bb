package ports

import (
	"context"
	"time"

	"stopstats/domain/solar"
)

// SolarCalculator supplies civil sunset and dusk times for a set of dates
// at a location. Implementations must be deterministic: the same dates and
// location always yield the same minutes.
type SolarCalculator interface {
	Times(ctx context.Context, dates []time.Time, loc solar.Location) (solar.Table, error)
}
