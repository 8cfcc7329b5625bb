package ports

import (
	"context"

	"stopstats/domain/frame"
)

// RecordSource loads the stop and population tables from wherever they
// live. Any columnar source that yields the schema's named fields is an
// acceptable implementation; tables come back already normalized.
type RecordSource interface {
	Stops(ctx context.Context) (frame.Table, error)
	Population(ctx context.Context) (frame.Table, error)
}
