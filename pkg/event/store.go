package event

import (
	"context"
)

// Store is the read contract the calendar engine needs from the event
// storage. FetchRecords must return every record that could produce an
// occurrence inside the window; the engine does not look any further.
type Store interface {
	FetchRecords(ctx context.Context, window Window, includeDrafts bool) ([]Record, error)
	FetchCategoryColors(ctx context.Context) (map[int64]string, error)
}
