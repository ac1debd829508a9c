package store

import (
	"context"

	"github.com/me/narabid/pkg/model"
)

// Store persists upstream call metadata. Result records are never stored.
type Store interface {
	// RecordCall appends one upstream call. It satisfies g2b.CallRecorder.
	RecordCall(ctx context.Context, entry *model.FetchLogEntry) error
	// ListFetches returns the most recent calls first and the total count.
	ListFetches(ctx context.Context, opts model.ListOptions) ([]*model.FetchLogEntry, int, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
