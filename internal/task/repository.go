package task

import (
	"context"
	"time"
)

// Repository defines the storage interface for planning history.
type Repository interface {
	// CreateRun records a planning run. An empty ID is filled in.
	CreateRun(ctx context.Context, run *Run) error

	// GetRun retrieves a run by ID. Returns ErrRunNotFound if it does not exist.
	GetRun(ctx context.Context, id string) (*Run, error)

	// CreateBlocks stores the blocks of a run in a single transaction.
	// Returns ErrBlockOverlap if two task blocks of the same day overlap.
	CreateBlocks(ctx context.Context, runID string, blocks []*Block) error

	// ListBlocksByDate returns all blocks stored for the day, ordered by start.
	ListBlocksByDate(ctx context.Context, date time.Time) ([]*Block, error)

	// DeleteBlocksByTag removes the blocks of a day carrying tag and
	// returns how many were deleted.
	DeleteBlocksByTag(ctx context.Context, date time.Time, tag string) (int64, error)

	// Close releases any resources held by the repository.
	Close() error
}
