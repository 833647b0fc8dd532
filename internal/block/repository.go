package block

import (
	"context"
	"time"
)

// Repository defines the storage interface for blocks and windows.
type Repository interface {
	// CreateBlock adds a new block and assigns its ID.
	CreateBlock(ctx context.Context, b *TimeBlock) error

	// GetBlock retrieves a block by ID.
	GetBlock(ctx context.Context, id int64) (*TimeBlock, error)

	// UpdateBlock persists all mutable fields of a block.
	UpdateBlock(ctx context.Context, b *TimeBlock) error

	// DeleteBlock removes a block. Returns ErrBlockNotFound if missing.
	DeleteBlock(ctx context.Context, id int64) error

	// ListBlocks returns every block, unscheduled ones included.
	ListBlocks(ctx context.Context) ([]*TimeBlock, error)

	// ListBlocksByDateRange returns blocks scheduled within [start, end] by
	// calendar date, inclusive.
	ListBlocksByDateRange(ctx context.Context, start, end time.Time) ([]*TimeBlock, error)

	// ReplaceBlocks atomically overwrites the scheduling state of the given
	// blocks. Used to commit an auto-schedule merge in one transaction.
	ReplaceBlocks(ctx context.Context, blocks []*TimeBlock) error

	// CreateWindow adds a new availability window and assigns its ID.
	CreateWindow(ctx context.Context, w *AvailabilityWindow) error

	// DeleteWindow removes a window.
	DeleteWindow(ctx context.Context, id int64) error

	// ListWindows returns every availability window.
	ListWindows(ctx context.Context) ([]*AvailabilityWindow, error)

	// Close releases any resources held by the repository.
	Close() error
}
