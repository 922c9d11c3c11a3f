package faq

import (
	"context"
	"time"
)

// ListCache holds the single cached copy of the full FAQ list. It is never authoritative.
type ListCache interface {
	GetList(ctx context.Context) ([]FAQ, bool, error)
	SaveList(ctx context.Context, items []FAQ, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}
