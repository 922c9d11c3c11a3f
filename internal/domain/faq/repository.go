package faq

import "context"

// Repository encapsulates FAQ persistence. Lists are ordered by ascending ID (insertion order).
type Repository interface {
	List(ctx context.Context) ([]FAQ, error)
	Search(ctx context.Context, term string) ([]FAQ, error)
	Get(ctx context.Context, id int64) (FAQ, bool, error)
	Create(ctx context.Context, draft Draft) (FAQ, error)
	// CreateBatch inserts every draft or none of them.
	CreateBatch(ctx context.Context, drafts []Draft) ([]FAQ, error)
	Update(ctx context.Context, id int64, patch Patch) (FAQ, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
