package faqrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/faq-system/internal/domain/faq"
)

const faqColumns = `id, question, answer, created_at, updated_at`

// PostgresRepository implements faq.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns every FAQ by ascending id.
func (r *PostgresRepository) List(ctx context.Context) ([]faq.FAQ, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+faqColumns+` FROM faqs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []faq.FAQ{}
	for rows.Next() {
		rec, err := scanFAQ(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Search filters on visible text, so markup stored in the row never matches.
func (r *PostgresRepository) Search(ctx context.Context, term string) ([]faq.FAQ, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterMatches(all, term), nil
}

// Get fetches by primary key.
func (r *PostgresRepository) Get(ctx context.Context, id int64) (faq.FAQ, bool, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+faqColumns+` FROM faqs WHERE id = $1`, id)
	rec, err := scanFAQ(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return faq.FAQ{}, false, nil
	}
	if err != nil {
		return faq.FAQ{}, false, err
	}
	return rec, true, nil
}

// Create inserts a new FAQ row.
func (r *PostgresRepository) Create(ctx context.Context, draft faq.Draft) (faq.FAQ, error) {
	return insertFAQ(ctx, r.pool, draft)
}

// CreateBatch inserts every draft inside one transaction.
func (r *PostgresRepository) CreateBatch(ctx context.Context, drafts []faq.Draft) ([]faq.FAQ, error) {
	out := make([]faq.FAQ, 0, len(drafts))
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for i, draft := range drafts {
			rec, err := insertFAQ(ctx, tx, draft)
			if err != nil {
				return fmt.Errorf("insert faq %d: %w", i, err)
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of patch.
func (r *PostgresRepository) Update(ctx context.Context, id int64, patch faq.Patch) (faq.FAQ, bool, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE faqs
		SET question = COALESCE($2, question),
		    answer = COALESCE($3, answer),
		    updated_at = $4
		WHERE id = $1
		RETURNING `+faqColumns,
		id, patch.Question, patch.Answer, patch.UpdatedAt)
	rec, err := scanFAQ(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return faq.FAQ{}, false, nil
	}
	if err != nil {
		return faq.FAQ{}, false, err
	}
	return rec, true, nil
}

// Delete removes a row and reports whether it existed.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertFAQ(ctx context.Context, q queryRower, draft faq.Draft) (faq.FAQ, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO faqs (question, answer, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING `+faqColumns,
		draft.Question, draft.Answer, draft.CreatedAt)
	return scanFAQ(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFAQ(row rowScanner) (faq.FAQ, error) {
	var (
		rec              faq.FAQ
		created, updated time.Time
	)
	if err := row.Scan(&rec.ID, &rec.Question, &rec.Answer, &created, &updated); err != nil {
		return faq.FAQ{}, err
	}
	rec.CreatedAt = created.UTC()
	rec.UpdatedAt = updated.UTC()
	return rec, nil
}

func filterMatches(items []faq.FAQ, term string) []faq.FAQ {
	out := make([]faq.FAQ, 0, len(items))
	for _, item := range items {
		if faq.Matches(item, term) {
			out = append(out, item)
		}
	}
	return out
}

var _ faq.Repository = (*PostgresRepository)(nil)
