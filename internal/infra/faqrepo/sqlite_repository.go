package faqrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/yanqian/faq-system/internal/domain/faq"
)

// SQLiteRepository implements faq.Repository on a SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository constructs the repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// List returns every FAQ by ascending id.
func (r *SQLiteRepository) List(ctx context.Context) ([]faq.FAQ, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+faqColumns+` FROM faqs ORDER BY id`)
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

// Search filters on visible text.
func (r *SQLiteRepository) Search(ctx context.Context, term string) ([]faq.FAQ, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	return filterMatches(all, term), nil
}

// Get fetches by primary key.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (faq.FAQ, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+faqColumns+` FROM faqs WHERE id = ?`, id)
	rec, err := scanFAQ(row)
	if errors.Is(err, sql.ErrNoRows) {
		return faq.FAQ{}, false, nil
	}
	if err != nil {
		return faq.FAQ{}, false, err
	}
	return rec, true, nil
}

// Create inserts a new FAQ row.
func (r *SQLiteRepository) Create(ctx context.Context, draft faq.Draft) (faq.FAQ, error) {
	return insertSQLiteFAQ(ctx, r.db, draft)
}

// CreateBatch inserts every draft inside one transaction.
func (r *SQLiteRepository) CreateBatch(ctx context.Context, drafts []faq.Draft) ([]faq.FAQ, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	out := make([]faq.FAQ, 0, len(drafts))
	for i, draft := range drafts {
		rec, err := insertSQLiteFAQ(ctx, tx, draft)
		if err != nil {
			return nil, fmt.Errorf("insert faq %d: %w", i, err)
		}
		out = append(out, rec)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil fields of patch.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch faq.Patch) (faq.FAQ, bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE faqs
		SET question = COALESCE(?, question),
		    answer = COALESCE(?, answer),
		    updated_at = ?
		WHERE id = ?`,
		nullString(patch.Question), nullString(patch.Answer), patch.UpdatedAt, id)
	if err != nil {
		return faq.FAQ{}, false, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return faq.FAQ{}, false, err
	}
	return r.Get(ctx, id)
}

// Delete removes a row and reports whether it existed.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM faqs WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type sqlExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSQLiteFAQ(ctx context.Context, db sqlExecer, draft faq.Draft) (faq.FAQ, error) {
	res, err := db.ExecContext(ctx, `
		INSERT INTO faqs (question, answer, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		draft.Question, draft.Answer, draft.CreatedAt, draft.CreatedAt)
	if err != nil {
		return faq.FAQ{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return faq.FAQ{}, err
	}
	return faq.FAQ{
		ID:        id,
		Question:  draft.Question,
		Answer:    draft.Answer,
		CreatedAt: draft.CreatedAt.UTC(),
		UpdatedAt: draft.CreatedAt.UTC(),
	}, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

var _ faq.Repository = (*SQLiteRepository)(nil)
