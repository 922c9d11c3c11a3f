package faq

import (
	"context"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/faq-system/pkg/errors"
	"github.com/yanqian/faq-system/pkg/util"
)

// Service exposes FAQ management.
type Service interface {
	List(ctx context.Context) ([]FAQ, error)
	Search(ctx context.Context, term string) ([]FAQ, error)
	Get(ctx context.Context, id int64) (FAQ, error)
	Create(ctx context.Context, req CreateRequest) (FAQ, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (FAQ, error)
	Delete(ctx context.Context, id int64) error
	BulkCreate(ctx context.Context, reqs []CreateRequest) ([]FAQ, error)
}

type service struct {
	cfg    Config
	repo   Repository
	cache  ListCache
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the FAQ domain.
func NewService(cfg Config, repo Repository, cache ListCache, logger *slog.Logger) Service {
	return newService(cfg, repo, cache, logger, util.NowUTC)
}

func newService(cfg Config, repo Repository, cache ListCache, logger *slog.Logger, now func() time.Time) *service {
	return &service{
		cfg:    cfg,
		repo:   repo,
		cache:  cache,
		logger: logger.With("component", "faq.service"),
		now:    now,
	}
}

func (s *service) List(ctx context.Context) ([]FAQ, error) {
	cached, ok, err := s.cache.GetList(ctx)
	if err != nil {
		s.logger.Warn("faq list cache read failed", "error", err)
	} else if ok {
		return cached, nil
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap("faq_error", "failed to list faqs", err)
	}
	if items == nil {
		items = []FAQ{}
	}
	if err := s.cache.SaveList(ctx, items, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("faq list cache save failed", "error", err)
	}
	return items, nil
}

func (s *service) Search(ctx context.Context, term string) ([]FAQ, error) {
	normalized := normalizeSearchTerm(term)
	if normalized == "" {
		return s.List(ctx)
	}
	items, err := s.repo.Search(ctx, normalized)
	if err != nil {
		return nil, apperrors.Wrap("faq_error", "failed to search faqs", err)
	}
	if items == nil {
		items = []FAQ{}
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id int64) (FAQ, error) {
	item, found, err := s.repo.Get(ctx, id)
	if err != nil {
		return FAQ{}, apperrors.Wrap("faq_error", "failed to load faq", err)
	}
	if !found {
		return FAQ{}, notFound()
	}
	return item, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (FAQ, error) {
	question, answer, fieldErrs := validateCreate(req)
	if fieldErrs != nil {
		return FAQ{}, apperrors.WithDetails("invalid_input", "invalid faq", fieldErrs)
	}
	item, err := s.repo.Create(ctx, Draft{
		Question:  question,
		Answer:    answer,
		CreatedAt: s.timestamp(),
	})
	if err != nil {
		return FAQ{}, apperrors.Wrap("faq_error", "failed to create faq", err)
	}
	s.invalidate(ctx)
	s.logger.Info("faq created", "id", item.ID)
	return item, nil
}

// Update reports a missing FAQ before looking at the payload.
func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (FAQ, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return FAQ{}, err
	}
	cleaned, fieldErrs := validateUpdate(req)
	if fieldErrs != nil {
		return FAQ{}, apperrors.WithDetails("invalid_input", "invalid faq", fieldErrs)
	}

	updatedAt := s.timestamp()
	if !updatedAt.After(current.UpdatedAt) {
		updatedAt = current.UpdatedAt.Add(time.Microsecond)
	}
	item, found, err := s.repo.Update(ctx, id, Patch{
		Question:  cleaned.Question,
		Answer:    cleaned.Answer,
		UpdatedAt: updatedAt,
	})
	if err != nil {
		return FAQ{}, apperrors.Wrap("faq_error", "failed to update faq", err)
	}
	if !found {
		return FAQ{}, notFound()
	}
	s.invalidate(ctx)
	s.logger.Info("faq updated", "id", item.ID)
	return item, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return apperrors.Wrap("faq_error", "failed to delete faq", err)
	}
	if !deleted {
		return notFound()
	}
	s.invalidate(ctx)
	s.logger.Info("faq deleted", "id", id)
	return nil
}

// BulkCreate validates every entry first and persists the batch only when all of them are valid.
func (s *service) BulkCreate(ctx context.Context, reqs []CreateRequest) ([]FAQ, error) {
	var (
		failures []ItemErrors
		drafts   = make([]Draft, 0, len(reqs))
		created  = s.timestamp()
	)
	for i, req := range reqs {
		question, answer, fieldErrs := validateCreate(req)
		if fieldErrs != nil {
			failures = append(failures, ItemErrors{Index: i, Fields: fieldErrs})
			continue
		}
		drafts = append(drafts, Draft{Question: question, Answer: answer, CreatedAt: created})
	}
	if len(failures) > 0 {
		return nil, apperrors.WithDetails("invalid_input", "invalid faq batch", failures)
	}
	if len(drafts) == 0 {
		return []FAQ{}, nil
	}

	items, err := s.repo.CreateBatch(ctx, drafts)
	if err != nil {
		return nil, apperrors.Wrap("faq_error", "failed to create faqs", err)
	}
	s.invalidate(ctx)
	s.logger.Info("faqs bulk created", "count", len(items))
	return items, nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("faq list cache invalidation failed", "error", err)
	}
}

func (s *service) timestamp() time.Time {
	return util.StorageTime(s.now())
}

func notFound() error {
	return apperrors.Wrap("not_found", "faq not found", nil)
}
