package faq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/faq-system/pkg/errors"
)

type fakeRepo struct {
	mu      sync.Mutex
	nextID  int64
	items   map[int64]FAQ
	lists   int
	failAll error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[int64]FAQ{}}
}

func (r *fakeRepo) List(_ context.Context) ([]FAQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	if r.failAll != nil {
		return nil, r.failAll
	}
	out := make([]FAQ, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) Search(ctx context.Context, term string) ([]FAQ, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []FAQ{}
	for _, item := range all {
		if Matches(item, term) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeRepo) Get(_ context.Context, id int64) (FAQ, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	return item, ok, nil
}

func (r *fakeRepo) Create(_ context.Context, draft Draft) (FAQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll != nil {
		return FAQ{}, r.failAll
	}
	return r.insert(draft), nil
}

func (r *fakeRepo) CreateBatch(_ context.Context, drafts []Draft) ([]FAQ, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FAQ, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, r.insert(d))
	}
	return out, nil
}

func (r *fakeRepo) insert(d Draft) FAQ {
	r.nextID++
	item := FAQ{ID: r.nextID, Question: d.Question, Answer: d.Answer, CreatedAt: d.CreatedAt, UpdatedAt: d.CreatedAt}
	r.items[item.ID] = item
	return item
}

func (r *fakeRepo) Update(_ context.Context, id int64, patch Patch) (FAQ, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return FAQ{}, false, nil
	}
	if patch.Question != nil {
		item.Question = *patch.Question
	}
	if patch.Answer != nil {
		item.Answer = *patch.Answer
	}
	item.UpdatedAt = patch.UpdatedAt
	r.items[id] = item
	return item, true, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

type fakeCache struct {
	items       []FAQ
	ok          bool
	err         error
	invalidated int
}

func (c *fakeCache) GetList(context.Context) ([]FAQ, bool, error) {
	if c.err != nil {
		return nil, false, c.err
	}
	return c.items, c.ok, nil
}

func (c *fakeCache) SaveList(_ context.Context, items []FAQ, _ time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.items, c.ok = items, true
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidated++
	if c.err != nil {
		return c.err
	}
	c.items, c.ok = nil, false
	return nil
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestService(repo Repository, cache ListCache, clock *testClock) *service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newService(Config{CacheTTL: time.Hour}, repo, cache, logger, clock.Now)
}

func strPtr(s string) *string { return &s }

func TestCreateThenGetRoundTrip(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 5, 1, 10, 0, 0, 123456789, time.UTC)}
	svc := newTestService(newFakeRepo(), &fakeCache{}, clock)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{Question: strPtr("<p>What is Go?</p>"), Answer: strPtr("<p>A language.</p>")})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "<p>What is Go?</p>", got.Question)
	require.Equal(t, "<p>A language.</p>", got.Answer)
	require.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	require.Equal(t, 123456000, got.CreatedAt.Nanosecond())
}

func TestCreateSanitizesMarkup(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeCache{}, &testClock{now: time.Now()})

	created, err := svc.Create(context.Background(), CreateRequest{
		Question: strPtr(`<p>Hi<script>alert(1)</script></p>`),
		Answer:   strPtr("plain"),
	})
	require.NoError(t, err)
	require.Equal(t, "<p>Hi</p>", created.Question)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		req    CreateRequest
		fields map[string]string
	}{
		{name: "missing question", req: CreateRequest{Answer: strPtr("a")}, fields: map[string]string{"question": msgRequired}},
		{name: "missing answer", req: CreateRequest{Question: strPtr("q")}, fields: map[string]string{"answer": msgRequired}},
		{name: "empty question", req: CreateRequest{Question: strPtr(""), Answer: strPtr("a")}, fields: map[string]string{"question": msgBlank}},
		{name: "nothing submitted", req: CreateRequest{}, fields: map[string]string{"question": msgRequired, "answer": msgRequired}},
		{name: "blank markup", req: CreateRequest{Question: strPtr("<p>&nbsp;</p>"), Answer: strPtr("a")}, fields: map[string]string{"question": msgBlank}},
		{name: "whitespace", req: CreateRequest{Question: strPtr("q"), Answer: strPtr("   ")}, fields: map[string]string{"answer": msgBlank}},
		{name: "script only", req: CreateRequest{Question: strPtr("<script>x</script>"), Answer: strPtr("a")}, fields: map[string]string{"question": msgBlank}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			cache := &fakeCache{}
			svc := newTestService(repo, cache, &testClock{now: time.Now()})

			_, err := svc.Create(context.Background(), tc.req)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, "invalid_input"))

			details, ok := apperrors.DetailsOf(err).(FieldErrors)
			require.True(t, ok)
			require.Len(t, details, len(tc.fields))
			for field, msg := range tc.fields {
				require.Equal(t, []string{msg}, details[field])
			}
			require.Zero(t, repo.count())
			require.Zero(t, cache.invalidated)
		})
	}
}

func TestUpdateChangesOnlyTargetedFields(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := &testClock{now: start}
	cache := &fakeCache{}
	svc := newTestService(newFakeRepo(), cache, clock)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{Question: strPtr("q1"), Answer: strPtr("a1")})
	require.NoError(t, err)

	clock.now = start.Add(time.Minute)
	updated, err := svc.Update(ctx, created.ID, UpdateRequest{Answer: strPtr("a2")})
	require.NoError(t, err)
	require.Equal(t, "q1", updated.Question)
	require.Equal(t, "a2", updated.Answer)
	require.True(t, updated.CreatedAt.Equal(created.CreatedAt))
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	require.Equal(t, 2, cache.invalidated)
}

func TestUpdateAdvancesTimestampWithFrozenClock(t *testing.T) {
	clock := &testClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	svc := newTestService(newFakeRepo(), &fakeCache{}, clock)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{Question: strPtr("q"), Answer: strPtr("a")})
	require.NoError(t, err)

	first, err := svc.Update(ctx, created.ID, UpdateRequest{Question: strPtr("q2")})
	require.NoError(t, err)
	require.True(t, first.UpdatedAt.After(created.CreatedAt))

	second, err := svc.Update(ctx, created.ID, UpdateRequest{})
	require.NoError(t, err)
	require.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestUpdateErrors(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := newTestService(repo, cache, &testClock{now: time.Now()})
	ctx := context.Background()

	_, err := svc.Update(ctx, 42, UpdateRequest{Question: strPtr("q")})
	require.True(t, apperrors.IsCode(err, "not_found"))

	_, err = svc.Update(ctx, 42, UpdateRequest{Question: strPtr("")})
	require.True(t, apperrors.IsCode(err, "not_found"))

	created, err := svc.Create(ctx, CreateRequest{Question: strPtr("q"), Answer: strPtr("a")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, UpdateRequest{Question: strPtr("")})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "q", got.Question)
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	cache := &fakeCache{}
	svc := newTestService(newFakeRepo(), cache, &testClock{now: time.Now()})
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{Question: strPtr("q"), Answer: strPtr("a")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.True(t, apperrors.IsCode(err, "not_found"))

	err = svc.Delete(ctx, created.ID)
	require.True(t, apperrors.IsCode(err, "not_found"))
	require.Equal(t, 2, cache.invalidated)
}

func TestListUsesCacheAndSeesMutations(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := newTestService(repo, cache, &testClock{now: time.Now()})
	ctx := context.Background()

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
	require.NotNil(t, items)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, repo.lists)

	a, err := svc.Create(ctx, CreateRequest{Question: strPtr("A?"), Answer: strPtr("A.")})
	require.NoError(t, err)

	items, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, a.ID, items[0].ID)
	require.Equal(t, 2, repo.lists)

	_, err = svc.Update(ctx, a.ID, UpdateRequest{Question: strPtr("A2?")})
	require.NoError(t, err)
	items, err = svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "A2?", items[0].Question)

	require.NoError(t, svc.Delete(ctx, a.ID))
	items, err = svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCacheFailuresDoNotBlockRequests(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{err: errors.New("valkey down")}
	svc := newTestService(repo, cache, &testClock{now: time.Now()})
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateRequest{Question: strPtr("q"), Answer: strPtr("a")})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, created.ID, items[0].ID)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, repo.lists)
}

func TestListPersistenceFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failAll = errors.New("db gone")
	svc := newTestService(repo, &fakeCache{}, &testClock{now: time.Now()})

	_, err := svc.List(context.Background())
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "faq_error"))
}

func TestSearchBypassesCache(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := newTestService(repo, cache, &testClock{now: time.Now()})
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{Question: strPtr("<p>Is it <em>free</em>?</p>"), Answer: strPtr("Yes")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{Question: strPtr("Where?"), Answer: strPtr("Online")})
	require.NoError(t, err)

	items, err := svc.Search(ctx, "  FREE ")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.False(t, cache.ok)

	items, err = svc.Search(ctx, "em")
	require.NoError(t, err)
	require.Empty(t, items)

	items, err = svc.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.True(t, cache.ok)
}

func TestBulkCreateAllValid(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := newTestService(repo, cache, &testClock{now: time.Now()})

	items, err := svc.BulkCreate(context.Background(), []CreateRequest{
		{Question: strPtr("q1"), Answer: strPtr("a1")},
		{Question: strPtr("q2"), Answer: strPtr("a2")},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Less(t, items[0].ID, items[1].ID)
	require.Equal(t, 2, repo.count())
	require.Equal(t, 1, cache.invalidated)
}

func TestBulkCreateIsAllOrNothing(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	svc := newTestService(repo, cache, &testClock{now: time.Now()})

	_, err := svc.BulkCreate(context.Background(), []CreateRequest{
		{Question: strPtr("q1"), Answer: strPtr("a1")},
		{Question: strPtr(""), Answer: strPtr("a2")},
		{Question: strPtr("q3"), Answer: strPtr("a3")},
		{Question: strPtr("q4")},
	})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	failures, ok := apperrors.DetailsOf(err).([]ItemErrors)
	require.True(t, ok)
	require.Len(t, failures, 2)
	require.Equal(t, 1, failures[0].Index)
	require.Equal(t, []string{msgBlank}, failures[0].Fields["question"])
	require.Equal(t, 3, failures[1].Index)
	require.Equal(t, []string{msgRequired}, failures[1].Fields["answer"])

	require.Zero(t, repo.count())
	require.Zero(t, cache.invalidated)
}

func TestBulkCreateEmpty(t *testing.T) {
	cache := &fakeCache{}
	svc := newTestService(newFakeRepo(), cache, &testClock{now: time.Now()})

	items, err := svc.BulkCreate(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
	require.Zero(t, cache.invalidated)
}
