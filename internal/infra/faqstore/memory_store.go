package faqstore

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/yanqian/faq-system/internal/domain/faq"
)

const listKey = "list"

// MemoryStore keeps the FAQ list in process memory with expiry.
type MemoryStore struct {
	cache *ttlcache.Cache[string, []faq.FAQ]
}

// NewMemoryStore constructs a store backed by process memory. Call Close to stop the expiry loop.
func NewMemoryStore() *MemoryStore {
	cache := ttlcache.New[string, []faq.FAQ](
		ttlcache.WithDisableTouchOnHit[string, []faq.FAQ](),
	)
	go cache.Start()
	return &MemoryStore{cache: cache}
}

// GetList implements faq.ListCache.
func (s *MemoryStore) GetList(_ context.Context) ([]faq.FAQ, bool, error) {
	item := s.cache.Get(listKey)
	if item == nil || item.IsExpired() {
		return nil, false, nil
	}
	return cloneList(item.Value()), true, nil
}

// SaveList implements faq.ListCache. A non-positive ttl keeps the entry until invalidated.
func (s *MemoryStore) SaveList(_ context.Context, items []faq.FAQ, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	s.cache.Set(listKey, cloneList(items), ttl)
	return nil
}

// Invalidate implements faq.ListCache.
func (s *MemoryStore) Invalidate(_ context.Context) error {
	s.cache.Delete(listKey)
	return nil
}

// Close stops the background expiry loop.
func (s *MemoryStore) Close() {
	s.cache.Stop()
}

func cloneList(items []faq.FAQ) []faq.FAQ {
	out := make([]faq.FAQ, len(items))
	copy(out, items)
	return out
}

var _ faq.ListCache = (*MemoryStore)(nil)
