package faqstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-system/internal/domain/faq"
)

// ValkeyStore caches the FAQ list in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "faq"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// GetList implements faq.ListCache.
func (s *ValkeyStore) GetList(ctx context.Context) ([]faq.FAQ, bool, error) {
	cmd := s.client.B().Get().Key(s.listKey()).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var items []faq.FAQ
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, false, err
	}
	if items == nil {
		items = []faq.FAQ{}
	}
	return items, true, nil
}

// SaveList implements faq.ListCache.
func (s *ValkeyStore) SaveList(ctx context.Context, items []faq.FAQ, ttl time.Duration) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.listKey()).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

// Invalidate implements faq.ListCache.
func (s *ValkeyStore) Invalidate(ctx context.Context) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.listKey()).Build()).Error()
}

func (s *ValkeyStore) listKey() string {
	return fmt.Sprintf("%s:list", s.prefix)
}

var _ faq.ListCache = (*ValkeyStore)(nil)
