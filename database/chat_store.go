package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/nicebott/docencia-api/model"
	"github.com/nicebott/docencia-api/utils/cache"
)

const (
	chatHashKey      = "chat"
	chatEventChannel = "chat:events"
	adminCredKey     = "user/admin"
)

// RedisMessageStore keeps chat messages in a Redis hash keyed by a
// store-assigned id, with change notifications over pub/sub. The hash is
// append-only from this service's point of view; retention is the store's
// concern.
type RedisMessageStore struct {
	cache *cache.RedisCache
}

func NewRedisMessageStore(c *cache.RedisCache) *RedisMessageStore {
	return &RedisMessageStore{cache: c}
}

// Snapshot returns every retained message. Malformed records are skipped,
// never fatal.
func (s *RedisMessageStore) Snapshot(ctx context.Context) ([]model.ChatMessage, error) {
	fields, err := s.cache.HGetAll(ctx, chatHashKey)
	if err != nil {
		return nil, fmt.Errorf("chat snapshot: %w", err)
	}

	msgs := make([]model.ChatMessage, 0, len(fields))
	for id, raw := range fields {
		var m model.ChatMessage
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			log.Printf("chat store: skipping malformed record %s: %v", id, err)
			continue
		}
		m.ID = id
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Window returns the last n messages by timestamp (ties by id). There is no
// cursor; callers paginate by filtering on timestamp client-side.
func (s *RedisMessageStore) Window(ctx context.Context, n int) ([]model.ChatMessage, error) {
	msgs, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].Timestamp != msgs[j].Timestamp {
			return msgs[i].Timestamp < msgs[j].Timestamp
		}
		return msgs[i].ID < msgs[j].ID
	})
	if n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	return msgs, nil
}

// Append writes msg under a freshly assigned id and publishes a change
// notification. The notification is best-effort; subscribers re-read the
// full snapshot anyway.
func (s *RedisMessageStore) Append(ctx context.Context, msg model.ChatMessage) (string, error) {
	id := uuid.NewString()
	msg.ID = id

	payload, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("chat append: %w", err)
	}
	if err := s.cache.HSet(ctx, chatHashKey, id, payload); err != nil {
		return "", fmt.Errorf("chat append: %w", err)
	}
	if err := s.cache.Publish(ctx, chatEventChannel, id); err != nil {
		log.Println("chat store: publish failed:", err)
	}
	return id, nil
}

// AdminCredential point-reads the stored admin password record. Absence is
// reported as cache.ErrNotFound.
func (s *RedisMessageStore) AdminCredential(ctx context.Context) (string, error) {
	var cred model.AdminCredential
	if err := s.cache.GetJSON(ctx, adminCredKey, &cred); err != nil {
		return "", err
	}
	return cred.Password, nil
}

// SetAdminCredential writes the admin credential record. Used by seeding.
func (s *RedisMessageStore) SetAdminCredential(ctx context.Context, password string) error {
	return s.cache.SetJSON(ctx, adminCredKey, model.AdminCredential{Password: password}, 0)
}

// Subscribe delivers a tick on every store change. Ticks are coalesced: a
// subscriber that is busy re-reading the snapshot sees at most one pending
// tick. The returned stop function takes effect synchronously.
func (s *RedisMessageStore) Subscribe(ctx context.Context) (<-chan struct{}, func(), error) {
	sub := s.cache.Subscribe(ctx, chatEventChannel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, nil, fmt.Errorf("chat subscribe: %w", err)
	}

	notify := make(chan struct{}, 1)
	done := make(chan struct{})

	go func() {
		defer close(notify)
		ch := sub.Channel()
		for {
			select {
			case <-done:
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				select {
				case notify <- struct{}{}:
				default:
				}
			}
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			sub.Close()
		})
	}
	return notify, stop, nil
}
