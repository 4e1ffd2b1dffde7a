package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nicebott/docencia-api/model"
)

const (
	// MessagesPerPage is the window size for backward pagination.
	MessagesPerPage = 50

	// UnreadWindow is the trailing window counted while the chat is closed.
	UnreadWindow = 5 * time.Minute
)

// ErrEmptyMessage is returned when a message is empty after trimming; the
// store is never contacted in that case.
var ErrEmptyMessage = errors.New("message text is empty")

// MessageStore is the external chat store: a key-ordered append-only
// collection of messages plus the single admin credential record. Snapshots
// are full copies; Subscribe delivers a tick whenever the collection changes.
type MessageStore interface {
	// Snapshot returns every message currently retained, unordered.
	Snapshot(ctx context.Context) ([]model.ChatMessage, error)

	// Window returns up to n messages, the most recent by timestamp.
	Window(ctx context.Context, n int) ([]model.ChatMessage, error)

	// Append writes msg and returns the store-assigned id.
	Append(ctx context.Context, msg model.ChatMessage) (string, error)

	// AdminCredential point-reads the stored admin password.
	AdminCredential(ctx context.Context) (string, error)

	// Subscribe returns a change-notification channel and a stop function.
	// Stopping must take effect synchronously so no callback acts on a
	// session that already ended.
	Subscribe(ctx context.Context) (<-chan struct{}, func(), error)
}

// ChatStream maintains one chat session's view of the message feed.
//
// Closed, it watches the feed only to count messages newer than the trailing
// unread window. Open, it mirrors the full feed: every change notification
// re-reads the snapshot and replaces the held list wholesale, so ordering is
// always recomputed from the latest store state even when notifications
// arrive out of real-time order.
type ChatStream struct {
	store MessageStore
	now   func() time.Time

	mu       sync.Mutex
	open     bool
	loading  bool
	gen      int
	stop     func()
	messages []model.ChatMessage
	unread   int
	updates  chan struct{}
}

func NewChatStream(store MessageStore) *ChatStream {
	return &ChatStream{
		store:   store,
		now:     time.Now,
		updates: make(chan struct{}, 1),
	}
}

// Updates signals whenever a new snapshot or unread count has been applied.
// Signals are coalesced; consumers re-read state through the accessors.
func (c *ChatStream) Updates() <-chan struct{} {
	return c.updates
}

func (c *ChatStream) signal() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// Open transitions Closed -> Open: the unread-counter feed is dropped and the
// full feed subscribed. Loading stays true until the first snapshot lands.
func (c *ChatStream) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.open {
		c.mu.Unlock()
		return nil
	}
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.gen++
	gen := c.gen
	c.open = true
	c.loading = true
	c.unread = 0
	c.mu.Unlock()

	return c.subscribe(ctx, gen, c.applySnapshot)
}

// Close transitions Open -> Closed: the full feed is dropped synchronously
// and the unread-counter feed takes its place.
func (c *ChatStream) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return nil
	}
	c.open = false
	c.loading = false
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	return c.subscribe(ctx, gen, c.applyUnread)
}

// WatchUnread starts the closed-state unread counter for a stream that has
// not been opened yet.
func (c *ChatStream) WatchUnread(ctx context.Context) error {
	c.mu.Lock()
	if c.open || c.stop != nil {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	return c.subscribe(ctx, gen, c.applyUnread)
}

// Shutdown drops any active subscription without resubscribing. Must be
// called on session teardown so stale callbacks cannot act on dead state.
func (c *ChatStream) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.open = false
	c.loading = false
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}
}

func (c *ChatStream) subscribe(ctx context.Context, gen int, apply func(context.Context, int)) error {
	notify, stop, err := c.store.Subscribe(ctx)
	if err != nil {
		c.mu.Lock()
		if gen == c.gen {
			c.open = false
			c.loading = false
		}
		c.mu.Unlock()
		return fmt.Errorf("subscribe chat feed: %w", err)
	}

	c.mu.Lock()
	if gen != c.gen {
		// A transition raced us; this subscription is already stale.
		c.mu.Unlock()
		stop()
		return nil
	}
	c.stop = stop
	c.mu.Unlock()

	go func() {
		apply(ctx, gen)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-notify:
				if !ok {
					return
				}
				apply(ctx, gen)
			}
		}
	}()
	return nil
}

// applySnapshot re-derives the full ordered message list from the store.
func (c *ChatStream) applySnapshot(ctx context.Context, gen int) {
	snap, err := c.store.Snapshot(ctx)
	if err != nil {
		log.Println("chat: snapshot fetch failed:", err)
		return
	}
	SortMessages(snap)

	c.mu.Lock()
	if gen == c.gen {
		c.messages = snap
		c.loading = false
		c.signal()
	}
	c.mu.Unlock()
}

// applyUnread recounts messages inside the trailing unread window.
func (c *ChatStream) applyUnread(ctx context.Context, gen int) {
	snap, err := c.store.Snapshot(ctx)
	if err != nil {
		log.Println("chat: unread fetch failed:", err)
		return
	}

	count := CountUnread(snap, c.now())

	c.mu.Lock()
	if gen == c.gen {
		c.unread = count
		c.signal()
	}
	c.mu.Unlock()
}

// CountUnread counts messages inside the trailing unread window ending at
// now. Messages exactly at the cutoff are not counted.
func CountUnread(msgs []model.ChatMessage, now time.Time) int {
	cutoff := now.UnixMilli() - UnreadWindow.Milliseconds()
	count := 0
	for _, m := range msgs {
		if m.Timestamp > cutoff {
			count++
		}
	}
	return count
}

// SendMessage validates and appends a new message. The id and timestamp are
// assigned at write time; nothing is inserted locally on success, the next
// feed snapshot is the source of truth. A transport failure is logged and
// returned, never retried.
func (c *ChatStream) SendMessage(ctx context.Context, text, username string, isAdmin bool) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	msg := model.ChatMessage{
		Text:      text,
		Timestamp: c.now().UnixMilli(),
		Username:  username,
		IsAdmin:   isAdmin,
	}
	if _, err := c.store.Append(ctx, msg); err != nil {
		log.Println("chat: send failed:", err)
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// LoadMoreMessages prepends messages strictly older than the oldest one held.
// The store query has no cursor: the last-N window is re-read and filtered by
// timestamp client-side, so repeated calls can re-scan the same window
// without guaranteed forward progress past its boundary.
func (c *ChatStream) LoadMoreMessages(ctx context.Context) error {
	c.mu.Lock()
	if len(c.messages) == 0 {
		c.mu.Unlock()
		return nil
	}
	oldest := c.messages[0].Timestamp
	c.mu.Unlock()

	window, err := c.store.Window(ctx, MessagesPerPage)
	if err != nil {
		log.Println("chat: load more failed:", err)
		return fmt.Errorf("load more messages: %w", err)
	}

	var older []model.ChatMessage
	for _, m := range window {
		if m.Timestamp < oldest {
			older = append(older, m)
		}
	}
	if len(older) == 0 {
		return nil
	}
	SortMessages(older)

	c.mu.Lock()
	defer c.mu.Unlock()
	held := make(map[string]struct{}, len(c.messages))
	for _, m := range c.messages {
		held[m.ID] = struct{}{}
	}
	merged := make([]model.ChatMessage, 0, len(older)+len(c.messages))
	for _, m := range older {
		if _, dup := held[m.ID]; !dup {
			merged = append(merged, m)
		}
	}
	c.messages = append(merged, c.messages...)
	return nil
}

// Messages returns a copy of the held list, oldest first.
func (c *ChatStream) Messages() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Loading reports whether an open stream is still waiting for its first
// snapshot.
func (c *ChatStream) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// UnreadCount returns the closed-state unread counter; zero while open.
func (c *ChatStream) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		return 0
	}
	return c.unread
}

// IsOpen reports the current session state.
func (c *ChatStream) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// SortMessages orders msgs by timestamp ascending with ties broken by id, so
// every snapshot re-derivation presents the same order.
func SortMessages(msgs []model.ChatMessage) {
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].Timestamp != msgs[j].Timestamp {
			return msgs[i].Timestamp < msgs[j].Timestamp
		}
		return msgs[i].ID < msgs[j].ID
	})
}
