package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nicebott/docencia-api/model"
)

// fakeStore is an in-memory MessageStore for exercising ChatStream without
// Redis.
type fakeStore struct {
	mu       sync.Mutex
	messages []model.ChatMessage
	admin    string
	adminErr error
	appends  int
	notify   chan struct{}
	stops    int
}

func newFakeStore(msgs ...model.ChatMessage) *fakeStore {
	return &fakeStore{
		messages: msgs,
		notify:   make(chan struct{}, 1),
	}
}

func (f *fakeStore) Snapshot(ctx context.Context) ([]model.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.ChatMessage, len(f.messages))
	copy(out, f.messages)
	return out, nil
}

func (f *fakeStore) Window(ctx context.Context, n int) ([]model.ChatMessage, error) {
	snap, err := f.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	SortMessages(snap)
	if len(snap) > n {
		snap = snap[len(snap)-n:]
	}
	return snap, nil
}

func (f *fakeStore) Append(ctx context.Context, msg model.ChatMessage) (string, error) {
	f.mu.Lock()
	f.appends++
	msg.ID = fmt.Sprintf("m%03d", f.appends)
	f.messages = append(f.messages, msg)
	f.mu.Unlock()

	select {
	case f.notify <- struct{}{}:
	default:
	}
	return msg.ID, nil
}

func (f *fakeStore) AdminCredential(ctx context.Context) (string, error) {
	if f.adminErr != nil {
		return "", f.adminErr
	}
	return f.admin, nil
}

func (f *fakeStore) Subscribe(ctx context.Context) (<-chan struct{}, func(), error) {
	return f.notify, func() {
		f.mu.Lock()
		f.stops++
		f.mu.Unlock()
	}, nil
}

func (f *fakeStore) appendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appends
}

func (f *fakeStore) stopCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update signal")
	}
}

func msg(id string, ts int64) model.ChatMessage {
	return model.ChatMessage{ID: id, Text: "text " + id, Timestamp: ts, Username: "user"}
}

func TestSortMessages(t *testing.T) {
	msgs := []model.ChatMessage{
		msg("c", 300),
		msg("a", 100),
		msg("b", 200),
		msg("d", 200),
	}
	SortMessages(msgs)

	want := []string{"a", "b", "d", "c"}
	for i, w := range want {
		if msgs[i].ID != w {
			t.Fatalf("position %d: got %q, want %q", i, msgs[i].ID, w)
		}
	}
}

func TestCountUnread(t *testing.T) {
	now := time.UnixMilli(1_000_000)
	cutoff := now.UnixMilli() - UnreadWindow.Milliseconds()

	msgs := []model.ChatMessage{
		msg("old", cutoff-1),
		msg("edge", cutoff), // exactly at the cutoff does not count
		msg("in", cutoff+1),
		msg("new", now.UnixMilli()),
	}

	if got := CountUnread(msgs, now); got != 2 {
		t.Errorf("CountUnread = %d, want 2", got)
	}
	if got := CountUnread(nil, now); got != 0 {
		t.Errorf("CountUnread(nil) = %d, want 0", got)
	}
}

func TestOpenAppliesOrderedSnapshot(t *testing.T) {
	store := newFakeStore(msg("c", 300), msg("a", 100), msg("b", 200))
	stream := NewChatStream(store)
	defer stream.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := stream.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	waitSignal(t, stream.Updates())

	if !stream.IsOpen() {
		t.Error("stream should report open")
	}
	if stream.Loading() {
		t.Error("loading should clear after the first snapshot")
	}

	got := stream.Messages()
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID != want {
			t.Errorf("position %d: got %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestOpenPicksUpNewMessages(t *testing.T) {
	store := newFakeStore(msg("a", 100))
	stream := NewChatStream(store)
	defer stream.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := stream.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	waitSignal(t, stream.Updates())

	if err := stream.SendMessage(ctx, "hola", "maria", false); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	waitSignal(t, stream.Updates())

	got := stream.Messages()
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	last := got[len(got)-1]
	if last.Text != "hola" || last.Username != "maria" || last.IsAdmin {
		t.Errorf("unexpected appended message: %+v", last)
	}
}

func TestSendMessageRejectsWhitespace(t *testing.T) {
	store := newFakeStore()
	stream := NewChatStream(store)

	for _, text := range []string{"", "   ", "\n\t "} {
		if err := stream.SendMessage(context.Background(), text, "maria", false); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("SendMessage(%q) = %v, want ErrEmptyMessage", text, err)
		}
	}
	if store.appendCount() != 0 {
		t.Errorf("store was contacted %d times for empty messages", store.appendCount())
	}

	// Leading and trailing whitespace around real text is preserved as-is.
	if err := stream.SendMessage(context.Background(), "  hola  ", "maria", false); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if store.messages[0].Text != "  hola  " {
		t.Errorf("stored text = %q, want %q", store.messages[0].Text, "  hola  ")
	}
}

func TestUnreadCountWhileClosed(t *testing.T) {
	base := time.UnixMilli(10_000_000)
	store := newFakeStore(
		msg("old", base.UnixMilli()-UnreadWindow.Milliseconds()-1),
		msg("recent", base.UnixMilli()-1000),
	)
	stream := NewChatStream(store)
	stream.now = func() time.Time { return base }
	defer stream.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := stream.WatchUnread(ctx); err != nil {
		t.Fatalf("WatchUnread: %v", err)
	}
	waitSignal(t, stream.Updates())

	if got := stream.UnreadCount(); got != 1 {
		t.Errorf("UnreadCount = %d, want 1", got)
	}
	if stream.IsOpen() {
		t.Error("stream should report closed")
	}
}

func TestOpenResetsUnread(t *testing.T) {
	base := time.UnixMilli(10_000_000)
	store := newFakeStore(msg("recent", base.UnixMilli()-1000))
	stream := NewChatStream(store)
	stream.now = func() time.Time { return base }
	defer stream.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := stream.WatchUnread(ctx); err != nil {
		t.Fatalf("WatchUnread: %v", err)
	}
	waitSignal(t, stream.Updates())
	if got := stream.UnreadCount(); got != 1 {
		t.Fatalf("UnreadCount before open = %d, want 1", got)
	}

	if err := stream.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	waitSignal(t, stream.Updates())

	if got := stream.UnreadCount(); got != 0 {
		t.Errorf("UnreadCount while open = %d, want 0", got)
	}
}

func TestCloseDropsSubscriptionSynchronously(t *testing.T) {
	store := newFakeStore(msg("a", 100))
	stream := NewChatStream(store)
	defer stream.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := stream.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	waitSignal(t, stream.Updates())

	if err := stream.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if store.stopCount() == 0 {
		t.Error("open-feed subscription was not stopped on close")
	}
	if stream.IsOpen() {
		t.Error("stream should report closed after Close")
	}
}

func TestLoadMoreMessages(t *testing.T) {
	store := newFakeStore(msg("a", 100), msg("b", 200), msg("c", 300))
	stream := NewChatStream(store)

	// Simulate a stream that only holds the newest message.
	stream.messages = []model.ChatMessage{msg("c", 300)}

	if err := stream.LoadMoreMessages(context.Background()); err != nil {
		t.Fatalf("LoadMoreMessages: %v", err)
	}
	got := stream.Messages()
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID != want {
			t.Errorf("position %d: got %q, want %q", i, got[i].ID, want)
		}
	}

	// The window holds nothing older than what we have; a second call is a
	// no-op rather than an error.
	if err := stream.LoadMoreMessages(context.Background()); err != nil {
		t.Fatalf("LoadMoreMessages (second): %v", err)
	}
	if got := stream.Messages(); len(got) != 3 {
		t.Errorf("second call changed the held list to %d messages", len(got))
	}
}

func TestLoadMoreOnEmptyStream(t *testing.T) {
	store := newFakeStore(msg("a", 100))
	stream := NewChatStream(store)

	if err := stream.LoadMoreMessages(context.Background()); err != nil {
		t.Fatalf("LoadMoreMessages: %v", err)
	}
	if got := stream.Messages(); len(got) != 0 {
		t.Errorf("empty stream loaded %d messages, want none", len(got))
	}
}
