package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nicebott/docencia-api/utils/cache"
)

func TestResolvePlainUser(t *testing.T) {
	gate := NewSessionGate(newFakeStore())

	id, err := gate.Resolve(context.Background(), "maria", "ignored")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Username != "maria" || id.IsAdmin {
		t.Errorf("got %+v, want plain user maria", id)
	}
}

func TestResolveTrimsUsername(t *testing.T) {
	gate := NewSessionGate(newFakeStore())

	id, err := gate.Resolve(context.Background(), "  maria  ", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.Username != "maria" {
		t.Errorf("username = %q, want trimmed %q", id.Username, "maria")
	}
}

func TestResolveEmptyUsername(t *testing.T) {
	gate := NewSessionGate(newFakeStore())

	for _, name := range []string{"", "   ", "\t\n"} {
		if _, err := gate.Resolve(context.Background(), name, ""); !errors.Is(err, ErrEmptyUsername) {
			t.Errorf("Resolve(%q) = %v, want ErrEmptyUsername", name, err)
		}
	}
}

func TestResolveAdmin(t *testing.T) {
	store := newFakeStore()
	store.admin = "s3cret"
	gate := NewSessionGate(store)

	tests := []struct {
		name     string
		username string
		password string
		isAdmin  bool
		wantErr  error
	}{
		{"correct password", "admin", "s3cret", true, nil},
		{"uppercase name still admin", "ADMIN", "s3cret", true, nil},
		{"accented name still admin", "Ádmin", "s3cret", true, nil},
		{"wrong password", "admin", "nope", false, ErrBadAdminPassword},
		{"password case matters", "admin", "S3CRET", false, ErrBadAdminPassword},
		{"empty password", "admin", "", false, ErrBadAdminPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := gate.Resolve(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if id.IsAdmin != tt.isAdmin {
				t.Errorf("isAdmin = %v, want %v", id.IsAdmin, tt.isAdmin)
			}
		})
	}
}

func TestVerifyAdminPasswordMissingCredential(t *testing.T) {
	store := newFakeStore()
	store.adminErr = cache.ErrNotFound
	gate := NewSessionGate(store)

	ok, err := gate.VerifyAdminPassword(context.Background(), "anything")
	if err != nil {
		t.Fatalf("VerifyAdminPassword: %v", err)
	}
	if ok {
		t.Error("missing credential record must reject every attempt")
	}
}

func TestVerifyAdminPasswordStoreFailure(t *testing.T) {
	store := newFakeStore()
	store.adminErr = errors.New("connection refused")
	gate := NewSessionGate(store)

	if _, err := gate.VerifyAdminPassword(context.Background(), "x"); err == nil {
		t.Fatal("store failure must surface, not read as a rejection")
	}
}

func TestVerifyAdminPasswordEmptyStored(t *testing.T) {
	store := newFakeStore()
	store.admin = ""
	gate := NewSessionGate(store)

	ok, err := gate.VerifyAdminPassword(context.Background(), "")
	if err != nil {
		t.Fatalf("VerifyAdminPassword: %v", err)
	}
	if ok {
		t.Error("an empty stored credential must not match an empty password")
	}
}
