package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/nicebott/docencia-api/utils/cache"
	"github.com/nicebott/docencia-api/utils/textutil"
)

var (
	// ErrEmptyUsername is returned when the requested name trims to nothing.
	ErrEmptyUsername = errors.New("username is empty")

	// ErrBadAdminPassword is returned on an admin password mismatch. Retry
	// is allowed; there is no lockout or backoff.
	ErrBadAdminPassword = errors.New("incorrect admin password")
)

// Identity is a resolved chat display identity.
type Identity struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// SessionGate resolves a display identity before message submission is
// enabled. Any name other than "admin" (normalized) is granted immediately as
// a plain user; "admin" additionally requires the stored credential to match.
type SessionGate struct {
	store MessageStore
}

func NewSessionGate(store MessageStore) *SessionGate {
	return &SessionGate{store: store}
}

// Resolve grants an identity for the given name, checking the admin
// credential when the name claims the admin identity.
func (g *SessionGate) Resolve(ctx context.Context, username, password string) (Identity, error) {
	name := strings.TrimSpace(username)
	if name == "" {
		return Identity{}, ErrEmptyUsername
	}

	if textutil.Normalize(name) != "admin" {
		return Identity{Username: name}, nil
	}

	ok, err := g.VerifyAdminPassword(ctx, password)
	if err != nil {
		return Identity{}, err
	}
	if !ok {
		return Identity{}, ErrBadAdminPassword
	}
	return Identity{Username: name, IsAdmin: true}, nil
}

// VerifyAdminPassword point-reads the stored admin credential and compares it
// exactly, case included. A missing credential record rejects every attempt;
// a store failure is reported, not swallowed.
func (g *SessionGate) VerifyAdminPassword(ctx context.Context, password string) (bool, error) {
	stored, err := g.store.AdminCredential(ctx)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return false, nil
		}
		log.Println("chat: admin credential read failed:", err)
		return false, fmt.Errorf("verify admin password: %w", err)
	}
	return stored != "" && stored == password, nil
}
