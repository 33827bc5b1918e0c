// Package session provides layout session management for the HTTP server.
//
// A session tracks one client's interaction with a grid manifest: which
// panes they have detached and when the session expires. The Store
// interface has implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for multi-instance deployments
//   - file: File-based storage for single-host setups
//
// # Usage
//
// Create a session store:
//
//	// Development
//	store := NewMemoryStore()
//
//	// Production
//	store, err := NewMongoStore(ctx, MongoConfig{
//	    URI: "mongodb://localhost:27017",
//	})
//
// Manage sessions:
//
//	sess := session.New(manifestHash, session.DefaultTTL)
//	store.Set(ctx, sess)
//
//	sess, err := store.Get(ctx, sessionID)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // Session not found or expired
//	}
package session

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// DefaultTTL is the default session duration.
const DefaultTTL = 24 * time.Hour

// Session stores one client's layout state.
type Session struct {
	ID           string    `json:"id" bson:"_id"`
	ManifestHash string    `json:"manifest_hash" bson:"manifest_hash"`
	Detached     []string  `json:"detached,omitempty" bson:"detached,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt    time.Time `json:"expires_at" bson:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Detach marks a pane as detached. Detaching an already detached pane is
// a no-op. The detached set stays sorted so sessions serialize
// deterministically.
func (s *Session) Detach(pane string) {
	if idx, found := slices.BinarySearch(s.Detached, pane); !found {
		s.Detached = slices.Insert(s.Detached, idx, pane)
	}
}

// Attach removes a pane from the detached set. Attaching a pane that is
// not detached is a no-op.
func (s *Session) Attach(pane string) {
	if idx, found := slices.BinarySearch(s.Detached, pane); found {
		s.Detached = slices.Delete(s.Detached, idx, idx+1)
	}
}

// IsDetached reports whether the pane is currently detached.
func (s *Session) IsDetached(pane string) bool {
	_, found := slices.BinarySearch(s.Detached, pane)
	return found
}

// Reset reattaches all panes.
func (s *Session) Reset() {
	s.Detached = nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for backends
	// with native expiry).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// New creates a session bound to a manifest hash.
func New(manifestHash string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		ManifestHash: manifestHash,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}
