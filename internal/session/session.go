// Package session persists the single logged-in user of the client.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/JapaKeeper/internal/models"
)

// Key is the storage key holding the serialized session.
const Key = "user"

// KV is the persistent key-value storage the session is kept in.
type KV interface {
	// Get returns the value under key; the boolean is false when absent.
	Get(ctx context.Context, key string) (string, bool, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error
	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// Store saves, loads and clears the session. It keeps no in-memory copy:
// every Load reads the backing KV.
type Store struct {
	kv  KV
	log *zap.Logger
}

// NewStore returns a Store over kv. A nil logger disables logging.
func NewStore(kv KV, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log}
}

// Save serializes s and overwrites any existing session.
func (st *Store) Save(ctx context.Context, s models.Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := st.kv.Put(ctx, Key, string(b)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the persisted session. Missing, unreadable or malformed data,
// or a record without an id, all report false; the cause is logged, never returned.
func (st *Store) Load(ctx context.Context) (models.Session, bool) {
	raw, ok, err := st.kv.Get(ctx, Key)
	if err != nil {
		st.log.Warn("session read failed", zap.Error(err))
		return models.Session{}, false
	}
	if !ok || raw == "" {
		return models.Session{}, false
	}

	var s models.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		st.log.Warn("malformed session ignored", zap.Error(err))
		return models.Session{}, false
	}
	if s.ID == "" {
		st.log.Warn("session without id ignored")
		return models.Session{}, false
	}
	return s, true
}

// Clear removes the persisted session.
func (st *Store) Clear(ctx context.Context) error {
	if err := st.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
