// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

// Package state persists the published-artifact bookkeeping across
// restarts: which Discord message holds the dashboard, the hash of the
// content it currently shows, and the last presence line pushed. Losing
// this state would make the bot post a second dashboard message instead
// of editing the existing one.
package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const artifactKey = "artifact:dashboard"

// ErrNotFound is returned when no artifact state has been stored yet.
var ErrNotFound = errors.New("artifact state not found")

// ArtifactState is the durable record of the published dashboard.
type ArtifactState struct {
	ChannelID string `json:"channel_id"`
	MessageID string `json:"message_id"`

	// ContentHash is the render hash of the message content currently
	// on screen; an equal re-render is skipped without an API call.
	ContentHash uint64 `json:"content_hash"`

	LastPresence   string    `json:"last_presence"`
	LastPresenceAt time.Time `json:"last_presence_at,omitzero"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists ArtifactState in BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the state database at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open database; tests use this with an
// in-memory instance.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Load retrieves the artifact state, or ErrNotFound on first run.
func (s *Store) Load() (*ArtifactState, error) {
	var state ArtifactState

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(artifactKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get artifact state: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &state)
		})
	})
	if err != nil {
		return nil, err
	}

	return &state, nil
}

// Save writes the artifact state.
func (s *Store) Save(state *ArtifactState) error {
	state.UpdatedAt = time.Now()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal artifact state: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(artifactKey), data)
	})
}

// Reset drops the stored state; the next publish re-creates the
// dashboard message from scratch.
func (s *Store) Reset() error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(artifactKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
