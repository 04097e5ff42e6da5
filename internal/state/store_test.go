// Streamboard - Unified Media Status Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamboard

package state

import (
	"errors"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewStore(db)
}

func TestStoreLoadNotFound(t *testing.T) {
	store := setupStore(t)

	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty store = %v, want ErrNotFound", err)
	}
}

func TestStoreSaveLoadRoundtrip(t *testing.T) {
	store := setupStore(t)

	saved := &ArtifactState{
		ChannelID:      "123",
		MessageID:      "456",
		ContentHash:    0xDEADBEEF,
		LastPresence:   "2 active Streams 🟢",
		LastPresenceAt: time.Now().Truncate(time.Second),
	}
	if err := store.Save(saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.UpdatedAt.IsZero() {
		t.Error("Save must stamp UpdatedAt")
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.MessageID != "456" || loaded.ContentHash != 0xDEADBEEF {
		t.Errorf("loaded = %+v", loaded)
	}
	if loaded.LastPresence != saved.LastPresence {
		t.Errorf("presence = %q, want %q", loaded.LastPresence, saved.LastPresence)
	}
}

func TestStoreSaveOverwrites(t *testing.T) {
	store := setupStore(t)

	if err := store.Save(&ArtifactState{MessageID: "old", ContentHash: 1}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(&ArtifactState{MessageID: "new", ContentHash: 2}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.MessageID != "new" || loaded.ContentHash != 2 {
		t.Errorf("loaded = %+v, want the second save", loaded)
	}
}

func TestStoreReset(t *testing.T) {
	store := setupStore(t)

	if err := store.Reset(); err != nil {
		t.Fatalf("Reset on empty store failed: %v", err)
	}

	if err := store.Save(&ArtifactState{MessageID: "456"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after Reset = %v, want ErrNotFound", err)
	}
}
