// Copyright (c) Microsoft. All rights reserved.

package state_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jochenvw/weatherbot/state"
)

func TestMemoryStore(t *testing.T) {
	store := state.NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, state.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	if err := store.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, err := store.Get(ctx, "k"); err != nil || v != "v1" {
		t.Errorf("get = %q, %v", v, err)
	}

	// Overwrite.
	if err := store.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _ := store.Get(ctx, "k"); v != "v2" {
		t.Errorf("get after overwrite = %q", v)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, state.ErrNotFound) {
		t.Errorf("error after delete = %v, want ErrNotFound", err)
	}

	// Deleting an absent key is not an error.
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("delete missing: %v", err)
	}
}

func TestThreadKey(t *testing.T) {
	if got := state.ThreadKey("c1"); got != "conversation/c1/thread" {
		t.Errorf("ThreadKey = %q", got)
	}
}

func TestConversationState(t *testing.T) {
	cs := state.NewConversationState(state.NewMemoryStore())
	ctx := context.Background()

	if _, err := cs.Thread(ctx, "c1"); !errors.Is(err, state.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	if err := cs.SaveThread(ctx, "c1", `{"messages":[]}`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if v, err := cs.Thread(ctx, "c1"); err != nil || v != `{"messages":[]}` {
		t.Errorf("thread = %q, %v", v, err)
	}

	// Saves overwrite: one thread per conversation.
	if err := cs.SaveThread(ctx, "c1", `{"messages":["x"]}`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if v, _ := cs.Thread(ctx, "c1"); v != `{"messages":["x"]}` {
		t.Errorf("thread after overwrite = %q", v)
	}

	// Conversations are isolated.
	if _, err := cs.Thread(ctx, "c2"); !errors.Is(err, state.ErrNotFound) {
		t.Errorf("c2 error = %v, want ErrNotFound", err)
	}
}
