// Copyright (c) Microsoft. All rights reserved.

package agent

import (
	"encoding/json"
	"fmt"
	"sync"
)

// DefaultHistoryWindow is the number of messages a [Thread] retains when no
// explicit window is configured.
const DefaultHistoryWindow = 10

// Thread holds the conversational context for one conversation. It applies
// a reduction policy on every append: only the most recent window of
// messages is retained, so long conversations stay within a bounded prompt
// size.
//
// A Thread is opaque to callers: hosts persist it between turns via
// [Thread.Serialize] and restore it with [DeserializeThread]. The encoding
// round-trips byte-faithfully.
type Thread struct {
	mu       sync.Mutex
	window   int
	messages []Message
}

// threadState is the serialized form of a [Thread].
type threadState struct {
	Window   int       `json:"window"`
	Messages []Message `json:"messages"`
}

func newThread(window int) *Thread {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &Thread{window: window}
}

// Window returns the thread's history retention window.
func (t *Thread) Window() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.window
}

// Messages returns a copy of the retained conversation history.
func (t *Thread) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := make([]Message, len(t.messages))
	copy(cp, t.messages)
	return cp
}

// Len returns the number of retained messages.
func (t *Thread) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// append adds messages to the history and applies the reduction policy.
func (t *Thread) append(msgs ...Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msgs...)
	if len(t.messages) > t.window {
		t.messages = t.messages[len(t.messages)-t.window:]
	}
}

// Serialize returns the thread as a compact JSON string suitable for
// storage in a key-value state store.
func (t *Thread) Serialize() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, err := json.Marshal(threadState{
		Window:   t.window,
		Messages: t.messages,
	})
	if err != nil {
		return "", fmt.Errorf("%w: serialize: %v", ErrThread, err)
	}
	return string(b), nil
}

// DeserializeThread restores a [Thread] previously produced by
// [Thread.Serialize].
func DeserializeThread(data string) (*Thread, error) {
	var state threadState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("%w: deserialize: %v", ErrThread, err)
	}
	t := newThread(state.Window)
	t.messages = state.Messages
	return t, nil
}
