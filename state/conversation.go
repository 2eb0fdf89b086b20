// Copyright (c) Microsoft. All rights reserved.

package state

import "context"

// threadProperty is the fixed logical path of the serialized agent thread
// within a conversation's state.
const threadProperty = "thread"

// ConversationState namespaces a [Store] per conversation and exposes the
// single thread property the bot persists between turns. At most one
// serialized thread exists per conversation: every save overwrites the
// previous value.
type ConversationState struct {
	store Store
}

// NewConversationState wraps store with the per-conversation key scheme.
func NewConversationState(store Store) *ConversationState {
	return &ConversationState{store: store}
}

// ThreadKey returns the store key holding the serialized thread for the
// given conversation.
func ThreadKey(conversationID string) string {
	return "conversation/" + conversationID + "/" + threadProperty
}

// Thread returns the conversation's serialized thread, or [ErrNotFound]
// for a conversation with no prior turns.
func (cs *ConversationState) Thread(ctx context.Context, conversationID string) (string, error) {
	return cs.store.Get(ctx, ThreadKey(conversationID))
}

// SaveThread overwrites the conversation's serialized thread.
func (cs *ConversationState) SaveThread(ctx context.Context, conversationID, serialized string) error {
	return cs.store.Set(ctx, ThreadKey(conversationID), serialized)
}
