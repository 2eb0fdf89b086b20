// Copyright (c) Microsoft. All rights reserved.

package bot

import "context"

// TurnContext is the per-turn view handed to a [Handler]: the inbound
// activity plus the outbound paths for this conversation.
type TurnContext struct {
	Activity Activity

	channel Channel
	stream  *StreamingResponse
}

// NewTurnContext creates a TurnContext for one activity on one channel.
func NewTurnContext(activity Activity, ch Channel) *TurnContext {
	return &TurnContext{
		Activity: activity,
		channel:  ch,
		stream:   NewStreamingResponse(ch),
	}
}

// Streaming returns the turn's streaming response channel.
func (tc *TurnContext) Streaming() *StreamingResponse { return tc.stream }

// SendActivity delivers a complete text message to the conversation,
// outside the streaming channel.
func (tc *TurnContext) SendActivity(ctx context.Context, text string) error {
	return tc.channel.SendActivity(ctx, Activity{
		Kind:         ActivityMessage,
		Text:         text,
		From:         tc.Activity.Recipient,
		Recipient:    tc.Activity.From,
		Conversation: tc.Activity.Conversation,
	})
}
