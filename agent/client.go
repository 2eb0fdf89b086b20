// Copyright (c) Microsoft. All rights reserved.

package agent

import "context"

// Delta is a single incremental unit of streamed model output.
//
// Text deltas carry Role and Text. When the model requests function calls,
// the provider merges the per-chunk call fragments and emits one Delta with
// the complete ToolCalls and FinishReason [FinishReasonToolCalls].
type Delta struct {
	Role         Role
	Text         string
	ToolCalls    []ToolCall
	FinishReason FinishReason
}

// Options configures a single chat request.
// Pointer fields use nil to represent "unset" (use provider default).
type Options struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
	Tools       []Tool
}

// ChatClient is the interface for interacting with an LLM backend.
// Provider packages (e.g., openai) implement this interface.
type ChatClient interface {
	// StreamChat sends messages to the model and returns a stream of
	// incremental deltas. The stream is finite and ordered; cancellation
	// is cooperative via ctx.
	StreamChat(ctx context.Context, messages []Message, opts Options) (*Stream[Delta], error)
}
