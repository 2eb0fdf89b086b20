// Copyright (c) Microsoft. All rights reserved.

package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrStreamEnded is returned when queueing on a [StreamingResponse] whose
// stream has already been ended.
var ErrStreamEnded = errors.New("bot: stream already ended")

// ChunkKind identifies the type of an outbound streaming [Chunk].
type ChunkKind string

const (
	// ChunkInformative is a transient status update ("working on it").
	ChunkInformative ChunkKind = "informative"

	// ChunkText is an incremental piece of response text.
	ChunkText ChunkKind = "text"

	// ChunkFinal marks the end of the stream. It carries no text.
	ChunkFinal ChunkKind = "final"
)

// Chunk is one unit delivered on the streaming response channel.
type Chunk struct {
	Kind ChunkKind `json:"kind"`
	Text string    `json:"text,omitempty"`
}

// Channel delivers outbound traffic for one conversation. Implementations
// are transport-specific (WebSocket, test recorder).
type Channel interface {
	// SendActivity delivers a complete, non-streamed message.
	SendActivity(ctx context.Context, activity Activity) error

	// SendChunk delivers one streaming chunk. Chunks arrive in queue order.
	SendChunk(ctx context.Context, chunk Chunk) error
}

// StreamingResponse is the outbound streaming channel for one turn. Queue
// operations deliver chunks to the underlying [Channel] in call order.
// EndStream is idempotent: the final chunk is sent to the channel exactly
// once no matter how many times it is invoked.
type StreamingResponse struct {
	channel Channel
	ended   atomic.Bool
	endOnce sync.Once
	endErr  error
}

// NewStreamingResponse creates a StreamingResponse on top of ch.
func NewStreamingResponse(ch Channel) *StreamingResponse {
	return &StreamingResponse{channel: ch}
}

// QueueInformativeUpdate sends a transient status update.
func (s *StreamingResponse) QueueInformativeUpdate(ctx context.Context, text string) error {
	return s.queue(ctx, Chunk{Kind: ChunkInformative, Text: text})
}

// QueueTextChunk sends one incremental piece of response text.
func (s *StreamingResponse) QueueTextChunk(ctx context.Context, text string) error {
	return s.queue(ctx, Chunk{Kind: ChunkText, Text: text})
}

func (s *StreamingResponse) queue(ctx context.Context, chunk Chunk) error {
	if s.ended.Load() {
		return ErrStreamEnded
	}
	if err := s.channel.SendChunk(ctx, chunk); err != nil {
		return fmt.Errorf("queue %s chunk: %w", chunk.Kind, err)
	}
	return nil
}

// EndStream closes the stream. Safe to call multiple times; only the first
// call reaches the channel.
func (s *StreamingResponse) EndStream(ctx context.Context) error {
	s.endOnce.Do(func() {
		s.ended.Store(true)
		s.endErr = s.channel.SendChunk(ctx, Chunk{Kind: ChunkFinal})
	})
	return s.endErr
}

// Ended reports whether the stream has been ended.
func (s *StreamingResponse) Ended() bool { return s.ended.Load() }
