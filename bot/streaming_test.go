// Copyright (c) Microsoft. All rights reserved.

package bot_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jochenvw/weatherbot/bot"
)

// recordingChannel captures everything sent on a [bot.Channel].
type recordingChannel struct {
	mu         sync.Mutex
	activities []bot.Activity
	chunks     []bot.Chunk
	chunkErr   error
}

func (c *recordingChannel) SendActivity(_ context.Context, activity bot.Activity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activities = append(c.activities, activity)
	return nil
}

func (c *recordingChannel) SendChunk(_ context.Context, chunk bot.Chunk) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chunkErr != nil {
		return c.chunkErr
	}
	c.chunks = append(c.chunks, chunk)
	return nil
}

func (c *recordingChannel) kinds() []bot.ChunkKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]bot.ChunkKind, len(c.chunks))
	for i, ch := range c.chunks {
		out[i] = ch.Kind
	}
	return out
}

func (c *recordingChannel) finalCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ch := range c.chunks {
		if ch.Kind == bot.ChunkFinal {
			n++
		}
	}
	return n
}

func TestStreamingResponse_QueueOrder(t *testing.T) {
	ch := &recordingChannel{}
	sr := bot.NewStreamingResponse(ch)
	ctx := context.Background()

	if err := sr.QueueInformativeUpdate(ctx, "working"); err != nil {
		t.Fatalf("informative: %v", err)
	}
	if err := sr.QueueTextChunk(ctx, "a"); err != nil {
		t.Fatalf("chunk a: %v", err)
	}
	if err := sr.QueueTextChunk(ctx, "b"); err != nil {
		t.Fatalf("chunk b: %v", err)
	}
	if err := sr.EndStream(ctx); err != nil {
		t.Fatalf("end: %v", err)
	}

	want := []bot.ChunkKind{bot.ChunkInformative, bot.ChunkText, bot.ChunkText, bot.ChunkFinal}
	got := ch.kinds()
	if len(got) != len(want) {
		t.Fatalf("chunks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if ch.chunks[1].Text != "a" || ch.chunks[2].Text != "b" {
		t.Errorf("text chunks out of order: %+v", ch.chunks)
	}
}

func TestStreamingResponse_EndStreamOnce(t *testing.T) {
	ch := &recordingChannel{}
	sr := bot.NewStreamingResponse(ch)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := sr.EndStream(ctx); err != nil {
			t.Fatalf("end %d: %v", i, err)
		}
	}
	if n := ch.finalCount(); n != 1 {
		t.Errorf("final chunks = %d, want 1", n)
	}
	if !sr.Ended() {
		t.Error("Ended() = false after EndStream")
	}
}

func TestStreamingResponse_QueueAfterEnd(t *testing.T) {
	ch := &recordingChannel{}
	sr := bot.NewStreamingResponse(ch)
	ctx := context.Background()

	_ = sr.EndStream(ctx)

	if err := sr.QueueTextChunk(ctx, "late"); !errors.Is(err, bot.ErrStreamEnded) {
		t.Errorf("error = %v, want ErrStreamEnded", err)
	}
	if err := sr.QueueInformativeUpdate(ctx, "late"); !errors.Is(err, bot.ErrStreamEnded) {
		t.Errorf("error = %v, want ErrStreamEnded", err)
	}
}

func TestStreamingResponse_ChannelError(t *testing.T) {
	sendErr := errors.New("transport down")
	ch := &recordingChannel{chunkErr: sendErr}
	sr := bot.NewStreamingResponse(ch)

	if err := sr.QueueTextChunk(context.Background(), "x"); !errors.Is(err, sendErr) {
		t.Errorf("error = %v, want wrapped transport error", err)
	}
}
