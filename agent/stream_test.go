// Copyright (c) Microsoft. All rights reserved.

package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jochenvw/weatherbot/agent"
)

func TestStream_Collect(t *testing.T) {
	stream := agent.NewStream(context.Background(), func(ctx context.Context, ch chan<- int) error {
		for i := 1; i <= 3; i++ {
			ch <- i
		}
		return nil
	})
	defer stream.Close()

	items, err := stream.Collect(context.Background())
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	for i, v := range items {
		if v != i+1 {
			t.Errorf("[%d] = %d, want %d", i, v, i+1)
		}
	}
}

func TestStream_Next(t *testing.T) {
	stream := agent.NewStream(context.Background(), func(ctx context.Context, ch chan<- string) error {
		ch <- "a"
		ch <- "b"
		return nil
	})
	defer stream.Close()

	ctx := context.Background()

	v1, ok, err := stream.Next(ctx)
	if err != nil || !ok || v1 != "a" {
		t.Errorf("next1: val=%q ok=%v err=%v", v1, ok, err)
	}

	v2, ok, err := stream.Next(ctx)
	if err != nil || !ok || v2 != "b" {
		t.Errorf("next2: val=%q ok=%v err=%v", v2, ok, err)
	}

	_, ok, err = stream.Next(ctx)
	if ok {
		t.Error("expected stream to be exhausted")
	}
	if err != nil {
		t.Errorf("unexpected error after exhaustion: %v", err)
	}
}

func TestStream_ProducerError(t *testing.T) {
	stream := agent.NewStream(context.Background(), func(ctx context.Context, ch chan<- int) error {
		ch <- 1
		return agent.ErrService
	})
	defer stream.Close()

	ctx := context.Background()
	_, _, _ = stream.Next(ctx) // consume the value

	_, ok, err := stream.Next(ctx)
	if ok {
		t.Error("expected stream to be exhausted")
	}
	if !errors.Is(err, agent.ErrService) {
		t.Errorf("error = %v, want ErrService", err)
	}
}

func TestStream_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stream := agent.NewStream(ctx, func(ctx context.Context, ch chan<- int) error {
		for {
			select {
			case ch <- 42:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	v, ok, err := stream.Next(ctx)
	if err != nil || !ok || v != 42 {
		t.Fatalf("first next: val=%d ok=%v err=%v", v, ok, err)
	}

	cancel()
	if err := stream.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestStream_CloseIsIdempotent(t *testing.T) {
	stream := agent.NewStream(context.Background(), func(ctx context.Context, ch chan<- int) error {
		ch <- 1
		return nil
	})

	if err := stream.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
