// Copyright (c) Microsoft. All rights reserved.

package agent_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jochenvw/weatherbot/agent"
)

func runTurn(t *testing.T, a *agent.Agent, thread *agent.Thread, text string) {
	t.Helper()
	updates := a.RunStream(context.Background(), thread, text)
	defer updates.Close()
	if _, err := updates.Collect(context.Background()); err != nil {
		t.Fatalf("turn %q: %v", text, err)
	}
}

func TestThread_HistoryWindow(t *testing.T) {
	client := &scriptedClient{rounds: [][]agent.Delta{
		{{Text: "r1"}}, {{Text: "r2"}}, {{Text: "r3"}},
	}}

	a, _ := agent.New(client, agent.WithHistoryWindow(4))
	thread := a.NewThread()
	if thread.Window() != 4 {
		t.Fatalf("Window = %d", thread.Window())
	}

	runTurn(t, a, thread, "one")
	runTurn(t, a, thread, "two")
	runTurn(t, a, thread, "three")

	// Three turns produce six messages; only the last four are retained.
	msgs := thread.Messages()
	if len(msgs) != 4 {
		t.Fatalf("thread len = %d, want 4", len(msgs))
	}
	if msgs[0].Content != "two" || msgs[3].Content != "r3" {
		t.Errorf("retained window = %+v", msgs)
	}
}

func TestThread_SerializeRoundTrip(t *testing.T) {
	client := &scriptedClient{rounds: [][]agent.Delta{{{Text: "Sunny, 72F."}}}}

	a, _ := agent.New(client)
	thread := a.NewThread()
	runTurn(t, a, thread, "weather in Seattle?")

	serialized, err := thread.Serialize()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	restored, err := agent.DeserializeThread(serialized)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if restored.Window() != thread.Window() {
		t.Errorf("Window = %d, want %d", restored.Window(), thread.Window())
	}

	want := thread.Messages()
	got := restored.Messages()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Role != want[i].Role || got[i].Content != want[i].Content {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	// The encoding is stable across round trips.
	again, err := restored.Serialize()
	if err != nil {
		t.Fatalf("reserialize: %v", err)
	}
	if again != serialized {
		t.Errorf("round trip changed encoding:\n%s\n%s", serialized, again)
	}
}

func TestThread_DefaultWindow(t *testing.T) {
	client := &scriptedClient{}
	a, _ := agent.New(client)
	if w := a.NewThread().Window(); w != agent.DefaultHistoryWindow {
		t.Errorf("Window = %d, want %d", w, agent.DefaultHistoryWindow)
	}
}

func TestDeserializeThread_Invalid(t *testing.T) {
	_, err := agent.DeserializeThread("not json")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, agent.ErrThread) {
		t.Errorf("error = %v, want ErrThread", err)
	}
}
