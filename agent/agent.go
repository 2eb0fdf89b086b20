// Copyright (c) Microsoft. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// defaultMaxToolRounds caps the number of model round-trips spent resolving
// function calls within a single run.
const defaultMaxToolRounds = 40

// Agent is a conversational agent. It composes a [ChatClient] with a fixed
// instruction prompt, sampling options, tools, and a history retention
// window applied to every [Thread] it mints.
type Agent struct {
	id            string
	name          string
	client        ChatClient
	instructions  string
	model         string
	temperature   *float64
	window        int
	tools         []Tool
	maxToolRounds int
}

// Option configures an [Agent] via [New].
type Option func(*Agent)

// WithName sets the agent's display name.
func WithName(name string) Option {
	return func(a *Agent) { a.name = name }
}

// WithInstructions sets the system instructions for the agent.
func WithInstructions(instructions string) Option {
	return func(a *Agent) { a.instructions = instructions }
}

// WithModel sets the model identifier passed to the chat client.
func WithModel(model string) Option {
	return func(a *Agent) { a.model = model }
}

// WithTemperature sets the sampling temperature for all requests.
func WithTemperature(t float64) Option {
	return func(a *Agent) { a.temperature = &t }
}

// WithHistoryWindow sets the number of messages retained by threads minted
// from this agent. Defaults to [DefaultHistoryWindow].
func WithHistoryWindow(n int) Option {
	return func(a *Agent) { a.window = n }
}

// WithTools adds tools to the agent's tool set.
func WithTools(tools ...Tool) Option {
	return func(a *Agent) { a.tools = append(a.tools, tools...) }
}

// WithMaxToolRounds overrides the cap on function-calling round-trips.
func WithMaxToolRounds(n int) Option {
	return func(a *Agent) { a.maxToolRounds = n }
}

// New creates an Agent with the given [ChatClient] and options.
// A nil client is an unrecoverable precondition violation and is reported
// immediately as [ErrInitialization].
func New(client ChatClient, opts ...Option) (*Agent, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: chat client is required", ErrInitialization)
	}
	a := &Agent{
		id:            uuid.NewString(),
		client:        client,
		window:        DefaultHistoryWindow,
		maxToolRounds: defaultMaxToolRounds,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ID returns the agent's unique identifier.
func (a *Agent) ID() string { return a.id }

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }

// NewThread mints an empty [Thread] configured with the agent's history
// window.
func (a *Agent) NewThread() *Thread {
	return newThread(a.window)
}

// Update is a single streamed fragment of an agent run: a role-tagged
// piece of response text.
type Update struct {
	Role Role
	Text string
}

// RunStream appends the user's text to the thread, runs the chat and
// function-calling loop against the client, and returns a stream of
// response fragments in production order.
//
// On success the final assistant reply is appended to the thread. On
// failure the thread keeps the user message; already-produced fragments
// are not retracted. Tool round-trips are request-scoped and never stored
// on the thread.
func (a *Agent) RunStream(ctx context.Context, thread *Thread, text string) *Stream[Update] {
	return NewStream(ctx, func(ctx context.Context, ch chan<- Update) error {
		thread.append(NewUserMessage(text))

		request := PrependInstructions(thread.Messages(), a.instructions)
		opts := Options{
			Model:       a.model,
			Temperature: a.temperature,
			Tools:       a.tools,
		}

		toolsByName := make(map[string]Tool, len(a.tools))
		for _, t := range a.tools {
			toolsByName[t.Name()] = t
		}

		for round := 0; round < a.maxToolRounds; round++ {
			reply, calls, err := a.streamOnce(ctx, request, opts, ch)
			if err != nil {
				return err
			}

			if len(calls) == 0 {
				if reply != "" {
					thread.append(NewAssistantMessage(reply))
				}
				return nil
			}

			request = append(request, Message{
				Role:      RoleAssistant,
				Content:   reply,
				ToolCalls: calls,
			})
			for _, call := range calls {
				result, err := a.invokeTool(ctx, toolsByName, call)
				if err != nil {
					return err
				}
				request = append(request, NewToolMessage(call.ID, result))
			}
		}

		return fmt.Errorf("%w: max tool rounds reached (%d)", ErrExecution, a.maxToolRounds)
	})
}

// streamOnce issues one chat request, forwarding text deltas to ch as they
// arrive. It returns the accumulated reply text and any requested tool calls.
func (a *Agent) streamOnce(ctx context.Context, request []Message, opts Options, ch chan<- Update) (string, []ToolCall, error) {
	deltas, err := a.client.StreamChat(ctx, request, opts)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrExecution, err)
	}
	defer deltas.Close()

	var reply strings.Builder
	var calls []ToolCall

	for {
		d, ok, err := deltas.Next(ctx)
		if err != nil {
			return reply.String(), nil, fmt.Errorf("%w: %w", ErrExecution, err)
		}
		if !ok {
			break
		}

		if len(d.ToolCalls) > 0 {
			calls = append(calls, d.ToolCalls...)
		}
		if d.Text == "" {
			continue
		}

		role := d.Role
		if role == "" {
			role = RoleAssistant
		}
		reply.WriteString(d.Text)

		select {
		case ch <- Update{Role: role, Text: d.Text}:
		case <-ctx.Done():
			return reply.String(), nil, ctx.Err()
		}
	}

	return reply.String(), calls, nil
}

func (a *Agent) invokeTool(ctx context.Context, toolsByName map[string]Tool, call ToolCall) (string, error) {
	tool, ok := toolsByName[call.Name]
	if !ok {
		return "", fmt.Errorf("%w: unknown tool %q", ErrToolExecution, call.Name)
	}

	slog.DebugContext(ctx, "invoking tool",
		"agent_name", a.name,
		"tool", call.Name,
		"call_id", call.ID,
	)

	result, err := tool.Invoke(ctx, json.RawMessage(call.Arguments))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrToolExecution, err)
	}
	return marshalToolResult(result), nil
}

// marshalToolResult renders a tool result as the string content of a
// tool-role message.
func marshalToolResult(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}
