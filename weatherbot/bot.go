// Copyright (c) Microsoft. All rights reserved.

// Package weatherbot implements the weather bot's turn logic: a welcome
// responder for new participants and a streaming message turn handler that
// keeps per-conversation agent threads in a state store.
package weatherbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jochenvw/weatherbot/agent"
	"github.com/jochenvw/weatherbot/bot"
	"github.com/jochenvw/weatherbot/state"
)

const (
	agentName     = "WeatherAgent"
	temperature   = 0.2
	historyWindow = 10

	instructions = "You are a friendly assistant that helps people find the weather for a given time and place. " +
		"Use the get_current_weather tool for current conditions, the get_forecast tool for upcoming days, " +
		"and the get_date_time tool when you need to know today's date. " +
		"You may ask follow-up questions until you have enough information to answer, and keep responses concise."

	greeting    = "Hello and welcome! I can tell you the current weather or the forecast for any location - just ask."
	workingOnIt = "Working on it..."
)

// Bot is the weather bot. It satisfies [bot.Handler].
type Bot struct {
	agent  *agent.Agent
	state  *state.ConversationState
	logger *slog.Logger
}

var _ bot.Handler = (*Bot)(nil)

// Option configures a [Bot].
type Option func(*config)

type config struct {
	model  string
	logger *slog.Logger
}

// WithModel sets the model identifier passed to the chat client.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithLogger sets the bot's logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates the weather bot on a chat client and a state store. Both are
// required; a missing dependency is reported immediately.
func New(client agent.ChatClient, store state.Store, opts ...Option) (*Bot, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: state store is required", agent.ErrInitialization)
	}

	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	a, err := agent.New(client,
		agent.WithName(agentName),
		agent.WithInstructions(instructions),
		agent.WithModel(cfg.model),
		agent.WithTemperature(temperature),
		agent.WithHistoryWindow(historyWindow),
		agent.WithTools(Tools()...),
	)
	if err != nil {
		return nil, err
	}

	return &Bot{
		agent:  a,
		state:  state.NewConversationState(store),
		logger: cfg.logger,
	}, nil
}

// OnMembersAdded greets every added participant other than the bot itself.
// The greeting is addressed to the conversation; no state is touched.
func (b *Bot) OnMembersAdded(ctx context.Context, tc *bot.TurnContext) error {
	for _, member := range tc.Activity.MembersAdded {
		if member.ID == tc.Activity.Recipient.ID {
			continue
		}
		if err := tc.SendActivity(ctx, greeting); err != nil {
			return fmt.Errorf("send greeting: %w", err)
		}
	}
	return nil
}

// OnMessage runs one turn: it loads or mints the conversation's thread,
// streams the agent's reply chunk by chunk, and persists the thread back
// to state. Persistence happens on success and failure alike, so a turn
// that dies mid-stream does not lose conversation continuity.
func (b *Bot) OnMessage(ctx context.Context, tc *bot.TurnContext) error {
	sr := tc.Streaming()

	// Best effort: a failed status update does not abort the turn.
	if err := sr.QueueInformativeUpdate(ctx, workingOnIt); err != nil {
		b.logger.WarnContext(ctx, "informative update failed", "error", err)
	}

	conversationID := tc.Activity.Conversation.ID
	thread, err := b.loadThread(ctx, conversationID)
	if err != nil {
		return err
	}

	defer b.saveThread(context.WithoutCancel(ctx), conversationID, thread)

	updates := b.agent.RunStream(ctx, thread, tc.Activity.Text)
	defer updates.Close()

	for {
		u, ok, err := updates.Next(ctx)
		if err != nil {
			return fmt.Errorf("agent stream: %w", err)
		}
		if !ok {
			return nil
		}
		if u.Role != agent.RoleAssistant || u.Text == "" {
			continue
		}
		if err := sr.QueueTextChunk(ctx, u.Text); err != nil {
			return err
		}
	}
}

// loadThread finds the conversation's existing thread or mints a new one.
// A turn never runs without a valid thread.
func (b *Bot) loadThread(ctx context.Context, conversationID string) (*agent.Thread, error) {
	serialized, err := b.state.Thread(ctx, conversationID)
	if errors.Is(err, state.ErrNotFound) {
		b.logger.DebugContext(ctx, "minting new thread", "conversation_id", conversationID)
		return b.agent.NewThread(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}
	return agent.DeserializeThread(serialized)
}

func (b *Bot) saveThread(ctx context.Context, conversationID string, thread *agent.Thread) {
	serialized, err := thread.Serialize()
	if err != nil {
		b.logger.WarnContext(ctx, "failed to serialize thread",
			"conversation_id", conversationID, "error", err)
		return
	}
	if err := b.state.SaveThread(ctx, conversationID, serialized); err != nil {
		b.logger.WarnContext(ctx, "failed to persist thread",
			"conversation_id", conversationID, "error", err)
	}
}
