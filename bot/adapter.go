// Copyright (c) Microsoft. All rights reserved.

package bot

import (
	"context"
	"log/slog"
	"strings"
)

// Handler receives routed activities. Implementations hold the bot's
// application logic.
type Handler interface {
	// OnMessage handles one user message turn.
	OnMessage(ctx context.Context, tc *TurnContext) error

	// OnMembersAdded handles participants joining the conversation.
	OnMembersAdded(ctx context.Context, tc *TurnContext) error
}

// Adapter routes inbound activities to a [Handler]. For message turns it
// guarantees the streaming response is ended exactly once, whether the
// handler returns normally or with an error.
type Adapter struct {
	handler Handler
	logger  *slog.Logger
}

// AdapterOption configures an [Adapter].
type AdapterOption func(*Adapter)

// WithLogger sets the adapter's logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) { a.logger = logger }
}

// NewAdapter creates an Adapter dispatching to h.
func NewAdapter(h Handler, opts ...AdapterOption) *Adapter {
	a := &Adapter{handler: h, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProcessActivity routes one activity. Message text is trimmed of
// surrounding whitespace; a missing text field is handled as the empty
// string. Unrecognized activity kinds are ignored.
func (a *Adapter) ProcessActivity(ctx context.Context, activity Activity, ch Channel) error {
	switch activity.Kind {
	case ActivityMessage:
		activity.Text = strings.TrimSpace(activity.Text)
		tc := NewTurnContext(activity, ch)

		// The stream must end on every exit path of the turn.
		defer func() {
			if err := tc.Streaming().EndStream(ctx); err != nil {
				a.logger.WarnContext(ctx, "failed to end stream",
					"conversation_id", activity.Conversation.ID,
					"error", err,
				)
			}
		}()

		return a.handler.OnMessage(ctx, tc)

	case ActivityConversationUpdate:
		if len(activity.MembersAdded) == 0 {
			return nil
		}
		return a.handler.OnMembersAdded(ctx, NewTurnContext(activity, ch))

	default:
		a.logger.DebugContext(ctx, "ignoring activity", "kind", string(activity.Kind))
		return nil
	}
}
