// Copyright (c) Microsoft. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/jochenvw/weatherbot/bot"
)

// server exposes the bot over HTTP: a health probe and a WebSocket chat
// endpoint. Each socket connection is one conversation; frames mirror the
// streaming channel operations one-to-one.
type server struct {
	adapter *bot.Adapter
	mux     *http.ServeMux
}

func newServer(adapter *bot.Adapter) *server {
	s := &server{adapter: adapter, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /chat", s.handleChat)
	return s
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// inboundFrame is one client-to-bot WebSocket frame.
// Type is "join" (enter the conversation) or "message".
type inboundFrame struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name,omitempty"`
}

// outboundFrame is one bot-to-client WebSocket frame.
// Type is "message", "informative", "chunk", or "end".
type outboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// wsChannel adapts a WebSocket connection to [bot.Channel]. Writes are
// mutex-guarded because WebSocket connections do not support concurrent
// writers.
type wsChannel struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsChannel) write(ctx context.Context, frame outboundFrame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return wsjson.Write(ctx, c.conn, frame)
}

func (c *wsChannel) SendActivity(ctx context.Context, activity bot.Activity) error {
	return c.write(ctx, outboundFrame{Type: "message", Text: activity.Text})
}

func (c *wsChannel) SendChunk(ctx context.Context, chunk bot.Chunk) error {
	switch chunk.Kind {
	case bot.ChunkInformative:
		return c.write(ctx, outboundFrame{Type: "informative", Text: chunk.Text})
	case bot.ChunkText:
		return c.write(ctx, outboundFrame{Type: "chunk", Text: chunk.Text})
	default:
		return c.write(ctx, outboundFrame{Type: "end"})
	}
}

func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	conversationID := uuid.NewString()
	botAccount := bot.ChannelAccount{ID: "weatherbot", Name: "WeatherBot"}
	channel := &wsChannel{conn: conn}

	slog.InfoContext(ctx, "conversation started", "conversation_id", conversationID)

	for {
		var frame inboundFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				slog.DebugContext(ctx, "websocket read failed",
					"conversation_id", conversationID, "error", err)
			}
			return
		}

		user := bot.ChannelAccount{ID: frame.UserID, Name: frame.Name}
		if user.ID == "" {
			user.ID = "user"
		}

		var activity bot.Activity
		switch frame.Type {
		case "join":
			activity = bot.Activity{
				Kind:         bot.ActivityConversationUpdate,
				From:         user,
				Recipient:    botAccount,
				Conversation: bot.ConversationAccount{ID: conversationID},
				MembersAdded: []bot.ChannelAccount{user},
			}
		case "message":
			activity = bot.NewMessageActivity(conversationID, frame.Text, user, botAccount)
		default:
			continue
		}

		// Turn errors are logged, not fatal: the stream has already been
		// ended and the client decides whether to continue.
		if err := s.adapter.ProcessActivity(ctx, activity, channel); err != nil {
			slog.ErrorContext(ctx, "turn failed",
				"conversation_id", conversationID, "error", err)
		}
	}
}
