// Copyright (c) Microsoft. All rights reserved.

// Command weatherbot hosts the streaming weather bot over HTTP.
//
// Usage with OpenAI:
//
//	export OPENAI_API_KEY=sk-...
//	go run ./cmd/weatherbot
//
// Usage with Azure OpenAI (API key, or Entra ID when the key is unset):
//
//	export AZURE_OPENAI_ENDPOINT=https://<resource>.openai.azure.com
//	export AZURE_OPENAI_KEY=<your-key>   # optional
//	go run ./cmd/weatherbot
//
// Set REDIS_ADDR to persist conversation state in Redis instead of memory,
// MODEL to override the default gpt-4o, and PORT to change the listen port.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/jochenvw/weatherbot/agent"
	"github.com/jochenvw/weatherbot/bot"
	"github.com/jochenvw/weatherbot/openai"
	"github.com/jochenvw/weatherbot/state"
	"github.com/jochenvw/weatherbot/weatherbot"
)

func main() {
	// Load .env file if present (ignored if missing).
	_ = godotenv.Load()

	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	if err := run(); err != nil {
		slog.Error("weatherbot exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, model, err := newChatClient()
	if err != nil {
		return err
	}

	store, closeStore, err := newStateStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	wb, err := weatherbot.New(client, store, weatherbot.WithModel(model))
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "3978"
	}
	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: newServer(bot.NewAdapter(wb)),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()
	slog.Info("weatherbot listening", "addr", httpServer.Addr, "model", model)

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newChatClient builds the chat client from the environment: Azure OpenAI
// when AZURE_OPENAI_ENDPOINT is set (Entra ID auth when the key is absent),
// direct OpenAI otherwise.
func newChatClient() (agent.ChatClient, string, error) {
	model := os.Getenv("MODEL")
	if model == "" {
		model = "gpt-4o"
	}

	if endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT"); endpoint != "" {
		key := os.Getenv("AZURE_OPENAI_KEY")
		opts := []openai.Option{openai.WithModel(model), openai.WithAzure(endpoint)}
		if key == "" {
			cred, err := azidentity.NewDefaultAzureCredential(nil)
			if err != nil {
				return nil, "", fmt.Errorf("azure credential: %w", err)
			}
			opts = append(opts, openai.WithAzureCredential(cred))
		}
		return openai.New(key, opts...), model, nil
	}

	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, "", errors.New("set OPENAI_API_KEY or AZURE_OPENAI_ENDPOINT")
	}
	return openai.New(key, openai.WithModel(model)), model, nil
}

// newStateStore returns a Redis-backed store when REDIS_ADDR is set and an
// in-memory store otherwise.
func newStateStore(ctx context.Context) (state.Store, func(), error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return state.NewMemoryStore(), func() {}, nil
	}

	rs := state.NewRedisStore(redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	}))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rs.Ping(pingCtx); err != nil {
		_ = rs.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	slog.Info("using redis conversation state", "addr", addr)
	return rs, func() { _ = rs.Close() }, nil
}
