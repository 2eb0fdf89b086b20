// Copyright (c) Microsoft. All rights reserved.

// Package openai provides an [agent.ChatClient] backed by the OpenAI Chat
// Completions API via github.com/sashabaranov/go-openai. It supports both
// direct OpenAI and Azure OpenAI endpoints, the latter optionally with
// Entra ID token authentication.
//
//	client := openai.New(os.Getenv("OPENAI_API_KEY"), openai.WithModel("gpt-4o"))
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	go_openai "github.com/sashabaranov/go-openai"

	"github.com/jochenvw/weatherbot/agent"
)

// Client implements [agent.ChatClient] on the Chat Completions API.
// Use [New] to create one.
type Client struct {
	api   *go_openai.Client
	model string
}

var _ agent.ChatClient = (*Client)(nil)

// New creates a [Client] with the given API key and options.
func New(apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return &Client{
		api:   go_openai.NewClientWithConfig(cfg.build(apiKey)),
		model: cfg.model,
	}
}

// StreamChat sends a streaming chat completion request and returns a
// stream of deltas. Tool-call fragments are merged across chunks and
// emitted as one final delta carrying the complete calls.
func (c *Client) StreamChat(ctx context.Context, messages []agent.Message, opts agent.Options) (*agent.Stream[agent.Delta], error) {
	req := buildRequest(messages, opts, c.model)

	sse, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	return agent.NewStream(ctx, func(ctx context.Context, ch chan<- agent.Delta) error {
		defer sse.Close()

		merger := newToolCallMerger()
		finish := go_openai.FinishReasonStop

		for {
			chunk, err := sse.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return wrapAPIError(err)
			}
			if len(chunk.Choices) == 0 {
				continue
			}

			choice := chunk.Choices[0]
			if choice.FinishReason != "" {
				finish = choice.FinishReason
			}
			if len(choice.Delta.ToolCalls) > 0 {
				merger.add(choice.Delta.ToolCalls)
			}
			if choice.Delta.Content == "" {
				continue
			}

			delta := agent.Delta{
				Role: fromRole(choice.Delta.Role),
				Text: choice.Delta.Content,
			}
			select {
			case ch <- delta:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		final := agent.Delta{
			Role:         agent.RoleAssistant,
			ToolCalls:    merger.calls(),
			FinishReason: fromFinishReason(finish),
		}
		if len(final.ToolCalls) > 0 {
			final.FinishReason = agent.FinishReasonToolCalls
		}

		select {
		case ch <- final:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}), nil
}

// wrapAPIError converts a go-openai error into the agent error taxonomy.
func wrapAPIError(err error) error {
	var apiErr *go_openai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", agent.ErrService, err)
	}

	svcErr := &agent.ServiceError{
		StatusCode: apiErr.HTTPStatusCode,
		Message:    apiErr.Message,
		Code:       codeString(apiErr.Code),
	}
	switch {
	case svcErr.Code == "content_filter":
		svcErr.Err = agent.ErrContentFilter
	case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
		svcErr.Err = agent.ErrAuth
	case apiErr.HTTPStatusCode == 400:
		svcErr.Err = agent.ErrInvalidRequest
	default:
		svcErr.Err = agent.ErrService
	}
	return svcErr
}

func codeString(code any) string {
	switch v := code.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
