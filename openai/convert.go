// Copyright (c) Microsoft. All rights reserved.

package openai

import (
	"sort"

	go_openai "github.com/sashabaranov/go-openai"

	"github.com/jochenvw/weatherbot/agent"
)

// buildRequest converts agent types into a streaming chat completion request.
func buildRequest(messages []agent.Message, opts agent.Options, defaultModel string) go_openai.ChatCompletionRequest {
	model := opts.Model
	if model == "" {
		model = defaultModel
	}

	req := go_openai.ChatCompletionRequest{
		Model:    model,
		Messages: toChatMessages(messages),
		Tools:    toTools(opts.Tools),
		Stream:   true,
	}
	if opts.Temperature != nil {
		req.Temperature = float32(*opts.Temperature)
	}
	if opts.MaxTokens != nil {
		req.MaxCompletionTokens = *opts.MaxTokens
	}
	return req
}

func toChatMessages(messages []agent.Message) []go_openai.ChatCompletionMessage {
	out := make([]go_openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		cm := go_openai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, call := range m.ToolCalls {
			cm.ToolCalls = append(cm.ToolCalls, go_openai.ToolCall{
				ID:   call.ID,
				Type: go_openai.ToolTypeFunction,
				Function: go_openai.FunctionCall{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		out = append(out, cm)
	}
	return out
}

func toTools(tools []agent.Tool) []go_openai.Tool {
	var out []go_openai.Tool
	for _, t := range tools {
		out = append(out, go_openai.Tool{
			Type: go_openai.ToolTypeFunction,
			Function: &go_openai.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	return out
}

func fromRole(role string) agent.Role {
	if role == "" {
		return agent.RoleAssistant
	}
	return agent.Role(role)
}

func fromFinishReason(r go_openai.FinishReason) agent.FinishReason {
	switch r {
	case go_openai.FinishReasonToolCalls:
		return agent.FinishReasonToolCalls
	case go_openai.FinishReasonLength:
		return agent.FinishReasonLength
	case go_openai.FinishReasonContentFilter:
		return agent.FinishReasonContentFilter
	default:
		return agent.FinishReasonStop
	}
}

// toolCallMerger accumulates streamed tool-call fragments keyed by chunk
// index: names and argument text arrive split across chunks and are
// concatenated back together.
type toolCallMerger struct {
	byIndex map[int]go_openai.ToolCall
}

func newToolCallMerger() *toolCallMerger {
	return &toolCallMerger{byIndex: make(map[int]go_openai.ToolCall)}
}

func (m *toolCallMerger) add(calls []go_openai.ToolCall) {
	for _, call := range calls {
		index := 0
		if call.Index != nil {
			index = *call.Index
		}
		existing, found := m.byIndex[index]
		if !found {
			m.byIndex[index] = call
			continue
		}
		if call.ID != "" {
			existing.ID = call.ID
		}
		existing.Function.Name += call.Function.Name
		existing.Function.Arguments += call.Function.Arguments
		m.byIndex[index] = existing
	}
}

func (m *toolCallMerger) calls() []agent.ToolCall {
	indexes := make([]int, 0, len(m.byIndex))
	for i := range m.byIndex {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	var out []agent.ToolCall
	for _, i := range indexes {
		call := m.byIndex[i]
		out = append(out, agent.ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return out
}
