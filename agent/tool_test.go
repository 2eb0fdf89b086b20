// Copyright (c) Microsoft. All rights reserved.

package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jochenvw/weatherbot/agent"
)

func TestTypedTool_Invoke(t *testing.T) {
	tool := agent.NewTypedTool("echo", "Echoes the input.",
		func(ctx context.Context, args struct {
			Text string `json:"text" jsonschema:"description=Text to echo,required"`
		}) (any, error) {
			return args.Text, nil
		},
	)

	if tool.Name() != "echo" {
		t.Errorf("Name = %q", tool.Name())
	}

	result, err := tool.Invoke(context.Background(), json.RawMessage(`{"text":"hi"}`))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if result != "hi" {
		t.Errorf("result = %v", result)
	}
}

func TestTypedTool_InvalidArguments(t *testing.T) {
	tool := agent.NewTypedTool("echo", "Echoes the input.",
		func(ctx context.Context, args struct {
			Text string `json:"text"`
		}) (any, error) {
			return args.Text, nil
		},
	)

	_, err := tool.Invoke(context.Background(), json.RawMessage(`{"text":42}`))
	if err == nil {
		t.Fatal("expected error for invalid arguments")
	}
	if !errors.Is(err, agent.ErrToolExecution) {
		t.Errorf("error = %v, want ErrToolExecution", err)
	}

	var toolErr *agent.ToolError
	if !errors.As(err, &toolErr) || toolErr.ToolName != "echo" {
		t.Errorf("error = %v, want ToolError for echo", err)
	}
}

func TestTypedTool_EmptyArguments(t *testing.T) {
	tool := agent.NewTypedTool("now", "Returns a constant.",
		func(ctx context.Context, args struct{}) (any, error) {
			return "ok", nil
		},
	)

	result, err := tool.Invoke(context.Background(), nil)
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v", result)
	}
}

func TestGenerateSchema(t *testing.T) {
	type args struct {
		Location string `json:"location" jsonschema:"description=City name,required"`
		Unit     string `json:"unit"     jsonschema:"enum=celsius|fahrenheit"`
		Days     int    `json:"days"`
	}

	raw := agent.GenerateSchema[args]()

	var schema struct {
		Type       string `json:"type"`
		Properties map[string]struct {
			Type        string   `json:"type"`
			Description string   `json:"description"`
			Enum        []string `json:"enum"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatalf("unmarshal schema: %v", err)
	}

	if schema.Type != "object" {
		t.Errorf("type = %q", schema.Type)
	}
	loc := schema.Properties["location"]
	if loc.Type != "string" || loc.Description != "City name" {
		t.Errorf("location = %+v", loc)
	}
	unit := schema.Properties["unit"]
	if len(unit.Enum) != 2 || unit.Enum[0] != "celsius" {
		t.Errorf("unit enum = %v", unit.Enum)
	}
	if schema.Properties["days"].Type != "integer" {
		t.Errorf("days = %+v", schema.Properties["days"])
	}
	if len(schema.Required) != 1 || schema.Required[0] != "location" {
		t.Errorf("required = %v", schema.Required)
	}
}
