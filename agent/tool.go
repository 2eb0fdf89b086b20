// Copyright (c) Microsoft. All rights reserved.

package agent

import (
	"context"
	"encoding/json"
)

// Tool defines a callable function that can be exposed to the model.
type Tool interface {
	// Name returns the function name as exposed to the model.
	Name() string

	// Description returns a human-readable description for the model.
	Description() string

	// Parameters returns the JSON Schema describing the function's input.
	Parameters() json.RawMessage

	// Invoke calls the function with the given JSON arguments.
	Invoke(ctx context.Context, args json.RawMessage) (any, error)
}

// FunctionTool is a concrete [Tool] backed by a Go function.
type FunctionTool struct {
	name        string
	description string
	parameters  json.RawMessage
	fn          func(ctx context.Context, args json.RawMessage) (any, error)
}

// NewTool creates a [FunctionTool] with a raw JSON schema and handler.
func NewTool(name, description string, parameters json.RawMessage, fn func(ctx context.Context, args json.RawMessage) (any, error)) *FunctionTool {
	return &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}
}

// NewTypedTool creates a [FunctionTool] that automatically generates JSON
// Schema from the Args type parameter and handles JSON deserialization.
//
// The Args type should be a struct with json tags. Use the `jsonschema`
// struct tag for additional schema metadata:
//
//	type ForecastArgs struct {
//	    Location string `json:"location" jsonschema:"description=City name,required"`
//	}
func NewTypedTool[Args any](name, description string, fn func(ctx context.Context, args Args) (any, error)) *FunctionTool {
	schema := GenerateSchema[Args]()

	wrapped := func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args Args
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, &ToolError{
					ToolName: name,
					Message:  "invalid arguments: " + err.Error(),
					Err:      ErrToolExecution,
				}
			}
		}
		return fn(ctx, args)
	}

	return NewTool(name, description, schema, wrapped)
}

func (t *FunctionTool) Name() string                { return t.name }
func (t *FunctionTool) Description() string         { return t.description }
func (t *FunctionTool) Parameters() json.RawMessage { return t.parameters }

// Invoke calls the tool's backing function.
func (t *FunctionTool) Invoke(ctx context.Context, args json.RawMessage) (any, error) {
	if t.fn == nil {
		return nil, &ToolError{
			ToolName: t.name,
			Message:  "tool has no handler",
			Err:      ErrToolExecution,
		}
	}
	return t.fn(ctx, args)
}
