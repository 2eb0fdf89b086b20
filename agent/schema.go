// Copyright (c) Microsoft. All rights reserved.

package agent

import (
	"encoding/json"
	"reflect"
	"strings"
)

// GenerateSchema builds a JSON Schema from a Go struct type using reflection.
// Supported struct tags: json (field name), jsonschema (description,
// required, enum=a|b|c).
func GenerateSchema[T any]() json.RawMessage {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	b, _ := json.Marshal(schemaForType(t))
	return b
}

func schemaForType(t reflect.Type) map[string]any {
	switch t.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": schemaForType(t.Elem())}
	case reflect.Ptr:
		return schemaForType(t.Elem())
	case reflect.Struct:
		return schemaForStruct(t)
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return map[string]any{
				"type":                 "object",
				"additionalProperties": schemaForType(t.Elem()),
			}
		}
		return map[string]any{"type": "object"}
	default:
		return map[string]any{"type": "string"}
	}
}

func schemaForStruct(t reflect.Type) map[string]any {
	properties := make(map[string]any)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := field.Name
		if jsonTag != "" {
			if base, _, _ := strings.Cut(jsonTag, ","); base != "" {
				name = base
			}
		}

		prop := schemaForType(field.Type)

		for _, part := range strings.Split(field.Tag.Get("jsonschema"), ",") {
			key, val, _ := strings.Cut(part, "=")
			switch strings.TrimSpace(key) {
			case "description":
				prop["description"] = strings.TrimSpace(val)
			case "required":
				required = append(required, name)
			case "enum":
				var enumVals []any
				for _, ev := range strings.Split(val, "|") {
					enumVals = append(enumVals, strings.TrimSpace(ev))
				}
				prop["enum"] = enumVals
			}
		}

		properties[name] = prop
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
