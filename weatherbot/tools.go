// Copyright (c) Microsoft. All rights reserved.

package weatherbot

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"strings"
	"time"

	"github.com/jochenvw/weatherbot/agent"
)

// Tools returns the three functions the bot exposes to the model.
func Tools() []agent.Tool {
	return []agent.Tool{currentWeatherTool(), forecastTool(), dateTimeTool()}
}

var conditions = []string{"sunny", "partly cloudy", "cloudy", "rainy", "windy", "foggy"}

// weatherFor derives stable pseudo-weather from the location name, so the
// same question always gets the same answer.
func weatherFor(location string, dayOffset int) (condition string, tempF int) {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(location))))
	h.Write([]byte{byte(dayOffset)})
	sum := h.Sum32()
	condition = conditions[sum%uint32(len(conditions))]
	tempF = 40 + int(sum%45)
	return condition, tempF
}

func currentWeatherTool() agent.Tool {
	return agent.NewTypedTool("get_current_weather",
		"Get the current weather for a location.",
		func(ctx context.Context, args struct {
			Location string `json:"location" jsonschema:"description=City name or location,required"`
		}) (any, error) {
			condition, tempF := weatherFor(args.Location, 0)
			return map[string]any{
				"location":      args.Location,
				"condition":     condition,
				"temperature_f": tempF,
				"temperature_c": (tempF - 32) * 5 / 9,
			}, nil
		},
	)
}

func forecastTool() agent.Tool {
	return agent.NewTypedTool("get_forecast",
		"Get the weather forecast for the next three days for a location.",
		func(ctx context.Context, args struct {
			Location string `json:"location" jsonschema:"description=City name or location,required"`
		}) (any, error) {
			days := make([]map[string]any, 0, 3)
			for offset := 1; offset <= 3; offset++ {
				condition, tempF := weatherFor(args.Location, offset)
				days = append(days, map[string]any{
					"date":          time.Now().AddDate(0, 0, offset).Format("2006-01-02"),
					"condition":     condition,
					"temperature_f": tempF,
				})
			}
			return map[string]any{
				"location": args.Location,
				"days":     days,
			}, nil
		},
	)
}

func dateTimeTool() agent.Tool {
	return agent.NewTool("get_date_time",
		"Get the current date and time.",
		json.RawMessage(`{"type":"object","properties":{}}`),
		func(ctx context.Context, args json.RawMessage) (any, error) {
			now := time.Now()
			return map[string]string{
				"time":    now.Format("3:04 PM"),
				"date":    now.Format("Monday, January 2, 2006"),
				"iso8601": now.Format(time.RFC3339),
			}, nil
		},
	)
}
