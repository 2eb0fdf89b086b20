// Copyright (c) Microsoft. All rights reserved.

// Package agent implements the conversational agent behind the weather bot:
// a [ChatClient]-backed chat loop with function calling, a streaming
// fragment iterator, and a serializable conversation [Thread].
//
// Create an agent with [New] and functional options, mint a [Thread] per
// conversation, and consume fragments with [Agent.RunStream]:
//
//	a, err := agent.New(client,
//	    agent.WithInstructions("You are a friendly weather assistant."),
//	    agent.WithTemperature(0.2),
//	    agent.WithTools(weatherTool),
//	)
//
//	thread := a.NewThread()
//	updates := a.RunStream(ctx, thread, "What's the weather in Seattle?")
//	defer updates.Close()
//
// Threads round-trip through [Thread.Serialize] and [DeserializeThread] so
// a host can persist conversational context between turns in any
// key-value store.
package agent
