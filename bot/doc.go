// Copyright (c) Microsoft. All rights reserved.

// Package bot provides the thin hosting surface for the weather bot:
// inbound [Activity] routing, a per-turn [TurnContext], and the
// [StreamingResponse] channel used to deliver incremental model output.
//
// It is deliberately application-scoped plumbing, not a general bot
// runtime: an [Adapter] dispatches activities to a [Handler] and
// guarantees the streaming channel is ended exactly once per message turn,
// on every exit path.
package bot
