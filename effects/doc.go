// Package effects is the small effect core the list iterator's surroundings
// are built on.
//
// Side effects such as logging, configuration lookup and cursor storage are
// delegated to handlers registered in a context.Context. Code that needs one
// performs an effect against the context it was given and never holds the
// handler itself, so tests can swap handlers without touching the caller.
//
// # Handlers
//
// Handlers are registered with WithXxxEffectHandler and return the derived
// context plus a teardown:
//
//	ctx, end := log.WithZapEffectHandler(ctx, 10, logger)
//	defer end()
//
// Two kinds exist:
//   - resumable handlers answer every payload with an attempt.Result on a
//     channel (PerformResumableEffect, AwaitResumableEffect). The
//     partitionable variant routes payloads by PartitionKey so that all
//     operations on one key are served in order by one worker.
//   - fire-and-forget handlers consume payloads without answering
//     (FireAndForgetEffect). Logging is one.
//
// A handler's workers run on a child of the registration context. They stop
// when the teardown is called or that context ends, after which performing
// the effect fails with a "handler closed" error instead of blocking.
//
// Built on top of this package:
//   - effects/log: structured logging to a zap.Logger
//   - effects/binding: scoped key/value configuration with upward delegation
//   - effects/cursor: named list cursors that back iterator scopes
//
// Example:
//
//	ctx, endOfCursor := cursor.WithEffectHandler(ctx, cursor.NewConfig(1, 1, 16), map[string]int{"slides": 5})
//	defer endOfCursor()
//
//	it := iterator.New(cursor.ScopeOf(ctx, "slides"), cursor.SwitchOf(ctx, "slides"), iterator.Options{Loop: true})
//	<-it.Next(ctx)
package effects
