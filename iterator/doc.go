// Package iterator moves a cursor forward and backward over a collection it
// does not own.
//
// The collection is reached only through a Scope, which reports the current
// index and the size, possibly from a remote or lazily computed source. The
// iterator computes where the cursor should go next and tells the owner
// through a switch callback; the owner is the one that actually moves.
//
// Forward moves are debounced. Every Next call recomputes the target from the
// current scope state, and the callback fires once the caller has stopped
// calling Next for the effective delay, with the last computed target:
//
//	it := iterator.New(scope, onSwitch, iterator.Options{Delay: 200 * time.Millisecond})
//	it.Next(ctx) // resets the wait on every call
//
// Backward moves are not debounced. Back commits the pending target right
// away and prepares the next backward target.
//
// An index of -1 means there is no valid move; it never reaches the callback.
package iterator
