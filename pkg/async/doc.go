// Package async provides generic helpers for running computations in
// goroutines and waiting for their completion.
//
// Async starts the supplied function and immediately returns a *Future. The
// caller can wait with Await, bound the wait with AwaitWithTimeout or poll with
// IsComplete.
//
// Two fan-in helpers coordinate several futures:
//
//   - WaitAll collects results in order and stops at the first error.
//   - SettleAll waits for every future and reports each outcome, so one failed
//     task never hides the others. Notification fan-out and batch waves are
//     built on it.
//
//	confirm := async.Async(ctx, submitterMsg, send)
//	alert := async.Async(ctx, recipientMsg, send)
//	for i, r := range async.SettleAll(confirm, alert) {
//	    if !r.OK() {
//	        log.Printf("notification %d failed: %v", i, r.Err)
//	    }
//	}
//
// If the context is already cancelled when Async is called, the function is
// not run and the Future completes with the context error.
package async
