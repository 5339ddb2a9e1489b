// Package observable implements the Observable Value primitive used by
// the mirror: a container holding a current value with synchronous
// change notification to subscribers.
//
// Guarantees:
//   - Notification is synchronous: Set/Update returns only after every
//     listener registered at the start of the pass has been invoked.
//   - Unsubscribing from within a listener is safe and does not skip or
//     double-deliver to other listeners in the same pass.
//   - A listener that panics is recovered and logged; remaining
//     listeners are still notified.
package observable
