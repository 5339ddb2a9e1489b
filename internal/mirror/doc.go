// Package mirror implements the reconciliation engine: it turns the
// ordered stream of decoded push messages into internally consistent,
// independently observable entity collections.
//
// One reconciler per domain owns the merge rules and the observable
// values for that domain: markets/order books, ownerships, users,
// payments, portfolio, and session/connectivity. All mutation happens
// on the single sequential dispatch path; a dispatch triggered from
// inside a listener is queued, never interleaved.
//
// No state is cleared on disconnect. Consumers keep last-known values
// and judge freshness by the stale flag alone.
package mirror
