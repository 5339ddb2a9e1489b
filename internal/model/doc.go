// Package model defines the domain types mirrored from the server.
//
// Conventions:
//   - Sizes, prices, balances: numeric-as-text (string), passed through
//     from the wire without reformatting
//   - Timestamps: int64 microseconds since Unix epoch
//   - IDs: string for markets/orders/users/bots, uuid.UUID for trade
//     and payment IDs
package model
