// Package protocol implements the wire codec for the push stream.
//
// Every frame is a JSON envelope {"type": ..., "msg": {...}} carrying
// exactly one message kind. Decode parses a frame into a ServerMessage
// union with exactly one populated field; malformed frames return an
// error and are dropped by the caller without touching mirror state.
package protocol
