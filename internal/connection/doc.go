// Package connection maintains the persistent push-stream connection.
//
// One WebSocket connection carries the whole stream. The manager:
//   - dials with exponential backoff and reconnects on any error
//   - sends the authenticate frame once per connection (skipped if
//     either credential is absent; retried on the next reconnect)
//   - decodes each frame and hands it to the mirror, one at a time
//   - flips the mirror stale on every disconnect
package connection
