package protocol

import (
	"encoding/json"
	"fmt"
)

// clientEnvelope is the outbound frame layout.
type clientEnvelope struct {
	Type string `json:"type"`
	Msg  any    `json:"msg"`
}

// EncodeAuthenticate builds the authenticate frame sent once per
// connection after transport open.
func EncodeAuthenticate(accessCredential, identityCredential string) ([]byte, error) {
	data, err := json.Marshal(clientEnvelope{
		Type: KindAuthenticate,
		Msg: authenticateWire{
			AccessCredential:   accessCredential,
			IdentityCredential: identityCredential,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode authenticate: %w", err)
	}
	return data, nil
}
