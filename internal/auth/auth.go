// Package auth sources the credentials sent in the authenticate frame.
package auth

import (
	"fmt"
	"os"
	"strings"
)

// Provider supplies the two credentials needed to authenticate a
// connection. Either may be absent, in which case the connection stays
// unauthenticated until the next reconnect attempt re-queries the
// provider.
type Provider interface {
	// AccessCredential returns the access credential, or ok=false if
	// none is currently available.
	AccessCredential() (credential string, ok bool)

	// IdentityCredential returns the identity credential, or ok=false
	// if none is currently available.
	IdentityCredential() (credential string, ok bool)
}

// Static is a Provider backed by fixed credential strings. Used in
// tests and for environments that inject tokens directly.
type Static struct {
	Access   string
	Identity string
}

func (s Static) AccessCredential() (string, bool) {
	return s.Access, s.Access != ""
}

func (s Static) IdentityCredential() (string, bool) {
	return s.Identity, s.Identity != ""
}

// FileProvider reads credentials from token files on every query, so a
// refreshed token on disk is picked up at the next reconnect.
type FileProvider struct {
	AccessPath   string
	IdentityPath string
}

// NewFileProvider requires both paths to be configured. The files
// themselves may appear later; absence is reported per query.
func NewFileProvider(accessPath, identityPath string) (*FileProvider, error) {
	if accessPath == "" {
		return nil, fmt.Errorf("access credential path is required")
	}
	if identityPath == "" {
		return nil, fmt.Errorf("identity credential path is required")
	}
	return &FileProvider{
		AccessPath:   accessPath,
		IdentityPath: identityPath,
	}, nil
}

func (p *FileProvider) AccessCredential() (string, bool) {
	return readToken(p.AccessPath)
}

func (p *FileProvider) IdentityCredential() (string, bool) {
	return readToken(p.IdentityPath)
}

// readToken loads a token file, trimming trailing whitespace. A
// missing or empty file means the credential is absent, not an error.
func readToken(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", false
	}
	return token, true
}
