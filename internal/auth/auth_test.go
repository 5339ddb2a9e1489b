package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatic(t *testing.T) {
	p := Static{Access: "a-tok", Identity: "i-tok"}

	if got, ok := p.AccessCredential(); !ok || got != "a-tok" {
		t.Errorf("AccessCredential() = %q, %v; want a-tok, true", got, ok)
	}
	if got, ok := p.IdentityCredential(); !ok || got != "i-tok" {
		t.Errorf("IdentityCredential() = %q, %v; want i-tok, true", got, ok)
	}
}

func TestStatic_Empty(t *testing.T) {
	p := Static{}

	if _, ok := p.AccessCredential(); ok {
		t.Error("empty access credential reported present")
	}
	if _, ok := p.IdentityCredential(); ok {
		t.Error("empty identity credential reported present")
	}
}

func TestNewFileProvider_RequiresPaths(t *testing.T) {
	if _, err := NewFileProvider("", "identity"); err == nil {
		t.Error("expected error for missing access path")
	}
	if _, err := NewFileProvider("access", ""); err == nil {
		t.Error("expected error for missing identity path")
	}
}

func TestFileProvider_ReadsTokens(t *testing.T) {
	dir := t.TempDir()
	accessPath := filepath.Join(dir, "access.token")
	identityPath := filepath.Join(dir, "identity.token")

	if err := os.WriteFile(accessPath, []byte("a-tok\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(identityPath, []byte("  i-tok  "), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := NewFileProvider(accessPath, identityPath)
	if err != nil {
		t.Fatalf("NewFileProvider failed: %v", err)
	}

	if got, ok := p.AccessCredential(); !ok || got != "a-tok" {
		t.Errorf("AccessCredential() = %q, %v; want trimmed a-tok, true", got, ok)
	}
	if got, ok := p.IdentityCredential(); !ok || got != "i-tok" {
		t.Errorf("IdentityCredential() = %q, %v; want trimmed i-tok, true", got, ok)
	}
}

func TestFileProvider_AbsentCases(t *testing.T) {
	dir := t.TempDir()
	emptyPath := filepath.Join(dir, "empty.token")
	if err := os.WriteFile(emptyPath, []byte("   \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	p := &FileProvider{
		AccessPath:   filepath.Join(dir, "missing.token"),
		IdentityPath: emptyPath,
	}

	if _, ok := p.AccessCredential(); ok {
		t.Error("missing file reported present")
	}
	if _, ok := p.IdentityCredential(); ok {
		t.Error("blank file reported present")
	}
}

func TestFileProvider_PicksUpRefreshedToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "access.token")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}

	p := &FileProvider{AccessPath: path, IdentityPath: path}

	if got, _ := p.AccessCredential(); got != "old" {
		t.Fatalf("AccessCredential() = %q, want old", got)
	}

	if err := os.WriteFile(path, []byte("new"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got, _ := p.AccessCredential(); got != "new" {
		t.Errorf("AccessCredential() = %q, want new (re-read per query)", got)
	}
}
