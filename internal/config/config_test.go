package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *MirrorConfig {
	cfg := &MirrorConfig{}
	cfg.Credentials.AccessTokenPath = "/tmp/access.token"
	cfg.Credentials.IdentityTokenPath = "/tmp/identity.token"
	cfg.applyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()

	if cfg.Instance.ID == "" {
		t.Error("Instance.ID not generated")
	}
	if !strings.HasPrefix(cfg.Instance.ID, "mirror-") {
		t.Errorf("Instance.ID = %q, want mirror- prefix", cfg.Instance.ID)
	}
	if cfg.Server.WSURL != DefaultWSURL {
		t.Errorf("WSURL = %q, want %q", cfg.Server.WSURL, DefaultWSURL)
	}
	if cfg.Connection.ReconnectBaseDelay != DefaultReconnectBaseDelay {
		t.Errorf("ReconnectBaseDelay = %v, want %v", cfg.Connection.ReconnectBaseDelay, DefaultReconnectBaseDelay)
	}
	if cfg.Connection.BufferSize != DefaultBufferSize {
		t.Errorf("BufferSize = %d, want %d", cfg.Connection.BufferSize, DefaultBufferSize)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &MirrorConfig{}
	cfg.Instance.ID = "mirror-custom"
	cfg.Server.WSURL = "wss://example.test/stream"
	cfg.Connection.BufferSize = 7
	cfg.applyDefaults()

	if cfg.Instance.ID != "mirror-custom" {
		t.Errorf("Instance.ID = %q, want mirror-custom", cfg.Instance.ID)
	}
	if cfg.Server.WSURL != "wss://example.test/stream" {
		t.Errorf("WSURL overwritten: %q", cfg.Server.WSURL)
	}
	if cfg.Connection.BufferSize != 7 {
		t.Errorf("BufferSize = %d, want 7", cfg.Connection.BufferSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MirrorConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*MirrorConfig) {},
		},
		{
			name:    "missing ws url",
			mutate:  func(c *MirrorConfig) { c.Server.WSURL = "" },
			wantErr: "server.ws_url",
		},
		{
			name:    "non-websocket url",
			mutate:  func(c *MirrorConfig) { c.Server.WSURL = "https://example.test" },
			wantErr: "ws:// or wss://",
		},
		{
			name:    "missing access token path",
			mutate:  func(c *MirrorConfig) { c.Credentials.AccessTokenPath = "" },
			wantErr: "access_token_path",
		},
		{
			name:    "missing identity token path",
			mutate:  func(c *MirrorConfig) { c.Credentials.IdentityTokenPath = "" },
			wantErr: "identity_token_path",
		},
		{
			name:    "zero base delay",
			mutate:  func(c *MirrorConfig) { c.Connection.ReconnectBaseDelay = 0 },
			wantErr: "reconnect_base_delay",
		},
		{
			name: "max delay below base",
			mutate: func(c *MirrorConfig) {
				c.Connection.ReconnectBaseDelay = 10 * time.Second
				c.Connection.ReconnectMaxDelay = time.Second
			},
			wantErr: "reconnect_max_delay",
		},
		{
			name:    "zero buffer",
			mutate:  func(c *MirrorConfig) { c.Connection.BufferSize = 0 },
			wantErr: "buffer_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("MIRROR_TEST_WS", "wss://env.example.test/stream")

	dir := t.TempDir()
	path := filepath.Join(dir, "mirror.yaml")
	data := `
server:
  ws_url: "${MIRROR_TEST_WS}"
credentials:
  access_token_path: "/tmp/a"
  identity_token_path: "/tmp/i"
connection:
  reconnect_base_delay: 2s
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}

	if cfg.Server.WSURL != "wss://env.example.test/stream" {
		t.Errorf("WSURL = %q, want env-expanded value", cfg.Server.WSURL)
	}
	if cfg.Connection.ReconnectBaseDelay != 2*time.Second {
		t.Errorf("ReconnectBaseDelay = %v, want 2s", cfg.Connection.ReconnectBaseDelay)
	}
	// Unset fields picked up defaults.
	if cfg.Connection.ReconnectMaxDelay != DefaultReconnectMaxDelay {
		t.Errorf("ReconnectMaxDelay = %v, want default", cfg.Connection.ReconnectMaxDelay)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/mirror.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for bad yaml")
	}
}
