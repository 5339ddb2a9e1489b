// Package config loads and validates the mirror's YAML configuration.
package config

import "time"

// MirrorConfig is the top-level configuration.
type MirrorConfig struct {
	Instance    InstanceConfig    `yaml:"instance"`
	Server      ServerConfig      `yaml:"server"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Connection  ConnectionConfig  `yaml:"connection"`
}

// InstanceConfig identifies this mirror instance.
type InstanceConfig struct {
	ID string `yaml:"id"` // Generated if empty
}

// ServerConfig locates the push stream endpoint.
type ServerConfig struct {
	WSURL string `yaml:"ws_url"`
}

// CredentialsConfig locates the token files for the authenticate frame.
type CredentialsConfig struct {
	AccessTokenPath   string `yaml:"access_token_path"`
	IdentityTokenPath string `yaml:"identity_token_path"`
}

// ConnectionConfig tunes the transport.
type ConnectionConfig struct {
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	PingTimeout        time.Duration `yaml:"ping_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	BufferSize         int           `yaml:"buffer_size"`
}
