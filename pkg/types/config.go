// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// StorageBackend selects where the persisted session lives.
type StorageBackend string

const (
	StorageFile   StorageBackend = "file"
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"
)

// LogFormat selects the diagnostic log encoder.
type LogFormat string

const (
	LogConsole LogFormat = "console"
	LogJSON    LogFormat = "json"
)

// ServiceConfig holds settings for the remote processing service.
type ServiceConfig struct {
	// BaseURL is the root URL operation endpoints are resolved against
	// (e.g. "http://localhost:5000").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a whole round trip. Zero leaves the transport default
	// in place, which never gives up on its own.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// StorageConfig holds settings for the persisted session store.
type StorageConfig struct {
	// Backend selects the store implementation: file, sqlite, or memory.
	Backend StorageBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Path is the store location. For the file backend it is a YAML file,
	// for sqlite a database file. Ignored by the memory backend.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// ArtifactConfig holds settings for materialized operation results.
type ArtifactConfig struct {
	// Dir spills artifact bytes to files under this directory. Empty keeps
	// artifacts in memory.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	Level  string    `json:"level" yaml:"level" mapstructure:"level"`
	Format LogFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups every setting of the client.
type Config struct {
	Service   ServiceConfig  `json:"service" yaml:"service" mapstructure:"service"`
	Storage   StorageConfig  `json:"storage" yaml:"storage" mapstructure:"storage"`
	Artifacts ArtifactConfig `json:"artifacts" yaml:"artifacts" mapstructure:"artifacts"`
	Log       LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the settings used when no config file or
// environment override is present.
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			BaseURL:   "http://localhost:5000",
			UserAgent: "pdf-utilizer/dev",
		},
		Storage: StorageConfig{
			Backend: StorageFile,
			Path:    "~/.config/pdfutil/session.yaml",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: LogConsole,
		},
	}
}
