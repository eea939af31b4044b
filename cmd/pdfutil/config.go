// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-utilizer/pkg/types"
)

// setDefaults registers every config key so environment overrides are
// visible to Unmarshal even without a config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("service.base_url", d.Service.BaseURL)
	v.SetDefault("service.timeout", d.Service.Timeout)
	v.SetDefault("service.user_agent", "pdf-utilizer/"+version)
	v.SetDefault("storage.backend", string(d.Storage.Backend))
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("artifacts.dir", d.Artifacts.Dir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", string(d.Log.Format))
}

// loadConfig decodes v into a Config.
func loadConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	switch cfg.Storage.Backend {
	case types.StorageFile, types.StorageSQLite, types.StorageMemory:
	default:
		return types.Config{}, fmt.Errorf("storage.backend: unsupported value %q", cfg.Storage.Backend)
	}
	if cfg.Service.Timeout < 0 {
		return types.Config{}, fmt.Errorf("service.timeout: must not be negative, got %s", cfg.Service.Timeout)
	}
	return cfg, nil
}
