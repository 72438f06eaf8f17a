package appconf

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/rogpeppe/go-internal/lockedfile"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/snipmd/snipmd/pkg/logger"
)

// Config is the persisted user configuration.
type Config struct {
	DefaultRepo     string `mapstructure:"default_repo" yaml:"default_repo,omitempty"`
	InstallLocation string `mapstructure:"install_location" yaml:"install_location"`
	HistoryEnabled  bool   `mapstructure:"history_enabled" yaml:"history_enabled"`
}

// Default returns the configuration used before the user changes anything.
func Default() Config {
	return Config{
		InstallLocation: "local",
		HistoryEnabled:  true,
	}
}

// SetViperDefaults registers configuration defaults on the global viper so
// environment overrides and flags merge with them.
func SetViperDefaults() {
	viper.SetDefault("install_location", "local")
	viper.SetDefault("history_enabled", true)
}

// FromViper materializes Config from the global viper state, which layers
// the config file, SNIPMD_* environment variables, and flags.
func FromViper() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to unmarshal configuration")
	}
	if cfg.InstallLocation == "" {
		cfg.InstallLocation = "local"
	}
	return cfg, nil
}

// Load reads the config file directly, creating it with defaults on first
// use.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := Save(cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	data, err := lockedfile.Read(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to read config file")
	}
	return decode(data)
}

func decode(data []byte) (Config, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, errors.Wrap(err, "failed to parse config file")
	}

	// Decode on top of the defaults so absent keys keep their default
	// values instead of zeroing out.
	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ZeroFields:       false,
	})
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to create config decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config file")
	}
	return cfg, nil
}

// Save writes the config file, creating the application directory first.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create application directory")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := lockedfile.Write(path, bytes.NewReader(data), 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// DefaultRepoName returns the repository to operate on: the configured
// default, else the first existing working copy (persisted as the new
// default), else "default".
func DefaultRepoName(ctx context.Context, cfg *Config) string {
	if cfg.DefaultRepo != "" {
		return cfg.DefaultRepo
	}

	reposDir, err := ReposDir()
	if err != nil {
		return "default"
	}
	entries, err := os.ReadDir(reposDir)
	if err != nil {
		return "default"
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cfg.DefaultRepo = entry.Name()
		if err := Save(*cfg); err != nil {
			logger.G(ctx).WithError(err).Warn("could not persist detected default repository")
		}
		return entry.Name()
	}
	return "default"
}
