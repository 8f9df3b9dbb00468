// Package config resolves runtime settings from flags, environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/connecthear/opsportal/pkg/watcher"
)

// EnvPrefix prefixes environment overrides, e.g. OPSPORTAL_DATA.
const EnvPrefix = "OPSPORTAL"

// Keys understood by Load
const (
	KeyData           = "data"
	KeySearchDebounce = "search.debounce"
	KeyLogLevel       = "log.level"
	KeyLogEncoding    = "log.encoding"
	KeyLogFile        = "log.file"
	KeyAltScreen      = "ui.alt_screen"
)

// Config is the resolved configuration
type Config struct {
	DataPath string
	Search   SearchConfig
	Log      LogConfig
	UI       UIConfig
}

// SearchConfig tunes the interactive search box
type SearchConfig struct {
	Debounce time.Duration
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level    string // debug, info, warn, error
	Encoding string // console or json
	File     string // empty means stderr for CLI commands, discard for the TUI
}

// UIConfig configures the terminal UI
type UIConfig struct {
	AltScreen bool
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyData, "")
	v.SetDefault(KeySearchDebounce, watcher.SearchDebounce)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogEncoding, "console")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyAltScreen, true)
}

// NewViper returns a viper instance with defaults and environment binding.
// If cfgFile is empty, $HOME/.opsportal.yaml and ./.opsportal.yaml are tried.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".opsportal")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// Load resolves and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		DataPath: v.GetString(KeyData),
		Search: SearchConfig{
			Debounce: v.GetDuration(KeySearchDebounce),
		},
		Log: LogConfig{
			Level:    strings.ToLower(v.GetString(KeyLogLevel)),
			Encoding: strings.ToLower(v.GetString(KeyLogEncoding)),
			File:     v.GetString(KeyLogFile),
		},
		UI: UIConfig{
			AltScreen: v.GetBool(KeyAltScreen),
		},
	}

	if cfg.Search.Debounce <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %s", KeySearchDebounce, cfg.Search.Debounce)
	}
	switch cfg.Log.Encoding {
	case "console", "json":
	default:
		return Config{}, fmt.Errorf("%s must be console or json, got %q", KeyLogEncoding, cfg.Log.Encoding)
	}
	if cfg.DataPath != "" {
		cfg.DataPath = filepath.Clean(cfg.DataPath)
	}
	return cfg, nil
}
