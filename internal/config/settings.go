package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/chrisreddington/gh-boardkit/internal/errors"
	"github.com/chrisreddington/gh-boardkit/internal/types"
)

// Duration is a time.Duration that decodes from strings such as "90s" in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Settings holds the runtime knobs of the generator.
type Settings struct {
	Host              string                `toml:"host"`
	StatusField       string                `toml:"status_field"`
	FallbackField     string                `toml:"fallback_field"`
	Placement         types.PlacementPolicy `toml:"placement"`
	RequestsPerSecond float64               `toml:"requests_per_second"`
	Burst             int                   `toml:"burst"`
	MaxRetries        int                   `toml:"max_retries"`
	MaxBackoff        Duration              `toml:"max_backoff"`
	Timeout           Duration              `toml:"timeout"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Host:              DefaultHost,
		StatusField:       DefaultStatusFieldName,
		FallbackField:     DefaultFallbackFieldName,
		Placement:         types.PlacementFirstColumn,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Burst:             DefaultBurst,
		MaxRetries:        DefaultMaxRetries,
		MaxBackoff:        Duration{DefaultMaxBackoff},
		Timeout:           Duration{GenerationTimeout},
	}
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/gh-boardkit/config.toml (or the platform equivalent).
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, SettingsDirName, SettingsFilename), nil
}

// LoadSettings layers defaults, the settings file and BOARDKIT_* environment variables.
// An empty path means the default location, which may be absent; an explicit path must exist.
func LoadSettings(ctx context.Context, path string) (Settings, error) {
	settings := DefaultSettings()

	if err := ctx.Err(); err != nil {
		return settings, errors.ContextError("load_settings", err)
	}

	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultSettingsPath()
		if err == nil {
			path = defaultPath
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if !os.IsNotExist(err) || explicit {
				err = errors.FileError("read_settings", "failed to read settings file", err)
				return settings, errors.WithContextSafe(err, "path", path)
			}
		} else if _, err := toml.DecodeFile(path, &settings); err != nil {
			err = errors.ConfigError("parse_settings", "failed to parse settings file", err)
			return settings, errors.WithContextSafe(err, "path", path)
		}
	}

	if err := applyEnv(&settings); err != nil {
		return settings, err
	}

	return settings, settings.Validate()
}

func applyEnv(s *Settings) error {
	if v, ok := lookupEnv("HOST"); ok {
		s.Host = v
	}
	if v, ok := lookupEnv("STATUS_FIELD"); ok {
		s.StatusField = v
	}
	if v, ok := lookupEnv("FALLBACK_FIELD"); ok {
		s.FallbackField = v
	}
	if v, ok := lookupEnv("PLACEMENT"); ok {
		s.Placement = types.PlacementPolicy(v)
	}
	if v, ok := lookupEnv("REQUESTS_PER_SECOND"); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("REQUESTS_PER_SECOND", err)
		}
		s.RequestsPerSecond = rps
	}
	if v, ok := lookupEnv("MAX_RETRIES"); ok {
		retries, err := strconv.Atoi(v)
		if err != nil {
			return envError("MAX_RETRIES", err)
		}
		s.MaxRetries = retries
	}
	if v, ok := lookupEnv("TIMEOUT"); ok {
		if err := s.Timeout.UnmarshalText([]byte(v)); err != nil {
			return envError("TIMEOUT", err)
		}
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envError(key string, err error) error {
	return errors.ConfigError("parse_env", fmt.Sprintf("invalid value for %s%s", EnvPrefix, key), err)
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	switch s.Placement {
	case types.PlacementFirstColumn, types.PlacementPhaseMapping:
	default:
		return errors.ValidationError("validate_settings",
			fmt.Sprintf("placement must be %q or %q, got %q", types.PlacementFirstColumn, types.PlacementPhaseMapping, s.Placement))
	}
	if strings.TrimSpace(s.StatusField) == "" || strings.TrimSpace(s.FallbackField) == "" {
		return errors.ValidationError("validate_settings", "status_field and fallback_field cannot be empty")
	}
	if s.RequestsPerSecond <= 0 {
		return errors.ValidationError("validate_settings", "requests_per_second must be positive")
	}
	if s.Burst < 1 {
		return errors.ValidationError("validate_settings", "burst must be at least 1")
	}
	if s.MaxRetries < 0 {
		return errors.ValidationError("validate_settings", "max_retries cannot be negative")
	}
	if s.Timeout.Duration <= 0 {
		return errors.ValidationError("validate_settings", "timeout must be positive")
	}
	if s.MaxBackoff.Duration < 0 {
		return errors.ValidationError("validate_settings", "max_backoff cannot be negative")
	}
	return nil
}
