// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/ayusman/auramidi/internal/calibration"
)

// DisabledDBPath turns session history off when used as the database path.
const DisabledDBPath = "-"

// Config holds every setting the binary reads at startup.
type Config struct {
	CameraID        int    `env:"AURAMIDI_CAMERA_ID"        envDefault:"0"`
	CalibrationFile string `env:"AURAMIDI_CALIBRATION_FILE" envDefault:"object.json"`
	Profile         string `env:"AURAMIDI_PROFILE"          envDefault:"highlighter"`
	// MIDIPort selects the output by number or name; empty picks the first port.
	MIDIPort string `env:"AURAMIDI_MIDI_PORT"`
	// DBPath is the session history database. Empty means ~/.auramidi/auramidi.db.
	DBPath   string `env:"AURAMIDI_DB_PATH"`
	HTTPAddr string `env:"AURAMIDI_HTTP_ADDR"`
	Headless bool   `env:"AURAMIDI_HEADLESS"         envDefault:"false"`
	LogLevel string `env:"AURAMIDI_LOG_LEVEL"        envDefault:"info"`
}

// Load parses the environment into a Config and fills derived defaults.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses a fixed environment map, for tests and embedding.
func LoadFrom(environment map[string]string) (Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if strings.TrimSpace(cfg.Profile) == "" {
		cfg.Profile = calibration.DefaultProfile
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".auramidi", "auramidi.db")
	}

	return cfg, nil
}

// HistoryEnabled reports whether sessions should be recorded.
func (c Config) HistoryEnabled() bool {
	return c.DBPath != DisabledDBPath
}

// ServerEnabled reports whether the status server should run.
func (c Config) ServerEnabled() bool {
	return c.HTTPAddr != ""
}
