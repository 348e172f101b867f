// Package telemetry manages anonymous, opt-in usage telemetry.
// Consent state lives in its own file so wiping the main config never
// re-prompts or re-identifies a user.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// ConfigFileName is the name of the telemetry configuration file.
const ConfigFileName = "telemetry.json"

// Config holds the telemetry state and user preferences.
// Stored at ~/.ganttwing/telemetry.json (separate from main config).
type Config struct {
	// Enabled indicates whether telemetry is currently enabled.
	Enabled bool `json:"enabled"`

	// ConsentAsked indicates whether the user has been prompted for consent.
	// Once true, we won't prompt again.
	ConsentAsked bool `json:"consent_asked"`

	// AnonymousID is a random UUID generated once on first load.
	// Not tied to any personally identifiable information.
	AnonymousID string `json:"anonymous_id"`
}

var (
	configDirOverride   string
	configDirOverrideMu sync.RWMutex
)

// SetConfigDir sets a custom config directory path (for testing).
// Pass empty string to reset to default behavior.
func SetConfigDir(dir string) {
	configDirOverrideMu.Lock()
	defer configDirOverrideMu.Unlock()
	configDirOverride = dir
}

func getConfigDir() (string, error) {
	configDirOverrideMu.RLock()
	override := configDirOverride
	configDirOverrideMu.RUnlock()

	if override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".ganttwing"), nil
}

// GetConfigPath returns the full path to the telemetry config file.
func GetConfigPath() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// Load reads the telemetry configuration from disk. A missing file yields
// defaults (disabled, consent not asked) with a fresh anonymous ID.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.AnonymousID = uuid.New().String()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.New().String()
	}
	return cfg, nil
}

// Save writes the telemetry configuration to disk with owner-only
// permissions, creating the directory if needed.
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Enable turns on telemetry and marks consent as given.
func (c *Config) Enable() {
	c.Enabled = true
	c.ConsentAsked = true
}

// Disable turns off telemetry and marks consent as given.
func (c *Config) Disable() {
	c.Enabled = false
	c.ConsentAsked = true
}

// NeedsConsent returns true if the user hasn't been asked about telemetry yet.
func (c *Config) NeedsConsent() bool {
	return !c.ConsentAsked
}

// IsEnabled returns true if telemetry is currently enabled.
func (c *Config) IsEnabled() bool {
	return c.Enabled
}
