package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Profile selects a runtime endpoint and model.
type Profile struct {
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
	APIKey  string `json:"api_key,omitempty"`
}

// Config is the full option set, constructed once at startup and passed into
// every component constructor. Core packages never read the environment or
// the config file themselves.
type Config struct {
	Profiles      map[string]Profile `json:"profiles"`
	ActiveProfile string             `json:"active_profile"`

	TimeoutSeconds       int      `json:"timeout_seconds"`
	PreviewSizeThreshold int      `json:"preview_size_threshold"`
	CreateBackups        *bool    `json:"create_backups,omitempty"`
	ElevationPrefixes    []string `json:"elevation_prefixes,omitempty"`
	ExitKeywords         []string `json:"exit_keywords,omitempty"`
	ShowThoughts         bool     `json:"show_thoughts"`

	currentProfile *Profile
	modelOverride  string
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure config directory exists
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Load existing config or create default
	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.applyDefaults()

	// Validate and set current profile
	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// applyDefaults fills zero-valued safety options with the documented
// defaults.
func (c *Config) applyDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	if c.PreviewSizeThreshold <= 0 {
		c.PreviewSizeThreshold = 2000
	}
	if c.CreateBackups == nil {
		enabled := true
		c.CreateBackups = &enabled
	}
	if len(c.ElevationPrefixes) == 0 {
		c.ElevationPrefixes = []string{"sudo", "su"}
	}
	if len(c.ExitKeywords) == 0 {
		c.ExitKeywords = []string{"exit", "quit", "bye", "goodbye"}
	}
}

// SetModelOverride forces the model for this run without touching the saved
// profile (the --model flag).
func (c *Config) SetModelOverride(model string) {
	c.modelOverride = model
}

func (c *Config) GetModel() string {
	if c.modelOverride != "" {
		return c.modelOverride
	}
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.Model
}

// SetModel records the model on the active profile for the rest of the
// session (interactive selection).
func (c *Config) SetModel(model string) {
	if c.currentProfile != nil {
		c.currentProfile.Model = model
		profile := c.Profiles[c.ActiveProfile]
		profile.Model = model
		c.Profiles[c.ActiveProfile] = profile
	}
	c.modelOverride = model
}

func (c *Config) GetBaseURL() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.BaseURL
}

func (c *Config) GetAPIKey() string {
	if c.currentProfile == nil {
		return ""
	}
	return c.currentProfile.APIKey
}

// CommandTimeout is the wall-clock limit for one gated command.
func (c *Config) CommandTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BackupsEnabled reports the backup-before-overwrite policy.
func (c *Config) BackupsEnabled() bool {
	return c.CreateBackups == nil || *c.CreateBackups
}

// IsExitKeyword reports whether the input ends the chat session.
func (c *Config) IsExitKeyword(input string) bool {
	for _, kw := range c.ExitKeywords {
		if input == kw {
			return true
		}
	}
	return false
}

func getConfigPath() (string, error) {
	var configDir string

	// Use KUZCO_HOME if set, otherwise use user's home directory
	if kuzcoHome := os.Getenv("KUZCO_HOME"); kuzcoHome != "" {
		configDir = kuzcoHome
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".kuzco", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	// If config file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": {
				Model:   "",
				BaseURL: "",
			},
		},
		ActiveProfile: "default",
	}
	config.applyDefaults()

	// Save default config to file
	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return saveConfig(c, configPath)
}

func (c *Config) setCurrentProfile() error {
	if c.Profiles == nil {
		return fmt.Errorf("no profiles defined")
	}

	profile, exists := c.Profiles[c.ActiveProfile]
	if !exists {
		// If active profile doesn't exist, try to use the first available profile
		for name, p := range c.Profiles {
			c.ActiveProfile = name
			profile = p
			exists = true
			break
		}
	}

	if !exists {
		return fmt.Errorf("no valid profiles found")
	}

	c.currentProfile = &profile
	return nil
}
