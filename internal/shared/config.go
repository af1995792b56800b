package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Review      ReviewConfig      `toml:"review"`
}

// CredentialsConfig contains provider-specific credentials.
type CredentialsConfig struct {
	Instagram InstagramConfig `toml:"instagram"`
}

// InstagramConfig contains Instagram app credentials and the public base URL
// used to build the OAuth redirect URI.
type InstagramConfig struct {
	AppID     string `toml:"app_id"`
	AppSecret string `toml:"app_secret"`
	BaseURL   string `toml:"base_url"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string `toml:"host"`
	Port              int    `toml:"port"`
	SessionSecret     string `toml:"session_secret"`
	SessionTTLMinutes int    `toml:"session_ttl_minutes"`
}

// ReviewConfig contains the optional basic-auth credentials gating the demo.
// The gate is disabled when either value is empty.
type ReviewConfig struct {
	User string `toml:"user"`
	Pass string `toml:"pass"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, os.ErrExist)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides config values with their environment variable counterparts
// when those are set. File values survive unset variables.
func (c *Config) ApplyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Credentials.Instagram.AppID, "IG_APP_ID")
	setString(&c.Credentials.Instagram.AppSecret, "IG_APP_SECRET")
	setString(&c.Credentials.Instagram.BaseURL, "BASE_URL")
	setString(&c.Server.SessionSecret, "SESSION_SECRET")
	setString(&c.Review.User, "REVIEW_USER")
	setString(&c.Review.Pass, "REVIEW_PASS")

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// MissingCredentials returns the names of required credential values that are
// unset or still carry the example placeholder. Callers warn rather than fail:
// the app stays up so the home page can explain what is missing.
func (c *Config) MissingCredentials() []string {
	var missing []string

	placeholders := map[string]string{
		"IG_APP_ID":      "your_instagram_app_id",
		"IG_APP_SECRET":  "your_instagram_app_secret",
		"BASE_URL":       "",
		"SESSION_SECRET": "",
	}
	values := map[string]string{
		"IG_APP_ID":      c.Credentials.Instagram.AppID,
		"IG_APP_SECRET":  c.Credentials.Instagram.AppSecret,
		"BASE_URL":       c.Credentials.Instagram.BaseURL,
		"SESSION_SECRET": c.Server.SessionSecret,
	}

	for _, key := range []string{"IG_APP_ID", "IG_APP_SECRET", "BASE_URL", "SESSION_SECRET"} {
		if values[key] == "" || values[key] == placeholders[key] {
			missing = append(missing, key)
		}
	}

	return missing
}
