// Package config handles configuration for the CLI client, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the FerreAdmin CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP API.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - LocalDBPath: path of the SQLite cache database.
//   - TokenFile: path where the session refresh token is persisted (mode 0600).
//   - WeatherBaseURL: Open-Meteo endpoint for the weather screen.
//   - WeatherLatitude / WeatherLongitude: coordinates of the business.
//   - GenAIBaseURL / GenAIAPIKey: generative language API settings for the
//     assistant chat. An empty key disables the chat screen.
type Config struct {
	ServerBaseURL       string
	OnlineCheckInterval time.Duration
	LocalDBPath         string
	TokenFile           string
	WeatherBaseURL      string
	WeatherLatitude     float64
	WeatherLongitude    float64
	GenAIBaseURL        string
	GenAIAPIKey         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.OnlineCheckInterval = 3 * time.Second
	c.LocalDBPath = "ferreadmin.db"
	c.TokenFile = ".ferreadmin_session"
	c.WeatherBaseURL = "https://api.open-meteo.com"
	c.WeatherLatitude = 9.3547
	c.WeatherLongitude = -70.0458
	c.GenAIBaseURL = "https://generativelanguage.googleapis.com"
	c.GenAIAPIKey = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
