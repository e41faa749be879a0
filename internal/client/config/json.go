package config

import (
	"encoding/json"
	"os"
	"time"

	"ferreadmin/internal/flagx"
	"ferreadmin/internal/timex"
)

// JsonConfig is the JSON-file form of Config. Interval fields use
// timex.Duration so both "3s" and integer nanoseconds parse.
type JsonConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LocalDBPath         string         `json:"local_db_path"`
	TokenFile           string         `json:"token_file"`
	WeatherBaseURL      string         `json:"weather_base_url"`
	WeatherLatitude     float64        `json:"weather_latitude"`
	WeatherLongitude    float64        `json:"weather_longitude"`
	GenAIBaseURL        string         `json:"genai_base_url"`
	GenAIAPIKey         string         `json:"genai_api_key"`
}

// parseJson overlays values from the JSON file named by the -c/-config flags,
// if any. A missing flag means nothing is loaded; an unreadable or invalid
// file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ServerBaseURL = c.ServerBaseURL
	config.OnlineCheckInterval = time.Duration(c.OnlineCheckInterval.Duration)
	config.LocalDBPath = c.LocalDBPath
	config.TokenFile = c.TokenFile
	config.WeatherBaseURL = c.WeatherBaseURL
	config.WeatherLatitude = c.WeatherLatitude
	config.WeatherLongitude = c.WeatherLongitude
	config.GenAIBaseURL = c.GenAIBaseURL
	config.GenAIAPIKey = c.GenAIAPIKey
}
