// Package weather fetches the hourly temperature series for the current day
// from the Open-Meteo forecast endpoint.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.open-meteo.com"

// HourlyReading is one row of the weather table.
type HourlyReading struct {
	Hora        time.Time
	Temperatura float64
}

// Locator yields a one-shot position. The automatic mode of the weather
// screen plugs a geolocation source in here; manual mode wraps typed-in
// coordinates.
type Locator interface {
	CurrentPosition(ctx context.Context) (lat, lon float64, err error)
}

// FixedLocation is a Locator for manually entered coordinates.
type FixedLocation struct {
	Lat, Lon float64
}

func (f FixedLocation) CurrentPosition(ctx context.Context) (float64, float64, error) {
	return f.Lat, f.Lon, nil
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type forecastResponse struct {
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature2M []float64 `json:"temperature_2m"`
	} `json:"hourly"`
}

// HourlyForecast returns today's hourly time/temperature series for the
// given coordinates.
func (c *Client) HourlyForecast(ctx context.Context, lat, lon float64) ([]HourlyReading, error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%v&longitude=%v&hourly=temperature_2m&forecast_days=1&timezone=auto",
		c.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error al obtener los datos del clima: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error al obtener los datos del clima: status %d", resp.StatusCode)
	}

	var data forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	if len(data.Hourly.Time) != len(data.Hourly.Temperature2M) {
		return nil, fmt.Errorf("forecast series length mismatch: %d times, %d temperatures",
			len(data.Hourly.Time), len(data.Hourly.Temperature2M))
	}

	readings := make([]HourlyReading, 0, len(data.Hourly.Time))
	for i, ts := range data.Hourly.Time {
		// Open-Meteo emits local times without a zone suffix.
		hora, err := time.Parse("2006-01-02T15:04", ts)
		if err != nil {
			return nil, fmt.Errorf("parse forecast time %q: %w", ts, err)
		}
		readings = append(readings, HourlyReading{Hora: hora, Temperatura: data.Hourly.Temperature2M[i]})
	}
	return readings, nil
}
