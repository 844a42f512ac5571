package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/mjaramillo/weather-alert-api/internal/weather"
)

var errCircuitOpen = errors.New("circuit breaker open")

// WeatherAPIProvider implements the weather.Provider interface for
// WeatherAPI.com's forecast endpoint.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	days    int
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// NewWeatherAPIProvider creates a provider backed by WeatherAPI.com.
// The circuit breaker fails fast after repeated provider failures; individual
// requests are never retried.
func NewWeatherAPIProvider(client *http.Client, apiKey, baseURL string, days int) *WeatherAPIProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if baseURL == "" {
		baseURL = "https://api.weatherapi.com/v1/forecast.json"
	}
	if days <= 0 {
		days = 2
	}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		days:    days,
		client:  client,
		circuit: cb,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// Fetch retrieves current conditions for the coordinate pair. The adverse
// flag on the returned forecast is left unset for the caller to classify.
func (p *WeatherAPIProvider) Fetch(ctx context.Context, lat, lon float64) (weather.Forecast, error) {
	if p.apiKey == "" {
		return weather.Forecast{}, fmt.Errorf("weatherapi api key is not configured")
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", fmt.Sprintf("%f,%f", lat, lon))
	values.Set("days", fmt.Sprintf("%d", p.days))
	values.Set("aqi", "no")
	values.Set("alerts", "no")

	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return weather.Forecast{}, err
	}

	result, err := p.circuit.Execute(func() (interface{}, error) {
		resp, execErr := p.client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return weather.Forecast{}, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return weather.Forecast{}, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return weather.Forecast{}, fmt.Errorf("unexpected result type from circuit breaker")
	}
	defer resp.Body.Close()

	var payload struct {
		Location struct {
			Name    string `json:"name"`
			Country string `json:"country"`
		} `json:"location"`
		Current struct {
			TempC     float64  `json:"temp_c"`
			Humidity  *int     `json:"humidity"`
			WindKph   *float64 `json:"wind_kph"`
			Condition struct {
				Text string `json:"text"`
				Code int    `json:"code"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Forecast{}, fmt.Errorf("decode weatherapi response: %w", err)
	}

	return weather.Forecast{
		Location:      fmt.Sprintf("%s, %s", payload.Location.Name, payload.Location.Country),
		Latitude:      lat,
		Longitude:     lon,
		TemperatureC:  payload.Current.TempC,
		Condition:     payload.Current.Condition.Text,
		ConditionCode: payload.Current.Condition.Code,
		ForecastDate:  time.Now().UTC(),
		Humidity:      payload.Current.Humidity,
		WindKph:       payload.Current.WindKph,
	}, nil
}
