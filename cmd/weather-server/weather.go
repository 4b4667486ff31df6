package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultForecastDays = 3
	maxForecastDays     = 7
	weatherBaseURL      = "https://api.weatherapi.com/v1"
)

type getWeatherArgs struct {
	City string `json:"city" jsonschema:"Name of the city to look up"`
	Days int    `json:"days,omitempty" jsonschema:"Forecast length in days, 1 to 7 (default 3)"`
}

type weatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newWeatherClient(apiKey string, client *http.Client) *weatherClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &weatherClient{apiKey: apiKey, baseURL: weatherBaseURL, client: client}
}

// handleGetWeather validates the arguments and performs the forecast
// lookup. Validation and upstream failures come back as isError tool
// results rather than protocol errors, so the client keeps its session.
func (w *weatherClient) handleGetWeather(ctx context.Context, req *mcpsdk.CallToolRequest, args getWeatherArgs) (*mcpsdk.CallToolResult, any, error) {
	days := args.Days
	if days == 0 {
		days = defaultForecastDays
	}
	if err := validateArgs(args.City, days); err != nil {
		return errorResult(err.Error()), nil, nil
	}

	forecast, err := w.forecast(ctx, args.City, days)
	if err != nil {
		return errorResult(fmt.Sprintf("weather lookup failed: %v", err)), nil, nil
	}
	return textResult(forecast), nil, nil
}

func validateArgs(city string, days int) error {
	if strings.TrimSpace(city) == "" {
		return fmt.Errorf("city is required")
	}
	if days < 1 || days > maxForecastDays {
		return fmt.Errorf("days must be between 1 and %d, got %d", maxForecastDays, days)
	}
	return nil
}

// forecastResponse covers the slice of the weatherapi.com payload we render.
type forecastResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC  float64 `json:"maxtemp_c"`
				MinTempC  float64 `json:"mintemp_c"`
				Condition struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (w *weatherClient) forecast(ctx context.Context, city string, days int) (string, error) {
	query := url.Values{}
	query.Set("key", w.apiKey)
	query.Set("q", city)
	query.Set("days", strconv.Itoa(days))
	endpoint := w.baseURL + "/forecast.json?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var payload forecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if payload.Error != nil {
		return "", fmt.Errorf("upstream: %s", payload.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	return formatForecast(payload), nil
}

func formatForecast(payload forecastResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Forecast for %s, %s:\n", payload.Location.Name, payload.Location.Country)
	for _, day := range payload.Forecast.ForecastDay {
		fmt.Fprintf(&b, "%s: %s, %.1f°C to %.1f°C\n",
			day.Date, day.Day.Condition.Text, day.Day.MinTempC, day.Day.MaxTempC)
	}
	return strings.TrimRight(b.String(), "\n")
}

func textResult(text string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcpsdk.CallToolResult {
	result := textResult(text)
	result.IsError = true
	return result
}
