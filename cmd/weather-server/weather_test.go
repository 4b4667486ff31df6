package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const forecastPayload = `{
	"location": {"name": "Beijing", "country": "China"},
	"forecast": {"forecastday": [
		{"date": "2026-08-24", "day": {"maxtemp_c": 31.2, "mintemp_c": 22.8, "condition": {"text": "Sunny"}}},
		{"date": "2026-08-25", "day": {"maxtemp_c": 27.5, "mintemp_c": 21.0, "condition": {"text": "Rain"}}}
	]}
}`

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("content blocks = %+v, want exactly one", result.Content)
	}
	tc, ok := result.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("content block = %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func TestValidateArgs(t *testing.T) {
	tests := []struct {
		name    string
		city    string
		days    int
		wantErr string
	}{
		{name: "valid", city: "beijing", days: 3},
		{name: "single day", city: "beijing", days: 1},
		{name: "max days", city: "beijing", days: 7},
		{name: "blank city", city: "   ", days: 3, wantErr: "city is required"},
		{name: "too few days", city: "beijing", days: 0, wantErr: "days must be between"},
		{name: "too many days", city: "beijing", days: 8, wantErr: "days must be between"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateArgs(tt.city, tt.days)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestHandleGetWeather(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"key":  r.URL.Query().Get("key"),
			"q":    r.URL.Query().Get("q"),
			"days": r.URL.Query().Get("days"),
		}
		if r.URL.Path != "/forecast.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(forecastPayload))
	}))
	defer srv.Close()

	weather := newWeatherClient("wk", srv.Client())
	weather.baseURL = srv.URL

	result, _, err := weather.handleGetWeather(context.Background(), nil, getWeatherArgs{City: "beijing"})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("result = %+v", result)
	}

	text := resultText(t, result)
	if !strings.HasPrefix(text, "Forecast for Beijing, China:") {
		t.Fatalf("text = %q", text)
	}
	if !strings.Contains(text, "2026-08-24: Sunny, 22.8°C to 31.2°C") {
		t.Fatalf("text = %q", text)
	}

	// Omitted days falls back to the default window.
	if gotQuery["key"] != "wk" || gotQuery["q"] != "beijing" || gotQuery["days"] != "3" {
		t.Fatalf("query = %v", gotQuery)
	}
}

func TestHandleGetWeatherValidationIsToolError(t *testing.T) {
	weather := newWeatherClient("wk", nil)
	weather.baseURL = "http://127.0.0.1:0" // must never be reached

	result, _, err := weather.handleGetWeather(context.Background(), nil, getWeatherArgs{Days: 3})
	if err != nil {
		t.Fatalf("validation failures must stay in-band: %v", err)
	}
	if !result.IsError {
		t.Fatalf("result = %+v, want isError", result)
	}
	if text := resultText(t, result); !strings.Contains(text, "city is required") {
		t.Fatalf("text = %q", text)
	}
}

func TestHandleGetWeatherRejectsOutOfRangeDays(t *testing.T) {
	weather := newWeatherClient("wk", nil)

	result, _, err := weather.handleGetWeather(context.Background(), nil, getWeatherArgs{City: "beijing", Days: 9})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), "days must be between") {
		t.Fatalf("result = %+v", result)
	}
}

func TestHandleGetWeatherUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"message": "No matching location found."}}`))
	}))
	defer srv.Close()

	weather := newWeatherClient("wk", srv.Client())
	weather.baseURL = srv.URL

	result, _, err := weather.handleGetWeather(context.Background(), nil, getWeatherArgs{City: "nowhereville"})
	if err != nil {
		t.Fatalf("upstream failures must stay in-band: %v", err)
	}
	if !result.IsError {
		t.Fatalf("result = %+v, want isError", result)
	}
	if text := resultText(t, result); !strings.Contains(text, "No matching location found.") {
		t.Fatalf("text = %q", text)
	}
}

func TestFormatForecastEmptyWindow(t *testing.T) {
	var payload forecastResponse
	payload.Location.Name = "Nowhere"
	payload.Location.Country = "Utopia"

	if got := formatForecast(payload); got != "Forecast for Nowhere, Utopia:" {
		t.Fatalf("formatted = %q", got)
	}
}
