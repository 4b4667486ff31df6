// Command weather-server is an MCP stdio server exposing a single
// get-weather tool backed by the weatherapi.com forecast endpoint. It is
// spawned as a child process by mcpchat; WEATHER_API_KEY must be present in
// its environment.
package main

import (
	"context"
	"fmt"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "configuration error: WEATHER_API_KEY is not set")
		os.Exit(1)
	}

	weather := newWeatherClient(apiKey, nil)

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "weather", Version: "0.1.0"}, nil)
	mcpsdk.AddTool(server, &mcpsdk.Tool{
		Name:        "get-weather",
		Description: "Get the weather forecast for a city.",
	}, weather.handleGetWeather)

	if err := server.Run(context.Background(), &mcpsdk.StdioTransport{}); err != nil {
		fmt.Fprintf(os.Stderr, "weather-server: %v\n", err)
		os.Exit(1)
	}
}
