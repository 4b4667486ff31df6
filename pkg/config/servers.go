package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/cexll/mcpchat/pkg/mcp"
)

// serverManifest mirrors the on-disk layout shared with other MCP hosts:
//
//	{"mcpServers": {"weather": {"command": "...", "args": [...], "env": {...}}}}
type serverManifest struct {
	Servers map[string]mcp.ServerConfig `json:"mcpServers"`
}

// LoadServers reads and validates the server manifest at path.
func LoadServers(path string) ([]mcp.ServerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read server manifest: %w", err)
	}
	return DecodeServers(data)
}

// DecodeServers parses a raw JSON manifest into server configs, ordered by
// name so registry order is stable across runs.
func DecodeServers(data []byte) ([]mcp.ServerConfig, error) {
	if len(data) == 0 {
		return nil, errors.New("server manifest is empty")
	}
	var manifest serverManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("decode server manifest: %w", err)
	}
	if len(manifest.Servers) == 0 {
		return nil, errors.New("server manifest defines no servers")
	}

	names := make([]string, 0, len(manifest.Servers))
	for name := range manifest.Servers {
		names = append(names, name)
	}
	sort.Strings(names)

	servers := make([]mcp.ServerConfig, 0, len(names))
	for _, name := range names {
		cfg := manifest.Servers[name]
		cfg.Name = name
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		servers = append(servers, cfg)
	}
	return servers, nil
}

// DefaultServers spawns only the bundled weather server, passing the weather
// API key through the child environment when it is set.
func DefaultServers() []mcp.ServerConfig {
	cfg := mcp.ServerConfig{
		Name:    "weather",
		Command: BundledWeatherServerCommand(),
	}
	if key := os.Getenv("WEATHER_API_KEY"); key != "" {
		cfg.Env = map[string]string{"WEATHER_API_KEY": key}
	}
	return []mcp.ServerConfig{cfg}
}
