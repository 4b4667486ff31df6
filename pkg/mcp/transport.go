package mcp

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"sort"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerConfig describes how to reach one MCP server. Stdio servers are
// spawned as child processes from Command/Args with Env appended to the
// inherited environment; remote servers are addressed by URL instead.
type ServerConfig struct {
	Name      string            `json:"-"`
	Command   string            `json:"command,omitempty"`
	Args      []string          `json:"args,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	URL       string            `json:"url,omitempty"`
	Transport string            `json:"transport,omitempty"` // "sse" forces SSE for URL servers
}

// Validate checks that the config names exactly one transport.
func (c ServerConfig) Validate() error {
	hasCommand := strings.TrimSpace(c.Command) != ""
	hasURL := strings.TrimSpace(c.URL) != ""
	switch {
	case hasCommand && hasURL:
		return fmt.Errorf("mcp server %s: command and url are mutually exclusive", c.Name)
	case !hasCommand && !hasURL:
		return fmt.Errorf("mcp server %s: either command or url is required", c.Name)
	}
	if c.Transport != "" && c.Transport != "sse" && c.Transport != "http" {
		return fmt.Errorf("mcp server %s: unsupported transport %q", c.Name, c.Transport)
	}
	return nil
}

func buildTransport(ctx context.Context, cfg ServerConfig) (mcpsdk.Transport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.URL != "" {
		endpoint, err := normalizeHTTPURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("mcp server %s: invalid endpoint: %w", cfg.Name, err)
		}
		if cfg.Transport == "sse" {
			return &mcpsdk.SSEClientTransport{Endpoint: endpoint}, nil
		}
		return &mcpsdk.StreamableClientTransport{Endpoint: endpoint}, nil
	}
	return buildCommandTransport(ctx, cfg), nil
}

func buildCommandTransport(ctx context.Context, cfg ServerConfig) mcpsdk.Transport {
	// #nosec G204 -- the command originates from the operator's server
	// manifest, not from model or user input.
	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Env = mergedEnv(cfg.Env)
	cmd.Stderr = os.Stderr
	return &mcpsdk.CommandTransport{Command: cmd}
}

// mergedEnv layers the manifest variables over the inherited environment so a
// spawned server sees both PATH and its own API keys.
func mergedEnv(extra map[string]string) []string {
	if len(extra) == 0 {
		return nil // nil keeps exec's default of os.Environ()
	}
	env := os.Environ()
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

func normalizeHTTPURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("endpoint is empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("missing host")
	}
	parsed.Scheme = scheme
	return parsed.String(), nil
}
