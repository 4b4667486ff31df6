// Package session holds the per-process MCP state: the connected clients
// and the tool registry fetched from them at startup.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cexll/mcpchat/pkg/mcp"
)

// client is the surface of *mcp.Client the session depends on.
type client interface {
	Connect(ctx context.Context) error
	ListTools(ctx context.Context) ([]mcp.ToolDescriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (*mcp.ToolCallResult, error)
	Close() error
	Name() string
}

// newClient is overridden in tests to stub the transport layer.
var newClient = func(cfg mcp.ServerConfig, logger zerolog.Logger) client {
	return mcp.NewClient(cfg, logger)
}

// Session bundles the active tool registry with the transport handles behind
// it. Exactly one Session exists per process; it is created once the
// transports connect and the registry is fetched, and destroyed at exit.
// Queries run strictly sequentially, so no locking is needed.
type Session struct {
	clients []client
	tools   []mcp.ToolDescriptor
	routes  map[string]client
	logger  zerolog.Logger
}

// Connect spawns and initializes every configured server, then fetches and
// merges their tool registries in manifest order. Any connect or list
// failure aborts the whole session; already-connected clients are closed.
func Connect(ctx context.Context, configs []mcp.ServerConfig, logger zerolog.Logger) (*Session, error) {
	if len(configs) == 0 {
		return nil, errors.New("session: no mcp servers configured")
	}

	s := &Session{routes: make(map[string]client), logger: logger}
	for _, cfg := range configs {
		client := newClient(cfg, logger)
		if err := client.Connect(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("connect %s: %w", cfg.Name, err)
		}
		s.clients = append(s.clients, client)

		tools, err := client.ListTools(ctx)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("list tools from %s: %w", cfg.Name, err)
		}
		for _, tool := range tools {
			// Duplicate names are kept in the registry as advertised;
			// dispatch routes to the first server that claimed the name.
			if _, taken := s.routes[tool.Name]; !taken {
				s.routes[tool.Name] = client
			} else {
				logger.Warn().Str("tool", tool.Name).Str("server", cfg.Name).
					Msg("duplicate tool name, earlier server wins dispatch")
			}
			s.tools = append(s.tools, tool)
		}
		logger.Info().Str("server", cfg.Name).Int("tools", len(tools)).Msg("mcp server connected")
	}
	return s, nil
}

// Tools returns the merged registry snapshot, in server/advertisement order.
func (s *Session) Tools() []mcp.ToolDescriptor {
	out := make([]mcp.ToolDescriptor, len(s.tools))
	copy(out, s.tools)
	return out
}

// CallTool dispatches one invocation to the server that advertised name.
func (s *Session) CallTool(ctx context.Context, name string, args map[string]any) (*mcp.ToolCallResult, error) {
	client, ok := s.routes[name]
	if !ok {
		return nil, fmt.Errorf("session: tool %s is not advertised by any server", name)
	}
	return client.CallTool(ctx, name, args)
}

// Close tears down every transport, joining the individual errors.
func (s *Session) Close() error {
	var errs []error
	for _, client := range s.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", client.Name(), err))
		}
	}
	s.clients = nil
	return errors.Join(errs...)
}
