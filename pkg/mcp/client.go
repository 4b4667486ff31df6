// Package mcp wraps the official MCP SDK client behind the narrow surface
// the chat loop needs: connect, list tools, call tool, close.
package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// transportBuilder is overridden in tests to stub the transport factory.
var transportBuilder = buildTransport

// Client owns one connected MCP session and its spawned server process.
type Client struct {
	impl    *mcpsdk.Client
	session *mcpsdk.ClientSession
	cfg     ServerConfig
	logger  zerolog.Logger
}

// NewClient constructs an unconnected client for the given server config.
func NewClient(cfg ServerConfig, logger zerolog.Logger) *Client {
	impl := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "mcpchat", Version: "0.1.0"}, nil)
	return &Client{impl: impl, cfg: cfg, logger: logger}
}

// Name returns the manifest name of the configured server.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Connect builds the transport (spawning the child process for stdio
// servers) and performs the MCP initialize handshake. Any failure here is a
// transport error and fatal for the session being assembled.
func (c *Client) Connect(ctx context.Context) error {
	if c.session != nil {
		return nil
	}
	transport, err := transportBuilder(ctx, c.cfg)
	if err != nil {
		return fmt.Errorf("build transport: %w", err)
	}
	session, err := c.impl.Connect(ctx, transport, nil)
	if err != nil {
		return convertError(err)
	}
	c.session = session
	c.logger.Debug().Str("server", c.cfg.Name).Msg("mcp session established")
	return nil
}

// ListTools fetches the full advertised tool list, in server order.
func (c *Client) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	if c.session == nil {
		return nil, fmt.Errorf("mcp client %s: not connected", c.cfg.Name)
	}
	seq := c.session.Tools(ctx, nil)
	var tools []ToolDescriptor
	for tool, err := range seq {
		if err != nil {
			return nil, convertError(err)
		}
		tools = append(tools, toToolDescriptor(tool))
	}
	return tools, nil
}

// CallTool sends one tools/call request and awaits its single reply.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (*ToolCallResult, error) {
	if c.session == nil {
		return nil, fmt.Errorf("mcp client %s: not connected", c.cfg.Name)
	}
	params := &mcpsdk.CallToolParams{Name: name, Arguments: args}
	result, err := c.session.CallTool(ctx, params)
	if err != nil {
		return nil, convertError(err)
	}
	return toToolCallResult(result), nil
}

// Close shuts down the underlying session, if any. The SDK tears down the
// child process with the transport.
func (c *Client) Close() error {
	if c == nil || c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}
