package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

// Error is the normalized MCP failure surfaced to callers, mirroring the
// JSON-RPC error object on the wire.
type Error struct {
	Code    int64
	Message string
	Data    json.RawMessage
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Data) > 0 {
		return fmt.Sprintf("mcp error %d: %s (%s)", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("mcp error %d: %s", e.Code, e.Message)
}

// convertError maps SDK wire errors onto *Error and passes everything else
// through unchanged.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	var adapterErr *Error
	if errors.As(err, &adapterErr) {
		return adapterErr
	}
	var wireErr *jsonrpc.Error
	if errors.As(err, &wireErr) {
		return &Error{Code: wireErr.Code, Message: wireErr.Message, Data: wireErr.Data}
	}
	return err
}
