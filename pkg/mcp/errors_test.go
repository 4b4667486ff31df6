package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "nil receiver", err: nil, want: "<nil>"},
		{name: "plain", err: &Error{Code: -32602, Message: "invalid params"}, want: "mcp error -32602: invalid params"},
		{
			name: "with data",
			err:  &Error{Code: -32000, Message: "boom", Data: json.RawMessage(`{"hint":"x"}`)},
			want: `mcp error -32000: boom ({"hint":"x"})`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertErrorWireError(t *testing.T) {
	wire := &jsonrpc.Error{Code: -32601, Message: "method not found"}
	converted := convertError(fmt.Errorf("call failed: %w", wire))

	var adapterErr *Error
	if !errors.As(converted, &adapterErr) {
		t.Fatalf("converted = %v, want *Error", converted)
	}
	if adapterErr.Code != -32601 || adapterErr.Message != "method not found" {
		t.Fatalf("adapterErr = %+v", adapterErr)
	}
}

func TestConvertErrorPassThrough(t *testing.T) {
	plain := errors.New("dial tcp: connection refused")
	if got := convertError(plain); got != plain {
		t.Fatalf("plain errors must pass through, got %v", got)
	}
	if got := convertError(nil); got != nil {
		t.Fatalf("nil must stay nil, got %v", got)
	}
}

func TestConvertErrorIdempotent(t *testing.T) {
	already := &Error{Code: 1, Message: "m"}
	if got := convertError(already); got != error(already) {
		t.Fatalf("already-converted errors must not be rewrapped, got %v", got)
	}
}
