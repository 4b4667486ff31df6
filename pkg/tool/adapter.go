// Package tool adapts remotely-advertised MCP tools into the calling
// convention the chat model expects and dispatches invocations back.
package tool

import (
	"github.com/cexll/mcpchat/pkg/mcp"
	"github.com/cexll/mcpchat/pkg/model"
)

// Adapt converts advertised tool descriptors into model-facing specs. It is
// a pure transform: output order matches input order, a missing description
// stays empty, and duplicate names are kept exactly as advertised.
func Adapt(descriptors []mcp.ToolDescriptor) []model.ToolSpec {
	if len(descriptors) == 0 {
		return nil
	}
	specs := make([]model.ToolSpec, 0, len(descriptors))
	for _, desc := range descriptors {
		specs = append(specs, model.ToolSpec{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.Schema,
		})
	}
	return specs
}
