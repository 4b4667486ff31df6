package tool

import "encoding/json"

// JSONSchema captures the subset of JSON Schema checked locally before
// dispatch: required fields and primitive property types. Everything beyond
// the subset (enums, bounds, nested schemas) is deferred to the tool server,
// which validates authoritatively.
type JSONSchema struct {
	Type       string                     `json:"type"`
	Properties map[string]json.RawMessage `json:"properties"`
	Required   []string                   `json:"required"`
}

// ParseSchema decodes an advertised raw schema into the local subset. A
// schema the subset cannot represent decodes to whatever fields match;
// undecodable input yields nil, which disables local checks for that tool.
func ParseSchema(raw json.RawMessage) *JSONSchema {
	if len(raw) == 0 {
		return nil
	}
	var schema JSONSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil
	}
	return &schema
}

func (s *JSONSchema) propertyType(name string) string {
	if s == nil {
		return ""
	}
	raw, ok := s.Properties[name]
	if !ok {
		return ""
	}
	var def struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &def); err != nil {
		return ""
	}
	return def.Type
}
