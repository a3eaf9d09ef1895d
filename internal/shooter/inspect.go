package shooter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// Inspector looks into response bodies: it extracts one value with a gjson
// path and validates the body against a JSON schema. Both are optional.
// An Inspector is safe for concurrent use.
type Inspector struct {
	extract string
	schema  *jsonschema.Schema
}

// NewInspector compiles schema (may be empty) and normalises extractPath.
// extractPath accepts gjson syntax ("users.0.name") as well as simple
// JSONPath ("$.users[0].name").
func NewInspector(extractPath, schema string) (*Inspector, error) {
	in := &Inspector{extract: toGjsonPath(extractPath)}

	if schema != "" {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", strings.NewReader(schema)); err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
		compiled, err := compiler.Compile("schema.json")
		if err != nil {
			return nil, fmt.Errorf("invalid schema: %w", err)
		}
		in.schema = compiled
	}

	return in, nil
}

// Extract returns the value at the extract path, or "" when no path is set
// or the body has no such value.
func (in *Inspector) Extract(body []byte) string {
	if in == nil || in.extract == "" {
		return ""
	}
	result := gjson.GetBytes(body, in.extract)
	if !result.Exists() {
		return ""
	}
	return result.String()
}

// Validate checks body against the schema. A body that is not JSON fails.
func (in *Inspector) Validate(body []byte) error {
	if in == nil || in.schema == nil {
		return nil
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}
	if err := in.schema.Validate(doc); err != nil {
		return fmt.Errorf("schema mismatch: %w", err)
	}
	return nil
}

// toGjsonPath converts "$.users[0].name" to "users.0.name".
func toGjsonPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "$" {
		return "@this"
	}
	if !strings.HasPrefix(path, "$") {
		return path
	}

	path = strings.TrimPrefix(path, "$")
	path = strings.TrimPrefix(path, ".")
	path = strings.NewReplacer(`['`, ".", `']`, "", `["`, ".", `"]`, "", "[", ".", "]", "").Replace(path)
	return strings.TrimPrefix(path, ".")
}
