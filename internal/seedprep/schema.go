package seedprep

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// seedSchemaDef is the JSON Schema every prepared seed must satisfy.
// The four fields are all-or-nothing: a response missing any of them is
// an invalid structured response, not a degraded one.
var seedSchemaDef = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"problem":    map[string]any{"type": "string", "minLength": 1},
		"solution":   map[string]any{"type": "string", "minLength": 1},
		"difficulty": map[string]any{"type": "string"},
		"topic":      map[string]any{"type": "string", "minLength": 1},
	},
	"required": []any{"problem", "solution", "difficulty", "topic"},
}

var (
	seedSchemaOnce sync.Once
	seedSchema     *jsonschema.Schema
	seedSchemaErr  error
)

// compiledSeedSchema compiles the seed schema once and caches it.
func compiledSeedSchema() (*jsonschema.Schema, error) {
	seedSchemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not
		// raw bytes. Marshal then unmarshal for a clean representation.
		defBytes, err := json.Marshal(seedSchemaDef)
		if err != nil {
			seedSchemaErr = fmt.Errorf("marshal seed schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(defBytes, &parsed); err != nil {
			seedSchemaErr = fmt.Errorf("parse seed schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://seed-problem.json"
		if err := c.AddResource(url, parsed); err != nil {
			seedSchemaErr = fmt.Errorf("add seed schema resource: %w", err)
			return
		}
		seedSchema, seedSchemaErr = c.Compile(url)
	})
	return seedSchema, seedSchemaErr
}

// validateSeedJSON checks raw seed JSON against the schema.
func validateSeedJSON(raw json.RawMessage) error {
	schema, err := compiledSeedSchema()
	if err != nil {
		return err
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parse seed JSON: %w", err)
	}

	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("seed schema validation failed: %w", err)
	}
	return nil
}
