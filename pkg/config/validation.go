package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema constrains the merged configuration before it is used.
const configSchema = `{
  "type": "object",
  "required": ["api", "server"],
  "properties": {
    "api": {
      "type": "object",
      "required": ["base_url"],
      "properties": {
        "base_url": {"type": "string", "minLength": 1, "pattern": "^https?://"}
      }
    },
    "server": {
      "type": "object",
      "required": ["addr"],
      "properties": {
        "addr": {"type": "string", "minLength": 2}
      }
    },
    "ui": {
      "type": "object",
      "properties": {
        "page_size": {"type": "integer", "enum": [5, 10, 20, 50]},
        "resolver_limit": {"type": "integer", "minimum": 1}
      }
    },
    "tables": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "endpoint"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "endpoint": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("config.json", strings.NewReader(configSchema)); err != nil {
			schemaErr = fmt.Errorf("config: load schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("config.json")
	})
	return compiledSchema, schemaErr
}

// Validate checks the configuration against the schema. Durations are
// normalized through the JSON round trip, so the schema sees plain numbers.
func Validate(cfg Config) error {
	s, err := schema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal for validation: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("config: normalize for validation: %w", err)
	}
	if err := s.Validate(payload); err != nil {
		return fmt.Errorf("config: configuration failed validation: %w", err)
	}
	return nil
}
