package descriptor

import (
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Draft-07 schema for the legacy descriptor. All fields are optional; the
// defaulting rules in Load produce a fully-populated Descriptor afterwards.
const descriptorSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "version": { "type": "string" },
    "type": { "type": "string" },
    "layer": { "type": "string", "enum": ["foundation", "runtime", "dev"] },
    "dev": { "type": "boolean" },
    "requirements": {
      "type": ["array", "null"],
      "items": { "type": "string" }
    }
  },
  "additionalProperties": true
}`

var (
	compiledSchema *gojsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

func schema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		loader := gojsonschema.NewStringLoader(descriptorSchema)
		compiledSchema, compileErr = gojsonschema.NewSchema(loader)
	})
	return compiledSchema, compileErr
}

// validate checks a decoded descriptor document against the schema.
func validate(doc map[string]interface{}) error {
	sch, err := schema()
	if err != nil {
		return fmt.Errorf("failed to compile descriptor schema: %w", err)
	}
	result, err := sch.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("invalid descriptor: %s: %s", first.Field(), first.Description())
	}
	return nil
}
