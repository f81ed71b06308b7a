package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	genschema "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed coverlay.embedded.schema.json
var embeddedSchemaData []byte

var compiledSchema *jsonschema.Schema

func loadSchema() (*jsonschema.Schema, error) {
	if compiledSchema != nil {
		return compiledSchema, nil
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("coverlay.json", strings.NewReader(string(embeddedSchemaData))); err != nil {
		return nil, fmt.Errorf("failed to add embedded schema resource: %w", err)
	}

	schema, err := compiler.Compile("coverlay.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}

	compiledSchema = schema
	return schema, nil
}

// ValidateSchema validates a parsed config against the embedded JSON Schema.
func ValidateSchema(cfg *Config) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	// The schema validates plain JSON-like objects, so round-trip the
	// typed struct through encoding/json first.
	jsonData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config for validation: %w", err)
	}

	var dataToValidate interface{}
	if err := json.Unmarshal(jsonData, &dataToValidate); err != nil {
		return fmt.Errorf("failed to unmarshal config for validation: %w", err)
	}

	if err := schema.Validate(dataToValidate); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var messages []string
			collectSchemaErrors(validationErr, &messages)
			return fmt.Errorf("schema validation failed:\n%s", strings.Join(messages, "\n"))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// GenerateSchema reflects the Config struct into a JSON Schema document.
// Run via `go generate ./config` to refresh the embedded schema.
func GenerateSchema() ([]byte, error) {
	r := &genschema.Reflector{
		// Unknown top-level keys land in Extensions, so the schema must
		// tolerate them.
		AllowAdditionalProperties: true,
		// Expand struct references instead of using $ref.
		ExpandedStruct: true,
		// Use YAML field names for property names.
		FieldNameTag: "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "Coverlay Configuration"
	schema.Description = "Schema for coverlay.yml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}

func collectSchemaErrors(err *jsonschema.ValidationError, out *[]string) {
	if len(err.Causes) == 0 {
		location := strings.TrimPrefix(err.InstanceLocation, "/")
		if location == "" {
			location = "(root)"
		}
		*out = append(*out, fmt.Sprintf("  - %s: %s", location, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}
