// Package schema validates metadata records against the embedded JSON schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/fulmenhq/coursekit/internal/assets"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Path    string `json:"path,omitempty"` // Single string path (e.g., "notebooks.0")
	Message string `json:"message"`
}

// Result holds the validation result.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// registry holds pre-compiled schemas keyed by schema name.
var registry = make(map[string]*gojsonschema.Schema)

func init() {
	for _, info := range assets.GetSchemaNames() {
		schemaBytes, ok := assets.GetSchema(info.Path)
		if !ok || len(schemaBytes) == 0 {
			continue
		}
		schema, err := compile(schemaBytes)
		if err != nil {
			continue
		}
		registry[info.Name] = schema
	}
}

// compile converts a YAML schema to JSON for gojsonschema.
func compile(schemaBytes []byte) (*gojsonschema.Schema, error) {
	var schemaData interface{}
	if err := yaml.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, err
	}
	jsonBytes, err := json.Marshal(schemaData)
	if err != nil {
		return nil, err
	}
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
}

// Names returns the registered schema names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate validates data (interface{}) against the named schema.
func Validate(data interface{}, schemaName string) (*Result, error) {
	schema, ok := registry[schemaName]
	if !ok {
		return nil, fmt.Errorf("schema %s not found in registry", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	res := &Result{Valid: result.Valid()}
	if !result.Valid() {
		for _, verr := range result.Errors() {
			field := verr.Field()
			if field == "" || field == "(root)" {
				field = "root"
			}
			res.Errors = append(res.Errors, ValidationError{
				Path:    field,
				Message: verr.Description(),
			})
		}
	}
	return res, nil
}

// ValidateYAML parses a YAML document and validates it against the named schema.
// A document that is not YAML at all yields an invalid result rather than an error.
func ValidateYAML(doc []byte, schemaName string) (*Result, error) {
	var data interface{}
	if err := yaml.Unmarshal(doc, &data); err != nil {
		return &Result{Valid: false, Errors: []ValidationError{{Path: "root", Message: "invalid YAML: " + err.Error()}}}, nil
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	return Validate(data, schemaName)
}
