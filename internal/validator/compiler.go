// Package validator provides interfaces and types for JSON Schema validation
// of wsa documents such as the workspace configuration file.
package validator

// A JSONDocument is a parsed JSON document, as produced by UnmarshalJSON.
type JSONDocument interface{}

// Validator validates parsed JSON documents against a compiled schema.
type Validator interface {
	// Validate validates JSON document.
	Validate(v JSONDocument) error
}

// Compiler compiles JSON Schemas into Validators. A schema must be added
// before it can be compiled.
type Compiler interface {
	// AddSchema registers a raw JSON Schema under id.
	AddSchema(id string, schemaJSON []byte) error

	// Compile creates a Validator from the schema previously added with the given ID.
	Compile(id string) (Validator, error)
}
