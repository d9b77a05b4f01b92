// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 cifkit Contributors

package cifconfig

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	jschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// schemaState holds the compiled schema and a sync.Once for
// thread-safe lazy compilation.
type schemaState struct {
	once   sync.Once
	schema *jschema.Schema
	err    error
}

var globalSchemaState = &schemaState{}

// ConfigSchema generates a JSON Schema document describing Config, so
// an embedding application can validate a config file before Load
// applies it (catching e.g. a `validation_mode: "strik"` typo with a
// precise schema error instead of a silent zero-value fallback).
func ConfigSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	schema := r.Reflect(&Config{})
	schema.ID = "https://cifkit.dev/schemas/cifconfig.schema.json"
	schema.Title = "cif toolkit configuration"
	schema.Description = "Schema for an embedding application's cifconfig YAML file"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cifconfig: marshalling schema: %w", err)
	}
	data = append(data, '\n')
	return data, nil
}

// ValidateConfigDocument validates a config document (already decoded
// into JSON-compatible generic types, e.g. via yaml.Unmarshal into
// `any`) against ConfigSchema.
func ValidateConfigDocument(document any) error {
	sch, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("cifconfig: compiling schema: %w", err)
	}
	if err := sch.Validate(document); err != nil {
		return fmt.Errorf("cifconfig: config document failed schema validation: %w", err)
	}
	return nil
}

func getCompiledSchema() (*jschema.Schema, error) {
	globalSchemaState.once.Do(func() {
		globalSchemaState.schema, globalSchemaState.err = compileSchema()
	})
	return globalSchemaState.schema, globalSchemaState.err
}

func compileSchema() (*jschema.Schema, error) {
	schemaBytes, err := ConfigSchema()
	if err != nil {
		return nil, err
	}

	var schemaData any
	if err := json.Unmarshal(schemaBytes, &schemaData); err != nil {
		return nil, fmt.Errorf("cifconfig: parsing generated schema: %w", err)
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("cifconfig.json", schemaData); err != nil {
		return nil, fmt.Errorf("cifconfig: adding schema resource: %w", err)
	}

	sch, err := c.Compile("cifconfig.json")
	if err != nil {
		return nil, fmt.Errorf("cifconfig: compiling schema: %w", err)
	}
	return sch, nil
}
