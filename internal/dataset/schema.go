package dataset

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const overlaySchemaJSON = `{
	"type": "object",
	"required": ["ittosByProcessId"],
	"properties": {
		"ittosByProcessId": {"type": "object"}
	}
}`

const datasetSchemaJSON = `{
	"type": "object",
	"required": ["processGroups", "knowledgeAreas", "processes"],
	"properties": {
		"processGroups": {"type": "array", "items": {"type": "string"}},
		"knowledgeAreas": {"type": "array", "items": {"type": "string"}},
		"processes": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["id", "name", "processGroup", "knowledgeArea"],
				"properties": {
					"id": {"type": "string", "pattern": "^[0-9]+\\.[0-9]+$"},
					"name": {"type": "string"},
					"processGroup": {"type": "string"},
					"knowledgeArea": {"type": "string"}
				}
			}
		},
		"ittosByProcessId": {"type": "object"}
	}
}`

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// compiledSchema returns the cached schema for name, compiling def on
// first use.
func compiledSchema(name, def string) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	var parsed any
	if err := json.Unmarshal([]byte(def), &parsed); err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", name, err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", name, err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}

// validateDocument checks a decoded JSON value against the named schema.
func validateDocument(name, def string, doc any) error {
	s, err := compiledSchema(name, def)
	if err != nil {
		return err
	}
	return s.Validate(doc)
}
