package guidance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/careerpilot/careerpilot/internal/llm"
)

var (
	compiledMu sync.Mutex
	compiled   = map[string]*jsonschema.Schema{}
)

// conform checks a decoded JSON document against schema.
func conform(schema *llm.Schema, doc any) error {
	s, err := compiledSchema(schema)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("reply does not match %s schema: %w", schema.Name, err)
	}
	return nil
}

// compiledSchema compiles schema on first use. Schemas are keyed by name.
func compiledSchema(schema *llm.Schema) (*jsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[schema.Name]; ok {
		return s, nil
	}

	// Definitions are Go literals; the compiler only accepts values as
	// produced by jsonschema.UnmarshalJSON.
	raw, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	url := "mem://careerpilot/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, err
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled[schema.Name] = s
	return s, nil
}
