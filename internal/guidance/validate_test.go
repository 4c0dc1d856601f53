package guidance

import (
	"encoding/json"
	"testing"

	"github.com/careerpilot/careerpilot/internal/llm"
)

func testSchema() *llm.Schema {
	return &llm.Schema{
		Name:        "test-skill",
		Description: "A test skill object",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"level": map[string]any{"type": "integer", "minimum": 0},
				"track": map[string]any{"type": "string", "enum": []any{"software", "hardware"}},
			},
			"required": []any{"name", "level"},
		},
	}
}

func mustDecode(t *testing.T, raw string) any {
	t.Helper()
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	return doc
}

func TestConform(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"name":"Go","level":3,"track":"software"}`, false},
		{"without optional", `{"name":"Go","level":3}`, false},
		{"missing required", `{"name":"Go"}`, true},
		{"wrong type", `{"name":"Go","level":"three"}`, true},
		{"below minimum", `{"name":"Go","level":-1}`, true},
		{"invalid enum", `{"name":"Go","level":1,"track":"design"}`, true},
		{"array instead of object", `[{"name":"Go","level":1}]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := conform(testSchema(), mustDecode(t, tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("conform() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCompiledSchema_Cached(t *testing.T) {
	a, err := compiledSchema(CareerPlanSchema)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b, err := compiledSchema(CareerPlanSchema)
	if err != nil {
		t.Fatalf("compile again: %v", err)
	}
	if a != b {
		t.Fatal("expected cached schema to be reused")
	}
}

func TestOperationSchemasCompile(t *testing.T) {
	for _, s := range []*llm.Schema{CareerPlanSchema, careerPlanReplySchema, AssessmentSchema, EvaluationSchema} {
		if _, err := compiledSchema(s); err != nil {
			t.Errorf("schema %s: %v", s.Name, err)
		}
	}
}
