package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-word",
		Description: "A single flashcard",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"english":  map[string]any{"type": "string"},
				"japanese": map[string]any{"type": "string"},
				"rank":     map[string]any{"type": "integer", "minimum": 1},
				"register": map[string]any{"type": "string", "enum": []any{"casual", "polite"}},
			},
			"required": []string{"english", "japanese"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"english":"Coffee","japanese":"コーヒー","rank":1,"register":"polite"}`, false},
		{"optional omitted", `{"english":"Coffee","japanese":"コーヒー"}`, false},
		{"missing required", `{"english":"Coffee"}`, true},
		{"wrong type", `{"english":"Coffee","japanese":"コーヒー","rank":"first"}`, true},
		{"below minimum", `{"english":"Coffee","japanese":"コーヒー","rank":0}`, true},
		{"bad enum", `{"english":"Coffee","japanese":"コーヒー","register":"rude"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`plain text`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_ArrayOfObjects(t *testing.T) {
	schema := &Schema{
		Name: "test-word-list",
		Definition: map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"english": map[string]any{"type": "string"},
				},
				"required": []any{"english"},
			},
		},
	}

	if err := validateResponse(schema, json.RawMessage(`[{"english":"Train"},{"english":"Ticket"}]`)); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if err := validateResponse(schema, json.RawMessage(`[{"english":"Train"},{"kana":"きっぷ"}]`)); err == nil {
		t.Fatal("expected error for item missing english")
	}
	if err := validateResponse(schema, json.RawMessage(`{"english":"Train"}`)); err == nil {
		t.Fatal("expected error for object instead of array")
	}
}

func TestFinishResponse(t *testing.T) {
	req := Request{Schema: testSchema()}

	_, err := finishResponse(req, &Response{Content: json.RawMessage(`{"english":"Co`), StopReason: "max_tokens"})
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}

	// Plain text may stop at the limit and still be usable.
	resp, err := finishResponse(Request{}, &Response{Content: json.RawMessage(`partial`), StopReason: "max_tokens"})
	if err != nil || string(resp.Content) != "partial" {
		t.Fatalf("unexpected result: %v, %v", resp, err)
	}
}

func TestWrapUnwrap(t *testing.T) {
	def := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
	wrapped := wrapSchema(def)
	if wrapped["type"] != "object" {
		t.Fatalf("wrapped type = %v", wrapped["type"])
	}
	props := wrapped["properties"].(map[string]any)
	if props[itemsKey] == nil {
		t.Fatalf("wrapped schema lost the array: %v", wrapped)
	}

	inner, err := unwrapItems(json.RawMessage(`{"items":["a","b"]}`))
	if err != nil || string(inner) != `["a","b"]` {
		t.Fatalf("unwrap = %s, %v", inner, err)
	}
	if _, err := unwrapItems(json.RawMessage(`{"other":[]}`)); err == nil {
		t.Fatal("expected error for missing items")
	}
	if _, err := unwrapItems(json.RawMessage(`[1]`)); err == nil {
		t.Fatal("expected error for non-object body")
	}
}
