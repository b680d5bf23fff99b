package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGeminiProvider(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-flash-image", "gemini-2.5-flash-image"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNewGeminiProvider_Defaults(t *testing.T) {
	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "k"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gemini-2.5-flash" {
		t.Errorf("text model = %q", p.ModelID())
	}
	if p.ImageModelID() != "gemini-2.5-flash-image" {
		t.Errorf("image model = %q", p.ImageModelID())
	}

	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{}); err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"english":  map[string]any{"type": "string"},
				"japanese": map[string]any{"type": "string"},
				"level":    map[string]any{"type": "string", "enum": []any{"N5", "N4"}},
				"rank":     map[string]any{"type": "integer"},
			},
			"required": []string{"english", "japanese"},
		},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "ARRAY" {
		t.Fatalf("expected ARRAY type, got %s", schema.Type)
	}
	item := schema.Items
	if item == nil || item.Type != "OBJECT" {
		t.Fatalf("expected OBJECT items, got %+v", item)
	}
	if len(item.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(item.Properties))
	}
	if item.Properties["english"].Type != "STRING" {
		t.Errorf("english type = %s", item.Properties["english"].Type)
	}
	if item.Properties["rank"].Type != "INTEGER" {
		t.Errorf("rank type = %s", item.Properties["rank"].Type)
	}
	if len(item.Properties["level"].Enum) != 2 {
		t.Errorf("expected 2 enum values, got %d", len(item.Properties["level"].Enum))
	}
	if len(item.Required) != 2 {
		t.Errorf("expected 2 required fields from []string, got %d", len(item.Required))
	}
}

func TestGeminiProvider_Generate(t *testing.T) {
	var gotPath string
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": `[{"english":"Coffee","japanese":"コーヒー"}]`}},
				},
				"finishReason": "STOP",
			}},
			"usageMetadata": map[string]any{
				"promptTokenCount":     20,
				"candidatesTokenCount": 40,
				"totalTokenCount":      60,
			},
		})
	})

	resp, err := p.Generate(context.Background(), Text("Generate vocabulary."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotPath, "gemini-2.5-flash:generateContent") {
		t.Errorf("request path = %q", gotPath)
	}
	if resp.Usage.TotalTokens != 60 || resp.StopReason != "end" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if !strings.Contains(string(resp.Content), "Coffee") {
		t.Errorf("content = %s", resp.Content)
	}
}

func TestGeminiProvider_GenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	var body map[string]any
	var gotPath string

	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role": "model",
					"parts": []map[string]any{
						{"text": "Here is your picture."},
						{"inlineData": map[string]any{
							"mimeType": "image/png",
							"data":     base64.StdEncoding.EncodeToString(png),
						}},
					},
				},
				"finishReason": "STOP",
			}},
		})
	})

	img, err := p.GenerateImage(context.Background(), ImageRequest{
		Prompt:      "a cup of coffee",
		AspectRatio: "4:3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(gotPath, "gemini-2.5-flash-image:generateContent") {
		t.Errorf("request path = %q", gotPath)
	}
	if img.MIMEType != "image/png" || string(img.Data) != string(png) {
		t.Errorf("unexpected image: %+v", img)
	}
	if img.Model != "gemini-2.5-flash-image" {
		t.Errorf("model = %q", img.Model)
	}

	gen, _ := body["generationConfig"].(map[string]any)
	ic, _ := gen["imageConfig"].(map[string]any)
	if ic["aspectRatio"] != "4:3" {
		t.Errorf("aspect ratio not sent: %v", body["generationConfig"])
	}
}

func TestGeminiProvider_GenerateImageWithoutData(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": "I cannot draw that."}},
				},
			}},
		})
	})

	_, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
}

func TestGeminiProvider_RateLimit(t *testing.T) {
	p := newTestGeminiProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    429,
				"message": "Resource has been exhausted",
				"status":  "RESOURCE_EXHAUSTED",
			},
		})
	})

	_, err := p.GenerateImage(context.Background(), ImageRequest{Prompt: "x"})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
}
