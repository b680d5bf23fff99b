// Package vocab asks the generative providers for scene vocabulary and
// flashcard illustrations.
package vocab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/abhisek/scenelingo/internal/llm"
)

// WordsPerScene is the number of flashcards requested for a scene.
const WordsPerScene = 5

// ErrNoProvider is returned before any request is made when no credential
// is configured for the call.
var ErrNoProvider = errors.New("vocab: no generative provider configured")

// WordItem is one flashcard.
type WordItem struct {
	English  string `json:"english"`
	Japanese string `json:"japanese"`
	Kana     string `json:"kana"`
	Chinese  string `json:"chinese"`
	Sentence string `json:"sentence"`

	// IsFallback marks the placeholder card shown when generation failed.
	IsFallback bool `json:"-"`
}

// Fallback returns the placeholder card used when vocabulary generation
// fails.
func Fallback() WordItem {
	return WordItem{
		English:    "Error (Demo)",
		Japanese:   "エラー",
		Kana:       "eraa",
		Chinese:    "错误",
		Sentence:   "There was an error connecting to the AI.",
		IsFallback: true,
	}
}

// IsFallbackList reports whether words is the fallback result.
func IsFallbackList(words []WordItem) bool {
	return len(words) == 1 && words[0].IsFallback
}

var vocabularySchema = &llm.Schema{
	Name:        "scene-vocabulary",
	Description: "Essential vocabulary for a scene with Japanese and Chinese translations",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"english":  map[string]any{"type": "string", "description": "English word"},
				"japanese": map[string]any{"type": "string", "description": "Japanese word (Kanji/Kana mix)"},
				"kana":     map[string]any{"type": "string", "description": "Japanese reading (Kana/Romaji) for pronunciation"},
				"chinese":  map[string]any{"type": "string", "description": "Chinese translation (Simplified)"},
				"sentence": map[string]any{"type": "string", "description": "A short example sentence in English using the word"},
			},
			"required":             []any{"english", "japanese", "kana", "chinese", "sentence"},
			"additionalProperties": false,
		},
	},
}

func vocabularyPrompt(sceneTitle string) string {
	return fmt.Sprintf(
		"Generate %d essential vocabulary words related to the scene: %q. "+
			"Focus on practical, everyday usage. Return the result in JSON format including: "+
			"English word, Japanese word (Kanji/Kana mix), Japanese reading (Kana/Romaji) for pronunciation, "+
			"Chinese translation (Simplified), A short example sentence in English using the word.",
		WordsPerScene, sceneTitle)
}

// Fetcher issues vocabulary and image requests. Either provider may be
// nil, in which case the matching call returns ErrNoProvider.
type Fetcher struct {
	text         llm.Provider
	images       llm.ImageProvider
	textTimeout  time.Duration
	imageTimeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeouts bounds each vocabulary and image request.
func WithTimeouts(text, image time.Duration) Option {
	return func(f *Fetcher) {
		if text > 0 {
			f.textTimeout = text
		}
		if image > 0 {
			f.imageTimeout = image
		}
	}
}

// NewFetcher creates a Fetcher over the given providers.
func NewFetcher(text llm.Provider, images llm.ImageProvider, opts ...Option) *Fetcher {
	f := &Fetcher{
		text:         text,
		images:       images,
		textTimeout:  30 * time.Second,
		imageTimeout: 45 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CanFetchVocabulary reports whether a text provider is configured.
func (f *Fetcher) CanFetchVocabulary() bool { return f != nil && f.text != nil }

// CanFetchImages reports whether an image provider is configured.
func (f *Fetcher) CanFetchImages() bool { return f != nil && f.images != nil }

// FetchVocabulary returns up to WordsPerScene cards for the scene. Any
// failure after the request is issued, including an empty list, yields
// the single Fallback card and a nil error.
func (f *Fetcher) FetchVocabulary(ctx context.Context, sceneTitle string) ([]WordItem, error) {
	if !f.CanFetchVocabulary() {
		return nil, ErrNoProvider
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, llm.PurposeVocabulary), f.textTimeout)
	defer cancel()

	req := llm.Text(vocabularyPrompt(sceneTitle))
	req.Schema = vocabularySchema
	req.Temperature = 0.7

	logger := log.WithField("scene", sceneTitle)

	resp, err := f.text.Generate(ctx, req)
	if err != nil {
		logger.WithError(err).WithField("class", llm.Classify(err)).Warn("vocabulary request failed, using fallback")
		return []WordItem{Fallback()}, nil
	}

	var words []WordItem
	if err := json.Unmarshal(resp.Content, &words); err != nil {
		logger.WithError(err).Warn("vocabulary response did not decode, using fallback")
		return []WordItem{Fallback()}, nil
	}
	if len(words) == 0 {
		logger.Warn("vocabulary response was empty, using fallback")
		return []WordItem{Fallback()}, nil
	}
	if len(words) > WordsPerScene {
		words = words[:WordsPerScene]
	}

	logger.WithField("words", len(words)).Debug("vocabulary fetched")
	return words, nil
}
