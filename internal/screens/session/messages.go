package session

import (
	"github.com/abhisek/scenelingo/internal/learning"
	"github.com/abhisek/scenelingo/internal/llm"
	"github.com/abhisek/scenelingo/internal/vocab"
)

// vocabLoadedMsg is sent when the vocabulary request returns.
type vocabLoadedMsg struct {
	Words []vocab.WordItem
	Err   error
}

// imageLoadedMsg is sent when an illustration request returns. A nil
// Image means generation failed.
type imageLoadedMsg struct {
	Token learning.Token
	Image *llm.Image
}

// advanceMsg fires once the advance delay has elapsed.
type advanceMsg struct {
	From int
}
