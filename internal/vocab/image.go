package vocab

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/abhisek/scenelingo/internal/llm"
)

// ImageAspectRatio is the shape requested for flashcard illustrations.
const ImageAspectRatio = "4:3"

func imagePrompt(word, sceneContext string) string {
	return fmt.Sprintf("Generate a high-quality, clear illustration or photo of %q in the context of %q. No text in the image.",
		word, sceneContext)
}

// FetchImage requests one illustration of word within the scene. It
// returns nil, nil when generation fails so callers keep their default
// image.
func (f *Fetcher) FetchImage(ctx context.Context, word, sceneContext string) (*llm.Image, error) {
	if !f.CanFetchImages() {
		return nil, ErrNoProvider
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, llm.PurposeImage), f.imageTimeout)
	defer cancel()

	img, err := f.images.GenerateImage(ctx, llm.ImageRequest{
		Prompt:      imagePrompt(word, sceneContext),
		AspectRatio: ImageAspectRatio,
	})
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"word":  word,
			"class": llm.Classify(err),
		}).Warn("image request failed")
		return nil, nil
	}
	if img == nil || len(img.Data) == 0 {
		return nil, nil
	}
	return img, nil
}
