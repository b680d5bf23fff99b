package llm

import (
	"context"
	"encoding/base64"
)

// defaultImageMIME is assumed when a provider returns bytes without a type.
const defaultImageMIME = "image/png"

// ImageProvider generates pictures from a text prompt.
type ImageProvider interface {
	// GenerateImage returns the first image in the response, or
	// ErrInvalidResponse when the model answered without one.
	GenerateImage(ctx context.Context, req ImageRequest) (*Image, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// ImageRequest describes a single picture to generate.
type ImageRequest struct {
	Prompt string

	// AspectRatio such as "4:3". Empty leaves the model default.
	AspectRatio string
}

// Image is a generated picture.
type Image struct {
	MIMEType string
	Data     []byte
	Usage    Usage
	Model    string
}

// DataURI encodes the image as a data: URI.
func (i *Image) DataURI() string {
	mime := i.MIMEType
	if mime == "" {
		mime = defaultImageMIME
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// Extension returns a file extension for the image type, with the dot.
func (i *Image) Extension() string {
	switch i.MIMEType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
