package vocab

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/abhisek/scenelingo/internal/llm"
)

// ImageFiles writes generated illustrations to disk so they can be opened
// outside the terminal.
type ImageFiles struct {
	Dir string
}

// DefaultImageDir returns $XDG_CACHE_HOME/scenelingo/images, falling back
// to ~/.cache.
func DefaultImageDir() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "scenelingo", "images")
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	return filepath.Join(cacheDir, "scenelingo", "images")
}

// Save writes img and returns its path. Files are named after the scene
// and word, so a regenerated picture replaces the previous one.
func (f ImageFiles) Save(sceneID, word string, img *llm.Image) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", fmt.Errorf("save image: no data")
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	name := slug(sceneID) + "-" + slug(word) + img.Extension()
	path := filepath.Join(f.Dir, name)

	tmp, err := os.CreateTemp(f.Dir, ".img-*")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	if _, err := tmp.Write(img.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close image: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("rename image: %w", err)
	}
	return path, nil
}

// slug lowercases s and replaces anything but letters and digits with '-'.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "item"
	}
	return out
}
