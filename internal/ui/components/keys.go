package components

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/scenelingo/internal/ui/layout"
)

// Hints converts enabled key bindings into footer hints.
func Hints(bindings ...key.Binding) []layout.KeyHint {
	hints := make([]layout.KeyHint, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		hints = append(hints, layout.KeyHint{Key: h.Key, Description: h.Desc})
	}
	return hints
}
