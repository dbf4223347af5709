// Package lens turns parsed blocks into activation points and keeps them
// fresh while a document or its config changes.
package lens

import (
	"fmt"
	"os"

	"github.com/flarebyte/fencerun/internal/config"
	"github.com/flarebyte/fencerun/internal/directive"
)

// RunTitle labels every activation point.
const RunTitle = "▶️ Run Code"

// Lens is one activation point: a location plus the block to run when it
// is triggered.
type Lens struct {
	Path  string          `json:"path,omitempty"`
	Line  int             `json:"line"`
	Title string          `json:"title"`
	Block directive.Block `json:"block"`
}

// Lenses places one activation point on each directive line.
func Lenses(path string, blocks []directive.Block) []Lens {
	out := make([]Lens, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, Lens{Path: path, Line: b.Directive.Line, Title: RunTitle, Block: b})
	}
	return out
}

// Load reads the document and parses it with the identifiers and fence the
// store currently holds.
func Load(path string, store config.Store) ([]Lens, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	ids, err := store.Identifiers()
	if err != nil {
		return nil, err
	}
	settings, err := store.Settings()
	if err != nil {
		return nil, err
	}
	blocks := directive.Parser{OpenFence: settings.Fence}.Parse(string(data), ids)
	return Lenses(path, blocks), nil
}

// At returns the lens whose directive sits on line (0-based).
func At(lenses []Lens, line int) (Lens, bool) {
	for _, l := range lenses {
		if l.Line == line {
			return l, true
		}
	}
	return Lens{}, false
}
