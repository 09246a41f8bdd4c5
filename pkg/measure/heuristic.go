package measure

import (
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/sdfglayout/pkg/fonts"
)

const (
	sansCharWidth = 0.55
	monoCharWidth = 0.6
	boldWidening  = 1.1
)

// Heuristic estimates text width from display cells: each cell is a fixed
// fraction of the font size, wide runes count twice.
type Heuristic struct {
	font Font
}

// NewHeuristic returns a heuristic measurer starting in font f.
func NewHeuristic(f Font) *Heuristic {
	return &Heuristic{font: f}
}

// MeasureText never fails.
func (h *Heuristic) MeasureText(text string) (float64, error) {
	ratio := sansCharWidth
	if fonts.IsMono(h.font.Family) {
		ratio = monoCharWidth
	}
	w := float64(runewidth.StringWidth(text)) * h.font.Size * ratio
	if h.font.Bold {
		w *= boldWidening
	}
	return w, nil
}

func (h *Heuristic) Font() Font     { return h.font }
func (h *Heuristic) SetFont(f Font) { h.font = f }

var _ Measurer = (*Heuristic)(nil)
