// Package measure provides the text-measurement context the layout engine
// sizes labels with.
//
// A [Measurer] carries a current [Font] and reports the rendered width of a
// string in that font. The engine treats the measurer as read-only except
// for temporary font switches wrapped in [WithFont], which always restores
// the previous font.
//
// # Implementations
//
//   - [Heuristic]: display-cell width times a per-family character ratio.
//     Deterministic and dependency-light; used by tests and as the default.
//   - [OpenType]: glyph advances from the embedded Go fonts.
//   - [Cached]: memoizes another measurer through a [cache.Cache].
package measure

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sdfglayout/pkg/cache"
	"github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/fonts"
)

// DefaultFontSize is the label font size in layout units.
const DefaultFontSize = 10.0

// Measurer kinds accepted by [New].
const (
	KindHeuristic = "heuristic"
	KindOpenType  = "opentype"
)

// Font describes the face text is measured in.
type Font struct {
	Family string
	Size   float64
	Bold   bool
}

// DefaultFont is the font node labels are drawn in.
func DefaultFont() Font {
	return Font{Family: fonts.FamilySans, Size: DefaultFontSize}
}

// MonoFont is the font loop statements are drawn in.
func MonoFont(size float64) Font {
	return Font{Family: fonts.FamilyMono, Size: size}
}

// String returns a CSS-like font description, e.g. "bold 10px monospace".
func (f Font) String() string {
	var b strings.Builder
	if f.Bold {
		b.WriteString("bold ")
	}
	fmt.Fprintf(&b, "%gpx %s", f.Size, f.Family)
	return b.String()
}

// Measurer measures rendered text width in layout units.
type Measurer interface {
	// MeasureText returns the advance width of text in the current font.
	MeasureText(text string) (float64, error)
	// Font returns the current font.
	Font() Font
	// SetFont replaces the current font.
	SetFont(Font)
}

// WithFont runs fn with m switched to f and restores the previous font
// afterwards, also when fn returns an error.
func WithFont(m Measurer, f Font, fn func() error) error {
	prev := m.Font()
	m.SetFont(f)
	defer m.SetFont(prev)
	return fn()
}

// MaxWidth returns the widest measurement among texts.
func MaxWidth(m Measurer, texts ...string) (float64, error) {
	var w float64
	for _, t := range texts {
		tw, err := m.MeasureText(t)
		if err != nil {
			return 0, err
		}
		w = max(w, tw)
	}
	return w, nil
}

// Options configures [New].
type Options struct {
	Kind      string
	FontSize  float64
	Cache     cache.Cache
	CacheSize int
}

// New builds a measurer by kind. A nil Cache with a positive CacheSize gets
// a private in-memory cache; a nil Cache with CacheSize zero disables
// memoization.
func New(opts Options) (Measurer, error) {
	size := opts.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	font := DefaultFont()
	font.Size = size

	var m Measurer
	switch strings.ToLower(opts.Kind) {
	case "", KindHeuristic:
		m = NewHeuristic(font)
	case KindOpenType:
		ot, err := NewOpenType(font)
		if err != nil {
			return nil, err
		}
		m = ot
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown measurer %q", opts.Kind)
	}

	c := opts.Cache
	if c == nil && opts.CacheSize > 0 {
		c = cache.NewMemoryCache(opts.CacheSize)
	}
	if c == nil {
		return m, nil
	}
	kind := opts.Kind
	if kind == "" {
		kind = KindHeuristic
	}
	return NewCached(m, c, cache.NewScopedKeyer(nil, kind+":")), nil
}
