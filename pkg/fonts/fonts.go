// Package fonts provides the font faces used to measure label text.
//
// The faces are the Go font family, shipped as TrueType data inside
// golang.org/x/image, so measurement does not depend on fonts installed on
// the host. Label text uses the regular face; loop statements (conditions,
// init and update rows) use the monospace face, matching how the diagram
// renders them.
package fonts

import (
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Family names accepted by [Lookup].
const (
	FamilySans = "sans-serif"
	FamilyBold = "sans-serif bold"
	FamilyMono = "monospace"
)

// FontFamily is the CSS font-family the measurements correspond to.
const FontFamily = "Go, sans-serif"

// TTF returns the TrueType data of a family. Unknown names resolve to the
// regular face.
func TTF(family string) []byte {
	switch normalize(family) {
	case FamilyBold:
		return gobold.TTF
	case FamilyMono:
		return gomono.TTF
	default:
		return goregular.TTF
	}
}

var (
	parsedMu sync.Mutex
	parsed   = map[string]*opentype.Font{}
)

// Lookup returns the parsed face of a family. Parsed faces are shared;
// opentype.Font is safe for concurrent use once parsed.
func Lookup(family string) (*opentype.Font, error) {
	name := normalize(family)
	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[name]; ok {
		return f, nil
	}
	f, err := opentype.Parse(TTF(name))
	if err != nil {
		return nil, err
	}
	parsed[name] = f
	return f, nil
}

func normalize(family string) string {
	f := strings.ToLower(strings.TrimSpace(family))
	switch {
	case strings.Contains(f, "mono") || strings.Contains(f, "courier"):
		return FamilyMono
	case strings.Contains(f, "bold"):
		return FamilyBold
	default:
		return FamilySans
	}
}

// IsMono reports whether family resolves to the monospace face.
func IsMono(family string) bool {
	return normalize(family) == FamilyMono
}
