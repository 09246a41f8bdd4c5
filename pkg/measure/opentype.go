package measure

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/fonts"
)

// OpenType measures glyph advances with the embedded Go fonts at 72 DPI, so
// one point equals one layout unit. Faces are created lazily per font and
// reused.
type OpenType struct {
	font Font

	mu    sync.Mutex
	faces map[Font]font.Face
}

// NewOpenType returns an OpenType measurer starting in f. The face for f is
// loaded eagerly so a broken font fails here rather than mid-layout.
func NewOpenType(f Font) (*OpenType, error) {
	m := &OpenType{font: f, faces: make(map[Font]font.Face)}
	if _, err := m.face(f); err != nil {
		return nil, err
	}
	return m, nil
}

// MeasureText returns the sum of glyph advances, kerning included.
func (m *OpenType) MeasureText(text string) (float64, error) {
	face, err := m.face(m.font)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	adv := font.MeasureString(face, text)
	m.mu.Unlock()
	return float64(adv) / 64, nil
}

func (m *OpenType) Font() Font     { return m.font }
func (m *OpenType) SetFont(f Font) { m.font = f }

// Close releases every cached face.
func (m *OpenType) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, face := range m.faces {
		_ = face.Close()
		delete(m.faces, k)
	}
	return nil
}

func (m *OpenType) face(f Font) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if face, ok := m.faces[f]; ok {
		return face, nil
	}

	family := f.Family
	if f.Bold && !fonts.IsMono(family) {
		family = fonts.FamilyBold
	}
	parsed, err := fonts.Lookup(family)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingMeasurer, err, "parse font %s", f)
	}
	size := f.Size
	if size <= 0 {
		size = DefaultFontSize
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMissingMeasurer, err, "create face %s", f)
	}
	m.faces[f] = face
	return face, nil
}

var _ Measurer = (*OpenType)(nil)
