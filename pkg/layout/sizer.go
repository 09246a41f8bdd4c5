package layout

import (
	"github.com/matzehuels/sdfglayout/pkg/measure"
	"github.com/matzehuels/sdfglayout/pkg/sdfg"
)

// Size is a width and height.
type Size struct {
	Width, Height float64
}

// NodeSize returns the intrinsic size of a dataflow node with the given
// connector counts: the wider of its label and its connector rows, then
// reshaped for the node's glyph.
func NodeSize(m measure.Measurer, n *sdfg.Node, inCount, outCount int) (Size, error) {
	label, err := m.MeasureText(n.DisplayLabel())
	if err != nil {
		return Size{}, err
	}
	w := max(label, connectorRowWidth(inCount), connectorRowWidth(outCount))
	h := NodeBaseHeight

	switch n.Kind.Shape() {
	case sdfg.ShapeEllipse:
		h -= 4 * LineHeight
		w += h
	case sdfg.ShapeTrapezoid, sdfg.ShapeInvertedTrapezoid:
		w += 2 * h
		h /= 1.75
	case sdfg.ShapeOctagon:
		w += 2 * h / 3
		h /= 1.75
	case sdfg.ShapeTriangle:
		h -= 4 * LineHeight
		w *= 2
		h = w / 3
	}
	return Size{Width: w, Height: h}, nil
}

// statementLabels returns the rows a loop region draws: the condition
// followed by "while", and the init and update statements when present.
func statementLabels(l *sdfg.Loop) []string {
	if l == nil {
		return nil
	}
	rows := []string{l.Condition + " while"}
	if l.Init != "" {
		rows = append(rows, l.Init+" init")
	}
	if l.Update != "" {
		rows = append(rows, l.Update+" update")
	}
	return rows
}

// measureMono measures texts in the monospace statement font and restores
// the measurer's font afterwards.
func measureMono(m measure.Measurer, texts ...string) (float64, error) {
	var w float64
	err := measure.WithFont(m, measure.MonoFont(m.Font().Size), func() error {
		var err error
		w, err = measure.MaxWidth(m, texts...)
		return err
	})
	return w, err
}

// CollapsedBlockSize returns the size of a collapsed block: a single row
// as wide as its widest label. Loops measure their statements and
// conditionals their branch conditions.
func CollapsedBlockSize(m measure.Measurer, b *sdfg.Block) (Size, error) {
	labels := []string{blockLabel(b)}
	switch b.Kind {
	case sdfg.BlockLoopRegion:
		labels = append(labels, statementLabels(b.Loop)...)
	case sdfg.BlockConditional:
		for _, br := range b.Branches {
			labels = append(labels, br.Condition)
		}
	}
	w, err := measureMono(m, labels...)
	if err != nil {
		return Size{}, err
	}
	return Size{Width: w + 3*MetaLabelMargin, Height: CollapsedHeight}, nil
}

func blockLabel(b *sdfg.Block) string {
	if b.Label != "" {
		return b.Label
	}
	return b.Kind.String()
}
