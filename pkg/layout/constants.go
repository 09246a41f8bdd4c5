package layout

// LineHeight is the base unit all spacing derives from.
const LineHeight = 10.0

const (
	// NodeBaseHeight is the height of a node before kind adjustments.
	NodeBaseHeight = 6 * LineHeight

	// ConnectorSize is the edge length of a connector square; connectors
	// in a row are also LineHeight apart.
	ConnectorSize = LineHeight

	// BlockMargin surrounds the interior of every expanded block.
	BlockMargin = 3 * LineHeight

	// LoopStatementSpacing is the height of one statement row of a loop
	// region (condition, init or update) and of a branch condition row.
	LoopStatementSpacing = 3 * LineHeight

	// MetaLabelMargin pads statement labels.
	MetaLabelMargin = 5.0

	// NestedInset surrounds a nested program inside its node.
	NestedInset = LineHeight

	// CollapsedHeight is the height of every collapsed block.
	CollapsedHeight = LineHeight

	// DefaultLargeStateThreshold is the node count above which a state is
	// laid out with the quick layered configuration.
	DefaultLargeStateThreshold = 1000
)

// Spacing handed to the level engines.
const (
	stateNodeSep = 5 * LineHeight
	stateRankSep = 5 * LineHeight
	blockNodeSep = 5 * LineHeight
	blockRankSep = 5 * LineHeight
)

// connectorRowWidth returns the width of n connectors in a row: one
// connector per entry with one-connector gaps in between.
func connectorRowWidth(n int) float64 {
	return max(0, 2*LineHeight*float64(n)-LineHeight)
}
