package layout

// placeConnectors lays out el's sockets: in-connectors centered on the top
// edge, out-connectors centered on the bottom edge.
func placeConnectors(el *Element, ins, outs []string) {
	el.In = connectorRow(el, In, ins, el.Top())
	el.Out = connectorRow(el, Out, outs, el.Bottom())
}

func connectorRow(el *Element, dir Direction, names []string, y float64) []*Connector {
	if len(names) == 0 {
		return nil
	}
	row := make([]*Connector, len(names))
	x := el.X - connectorRowWidth(len(names))/2 + ConnectorSize/2
	for i, name := range names {
		row[i] = &Connector{
			Name:  name,
			Dir:   dir,
			Index: i,
			Owner: el.Key,
			Box:   Box{X: x, Y: y, Width: ConnectorSize, Height: ConnectorSize},
		}
		x += ConnectorSize + LineHeight
	}
	return row
}
