package shipyard

// Connector is the type of one side of a tile.
type Connector uint8

const (
	Smooth Connector = iota
	Single
	Double
	Universal
	// Cannon marks the barrel side of a cannon.
	Cannon
	// Engine marks the exhaust side of an engine.
	Engine
)

// String returns the string representation of the connector.
func (c Connector) String() string {
	switch c {
	case Smooth:
		return "Smooth"
	case Single:
		return "Single"
	case Double:
		return "Double"
	case Universal:
		return "Universal"
	case Cannon:
		return "Cannon"
	case Engine:
		return "Engine"
	default:
		return "Unknown"
	}
}

// IsConnector reports whether c can form a weld.
func (c Connector) IsConnector() bool {
	return c == Single || c == Double || c == Universal
}

// WeldResult classifies two facing sides.
type WeldResult uint8

const (
	// WeldNone means the sides touch without joining, which is legal.
	WeldNone WeldResult = iota
	// WeldConnected means the sides join the two tiles.
	WeldConnected
	// WeldIllegal means the sides may not face each other.
	WeldIllegal
)

// String returns the string representation of the result.
func (w WeldResult) String() string {
	switch w {
	case WeldNone:
		return "None"
	case WeldConnected:
		return "Connected"
	case WeldIllegal:
		return "Illegal"
	default:
		return "Unknown"
	}
}

// Weld classifies two facing sides of occupied neighbouring cells.
// The relation is symmetric.
func Weld(a, b Connector) WeldResult {
	// A barrel or an exhaust may never face an occupied cell.
	if a == Cannon || a == Engine || b == Cannon || b == Engine {
		return WeldIllegal
	}
	if a == Smooth || b == Smooth {
		return WeldNone
	}
	if a == Universal || b == Universal || a == b {
		return WeldConnected
	}
	return WeldIllegal
}
