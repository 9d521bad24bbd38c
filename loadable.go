package shipyard

// LoadableType is an item that can be stored inside a tile.
type LoadableType uint8

const (
	CargoRed LoadableType = iota
	CargoYellow
	CargoGreen
	CargoBlue
	CrewHuman
	CrewBrownAlien
	CrewPurpleAlien
	BatteryCharge

	loadableTypeCount
)

// CargoTypes lists cargo from the most to the least valuable.
var CargoTypes = []LoadableType{CargoRed, CargoYellow, CargoGreen, CargoBlue}

// CrewTypes lists every crew type.
var CrewTypes = []LoadableType{CrewHuman, CrewBrownAlien, CrewPurpleAlien}

// String returns the string representation of the loadable.
func (t LoadableType) String() string {
	switch t {
	case CargoRed:
		return "RedCargo"
	case CargoYellow:
		return "YellowCargo"
	case CargoGreen:
		return "GreenCargo"
	case CargoBlue:
		return "BlueCargo"
	case CrewHuman:
		return "Human"
	case CrewBrownAlien:
		return "BrownAlien"
	case CrewPurpleAlien:
		return "PurpleAlien"
	case BatteryCharge:
		return "Battery"
	default:
		return "Unknown"
	}
}

// IsCargo reports whether t is a cargo cube.
func (t LoadableType) IsCargo() bool {
	return t <= CargoBlue
}

// IsCrew reports whether t is a crew member.
func (t LoadableType) IsCrew() bool {
	return t >= CrewHuman && t <= CrewPurpleAlien
}

// IsAlien reports whether t is an alien crew member.
func (t LoadableType) IsAlien() bool {
	return t == CrewBrownAlien || t == CrewPurpleAlien
}

// Value returns the credits a cargo cube is worth on delivery.
func (t LoadableType) Value() int {
	switch t {
	case CargoRed:
		return 4
	case CargoYellow:
		return 3
	case CargoGreen:
		return 2
	case CargoBlue:
		return 1
	default:
		return 0
	}
}

// AlienColor is the species supported by a life-support tile.
type AlienColor uint8

const (
	NoAlien AlienColor = iota
	BrownAlien
	PurpleAlien
)

// String returns the string representation of the colour.
func (c AlienColor) String() string {
	switch c {
	case BrownAlien:
		return "Brown"
	case PurpleAlien:
		return "Purple"
	default:
		return "None"
	}
}

// crew returns the crew type living under this colour.
func (c AlienColor) crew() LoadableType {
	if c == PurpleAlien {
		return CrewPurpleAlien
	}
	return CrewBrownAlien
}

// LoadableCounts counts loadables by type.
type LoadableCounts [loadableTypeCount]int

// Of returns the count of t.
func (c LoadableCounts) Of(t LoadableType) int {
	if t >= loadableTypeCount {
		return 0
	}
	return c[t]
}

// Sum returns the total over the given types, or over all types when none are given.
func (c LoadableCounts) Sum(types ...LoadableType) int {
	total := 0
	if len(types) == 0 {
		for _, n := range c {
			total += n
		}
		return total
	}
	for _, t := range types {
		total += c.Of(t)
	}
	return total
}
