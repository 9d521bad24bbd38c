package shipyard

// BoardSummary is an immutable snapshot of what a ship carries and can do.
// A fresh summary replaces the previous one after every change to the board.
type BoardSummary struct {
	// Revision is the structural revision the summary was computed for.
	Revision uint64

	// Loadables counts every stored item by type.
	Loadables LoadableCounts

	// CargoValue is the credit value of the stored cargo.
	CargoValue int

	// Crew counts humans and aliens together.
	Crew int

	// CannonPower counts single cannons: 1 facing Up, 0.5 otherwise, plus
	// the purple alien bonus.
	CannonPower float64

	// DoubleCannons is the number of double cannons, which need a battery charge to fire.
	DoubleCannons int

	// EnginePower counts single engines plus the brown alien bonus.
	EnginePower int

	// DoubleEngines is the number of double engines.
	DoubleEngines int

	// Shielded marks the directions covered by at least one shield generator.
	Shielded [directionCount]bool

	// ExposedConnectors counts connector sides facing an empty cell.
	ExposedConnectors int

	// Problem is the integrity analysis of this revision.
	Problem IntegrityProblem
}

// AlienBonus is the power an alien adds to its system when that system
// already has some power.
const AlienBonus = 2

// summarize builds a summary from sorted tiles.
func summarize(tiles []*Tile, at func(Coordinates) *Tile, problem IntegrityProblem) BoardSummary {
	s := BoardSummary{
		Revision: problem.Revision(),
		Problem:  problem,
	}

	for _, t := range tiles {
		for _, l := range t.Contents() {
			s.Loadables[l]++
			s.CargoValue += l.Value()
		}

		switch t.Kind() {
		case KindCannon:
			if t.Double() {
				s.DoubleCannons++
				break
			}
			if d, _ := t.Facing(); d == Up {
				s.CannonPower += 1
			} else {
				s.CannonPower += 0.5
			}
		case KindEngine:
			if t.Double() {
				s.DoubleEngines++
			} else {
				s.EnginePower++
			}
		case KindShield:
			dirs, _ := t.ShieldDirections()
			for _, d := range dirs {
				s.Shielded[d] = true
			}
		}

		c := t.Coordinates()
		for _, d := range Directions {
			if t.Side(d).IsConnector() && at(c.Step(d)) == nil {
				s.ExposedConnectors++
			}
		}
	}

	s.Crew = s.Loadables.Sum(CrewTypes...)
	if s.Loadables.Of(CrewPurpleAlien) > 0 && (s.CannonPower > 0 || s.DoubleCannons > 0) {
		s.CannonPower += AlienBonus
	}
	if s.Loadables.Of(CrewBrownAlien) > 0 && (s.EnginePower > 0 || s.DoubleEngines > 0) {
		s.EnginePower += AlienBonus
	}
	return s
}
