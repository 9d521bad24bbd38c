package shipyard

// Phase is the lifecycle stage of a ship board.
// Boards move through phases in order: Assembly → Flight → Ended.
type Phase int

const (
	// Assembly is the building phase. Tiles may be placed next to existing
	// tiles, and the main cabin is the only occupant that keeps a cluster alive.
	Assembly Phase = iota

	// Flight begins once assembly has ended. Tiles can no longer be placed but
	// may still be removed by hits or by structural repair.
	Flight

	// Ended is terminal. The board accepts no further structural changes.
	Ended
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case Assembly:
		return "Assembly"
	case Flight:
		return "Flight"
	case Ended:
		return "Ended"
	default:
		return "Unknown"
	}
}
