// Package shipyard provides the runtime core of a turn-based ship building
// game: a per-player turn arbiter for blocking input requests and a
// structural integrity analyzer that repairs ships through those requests.
//
// # Quick Start
//
// Build a manager and register players:
//
//	mngr := shipyard.NewBuilder().
//	    Options(shipyard.WithRepairCooldown(20 * time.Second)).
//	    Observer(&GameLog{}).
//	    Init()
//	defer mngr.Shutdown()
//
//	p, err := mngr.NewPlayer("ada", shipyard.StandardLayout())
//
// # Turns
//
// A player input request (PIR) blocks until the bound player answers or its
// cooldown elapses, in which case a documented default applies:
//
//	pir, _ := shipyard.NewChoicePIR(p, 10*time.Second, "Land on the planet?", false)
//	outcome, err := mngr.Handler().SetAndRunTurn(pir)
//	if err == nil && pir.Choice() {
//	    // ...
//	}
//
// Answers arrive from other goroutines, typically a network layer:
//
//	_ = pir.MakeChoice(p, true)
//
// At most one request runs per player at a time.
//
// # Integrity
//
// Every placement or removal of a tile re-validates the ship. When the ship
// is unsound its player's repair listener opens an atomic sequence, asks the
// player to acknowledge removals or to pick the part of the ship to keep, and
// closes the sequence once the ship is sound again. Ordinary requests for that
// player fail with ErrAtomicSequenceOpen in the meantime.
//
// # Events
//
// Observers receive events through one-argument methods:
//
//	type GameLog struct{}
//
//	func (*GameLog) FlightEnded(e *shipyard.EventFlightEnded) {
//	    log.Println(e.Player, "is out:", e.Reason)
//	}
package shipyard

// Version is the shipyard version.
const Version = "1.0.0"
