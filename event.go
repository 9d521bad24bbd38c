package shipyard

// Events are dispatched through Manager.Dispatch to every observer with a
// method taking the event pointer type.

// EventPlayerJoin is emitted when a player is added to the manager.
type EventPlayerJoin struct {
	Player *Player
}

// EventPlayerQuit is emitted when a player is removed from the manager.
type EventPlayerQuit struct {
	Player *Player
}

// EventTurnStarted is emitted when a request starts running.
type EventTurnStarted struct {
	Player *Player
	PIR    PIR
}

// EventTurnCompleted is emitted when a request has completed.
type EventTurnCompleted struct {
	Player  *Player
	PIR     PIR
	Outcome Outcome
}

// EventIntegrityProblem is emitted when a repair conversation starts.
type EventIntegrityProblem struct {
	Player  *Player
	Problem IntegrityProblem
}

// EventTilesRemoved is emitted after repair removed tiles from a ship.
type EventTilesRemoved struct {
	Player *Player
	Tiles  []*Tile
}

// EventIntegrityRestored is emitted when a ship is sound again and its
// atomic sequence has been closed.
type EventIntegrityRestored struct {
	Player *Player
}

// EventFlightEnded is emitted when a player's flight ends.
type EventFlightEnded struct {
	Player *Player
	Reason string
}
