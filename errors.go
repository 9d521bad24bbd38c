package shipyard

import "errors"

// Protocol violations. The request stays running after any of these.
var (
	ErrWrongPlayerTurn     = errors.New("shipyard: submission from a player other than the bound one")
	ErrTileNotAvailable    = errors.New("shipyard: tile not available for this request")
	ErrInvalidChoice       = errors.New("shipyard: invalid choice")
	ErrQuantityExceeded    = errors.New("shipyard: submission exceeds the requested quantity")
	ErrLoadableNotOffered  = errors.New("shipyard: loadable not offered by this request")
	ErrPIRNotRunning       = errors.New("shipyard: request is not running")
	ErrSubmissionThrottled = errors.New("shipyard: too many submissions")
)

// Resource violations.
var (
	ErrContainerFull      = errors.New("shipyard: container is full")
	ErrLoadableNotAllowed = errors.New("shipyard: loadable not allowed in this container")
	ErrLoadableNotPresent = errors.New("shipyard: loadable not present")
	ErrNoBatteryCharge    = errors.New("shipyard: no battery charge left")
)

// Structural and construction errors.
var (
	ErrAssemblyEnded     = errors.New("shipyard: assembly has ended")
	ErrFlightEnded       = errors.New("shipyard: flight has ended")
	ErrOutsideLayout     = errors.New("shipyard: cell outside the board layout")
	ErrCellOccupied      = errors.New("shipyard: cell already occupied")
	ErrCellEmpty         = errors.New("shipyard: cell is empty")
	ErrNotAdjacent       = errors.New("shipyard: tile must be placed next to an existing tile")
	ErrTileAlreadyPlaced = errors.New("shipyard: tile is already placed")
	ErrInvalidTile       = errors.New("shipyard: invalid tile")
	ErrInvalidCooldown   = errors.New("shipyard: cooldown must be positive")
	ErrStaleRevision     = errors.New("shipyard: board changed since the analysis")
)

// Turn arbitration errors.
var (
	ErrAtomicSequenceOpen = errors.New("shipyard: an atomic sequence is open for this player")
	ErrSequenceSuperseded = errors.New("shipyard: atomic sequence was superseded")
	ErrSequenceClosed     = errors.New("shipyard: atomic sequence is closed")
)

// Registry errors.
var (
	ErrPlayerExists    = errors.New("shipyard: player name already taken")
	ErrManagerClosed   = errors.New("shipyard: manager is shut down")
	ErrInvalidObserver = errors.New("shipyard: observer has no event methods")
)
