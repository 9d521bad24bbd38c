package shipyard

import (
	"errors"
	"testing"
	"time"
)

// newRepairPlayer registers a player on a 3x5 layout centered on (1,2).
func newRepairPlayer(t *testing.T, m *Manager) *Player {
	t.Helper()
	p, err := m.NewPlayer("alice", OpenLayout(3, 5))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestRepairRemovesInvalidTile(t *testing.T) {
	m := newTestManager(t,
		WithNotifyCooldown(shortCooldown),
		WithRepairCooldown(shortCooldown),
	)
	rec := &recorder{}
	if err := m.Observe(rec); err != nil {
		t.Fatal(err)
	}
	p := newRepairPlayer(t, m)
	h := m.Handler()

	engine := MustTile(KindEngine, Sides{Engine, Smooth, Smooth, Universal})
	if err := p.Board().SetTile(engine, At(1, 3)); err != nil {
		t.Fatal(err)
	}

	if _, open := h.Sequence(p); !open {
		t.Fatal("expected a repair sequence to open synchronously")
	}
	ordinary, _ := NewDelayPIR(p, shortCooldown, "trade?")
	if _, err := h.SetAndRunTurn(ordinary); !errors.Is(err, ErrAtomicSequenceOpen) {
		t.Errorf("expected ordinary requests to be rejected, got %v", err)
	}

	select {
	case <-h.SequenceDone(p):
	case <-time.After(2 * time.Second):
		t.Fatal("repair did not finish")
	}
	if engine.Placed() {
		t.Error("expected the engine to be removed")
	}
	if p.Board().Problem().IsProblem() {
		t.Error("expected a sound ship")
	}

	waitFor(t, "repair events", func() bool {
		return len(eventsOf[*EventIntegrityRestored](rec)) == 1 && len(eventsOf[*EventTilesRemoved](rec)) == 1
	})
	if len(eventsOf[*EventIntegrityProblem](rec)) != 1 {
		t.Error("expected one problem event")
	}
	removed := eventsOf[*EventTilesRemoved](rec)
	if len(removed) != 1 || len(removed[0].Tiles) != 1 || removed[0].Tiles[0] != engine {
		t.Errorf("expected the engine in the removal event, got %v", removed)
	}
	if _, err := h.SetAndRunTurn(ordinary); err != nil {
		t.Errorf("expected ordinary requests after repair, got %v", err)
	}
}

// splitShip builds main cabin (1,2), structural (1,3) and cabin (1,4), all
// universal, crews both cabins and starts the flight.
func splitShip(t *testing.T, p *Player) (mainCabin, cabin *Tile) {
	t.Helper()
	b := p.Board()
	mainCabin, _ = b.Tile(At(1, 2))
	mustSet(t, b, At(1, 3), MustTile(KindStructural, UniformSides(Universal)))
	cabin = mustSet(t, b, At(1, 4), MustTile(KindCabin, UniformSides(Universal)))
	mustLoad(t, b, At(1, 2), CrewHuman)
	mustLoad(t, b, At(1, 4), CrewHuman)
	if err := b.EndAssembly(); err != nil {
		t.Fatal(err)
	}
	if b.Problem().IsProblem() {
		t.Fatal("expected a sound ship before the hit")
	}
	return mainCabin, cabin
}

func TestRepairChoosesCluster(t *testing.T) {
	m := newTestManager(t,
		WithNotifyCooldown(longCooldown),
		WithRepairCooldown(longCooldown),
	)
	p := newRepairPlayer(t, m)
	h := m.Handler()
	mainCabin, cabin := splitShip(t, p)

	if _, err := p.Board().ForceRemoveTile(At(1, 3)); err != nil {
		t.Fatal(err)
	}

	notice := runningAs[*DelayPIR](t, h, p)
	if err := notice.Acknowledge(p); err != nil {
		t.Fatal(err)
	}

	choice := runningAs[*MultipleChoicePIR](t, h, p)
	opts := choice.Options()
	if len(opts) != 2 || opts[0] != "(1,2)" || opts[1] != "(1,4)" {
		t.Fatalf("unexpected options %v", opts)
	}
	mask := choice.HighlightMask()
	if !mask.Equals(MaskOf(At(1, 2), At(1, 4))) {
		t.Errorf("expected both parts highlighted, got %v", mask.Cells())
	}
	if err := choice.Choose(p, 1); err != nil {
		t.Fatal(err)
	}

	select {
	case <-h.SequenceDone(p):
	case <-time.After(2 * time.Second):
		t.Fatal("repair did not finish")
	}
	if mainCabin.Placed() {
		t.Error("expected the main cabin to be dropped")
	}
	if !cabin.Placed() {
		t.Error("expected the chosen cabin to stay")
	}
	if p.FlightEnded() {
		t.Error("the flight must go on")
	}
}

func TestRepairSupersededByNewHit(t *testing.T) {
	m := newTestManager(t,
		WithNotifyCooldown(longCooldown),
		WithRepairCooldown(longCooldown),
	)
	rec := &recorder{}
	if err := m.Observe(rec); err != nil {
		t.Fatal(err)
	}
	p := newRepairPlayer(t, m)
	h := m.Handler()
	mainCabin, _ := splitShip(t, p)

	if _, err := p.Board().ForceRemoveTile(At(1, 3)); err != nil {
		t.Fatal(err)
	}
	notice := runningAs[*DelayPIR](t, h, p)
	_ = notice.Acknowledge(p)
	choice := runningAs[*MultipleChoicePIR](t, h, p)

	// The other half is shot off before the player answers.
	if _, err := p.Board().ForceRemoveTile(At(1, 4)); err != nil {
		t.Fatal(err)
	}

	select {
	case <-h.SequenceDone(p):
	case <-time.After(2 * time.Second):
		t.Fatal("sequence still open")
	}
	if choice.Outcome() != OutcomeDiscarded {
		t.Errorf("expected the pending choice to be discarded, got %s", choice.Outcome())
	}
	if !mainCabin.Placed() {
		t.Error("the remaining part must stay")
	}
	if len(eventsOf[*EventIntegrityRestored](rec)) != 1 {
		t.Error("expected the ship to be reported sound")
	}
	if len(eventsOf[*EventTilesRemoved](rec)) != 0 {
		t.Error("the discarded conversation must not remove anything")
	}
}

func TestRepairEndsFlightWithoutSurvivors(t *testing.T) {
	m := newTestManager(t,
		WithNotifyCooldown(shortCooldown),
		WithRepairCooldown(shortCooldown),
	)
	rec := &recorder{}
	if err := m.Observe(rec); err != nil {
		t.Fatal(err)
	}
	p := newRepairPlayer(t, m)
	b := p.Board()
	mustSet(t, b, At(1, 3), MustTile(KindStructural, UniformSides(Single)))

	// Nobody aboard: no part of the ship can fly.
	if err := b.EndAssembly(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-m.Handler().SequenceDone(p):
	case <-time.After(2 * time.Second):
		t.Fatal("sequence still open")
	}

	if !p.FlightEnded() {
		t.Fatal("expected the flight to end")
	}
	if b.Phase() != Ended {
		t.Errorf("expected the board to be Ended, got %s", b.Phase())
	}
	if _, err := b.ForceRemoveTile(At(1, 2)); !errors.Is(err, ErrFlightEnded) {
		t.Errorf("expected ErrFlightEnded, got %v", err)
	}
	if p.FlightEndReason() == "" {
		t.Error("expected a reason")
	}
	if ended := eventsOf[*EventFlightEnded](rec); len(ended) != 1 || ended[0].Player != p {
		t.Errorf("expected one flight ended event, got %v", ended)
	}
	if b.Len() != 0 {
		t.Errorf("expected the unflyable tiles to be removed first, %d left", b.Len())
	}
}

func TestEndFlightClosesRepairSequence(t *testing.T) {
	m := newTestManager(t,
		WithNotifyCooldown(longCooldown),
		WithRepairCooldown(longCooldown),
	)
	p := newRepairPlayer(t, m)
	h := m.Handler()

	engine := mustSet(t, p.Board(), At(1, 3), MustTile(KindEngine, Sides{Engine, Smooth, Smooth, Universal}))
	notice := runningAs[*DelayPIR](t, h, p)

	// The flight ends for a reason unrelated to the repair.
	if !p.EndFlight("gave up") {
		t.Fatal("expected the flight to end")
	}
	select {
	case <-h.SequenceDone(p):
	case <-time.After(2 * time.Second):
		t.Fatal("sequence still open after the flight ended")
	}
	if notice.Outcome() != OutcomeDiscarded {
		t.Errorf("expected the notice to be discarded, got %s", notice.Outcome())
	}
	if !engine.Placed() {
		t.Error("an ended flight must not lose tiles")
	}

	ordinary, _ := NewDelayPIR(p, shortCooldown, "final score")
	if _, err := h.SetAndRunTurn(ordinary); err != nil {
		t.Errorf("expected ordinary requests after the flight ended, got %v", err)
	}
}

func TestRepairRemovalSkipsChangedBoard(t *testing.T) {
	m := newTestManager(t,
		WithNotifyCooldown(longCooldown),
		WithRepairCooldown(longCooldown),
	)
	p := newRepairPlayer(t, m)
	h := m.Handler()
	b := p.Board()
	extra := mustSet(t, b, At(1, 3), MustTile(KindStructural, UniformSides(Universal)))

	seq, err := h.CreateAtomicSequence(p)
	if err != nil {
		t.Fatal(err)
	}
	c := &repairConversation{
		player:     p,
		seq:        seq,
		generation: seq.Generation(),
		problem:    IntegrityProblem{revision: b.Revision() - 1},
	}

	// The selection was made for an older board.
	c.remove([]*Tile{extra})
	if !extra.Placed() {
		t.Fatal("a removal for an older revision must not touch the board")
	}

	c.problem = IntegrityProblem{revision: b.Revision()}
	c.remove([]*Tile{extra})
	if extra.Placed() {
		t.Error("expected the tile to be removed at the current revision")
	}
	select {
	case <-h.SequenceDone(p):
	case <-time.After(2 * time.Second):
		t.Fatal("expected the sound ship to close the sequence")
	}
}

func TestRepairListenerIgnoresStaleReports(t *testing.T) {
	m := newTestManager(t)
	p := newRepairPlayer(t, m)
	l := NewRepairListener(p)

	fresh := IntegrityProblem{revision: 5, keep: []TileCluster{NewTileCluster()}}
	if e := l.update(fresh); e != nil {
		t.Errorf("expected no event for a sound report, got %T", e)
	}
	stale := IntegrityProblem{revision: 4}
	if e := l.update(stale); e != nil {
		t.Errorf("expected a stale report to be ignored, got %T", e)
	}
	if _, open := m.Handler().Sequence(p); open {
		t.Error("a stale report must not open a sequence")
	}
}

func TestDefaultCluster(t *testing.T) {
	g := testGrid{}
	a := g.place(t, At(0, 0), MustTile(KindStructural, UniformSides(Single)))
	b1 := g.place(t, At(2, 0), MustTile(KindStructural, UniformSides(Single)))
	b2 := g.place(t, At(2, 1), MustTile(KindStructural, UniformSides(Single)))
	c := g.place(t, At(4, 0), MustTile(KindStructural, UniformSides(Single)))

	keep := []TileCluster{NewTileCluster(a), NewTileCluster(b1, b2), NewTileCluster(c)}
	if i := defaultCluster(keep); i != 1 {
		t.Errorf("expected the largest cluster, got %d", i)
	}
	if i := defaultCluster([]TileCluster{NewTileCluster(a), NewTileCluster(c)}); i != 0 {
		t.Errorf("expected ties to go to the first cluster, got %d", i)
	}
	if label := clusterLabel(keep[1]); label != "(2,0) (2,1)" {
		t.Errorf("unexpected label %q", label)
	}
}
