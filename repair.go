package shipyard

import (
	"errors"
	"strings"
	"sync"
)

// RepairListener turns integrity problems of a player's ship into repair
// requests. It opens an atomic sequence while the ship is unsound and runs
// the conversation on the manager's scheduler, so the mutation that caused
// the problem never blocks on the player.
type RepairListener struct {
	player *Player

	mu       sync.Mutex
	seen     bool
	revision uint64
}

// NewRepairListener creates the repair listener of p.
func NewRepairListener(p *Player) *RepairListener {
	return &RepairListener{player: p}
}

// Update implements IntegrityListener.
func (l *RepairListener) Update(problem IntegrityProblem) {
	if event := l.update(problem); event != nil {
		l.player.manager.Dispatch(event)
	}
}

// update reacts to a report and returns the event to dispatch, if any.
func (l *RepairListener) update(problem IntegrityProblem) any {
	p := l.player
	m := p.manager
	h := m.handler

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seen && problem.Revision() < l.revision {
		m.logger.Debug("shipyard: stale integrity report", "player", p.name, "revision", problem.Revision())
		return nil
	}
	l.seen = true
	l.revision = problem.Revision()

	if p.FlightEnded() {
		return nil
	}

	seq, open := h.Sequence(p)
	if !problem.IsProblem() {
		if !open {
			return nil
		}
		h.DestroyAtomicSequence(seq)
		m.logger.Info("shipyard: integrity restored", "player", p.name, "revision", problem.Revision())
		return &EventIntegrityRestored{Player: p}
	}

	if open {
		// A newer problem supersedes the conversation in flight.
		seq.Clear()
	} else {
		var err error
		if seq, err = h.CreateAtomicSequence(p); err != nil {
			m.logger.Warn("shipyard: cannot open repair sequence", "player", p.name, "err", err)
			return nil
		}
	}

	m.logger.Info("shipyard: integrity problem",
		"player", p.name,
		"revision", problem.Revision(),
		"remove", len(problem.ClustersToRemove()),
		"keep", len(problem.ClustersToKeep()),
	)

	job := &repairConversation{
		player:     p,
		seq:        seq,
		generation: seq.Generation(),
		problem:    problem,
	}
	if !m.scheduler.Submit("repair "+p.name, job) {
		m.logger.Warn("shipyard: scheduler stopped, repair skipped", "player", p.name)
	}
	return &EventIntegrityProblem{Player: p, Problem: problem}
}

// repairConversation resolves one integrity problem with the player.
type repairConversation struct {
	player     *Player
	seq        *AtomicSequence
	generation uint64
	problem    IntegrityProblem
}

// Run implements Runnable.
func (c *repairConversation) Run() {
	p := c.player
	m := p.manager
	opts := m.options

	notice, err := NewDelayPIR(p, opts.NotifyCooldown, m.translate("Your ship has a structural problem."))
	if err != nil || !c.ask(notice) {
		return
	}

	remove := c.problem.ClustersToRemove()
	keep := c.problem.ClustersToKeep()
	switch {
	case len(remove) > 0:
		tiles := c.problem.TilesToRemove()
		var mask Bitmask
		for _, cl := range remove {
			mask = mask.Or(cl.Mask())
		}
		ack, err := NewDelayPIR(p, opts.RepairCooldown,
			m.translate("%d tiles will be removed from your ship.", len(tiles)),
			WithHighlight(func() Bitmask { return mask }),
		)
		if err != nil || !c.ask(ack) {
			return
		}
		c.remove(tiles)

	case len(keep) >= 2:
		labels := make([]string, len(keep))
		var mask Bitmask
		for i, cl := range keep {
			labels[i] = clusterLabel(cl)
			mask = mask.Or(cl.Mask())
		}
		choice, err := NewMultipleChoicePIR(p, opts.RepairCooldown,
			m.translate("Your ship broke apart. Choose the part to keep."),
			labels, defaultCluster(keep),
			WithHighlight(func() Bitmask { return mask }),
		)
		if err != nil || !c.ask(choice) {
			return
		}
		selected := keep[choice.Selected()]
		dropped := NewTileCluster()
		for _, cl := range keep {
			dropped = dropped.Merge(cl)
		}
		c.remove(dropped.Without(selected).Tiles())

	case len(keep) == 0:
		if !c.current() {
			return
		}
		p.EndFlight(m.translate("no part of the ship can fly"))
	}
}

// ask runs pir in the conversation's generation. It reports whether the
// conversation is still current.
func (c *repairConversation) ask(pir PIR) bool {
	if _, err := c.seq.RunAt(c.generation, pir); err != nil {
		c.player.manager.logger.Debug("shipyard: repair conversation dropped", "player", c.player.name, "err", err)
		return false
	}
	return true
}

func (c *repairConversation) current() bool {
	return !c.seq.Closed() && c.seq.Generation() == c.generation
}

// remove takes tiles off the ship, unless the board changed since the
// problem was analyzed. The board re-validates and calls the listener again,
// which continues or ends the repair.
func (c *repairConversation) remove(tiles []*Tile) {
	if !c.current() {
		return
	}
	p := c.player
	removed, err := p.board.RemoveTilesAt(c.problem.Revision(), tiles...)
	if errors.Is(err, ErrStaleRevision) {
		p.manager.logger.Debug("shipyard: repair removal superseded", "player", p.name, "err", err)
		return
	}
	if err != nil {
		p.manager.logger.Warn("shipyard: repair removal failed", "player", p.name, "err", err)
		return
	}
	p.manager.logger.Info("shipyard: tiles removed", "player", p.name, "count", len(removed))
	p.manager.Dispatch(&EventTilesRemoved{Player: p, Tiles: removed})
}

// defaultCluster picks the cluster kept on timeout: the largest one, ties
// going to the cluster with the lowest row-major tile.
func defaultCluster(keep []TileCluster) int {
	best := 0
	for i, cl := range keep {
		if cl.Size() > keep[best].Size() {
			best = i
		}
	}
	return best
}

func clusterLabel(cl TileCluster) string {
	tiles := cl.Tiles()
	cells := make([]string, 0, len(tiles))
	for _, t := range tiles {
		if at, ok := t.position(); ok {
			cells = append(cells, at.String())
		}
	}
	return strings.Join(cells, " ")
}
