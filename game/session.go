package game

import (
	"context"

	"railbird.club/server/poker"
	"railbird.club/server/util"
)

var phaseOrder = map[Phase]int{
	PhaseWaiting:  0,
	PhasePreflop:  1,
	PhaseFlop:     2,
	PhaseTurn:     3,
	PhaseRiver:    4,
	PhaseShowdown: 5,
}

// handSession is the state of a single hand: who was dealt what, how
// much of the board is out, and the equity snapshots computed so far.
// The table replaces its session every time a new hand starts.
type handSession struct {
	handNum    uint32
	buttonSeat int
	numSeats   int
	phase      Phase

	dealMode    DealMode
	burnEnabled bool
	source      CardSource
	feed        *FeedSource

	hands     [][]poker.Card
	dealtHole int
	board     []poker.Card
	burned    []poker.Card

	equityCache  map[Phase]*EquitySnapshot
	lastComputed Phase
}

func newHandSession(handNum uint32, numSeats int, buttonSeat int, dealMode DealMode, burnEnabled bool, source CardSource, feed *FeedSource) *handSession {
	hands := make([][]poker.Card, numSeats)
	for i := range hands {
		hands[i] = make([]poker.Card, 0, 2)
	}
	return &handSession{
		handNum:     handNum,
		buttonSeat:  buttonSeat,
		numSeats:    numSeats,
		phase:       PhaseWaiting,
		dealMode:    dealMode,
		burnEnabled: burnEnabled,
		source:      source,
		feed:        feed,
		hands:       hands,
		board:       make([]poker.Card, 0, 5),
		burned:      make([]poker.Card, 0, 3),
		equityCache: map[Phase]*EquitySnapshot{},
	}
}

// dealHoleCards deals two cards to every seat, one at a time over two
// passes, starting left of the button. Dealing resumes where it
// stopped if a scan-fed deal times out partway.
func (s *handSession) dealHoleCards(ctx context.Context) error {
	total := 2 * s.numSeats
	for s.dealtHole < total {
		seat := (s.buttonSeat + 1 + s.dealtHole%s.numSeats) % s.numSeats
		card, err := s.source.Next(ctx)
		if err != nil {
			return err
		}
		s.hands[seat] = append(s.hands[seat], card)
		s.dealtHole++
	}

	s.phase = PhasePreflop
	util.MetricsHandDealt()
	return nil
}

// advanceStreet moves the hand to the next phase, dealing board cards
// as needed. Must not be called before hole cards are out.
func (s *handSession) advanceStreet(ctx context.Context) error {
	var target Phase
	switch s.phase {
	case PhasePreflop:
		target = PhaseFlop
	case PhaseFlop:
		target = PhaseTurn
	case PhaseTurn:
		target = PhaseRiver
	case PhaseRiver:
		s.phase = PhaseShowdown
		return nil
	default:
		return UnexpectedPhaseError{Phase: s.phase, Operation: "advance the street"}
	}

	if len(s.board) == s.phase.BoardLen() {
		s.burn(ctx)
	}
	for len(s.board) < target.BoardLen() {
		card, err := s.source.Next(ctx)
		if err != nil {
			return err
		}
		s.board = append(s.board, card)
	}

	s.phase = target
	return nil
}

// burn discards the top card before a street. Only auto-dealt tables
// consume a card here; at a physical table the burn never crosses the
// scanner.
func (s *handSession) burn(ctx context.Context) {
	if !s.burnEnabled || s.dealMode != DealModeAuto {
		return
	}
	card, err := s.source.Next(ctx)
	if err != nil {
		return
	}
	s.burned = append(s.burned, card)
}

// streetReached reports whether the given street's inputs exist yet.
func (s *handSession) streetReached(street Phase) bool {
	return phaseOrder[street] <= phaseOrder[s.phase]
}

// ensureEquity returns the cached snapshot for a street, computing it
// on first use. Streets are recomputable retroactively because the
// board grows append-only. Returns nil when the street has not been
// reached or is the showdown, which is resolved exactly instead.
func (s *handSession) ensureEquity(estimator *EquityEstimator, street Phase) *EquitySnapshot {
	if snap, ok := s.equityCache[street]; ok {
		return snap
	}
	if street == PhaseShowdown || phaseOrder[street] < phaseOrder[PhasePreflop] {
		return nil
	}
	if !s.streetReached(street) {
		return nil
	}

	snap := estimator.Estimate(s.hands, s.board[:street.BoardLen()], street)
	s.equityCache[street] = &snap
	if phaseOrder[street] > phaseOrder[s.lastComputed] {
		s.lastComputed = street
	}
	return &snap
}

// resolveShowdownEquity fills the showdown slot with the exact
// result. Called once when the hand enters SHOWDOWN.
func (s *handSession) resolveShowdownEquity() *EquitySnapshot {
	if snap, ok := s.equityCache[PhaseShowdown]; ok {
		return snap
	}
	snap := resolveShowdown(s.hands, s.board)
	s.equityCache[PhaseShowdown] = &snap
	s.lastComputed = PhaseShowdown
	return &snap
}

// visibleBoard hides cards that are dealt but not yet part of the
// announced street.
func (s *handSession) visibleBoard() []poker.Card {
	n := s.phase.BoardLen()
	if n > len(s.board) {
		n = len(s.board)
	}
	return s.board[:n]
}
