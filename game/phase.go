package game

// Phase is the lifecycle stage of a hand. A table waits for its first
// hand, then walks PREFLOP through SHOWDOWN, then starts over.
type Phase string

const (
	PhaseWaiting  Phase = "WAITING"
	PhasePreflop  Phase = "PREFLOP"
	PhaseFlop     Phase = "FLOP"
	PhaseTurn     Phase = "TURN"
	PhaseRiver    Phase = "RIVER"
	PhaseShowdown Phase = "SHOWDOWN"
)

// phaseBack maps each phase to the street whose equities are safe to
// disclose once the phase begins. Preflop has no predecessor, so in
// delayed mode nothing shows until the flop is out.
var phaseBack = map[Phase]Phase{
	PhaseFlop:     PhasePreflop,
	PhaseTurn:     PhaseFlop,
	PhaseRiver:    PhaseTurn,
	PhaseShowdown: PhaseRiver,
}

var boardLenByPhase = map[Phase]int{
	PhaseWaiting:  0,
	PhasePreflop:  0,
	PhaseFlop:     3,
	PhaseTurn:     4,
	PhaseRiver:    5,
	PhaseShowdown: 5,
}

func (p Phase) Valid() bool {
	_, ok := boardLenByPhase[p]
	return ok
}

// BoardLen is the number of community cards on the table in this
// phase.
func (p Phase) BoardLen() int {
	return boardLenByPhase[p]
}

// PreviousStreet returns the street disclosed in delayed mode while p
// is in progress. ok is false for phases with nothing to disclose.
func PreviousStreet(p Phase) (Phase, bool) {
	prev, ok := phaseBack[p]
	return prev, ok
}

// InfoMode controls what the audience view reveals while a hand is
// live.
type InfoMode string

const (
	// InfoModeFull shows hole cards and live equities as they are
	// computed. Meant for home games where everyone is watching the
	// stream after the fact.
	InfoModeFull InfoMode = "FULL"

	// InfoModeDelayed holds equities back one street and never shows
	// hole cards. Safe to put on a screen next to a live table.
	InfoModeDelayed InfoMode = "DELAYED_EQUITY"
)

func (m InfoMode) Valid() bool {
	return m == InfoModeFull || m == InfoModeDelayed
}
