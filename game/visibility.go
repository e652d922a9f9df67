package game

import (
	"railbird.club/server/poker"
	"railbird.club/server/util"
)

// PlayerView is one seat as a polling client sees it. Hole cards and
// descriptors are only present when the table's mode allows them.
type PlayerView struct {
	Seat       int      `json:"seat"`
	Name       string   `json:"name"`
	Position   string   `json:"position"`
	HoleCards  []string `json:"holeCards,omitempty"`
	WinPercent *float64 `json:"winPercent,omitempty"`
	Descriptor string   `json:"descriptor,omitempty"`
}

// TableView is the public state of a table. Two views with the same
// content always carry the same version.
type TableView struct {
	TableCode   string       `json:"tableCode"`
	Version     uint64       `json:"version"`
	HandNum     uint32       `json:"handNum"`
	Phase       Phase        `json:"phase"`
	InfoMode    InfoMode     `json:"infoMode"`
	ButtonSeat  int          `json:"buttonSeat"`
	Board       []string     `json:"board"`
	Players     []PlayerView `json:"players"`
	EquityPhase Phase        `json:"equityPhase,omitempty"`
	TiePercent  *float64     `json:"tiePercent,omitempty"`
}

// displayStreet decides which street's equities the mode may show
// during the given phase. ok is false when nothing may be shown yet.
func displayStreet(mode InfoMode, phase Phase) (Phase, bool) {
	switch mode {
	case InfoModeFull:
		if phaseOrder[phase] >= phaseOrder[PhasePreflop] {
			return phase, true
		}
		return "", false
	case InfoModeDelayed:
		return PreviousStreet(phase)
	default:
		return "", false
	}
}

// buildTableView assembles the mode-filtered view of a hand. In FULL
// mode this fills the current street's equity on first read; in
// DELAYED mode only already-complete streets are disclosed, so the
// view never leaks what the estimator knows about the live street.
func buildTableView(tableCode string, mode InfoMode, playerNames []string, session *handSession, estimator *EquityEstimator) TableView {
	view := TableView{
		TableCode: tableCode,
		Phase:     PhaseWaiting,
		InfoMode:  mode,
		Board:     []string{},
		Players:   make([]PlayerView, len(playerNames)),
	}

	if session == nil {
		for seat, name := range playerNames {
			view.Players[seat] = PlayerView{Seat: seat, Name: name}
		}
		return view
	}

	view.HandNum = session.handNum
	view.Phase = session.phase
	view.ButtonSeat = session.buttonSeat

	positions := Positions(len(playerNames), session.buttonSeat)
	for seat, name := range playerNames {
		pv := PlayerView{Seat: seat, Name: name}
		if positions != nil {
			pv.Position = positions[seat]
		}
		if mode == InfoModeFull && session.streetReached(PhasePreflop) {
			pv.HoleCards = cardStrings(session.hands[seat])
		}
		view.Players[seat] = pv
	}

	for _, card := range session.visibleBoard() {
		view.Board = append(view.Board, card.String())
	}

	street, ok := displayStreet(mode, session.phase)
	if !ok {
		return view
	}

	var snap *EquitySnapshot
	if street == PhaseShowdown {
		snap = session.resolveShowdownEquity()
	} else {
		snap = session.ensureEquity(estimator, street)
	}
	if snap == nil {
		return view
	}

	view.EquityPhase = snap.Phase
	tie := util.RoundDecimal(snap.TiePercent, 2)
	view.TiePercent = &tie
	for seat := range view.Players {
		pct := util.RoundDecimal(snap.WinPercent[seat], 2)
		view.Players[seat].WinPercent = &pct
		if mode == InfoModeFull {
			view.Players[seat].Descriptor = snap.Descriptors[seat]
		}
	}

	return view
}

func cardStrings(cards []poker.Card) []string {
	strs := make([]string, len(cards))
	for i, c := range cards {
		strs[i] = c.String()
	}
	return strs
}
