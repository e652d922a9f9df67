package game

// Position labels relative to the button for each table size. Index 0
// is the button itself, continuing in deal order.
var positionLabels = map[int][]string{
	2:  {"BTN", "BB"},
	3:  {"BTN", "SB", "BB"},
	4:  {"BTN", "SB", "BB", "UTG"},
	5:  {"BTN", "SB", "BB", "UTG", "CO"},
	6:  {"BTN", "SB", "BB", "UTG", "HJ", "CO"},
	7:  {"BTN", "SB", "BB", "UTG", "UTG+1", "HJ", "CO"},
	8:  {"BTN", "SB", "BB", "UTG", "UTG+1", "UTG+2", "HJ", "CO"},
	9:  {"BTN", "SB", "BB", "UTG", "UTG+1", "UTG+2", "UTG+3", "HJ", "CO"},
	10: {"BTN", "SB", "BB", "UTG", "UTG+1", "UTG+2", "UTG+3", "UTG+4", "HJ", "CO"},
}

// Positions returns the position label for every seat, indexed by
// seat number, for the given button seat. Returns nil when the table
// size has no defined labels.
func Positions(numSeats int, buttonSeat int) []string {
	labels, ok := positionLabels[numSeats]
	if !ok {
		return nil
	}

	positions := make([]string, numSeats)
	for i, label := range labels {
		positions[(buttonSeat+i)%numSeats] = label
	}
	return positions
}
