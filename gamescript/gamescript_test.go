package gamescript

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadHandScript(t *testing.T) {
	script, err := ReadHandScript("test_scripts/full-house.yaml")
	if err != nil {
		t.Fatalf("ReadHandScript returned error [%s]", err)
	}
	if script == nil {
		t.Fatal("ReadHandScript returned nil data")
	}

	expectedScript := Script{
		Table: TableSetup{
			Name:     "Scripted showdown",
			InfoMode: "FULL",
		},
		ButtonSeat: 2,
		Seats: []Seat{
			{
				Seat:   0,
				Player: "yong",
				Cards:  []string{"As", "Ks"},
			},
			{
				Seat:   1,
				Player: "brian",
				Cards:  []string{"Qd", "Qc"},
			},
			{
				Seat:   2,
				Player: "tom",
				Cards:  []string{"7d", "7c"},
			},
		},
		Board: Board{
			Flop:  []string{"Ad", "7s", "2c"},
			Turn:  "Qh",
			River: "2d",
		},
		Result: &Result{
			Winners:    []int{1},
			Descriptor: "Full House, Qs full of 2s",
		},
	}

	if !cmp.Equal(expectedScript, *script) {
		t.Errorf("Scripts don't match. Diff: %s", cmp.Diff(expectedScript, *script))
	}
}

func TestDealOrder(t *testing.T) {
	script, err := ReadHandScript("test_scripts/full-house.yaml")
	if err != nil {
		t.Fatalf("ReadHandScript returned error [%s]", err)
	}

	order, err := script.DealOrder()
	if err != nil {
		t.Fatalf("DealOrder returned error [%s]", err)
	}

	// Button is at seat 2, so the first card lands on seat 0.
	expectedOrder := []string{
		"As", "Qd", "7d",
		"Ks", "Qc", "7c",
		"Ad", "7s", "2c",
		"Qh",
		"2d",
	}
	labels := make([]string, len(order))
	for i, card := range order {
		labels[i] = card.String()
	}
	if !cmp.Equal(expectedOrder, labels) {
		t.Errorf("Deal orders don't match. Diff: %s", cmp.Diff(expectedOrder, labels))
	}

	names := script.PlayerNames()
	if !cmp.Equal([]string{"yong", "brian", "tom"}, names) {
		t.Errorf("Player names don't match: %v", names)
	}
}

func validScript() *Script {
	return &Script{
		Table:      TableSetup{Name: "t", InfoMode: "FULL"},
		ButtonSeat: 0,
		Seats: []Seat{
			{Seat: 0, Player: "a", Cards: []string{"As", "Ks"}},
			{Seat: 1, Player: "b", Cards: []string{"Qd", "Qc"}},
		},
		Board: Board{
			Flop:  []string{"2c", "3c", "4c"},
			Turn:  "5c",
			River: "6c",
		},
	}
}

func TestValidateRejectsBadScripts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Script)
	}{
		{
			name:   "one seat",
			mutate: func(s *Script) { s.Seats = s.Seats[:1] },
		},
		{
			name:   "button outside the table",
			mutate: func(s *Script) { s.ButtonSeat = 2 },
		},
		{
			name:   "duplicate seat number",
			mutate: func(s *Script) { s.Seats[1].Seat = 0 },
		},
		{
			name:   "duplicate player name",
			mutate: func(s *Script) { s.Seats[1].Player = "a" },
		},
		{
			name:   "three hole cards",
			mutate: func(s *Script) { s.Seats[0].Cards = []string{"As", "Ks", "Qs"} },
		},
		{
			name:   "duplicate card across seats",
			mutate: func(s *Script) { s.Seats[1].Cards = []string{"As", "Qc"} },
		},
		{
			name:   "card shared with the board",
			mutate: func(s *Script) { s.Board.Turn = "As" },
		},
		{
			name:   "unknown card label",
			mutate: func(s *Script) { s.Seats[0].Cards = []string{"Zz", "Ks"} },
		},
		{
			name:   "two card flop",
			mutate: func(s *Script) { s.Board.Flop = []string{"2c", "3c"} },
		},
		{
			name:   "missing river",
			mutate: func(s *Script) { s.Board.River = "" },
		},
		{
			name:   "winner is not seated",
			mutate: func(s *Script) { s.Result = &Result{Winners: []int{5}} },
		},
	}

	for _, tc := range tests {
		script := validScript()
		tc.mutate(script)
		if err := script.Validate(); err == nil {
			t.Errorf("Expected validation error for script with %s", tc.name)
		}
	}

	if err := validScript().Validate(); err != nil {
		t.Errorf("Valid script failed validation [%s]", err)
	}
}
