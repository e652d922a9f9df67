package game

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"railbird.club/server/poker"
)

func newTestTable(t *testing.T, numPlayers int, infoMode InfoMode, seed int64) (*Manager, *Table) {
	t.Helper()

	names := []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi", "ivan", "judy"}
	persist, err := NewMemoryTableStateTracker()
	if err != nil {
		t.Fatalf("NewMemoryTableStateTracker returned error [%s]", err)
	}
	manager := NewTableManager(DefaultTuning(), persist)

	table, err := manager.CreateTable(context.Background(), TableConfig{
		Players:    names[:numPlayers],
		ButtonSeat: 0,
		InfoMode:   infoMode,
		DealMode:   DealModeAuto,
		BurnCards:  true,
		Seed:       seed,
	})
	if err != nil {
		t.Fatalf("CreateTable returned error [%s]", err)
	}
	return manager, table
}

func TestFullHandWalkthrough(t *testing.T) {
	_, table := newTestTable(t, 3, InfoModeFull, 42)
	ctx := context.Background()

	view := table.View()
	if view.Phase != PhasePreflop {
		t.Fatalf("Expected PREFLOP after create, actual %s", view.Phase)
	}
	if view.HandNum != 1 {
		t.Errorf("Expected hand 1, actual %d", view.HandNum)
	}
	if view.ButtonSeat != 0 {
		t.Errorf("Expected button at seat 0, actual %d", view.ButtonSeat)
	}
	if len(view.Board) != 0 {
		t.Errorf("Expected empty preflop board, actual %v", view.Board)
	}
	if view.EquityPhase != PhasePreflop {
		t.Errorf("Expected preflop equities in FULL mode, actual [%s]", view.EquityPhase)
	}

	seen := map[string]bool{}
	for _, p := range view.Players {
		if len(p.HoleCards) != 2 {
			t.Fatalf("Seat %d expected 2 hole cards, actual %v", p.Seat, p.HoleCards)
		}
		for _, c := range p.HoleCards {
			if seen[c] {
				t.Errorf("Card %s dealt twice", c)
			}
			seen[c] = true
		}
		if p.WinPercent == nil {
			t.Errorf("Seat %d missing win percent", p.Seat)
		}
		if p.Descriptor == "" {
			t.Errorf("Seat %d missing descriptor", p.Seat)
		}
	}

	expectedBoardLens := []int{3, 4, 5, 5}
	expectedPhases := []Phase{PhaseFlop, PhaseTurn, PhaseRiver, PhaseShowdown}
	lastVersion := view.Version
	for i, expectedPhase := range expectedPhases {
		if err := table.Advance(ctx); err != nil {
			t.Fatalf("Advance to %s returned error [%s]", expectedPhase, err)
		}
		view = table.View()
		if view.Phase != expectedPhase {
			t.Fatalf("Step %d expected phase %s, actual %s", i, expectedPhase, view.Phase)
		}
		if len(view.Board) != expectedBoardLens[i] {
			t.Errorf("Phase %s expected %d board cards, actual %d", expectedPhase, expectedBoardLens[i], len(view.Board))
		}
		if view.Version <= lastVersion {
			t.Errorf("Phase %s version did not increase: %d -> %d", expectedPhase, lastVersion, view.Version)
		}
		lastVersion = view.Version
	}

	for _, c := range view.Board {
		if seen[c] {
			t.Errorf("Board card %s collides with a hole card", c)
		}
		seen[c] = true
	}

	// Showdown is resolved exactly: the winners split 100.
	if view.EquityPhase != PhaseShowdown {
		t.Errorf("Expected showdown equities, actual [%s]", view.EquityPhase)
	}
	sum := 0.0
	for _, p := range view.Players {
		sum += *p.WinPercent
	}
	if sum < 99.98 || sum > 100.02 {
		t.Errorf("Showdown shares sum to %f, expected 100", sum)
	}
	if *view.TiePercent != 0 && *view.TiePercent != 100 {
		t.Errorf("Showdown tie percent must be 0 or 100, actual %f", *view.TiePercent)
	}

	// Next hand: button rotates against seat order, counter keeps
	// climbing.
	if err := table.Advance(ctx); err != nil {
		t.Fatalf("Advance to next hand returned error [%s]", err)
	}
	view = table.View()
	if view.Phase != PhasePreflop {
		t.Fatalf("Expected PREFLOP on the next hand, actual %s", view.Phase)
	}
	if view.HandNum != 2 {
		t.Errorf("Expected hand 2, actual %d", view.HandNum)
	}
	if view.ButtonSeat != 2 {
		t.Errorf("Expected button to move to seat 2, actual %d", view.ButtonSeat)
	}
	if len(view.Board) != 0 {
		t.Errorf("Expected board cleared, actual %v", view.Board)
	}
	if view.Version <= lastVersion {
		t.Errorf("Version reset across hands: %d -> %d", lastVersion, view.Version)
	}
}

func TestRepeatedViewsDoNotBumpVersion(t *testing.T) {
	_, table := newTestTable(t, 2, InfoModeFull, 7)

	v1 := table.View().Version
	v2 := table.View().Version
	v3 := table.View().Version
	if v1 != v2 || v2 != v3 {
		t.Errorf("Idle reads changed the version: %d %d %d", v1, v2, v3)
	}
}

func TestDelayedModeHidesTheLiveStreet(t *testing.T) {
	_, table := newTestTable(t, 2, InfoModeDelayed, 11)
	ctx := context.Background()

	view := table.View()
	if view.EquityPhase != "" {
		t.Errorf("Preflop must disclose nothing in delayed mode, actual [%s]", view.EquityPhase)
	}
	for _, p := range view.Players {
		if p.HoleCards != nil {
			t.Errorf("Seat %d hole cards leaked: %v", p.Seat, p.HoleCards)
		}
		if p.WinPercent != nil {
			t.Errorf("Seat %d win percent leaked", p.Seat)
		}
		if p.Descriptor != "" {
			t.Errorf("Seat %d descriptor leaked: %s", p.Seat, p.Descriptor)
		}
	}

	if err := table.Advance(ctx); err != nil {
		t.Fatalf("Advance returned error [%s]", err)
	}
	view = table.View()
	if view.Phase != PhaseFlop {
		t.Fatalf("Expected FLOP, actual %s", view.Phase)
	}
	if view.EquityPhase != PhasePreflop {
		t.Errorf("Flop should disclose preflop equities, actual [%s]", view.EquityPhase)
	}
	for _, p := range view.Players {
		if p.HoleCards != nil || p.Descriptor != "" {
			t.Errorf("Seat %d leaked cards or descriptor in delayed mode", p.Seat)
		}
		if p.WinPercent == nil {
			t.Errorf("Seat %d missing delayed win percent", p.Seat)
		}
	}

	for _, phase := range []Phase{PhaseTurn, PhaseRiver, PhaseShowdown} {
		if err := table.Advance(ctx); err != nil {
			t.Fatalf("Advance returned error [%s]", err)
		}
		view = table.View()
		expected, _ := PreviousStreet(phase)
		if view.EquityPhase != expected {
			t.Errorf("Phase %s should disclose %s equities, actual [%s]", phase, expected, view.EquityPhase)
		}
	}
}

func TestHostViewDoesNotMoveTheAudienceVersion(t *testing.T) {
	_, table := newTestTable(t, 2, InfoModeDelayed, 13)

	before := table.View().Version

	host := table.HostView()
	for _, p := range host.Players {
		if len(p.HoleCards) != 2 {
			t.Errorf("Host view missing hole cards for seat %d", p.Seat)
		}
		if p.WinPercent == nil {
			t.Errorf("Host view missing win percent for seat %d", p.Seat)
		}
	}

	after := table.View().Version
	if before != after {
		t.Errorf("Host view changed the public version: %d -> %d", before, after)
	}
}

func TestForceButton(t *testing.T) {
	_, table := newTestTable(t, 4, InfoModeFull, 21)
	ctx := context.Background()

	if err := table.ForceButton(ctx, 2); err != nil {
		t.Fatalf("ForceButton returned error [%s]", err)
	}
	view := table.View()
	if view.ButtonSeat != 2 {
		t.Fatalf("Expected button at seat 2, actual %d", view.ButtonSeat)
	}
	if view.HandNum != 2 {
		t.Errorf("Forcing the button must redeal: expected hand 2, actual %d", view.HandNum)
	}
	if view.Phase != PhasePreflop {
		t.Errorf("Expected a fresh PREFLOP, actual %s", view.Phase)
	}

	// Play the forced hand out. The next hand keeps the forced
	// button, the one after resumes rotation.
	for i := 0; i < 4; i++ {
		if err := table.Advance(ctx); err != nil {
			t.Fatalf("Advance returned error [%s]", err)
		}
	}
	if err := table.Advance(ctx); err != nil {
		t.Fatalf("Advance returned error [%s]", err)
	}
	view = table.View()
	if view.HandNum != 3 || view.ButtonSeat != 2 {
		t.Errorf("Hand after a forced button should keep seat 2: hand %d button %d", view.HandNum, view.ButtonSeat)
	}

	for i := 0; i < 5; i++ {
		if err := table.Advance(ctx); err != nil {
			t.Fatalf("Advance returned error [%s]", err)
		}
	}
	view = table.View()
	if view.HandNum != 4 || view.ButtonSeat != 1 {
		t.Errorf("Rotation should resume at seat 1: hand %d button %d", view.HandNum, view.ButtonSeat)
	}
}

func TestForceButtonWrapsTheSeatNumber(t *testing.T) {
	_, table := newTestTable(t, 4, InfoModeFull, 23)

	if err := table.ForceButton(context.Background(), 7); err != nil {
		t.Fatalf("ForceButton returned error [%s]", err)
	}
	if view := table.View(); view.ButtonSeat != 3 {
		t.Errorf("Expected seat 7 to wrap to 3, actual %d", view.ButtonSeat)
	}
}

func TestTableValidation(t *testing.T) {
	persist, _ := NewMemoryTableStateTracker()
	tuning := DefaultTuning()

	testCases := []struct {
		name   string
		config TableConfig
	}{
		{"too few players", TableConfig{TableCode: "T1", Players: []string{"solo"}, InfoMode: InfoModeFull, DealMode: DealModeAuto}},
		{"too many players", TableConfig{TableCode: "T2", Players: make([]string, 11), InfoMode: InfoModeFull, DealMode: DealModeAuto}},
		{"empty name", TableConfig{TableCode: "T3", Players: []string{"alice", " "}, InfoMode: InfoModeFull, DealMode: DealModeAuto}},
		{"bad info mode", TableConfig{TableCode: "T4", Players: []string{"alice", "bob"}, InfoMode: "LOUD", DealMode: DealModeAuto}},
		{"bad deal mode", TableConfig{TableCode: "T5", Players: []string{"alice", "bob"}, InfoMode: InfoModeFull, DealMode: "LASER"}},
	}

	for _, tc := range testCases {
		_, err := NewTable(tc.config, tuning, persist)
		if err == nil {
			t.Errorf("%s: expected error, got none", tc.name)
			continue
		}
		switch err.(type) {
		case InvalidConfigError:
		default:
			t.Errorf("%s: expected InvalidConfigError, actual %T", tc.name, err)
		}
	}
}

func TestScanFedDeal(t *testing.T) {
	persist, _ := NewMemoryTableStateTracker()
	manager := NewTableManager(DefaultTuning(), persist)

	shortCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	table, err := manager.CreateTable(shortCtx, TableConfig{
		TableCode:  "SCAN1",
		Players:    []string{"alice", "bob"},
		ButtonSeat: 0,
		InfoMode:   InfoModeFull,
		DealMode:   DealModeScan,
		BurnCards:  true,
		Seed:       3,
	})
	if err == nil {
		t.Fatal("Expected a deal timeout with no cards scanned")
	}
	if table == nil {
		t.Fatal("Table must exist even though the deal is pending")
	}
	if view := table.View(); view.Phase != PhaseWaiting {
		t.Fatalf("Expected WAITING while scans are pending, actual %s", view.Phase)
	}

	// Deal order: first pass seat 1 then seat 0, second pass again.
	for _, c := range []string{"As", "Kd", "Qh", "Jc"} {
		if err := table.ScanCard(poker.NewCard(c)); err != nil {
			t.Fatalf("ScanCard(%s) returned error [%s]", c, err)
		}
	}
	if err := table.ScanCard(poker.NewCard("As")); err == nil {
		t.Fatal("Expected duplicate scan to be rejected")
	} else if _, ok := err.(DuplicateCardError); !ok {
		t.Fatalf("Expected DuplicateCardError, actual %T", err)
	}

	if err := table.Advance(context.Background()); err != nil {
		t.Fatalf("Advance returned error [%s]", err)
	}
	view := table.View()
	if view.Phase != PhasePreflop {
		t.Fatalf("Expected PREFLOP, actual %s", view.Phase)
	}
	if !cmp.Equal(view.Players[0].HoleCards, []string{"Kd", "Jc"}) {
		t.Errorf("Seat 0 expected [Kd Jc], actual %v", view.Players[0].HoleCards)
	}
	if !cmp.Equal(view.Players[1].HoleCards, []string{"As", "Qh"}) {
		t.Errorf("Seat 1 expected [As Qh], actual %v", view.Players[1].HoleCards)
	}

	// No burn is consumed from the scanner: the next three scans are
	// exactly the flop.
	for _, c := range []string{"2h", "3h", "4h"} {
		if err := table.ScanCard(poker.NewCard(c)); err != nil {
			t.Fatalf("ScanCard(%s) returned error [%s]", c, err)
		}
	}
	if err := table.Advance(context.Background()); err != nil {
		t.Fatalf("Advance returned error [%s]", err)
	}
	view = table.View()
	if !cmp.Equal(view.Board, []string{"2h", "3h", "4h"}) {
		t.Errorf("Expected the scanned flop, actual %v", view.Board)
	}
}

func TestScanRejectedOnAutoTable(t *testing.T) {
	_, table := newTestTable(t, 2, InfoModeFull, 5)

	err := table.ScanCard(poker.NewCard("As"))
	if err == nil {
		t.Fatal("Expected scan to be rejected on an auto-dealt table")
	}
	if _, ok := err.(InvalidConfigError); !ok {
		t.Errorf("Expected InvalidConfigError, actual %T", err)
	}
}

func TestPartialScanDealResumes(t *testing.T) {
	persist, _ := NewMemoryTableStateTracker()
	manager := NewTableManager(DefaultTuning(), persist)

	shortCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	table, _ := manager.CreateTable(shortCtx, TableConfig{
		TableCode:  "SCAN2",
		Players:    []string{"alice", "bob"},
		ButtonSeat: 0,
		InfoMode:   InfoModeFull,
		DealMode:   DealModeScan,
		Seed:       3,
	})

	table.ScanCard(poker.NewCard("7h"))
	table.ScanCard(poker.NewCard("8h"))

	retryCtx, cancelRetry := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelRetry()
	if err := table.Advance(retryCtx); err == nil {
		t.Fatal("Expected the deal to still be short two cards")
	}
	if view := table.View(); view.Phase != PhaseWaiting {
		t.Fatalf("Expected WAITING mid-deal, actual %s", view.Phase)
	}

	table.ScanCard(poker.NewCard("9h"))
	table.ScanCard(poker.NewCard("Th"))
	if err := table.Advance(context.Background()); err != nil {
		t.Fatalf("Advance returned error [%s]", err)
	}

	view := table.View()
	if view.Phase != PhasePreflop {
		t.Fatalf("Expected PREFLOP after the remaining scans, actual %s", view.Phase)
	}
	if !cmp.Equal(view.Players[1].HoleCards, []string{"7h", "9h"}) {
		t.Errorf("Seat 1 expected [7h 9h], actual %v", view.Players[1].HoleCards)
	}
	if !cmp.Equal(view.Players[0].HoleCards, []string{"8h", "Th"}) {
		t.Errorf("Seat 0 expected [8h Th], actual %v", view.Players[0].HoleCards)
	}
}

func TestPersistAndRestoreMidHand(t *testing.T) {
	manager, table := newTestTable(t, 3, InfoModeFull, 99)
	ctx := context.Background()

	table.Advance(ctx)
	table.Advance(ctx)
	liveView := table.View()
	if liveView.Phase != PhaseTurn {
		t.Fatalf("Expected TURN, actual %s", liveView.Phase)
	}

	state, err := manager.persist.Load(table.TableCode())
	if err != nil {
		t.Fatalf("Load returned error [%s]", err)
	}
	restored, err := RestoreTable(state, DefaultTuning(), manager.persist)
	if err != nil {
		t.Fatalf("RestoreTable returned error [%s]", err)
	}

	if !cmp.Equal(liveView, restored.View()) {
		t.Errorf("Restored view differs:\n%s", cmp.Diff(liveView, restored.View()))
	}

	// The restored deck keeps dealing without card collisions.
	if err := restored.Advance(ctx); err != nil {
		t.Fatalf("Advance after restore returned error [%s]", err)
	}
	view := restored.View()
	if view.Phase != PhaseRiver || len(view.Board) != 5 {
		t.Fatalf("Expected a 5-card river after restore, actual %s with %v", view.Phase, view.Board)
	}
	seen := map[string]bool{}
	for _, p := range view.Players {
		for _, c := range p.HoleCards {
			if seen[c] {
				t.Errorf("Card %s appears twice after restore", c)
			}
			seen[c] = true
		}
	}
	for _, c := range view.Board {
		if seen[c] {
			t.Errorf("Board card %s appears twice after restore", c)
		}
		seen[c] = true
	}
}

func TestManagerLifecycle(t *testing.T) {
	manager, table := newTestTable(t, 2, InfoModeFull, 1)
	code := table.TableCode()

	got, err := manager.GetTable(code)
	if err != nil || got != table {
		t.Fatalf("GetTable(%s) returned %v, error %v", code, got, err)
	}

	if _, err := manager.GetTable("NOPE"); err == nil {
		t.Fatal("Expected TableNotFoundError for an unknown code")
	} else if _, ok := err.(TableNotFoundError); !ok {
		t.Fatalf("Expected TableNotFoundError, actual %T", err)
	}

	if err := manager.CloseTable(code); err != nil {
		t.Fatalf("CloseTable returned error [%s]", err)
	}
	if _, err := manager.GetTable(code); err == nil {
		t.Fatal("Expected the table to be gone after close")
	}
	if _, err := manager.persist.Load(code); err == nil {
		t.Fatal("Expected the persisted state to be removed after close")
	}
}

func TestResumeTablesAfterRestart(t *testing.T) {
	manager, table := newTestTable(t, 2, InfoModeDelayed, 55)
	ctx := context.Background()
	table.Advance(ctx)
	liveView := table.View()

	// A new manager over the same persistence plays the part of a
	// restarted process.
	fresh := NewTableManager(DefaultTuning(), manager.persist)
	if resumed := fresh.ResumeTables(); resumed != 1 {
		t.Fatalf("Expected 1 resumed table, actual %d", resumed)
	}

	restored, err := fresh.GetTable(table.TableCode())
	if err != nil {
		t.Fatalf("GetTable after resume returned error [%s]", err)
	}
	if !cmp.Equal(liveView, restored.View()) {
		t.Errorf("Resumed view differs:\n%s", cmp.Diff(liveView, restored.View()))
	}
}

func TestHostCodeAuthorization(t *testing.T) {
	_, table := newTestTable(t, 2, InfoModeFull, 77)

	code := table.HostCode()
	if len(code) != 4 {
		t.Fatalf("Expected a 4-character host code, actual [%s]", code)
	}
	if !table.AuthorizeHost(code) {
		t.Error("Exact host code rejected")
	}
	if !table.AuthorizeHost("  " + code + " ") {
		t.Error("Host code with whitespace rejected")
	}
	if table.AuthorizeHost("XXXX") {
		t.Error("Wrong host code accepted")
	}
}
