package nats

import (
	"testing"

	"railbird.club/server/internal/cardmap"
	"railbird.club/server/poker"
)

func TestSubjectNames(t *testing.T) {
	if s := GetTableViewSubject("AB12"); s != "table.AB12.view" {
		t.Errorf("Unexpected view subject %s", s)
	}
	if s := GetTableScanSubject("AB12"); s != "table.AB12.scan" {
		t.Errorf("Unexpected scan subject %s", s)
	}
}

func TestResolveCardPrefersTheLabel(t *testing.T) {
	store := cardmap.NewStaticStore()
	store.Train("04A1", poker.NewCard("Kd"))
	table := &NatsTable{manager: &Manager{resolver: store}}

	card, err := table.resolveCard(ScanMessage{Card: "As"})
	if err != nil {
		t.Fatalf("resolveCard returned error [%s]", err)
	}
	if card.String() != "As" {
		t.Errorf("Expected the label to win, actual %s", card)
	}

	card, err = table.resolveCard(ScanMessage{UID: "04A1"})
	if err != nil {
		t.Fatalf("resolveCard returned error [%s]", err)
	}
	if card.String() != "Kd" {
		t.Errorf("Expected the tag to resolve to Kd, actual %s", card)
	}

	if _, err := table.resolveCard(ScanMessage{UID: "FFFF"}); err == nil {
		t.Error("Expected an error for an untrained tag")
	}
	if _, err := table.resolveCard(ScanMessage{Card: "Zz"}); err == nil {
		t.Error("Expected an error for a bad label")
	}
}
