package game

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"railbird.club/server/poker"
)

// DealMode selects where a table's cards come from.
type DealMode string

const (
	// DealModeAuto draws from a server-side shuffled deck.
	DealModeAuto DealMode = "AUTO"

	// DealModeScan waits for each card to arrive from the table's
	// scanner. The deal order is the physical deal order.
	DealModeScan DealMode = "SCAN"
)

func (m DealMode) Valid() bool {
	return m == DealModeAuto || m == DealModeScan
}

// CardSource produces the next card in the dealing sequence.
type CardSource interface {
	Next(ctx context.Context) (poker.Card, error)
}

// DeckSource deals from an in-memory shuffled deck.
type DeckSource struct {
	deck *poker.Deck
}

func NewDeckSource(deck *poker.Deck) *DeckSource {
	return &DeckSource{deck: deck}
}

func (s *DeckSource) Next(ctx context.Context) (poker.Card, error) {
	if s.deck.Empty() {
		return 0, DeckExhaustedError{Needed: 1}
	}
	return s.deck.Draw(1)[0], nil
}

// Deck exposes the underlying deck for persistence.
func (s *DeckSource) Deck() *poker.Deck {
	return s.deck
}

// FeedSource is fed scanned cards one at a time and hands them to the
// dealing sequence in arrival order. A card can enter the feed only
// once per hand.
type FeedSource struct {
	lock  sync.Mutex
	seen  map[poker.Card]bool
	scans chan poker.Card
}

func NewFeedSource(buffer int) *FeedSource {
	return &FeedSource{
		seen:  make(map[poker.Card]bool),
		scans: make(chan poker.Card, buffer),
	}
}

// Push queues a scanned card. Duplicate scans within the same hand
// are rejected so a card waved over the antenna twice cannot corrupt
// the deal.
func (s *FeedSource) Push(card poker.Card) error {
	s.lock.Lock()
	if s.seen[card] {
		s.lock.Unlock()
		return DuplicateCardError{Card: card.String()}
	}
	s.seen[card] = true
	s.lock.Unlock()

	select {
	case s.scans <- card:
		return nil
	default:
		// Unmark so the scan can be retried once the feed drains.
		s.lock.Lock()
		delete(s.seen, card)
		s.lock.Unlock()
		return errors.New("scan buffer is full")
	}
}

func (s *FeedSource) Next(ctx context.Context) (poker.Card, error) {
	select {
	case card := <-s.scans:
		return card, nil
	case <-ctx.Done():
		return 0, errors.Wrap(ctx.Err(), "timed out waiting for a card scan")
	}
}

// Pending reports how many scanned cards are queued but not yet dealt.
func (s *FeedSource) Pending() int {
	return len(s.scans)
}

// MarkSeen records cards dealt before a restart so re-scanning one of
// them is still rejected as a duplicate.
func (s *FeedSource) MarkSeen(cards []poker.Card) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, card := range cards {
		s.seen[card] = true
	}
}
