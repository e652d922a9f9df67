package cardmap

import (
	"sync"

	"railbird.club/server/game"
	"railbird.club/server/poker"
)

// StaticStore keeps tag mappings in memory. Used when no card map
// database is configured, and by tests.
type StaticStore struct {
	lock sync.RWMutex
	tags map[string]poker.Card
}

func NewStaticStore() *StaticStore {
	return &StaticStore{
		tags: make(map[string]poker.Card),
	}
}

func (s *StaticStore) Train(uid string, card poker.Card) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.tags[uid] = card
}

func (s *StaticStore) Resolve(uid string) (poker.Card, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	card, ok := s.tags[uid]
	if !ok {
		return 0, game.UnknownCardError{UID: uid}
	}
	return card, nil
}
