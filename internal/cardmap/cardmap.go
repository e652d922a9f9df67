// Package cardmap resolves RFID tag UIDs to playing cards. The
// mapping is written once per deck by the training tool and read on
// every scan, so reads go through an LRU cache in front of the store.
package cardmap

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"railbird.club/server/game"
	"railbird.club/server/poker"
)

// Store looks up the card a tag UID was trained to. Implementations
// return game.UnknownCardError for tags that were never trained.
type Store interface {
	Resolve(uid string) (poker.Card, error)
}

// Cache is a read-through LRU in front of a Store. A full deck is 52
// entries, so any reasonable size holds every tag after one hand.
type Cache struct {
	cache *lru.Cache
	store Store
}

func NewCache(size int, store Store) (*Cache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize card map cache")
	}
	return &Cache{
		cache: c,
		store: store,
	}, nil
}

func (c *Cache) Resolve(uid string) (poker.Card, error) {
	v, exists := c.cache.Get(uid)
	if exists {
		return v.(poker.Card), nil
	}

	card, err := c.store.Resolve(uid)
	if err != nil {
		if _, unknown := err.(game.UnknownCardError); unknown {
			return 0, err
		}
		return 0, errors.Wrapf(err, "Unable to resolve tag %s", uid)
	}
	c.cache.Add(uid, card)
	return card, nil
}
