package poker

import (
	"math/rand"

	"railbird.club/server/util/random"
)

var fullDeck *Deck

func init() {
	fullDeck = &Deck{cards: initializeFullCards()}
}

type Deck struct {
	cards   []Card
	randGen *rand.Rand
}

// NewDeck returns a freshly shuffled 52-card deck. Pass nil to get a
// crypto-seeded generator; pass a seeded *rand.Rand for reproducible
// deals.
func NewDeck(randGen *rand.Rand) *Deck {
	if randGen == nil {
		randGen = random.NewRand(random.NewSeed())
	}
	deck := &Deck{randGen: randGen}
	deck.Shuffle()
	return deck
}

func NewDeckNoShuffle() *Deck {
	deck := &Deck{}
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)
	return deck
}

// DeckFromBytes rebuilds a partially dealt deck from its persisted
// byte form.
func DeckFromBytes(cardsInByte []byte) *Deck {
	cards := make([]Card, len(cardsInByte))
	for i, cardInByte := range cardsInByte {
		cards[i] = NewCardFromByte(cardInByte)
	}
	return &Deck{cards: cards}
}

func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck.cards))
	copy(deck.cards, fullDeck.cards)

	if deck.randGen == nil {
		deck.randGen = random.NewRand(random.NewSeed())
	}
	deck.randGen.Shuffle(len(deck.cards), func(i, j int) {
		deck.cards[i], deck.cards[j] = deck.cards[j], deck.cards[i]
	})

	return deck
}

func (deck *Deck) Draw(n int) []Card {
	cards := make([]Card, n)
	copy(cards, deck.cards[:n])
	deck.cards = deck.cards[n:]
	return cards
}

func (deck *Deck) Empty() bool {
	return len(deck.cards) == 0
}

func (deck *Deck) Remaining() int {
	return len(deck.cards)
}

func initializeFullCards() []Card {
	var cards []Card

	for _, rank := range strRanks {
		for suit := range charSuitToIntSuit {
			cards = append(cards, NewCard(string(rank)+string(suit)))
		}
	}

	return cards
}

// FullDeck returns a copy of all 52 cards in no particular order.
func FullDeck() []Card {
	cards := make([]Card, len(fullDeck.cards))
	copy(cards, fullDeck.cards)
	return cards
}

// GetBytes returns the remaining cards in wire-byte form, high nibble
// rank and low nibble suit.
func (deck *Deck) GetBytes() []uint8 {
	cards := make([]byte, len(deck.cards))
	for i, card := range deck.cards {
		cards[i] = card.GetByte()
	}
	return cards
}

func (deck *Deck) PrettyPrint() string {
	return CardsToString(deck.cards)
}

type CardsInAscii []string

// DeckFromScript arranges a deck so that dealing reproduces the given
// hands and board. playerCards is in deal order, first seat left of
// the button first; hole cards go out one at a time over two passes.
func DeckFromScript(playerCards []CardsInAscii, flop CardsInAscii, turn Card, river Card, burnCard bool) *Deck {
	deck := NewDeck(nil)
	noOfPlayers := len(playerCards)
	for i, cards := range playerCards {
		for j, cardStr := range cards {
			deckIndex := i + j*noOfPlayers
			card := NewCard(cardStr)
			cardLoc := deck.getCardLoc(card)
			currentCard := deck.cards[deckIndex]
			deck.cards[deckIndex] = card
			deck.cards[cardLoc] = currentCard
		}
	}

	deckIndex := len(playerCards) * len(playerCards[0])
	if burnCard {
		deckIndex++
	}

	for _, cardStr := range flop {
		card := NewCard(cardStr)
		cardLoc := deck.getCardLoc(card)
		currentCard := deck.cards[deckIndex]
		deck.cards[deckIndex] = card
		deck.cards[cardLoc] = currentCard
		deckIndex++
	}

	if burnCard {
		deckIndex++
	}

	cardLoc := deck.getCardLoc(turn)
	currentCard := deck.cards[deckIndex]
	deck.cards[deckIndex] = turn
	deck.cards[cardLoc] = currentCard
	deckIndex++

	if burnCard {
		deckIndex++
	}

	cardLoc = deck.getCardLoc(river)
	currentCard = deck.cards[deckIndex]
	deck.cards[deckIndex] = river
	deck.cards[cardLoc] = currentCard

	return deck
}

func (deck *Deck) getCardLoc(cardToLocate Card) int {
	for i, card := range deck.cards {
		if card == cardToLocate {
			return i
		}
	}
	return -1
}
