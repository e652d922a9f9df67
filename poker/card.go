package poker

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Card is a 32-bit integer in the Cactus Kev encoding.
//
//	+--------+--------+--------+--------+
//	|xxxbbbbb|bbbbbbbb|cdhsrrrr|xxpppppp|
//	+--------+--------+--------+--------+
//
// p = prime number of rank (two=2, three=3, four=5, ..., ace=41)
// r = rank of card (two=0, three=1, ..., ace=12)
// cdhs = bit set depending on suit of card
// b = bit set depending on rank of card
//
// The layout makes flush detection a bitwise AND and hand ranking a
// couple of prime products.
type Card int32

const strRanks = "23456789TJQKA"

var intRanks [13]int32

var primes = []int32{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41}

var charRankToIntRank = map[byte]int32{}

var charSuitToIntSuit = map[byte]int32{
	's': 1, // spades
	'h': 2, // hearts
	'd': 4, // diamonds
	'c': 8, // clubs
}

const intSuitToCharSuit = "xshxdxxxc"

func init() {
	for i := 0; i < 13; i++ {
		intRanks[i] = int32(i)
		charRankToIntRank[strRanks[i]] = int32(i)
	}
}

// NewCard builds a card from a two character string such as "As" or
// "Th". It panics on malformed input; use ParseCard for untrusted
// strings.
func NewCard(arg string) Card {
	card, err := ParseCard(arg)
	if err != nil {
		panic(err)
	}
	return card
}

// ParseCard parses a rank+suit string ("Kd", "7c") into a Card.
func ParseCard(arg string) (Card, error) {
	if len(arg) != 2 {
		return 0, errors.Errorf("card string must be 2 characters: %q", arg)
	}
	rankInt, ok := charRankToIntRank[arg[0]]
	if !ok {
		return 0, errors.Errorf("invalid card rank: %q", arg)
	}
	suitInt, ok := charSuitToIntSuit[arg[1]]
	if !ok {
		return 0, errors.Errorf("invalid card suit: %q", arg)
	}

	rankPrime := primes[rankInt]
	bitRank := int32(1) << uint(rankInt) << 16
	suit := suitInt << 12
	rank := rankInt << 8

	return Card(bitRank | suit | rank | rankPrime), nil
}

// NewCardFromByte builds a card from the compact wire byte: rank in
// the high nibble (two=0 ... ace=12), suit bit in the low nibble
// (spade=1, heart=2, diamond=4, club=8).
func NewCardFromByte(b byte) Card {
	rankInt := int32(b >> 4)
	suitInt := int32(b & 0xF)
	if rankInt > 12 || suitInt > 8 || intSuitToCharSuit[suitInt] == 'x' {
		panic(fmt.Sprintf("invalid card byte: 0x%02x", b))
	}

	rankPrime := primes[rankInt]
	bitRank := int32(1) << uint(rankInt) << 16
	suit := suitInt << 12
	rank := rankInt << 8

	return Card(bitRank | suit | rank | rankPrime)
}

// GetByte returns the compact wire form of the card. See
// NewCardFromByte for the layout.
func (c Card) GetByte() byte {
	return byte(c.Rank()<<4 | c.Suit())
}

func (c Card) Rank() int32 {
	return int32(c>>8) & 0xF
}

func (c Card) Suit() int32 {
	return int32(c>>12) & 0xF
}

func (c Card) BitRank() int32 {
	return int32(c >> 16)
}

func (c Card) Prime() int32 {
	return int32(c) & 0x3F
}

func (c Card) String() string {
	return string(strRanks[c.Rank()]) + string(intSuitToCharSuit[c.Suit()])
}

// CardsToString renders a hand for logs and errors. Accepts []Card,
// []byte or []string forms.
func CardsToString(cards interface{}) string {
	parts := make([]string, 0)
	switch cards := cards.(type) {
	case []Card:
		for _, c := range cards {
			parts = append(parts, c.String())
		}
	case []byte:
		for _, b := range cards {
			parts = append(parts, NewCardFromByte(b).String())
		}
	case []string:
		parts = append(parts, cards...)
	default:
		panic(fmt.Sprintf("CardsToString: unsupported type %T", cards))
	}
	return strings.Join(parts, " ")
}

func FromByteCards(bytes []byte) []Card {
	cards := make([]Card, len(bytes))
	for i, b := range bytes {
		cards[i] = NewCardFromByte(b)
	}
	return cards
}

func CardsToByteCards(cards []Card) []byte {
	bytes := make([]byte, len(cards))
	for i, c := range cards {
		bytes[i] = c.GetByte()
	}
	return bytes
}

func primeProductFromHand(cards []Card) int32 {
	product := int32(1)
	for _, c := range cards {
		product *= c.Prime()
	}
	return product
}

func primeProductFromRankBits(rankBits int32) int32 {
	product := int32(1)
	for _, i := range intRanks {
		if rankBits&(1<<uint(i)) != 0 {
			product *= primes[i]
		}
	}
	return product
}

// combinations emits every n-card subset of cards, in lexicographic
// index order.
func combinations(cards []Card, n int) <-chan []Card {
	out := make(chan []Card)
	go func() {
		defer close(out)
		if n <= 0 || n > len(cards) {
			return
		}
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		for {
			combo := make([]Card, n)
			for i, j := range idx {
				combo[i] = cards[j]
			}
			out <- combo

			i := n - 1
			for i >= 0 && idx[i] == i+len(cards)-n {
				i--
			}
			if i < 0 {
				return
			}
			idx[i]++
			for j := i + 1; j < n; j++ {
				idx[j] = idx[j-1] + 1
			}
		}
	}()
	return out
}
