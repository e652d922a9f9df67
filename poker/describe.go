package poker

import (
	"fmt"
	"sort"
)

// DescribeHand renders the audience-facing description of a hand,
// e.g. "Two Pair, Ks over 7s" or "Straight, T to A". Before the flop
// only the hole cards are described; after the flop the description
// covers the best hand made from hole plus board.
func DescribeHand(holeCards []Card, boardCards []Card) string {
	if len(boardCards) == 0 {
		if holeCards[0].Rank() == holeCards[1].Rank() {
			return fmt.Sprintf("Pair of %ss", rankChar(holeCards[0].Rank()))
		}
		high := holeCards[0].Rank()
		if holeCards[1].Rank() > high {
			high = holeCards[1].Rank()
		}
		return fmt.Sprintf("High Card %s", rankChar(high))
	}

	allCards := make([]Card, 0, len(holeCards)+len(boardCards))
	allCards = append(allCards, holeCards...)
	allCards = append(allCards, boardCards...)

	score, _ := Evaluate(allCards)
	class := RankClass(score)

	// Rank frequencies over every card in play, most frequent first,
	// then highest rank first.
	freq := map[int32]int{}
	var rankBits int32
	highCard := int32(0)
	for _, c := range allCards {
		r := c.Rank()
		freq[r]++
		rankBits |= 1 << uint(r)
		if r > highCard {
			highCard = r
		}
	}
	freqSorted := make([]int32, 0, len(freq))
	for r := range freq {
		freqSorted = append(freqSorted, r)
	}
	sort.Slice(freqSorted, func(i, j int) bool {
		if freq[freqSorted[i]] != freq[freqSorted[j]] {
			return freq[freqSorted[i]] > freq[freqSorted[j]]
		}
		return freqSorted[i] > freqSorted[j]
	})

	switch class {
	case HighCard:
		return fmt.Sprintf("High Card %s", rankChar(highCard))

	case Pair:
		return fmt.Sprintf("Pair of %ss", rankChar(freqSorted[0]))

	case TwoPair:
		return fmt.Sprintf("Two Pair, %ss over %ss", rankChar(freqSorted[0]), rankChar(freqSorted[1]))

	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %ss", rankChar(freqSorted[0]))

	case Straight:
		low, high, wheel, _ := findFiveCardStraight(rankBits)
		if wheel {
			return "Straight, A to 5"
		}
		return fmt.Sprintf("Straight, %s to %s", rankChar(low), rankChar(high))

	case Flush:
		return fmt.Sprintf("Flush, %s high", rankChar(topRank(flushRankBits(allCards))))

	case FullHouse:
		return fmt.Sprintf("Full House, %ss full of %ss", rankChar(freqSorted[0]), rankChar(freqSorted[1]))

	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %ss", rankChar(freqSorted[0]))

	case StraightFlush:
		low, high, wheel, _ := findFiveCardStraight(flushRankBits(allCards))
		if wheel {
			return "Straight Flush, A to 5"
		}
		if high == 12 && low == 8 {
			return "Royal Flush"
		}
		return fmt.Sprintf("Straight Flush, %s to %s", rankChar(low), rankChar(high))
	}

	return RankString(score)
}

func rankChar(rank int32) string {
	return string(strRanks[rank])
}

// findFiveCardStraight looks for the highest five-card run in the
// rank bitmask. The wheel is reported only when no higher run exists,
// matching how Evaluate picks the best five.
func findFiveCardStraight(rankBits int32) (low, high int32, wheel, found bool) {
	for h := int32(12); h >= 4; h-- {
		window := int32(0x1F) << uint(h-4)
		if rankBits&window == window {
			return h - 4, h, false, true
		}
	}
	const wheelBits = 0x100F // A,2,3,4,5
	if rankBits&wheelBits == wheelBits {
		return 0, 3, true, true
	}
	return 0, 0, false, false
}

// flushRankBits masks down to the ranks of the suit that makes the
// flush, so offsuit cards cannot leak into flush descriptions.
func flushRankBits(cards []Card) int32 {
	counts := map[int32]int{}
	for _, c := range cards {
		counts[c.Suit()]++
	}
	for suit, n := range counts {
		if n >= 5 {
			var bits int32
			for _, c := range cards {
				if c.Suit() == suit {
					bits |= 1 << uint(c.Rank())
				}
			}
			return bits
		}
	}
	return 0
}

func topRank(bits int32) int32 {
	for r := int32(12); r >= 0; r-- {
		if bits&(1<<uint(r)) != 0 {
			return r
		}
	}
	return 0
}
