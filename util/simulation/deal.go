// Package simulation deals a large number of hands from the command
// line and prints rank and board-texture frequencies, as a sanity
// check on the shuffle and the evaluator before trusting them with a
// live table.
package simulation

import (
	"fmt"

	"railbird.club/server/poker"
)

const numPlayers = 9

func Run(numDeals int) error {
	deck := poker.NewDeck(nil)

	numEval := 0
	numRoyalFlushes := 0
	numStraightFlushes := 0
	numFourOfAKind := 0
	numFullHouse := 0
	numPairedBoards := 0
	numFlopPairedBoards := 0
	numTurnPairedBoards := 0
	numRiverPairedBoards := 0
	numOnePairBoards := 0
	numSplitPots := 0

	hands := make([][]poker.Card, numPlayers)
	trialCards := make([]poker.Card, 7)
	for i := 0; i < numDeals; i++ {
		if i > 0 && i%10000 == 0 {
			fmt.Printf("Deal %d\n", i)
		}

		deck.Shuffle()
		board, err := dealHand(deck, hands)
		if err != nil {
			return err
		}

		best := int32(poker.MaxHighCard + 1)
		bestCount := 0
		for _, hand := range hands {
			copy(trialCards, hand)
			copy(trialCards[len(hand):], board)
			rank, _ := poker.Evaluate(trialCards)
			numEval++

			switch {
			case rank == 1:
				numRoyalFlushes++
			case rank <= poker.MaxStraightFlush:
				numStraightFlushes++
			case rank <= poker.MaxFourOfAKind:
				numFourOfAKind++
			case rank <= poker.MaxFullHouse:
				numFullHouse++
			}

			if rank < best {
				best = rank
				bestCount = 1
			} else if rank == best {
				bestCount++
			}
		}
		if bestCount > 1 {
			numSplitPots++
		}

		pairedAtIdx := pairedAt(board)
		if pairedAtIdx > 0 {
			numPairedBoards++
			if pairedAtIdx <= 3 {
				numFlopPairedBoards++
			} else if pairedAtIdx == 4 {
				numTurnPairedBoards++
			} else {
				numRiverPairedBoards++
			}
		}
		if isBoardOnePair(board) {
			numOnePairBoards++
		}
	}

	fmt.Printf("%d deals completed\n\nResult:\n", numDeals)
	fmt.Printf("Royal Flushes         : %d/%d (%f)\n", numRoyalFlushes, numEval, float32(numRoyalFlushes)/float32(numEval))
	fmt.Printf("Straight Flushes      : %d/%d (%f)\n", numStraightFlushes, numEval, float32(numStraightFlushes)/float32(numEval))
	fmt.Printf("Four Of A Kind        : %d/%d (%f)\n", numFourOfAKind, numEval, float32(numFourOfAKind)/float32(numEval))
	fmt.Printf("Full House            : %d/%d (%f)\n", numFullHouse, numEval, float32(numFullHouse)/float32(numEval))
	fmt.Printf("Paired Boards         : %d/%d (%f)\n", numPairedBoards, numDeals, float32(numPairedBoards)/float32(numDeals))
	fmt.Printf("Paired Boards (F)     : %d/%d (%f)\n", numFlopPairedBoards, numDeals, float32(numFlopPairedBoards)/float32(numDeals))
	fmt.Printf("Paired Boards (T)     : %d/%d (%f)\n", numTurnPairedBoards, numDeals, float32(numTurnPairedBoards)/float32(numDeals))
	fmt.Printf("Paired Boards (R)     : %d/%d (%f)\n", numRiverPairedBoards, numDeals, float32(numRiverPairedBoards)/float32(numDeals))
	fmt.Printf("One-pair Boards       : %d/%d (%f)\n", numOnePairBoards, numDeals, float32(numOnePairBoards)/float32(numDeals))
	fmt.Printf("Split Pots            : %d/%d (%f)\n", numSplitPots, numDeals, float32(numSplitPots)/float32(numDeals))

	return nil
}

// dealHand deals two cards per seat over two passes, then the five
// board cards, the way a live table does.
func dealHand(deck *poker.Deck, hands [][]poker.Card) ([]poker.Card, error) {
	for seat := range hands {
		hands[seat] = hands[seat][:0]
	}
	for pass := 0; pass < 2; pass++ {
		for seat := range hands {
			hands[seat] = append(hands[seat], deck.Draw(1)[0])
		}
	}

	board := deck.Draw(5)
	if len(board) != 5 {
		return nil, fmt.Errorf("Misdeal community cards %d", len(board))
	}
	return board, nil
}

// pairedAt returns the 1-based board position where the first rank
// repeat appears, or 0 for an unpaired board.
func pairedAt(board []poker.Card) int {
	for i := 1; i < len(board); i++ {
		for j := 0; j < i; j++ {
			if board[i].Rank() == board[j].Rank() {
				return i + 1
			}
		}
	}
	return 0
}

func isBoardOnePair(board []poker.Card) bool {
	rank, _ := poker.Evaluate(board)
	return rank > poker.MaxTwoPair && rank <= poker.MaxPair
}
