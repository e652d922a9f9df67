package game

import (
	"railbird.club/server/poker"
	"railbird.club/server/util"
)

// resolveShowdown scores every hand against the completed board. No
// sampling: winners split the pot evenly and every other seat gets
// zero. A chopped pot reports TiePercent 100.
func resolveShowdown(hands [][]poker.Card, board []poker.Card) EquitySnapshot {
	scores := make([]int32, len(hands))
	trialCards := make([]poker.Card, 7)

	best := int32(poker.MaxHighCard + 1)
	for i, hand := range hands {
		copy(trialCards, hand)
		copy(trialCards[len(hand):], board)
		score, _ := poker.Evaluate(trialCards)
		scores[i] = score
		if score < best {
			best = score
		}
	}

	winners := 0
	for _, s := range scores {
		if s == best {
			winners++
		}
	}
	share := 100.0 / float64(winners)

	winPercent := make([]float64, len(hands))
	descriptors := make([]string, len(hands))
	for i, hand := range hands {
		if scores[i] == best {
			winPercent[i] = share
		}
		descriptors[i] = poker.DescribeHand(hand, board)
	}

	tiePercent := 0.0
	if winners > 1 {
		tiePercent = 100.0
	}

	util.MetricsShowdownResolved()

	return EquitySnapshot{
		Phase:       PhaseShowdown,
		WinPercent:  winPercent,
		TiePercent:  tiePercent,
		Descriptors: descriptors,
	}
}
