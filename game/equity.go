package game

import (
	"math"
	"math/rand"

	"railbird.club/server/poker"
	"railbird.club/server/util"
	"railbird.club/server/util/random"
)

// EquitySnapshot is the result of one equity computation for one
// street. WinPercent and Descriptors are indexed by seat.
type EquitySnapshot struct {
	Phase       Phase     `json:"phase"`
	WinPercent  []float64 `json:"winPercent"`
	TiePercent  float64   `json:"tiePercent"`
	Descriptors []string  `json:"descriptors"`
	Iterations  int       `json:"iterations"`
}

// EquityEstimator runs Monte Carlo win estimates over the unknown
// remainder of the deck. One estimator serves one table; its
// generator is consumed sequentially so a fixed seed reproduces a
// table's whole sequence of snapshots.
type EquityEstimator struct {
	tuning  Tuning
	randGen *rand.Rand
}

func NewEquityEstimator(tuning Tuning, randGen *rand.Rand) *EquityEstimator {
	if randGen == nil {
		randGen = random.NewRand(random.NewSeed())
	}
	return &EquityEstimator{
		tuning:  tuning,
		randGen: randGen,
	}
}

// IterationsFor picks the trial count for a street. Fewer players and
// earlier streets get more trials; the count always lands inside the
// configured bounds.
func (e *EquityEstimator) IterationsFor(numPlayers int, phase Phase) int {
	n := numPlayers
	if n < 2 {
		n = 2
	}
	iters := int(float64(e.tuning.IterationsBase) / math.Pow(float64(n), e.tuning.PlayerExponent))
	iters = int(float64(iters) * e.tuning.multiplierFor(phase))

	if iters < int(e.tuning.IterationsMin) {
		return int(e.tuning.IterationsMin)
	}
	if iters > int(e.tuning.IterationsMax) {
		return int(e.tuning.IterationsMax)
	}
	return iters
}

// Estimate computes each seat's chance of holding the best hand once
// the board is complete. Each trial shuffles the cards nobody has
// seen, completes the board to five, and scores every live hand. The
// winner takes the trial; ties split it evenly and count toward
// TiePercent.
func (e *EquityEstimator) Estimate(hands [][]poker.Card, board []poker.Card, phase Phase) EquitySnapshot {
	iterations := e.IterationsFor(len(hands), phase)

	known := map[poker.Card]bool{}
	for _, hand := range hands {
		for _, c := range hand {
			known[c] = true
		}
	}
	for _, c := range board {
		known[c] = true
	}

	remainder := make([]poker.Card, 0, 52-len(known))
	for _, c := range poker.FullDeck() {
		if !known[c] {
			remainder = append(remainder, c)
		}
	}

	need := 5 - len(board)
	wins := make([]float64, len(hands))
	scores := make([]int32, len(hands))
	tieTrials := 0

	simBoard := make([]poker.Card, 5)
	copy(simBoard, board)
	trialCards := make([]poker.Card, 7)

	for trial := 0; trial < iterations; trial++ {
		e.randGen.Shuffle(len(remainder), func(i, j int) {
			remainder[i], remainder[j] = remainder[j], remainder[i]
		})
		copy(simBoard[len(board):], remainder[:need])

		best := int32(poker.MaxHighCard + 1)
		for i, hand := range hands {
			copy(trialCards, hand)
			copy(trialCards[len(hand):], simBoard)
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
		share := 1.0 / float64(winners)
		for i, s := range scores {
			if s == best {
				wins[i] += share
			}
		}
		if winners > 1 {
			tieTrials++
		}
	}

	winPercent := make([]float64, len(hands))
	for i, w := range wins {
		winPercent[i] = w / float64(iterations) * 100
	}

	descriptors := make([]string, len(hands))
	for i, hand := range hands {
		descriptors[i] = poker.DescribeHand(hand, board)
	}

	util.MetricsEquitySimulated(iterations)

	return EquitySnapshot{
		Phase:       phase,
		WinPercent:  winPercent,
		TiePercent:  float64(tieTrials) / float64(iterations) * 100,
		Descriptors: descriptors,
		Iterations:  iterations,
	}
}
