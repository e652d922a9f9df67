// Package gamescript loads fully specified hands from YAML. A script
// pins every card in a hand, so a test can drive a table through the
// scan path exactly the way a live dealer would and check the outcome
// against a known result.
package gamescript

import (
	"fmt"
	"io/ioutil"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"railbird.club/server/poker"
)

// Script contains hand script YAML content.
type Script struct {
	Table      TableSetup `yaml:"table"`
	ButtonSeat int        `yaml:"button-seat"`
	Seats      []Seat     `yaml:"seats"`
	Board      Board      `yaml:"board"`
	Result     *Result    `yaml:"result"`
}

type TableSetup struct {
	Name     string `yaml:"name"`
	InfoMode string `yaml:"info-mode"`
}

// Seat pins the hole cards dealt to one seat.
type Seat struct {
	Seat   int      `yaml:"seat"`
	Player string   `yaml:"player"`
	Cards  []string `yaml:"cards"`
}

type Board struct {
	Flop  []string `yaml:"flop"`
	Turn  string   `yaml:"turn"`
	River string   `yaml:"river"`
}

// Result is the showdown outcome the script author expects.
type Result struct {
	Winners    []int  `yaml:"winners"`
	Descriptor string `yaml:"descriptor"`
}

// ReadHandScript reads a hand script yaml file.
func ReadHandScript(fileName string) (*Script, error) {
	bytes, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading hand script file [%s]", fileName)
	}

	var script Script
	err = yaml.Unmarshal(bytes, &script)
	if err != nil {
		return nil, errors.Wrapf(err, "Error parsing YAML file [%s]", fileName)
	}

	err = script.Validate()
	if err != nil {
		return nil, errors.Wrapf(err, "Error validating script [%s]", fileName)
	}

	return &script, nil
}

func (s *Script) Validate() error {
	numSeats := len(s.Seats)
	if numSeats < 2 || numSeats > 10 {
		return fmt.Errorf("Script needs 2-10 seats, got %d", numSeats)
	}
	if s.ButtonSeat < 0 || s.ButtonSeat >= numSeats {
		return fmt.Errorf("Button seat [%d] is not a scripted seat", s.ButtonSeat)
	}

	seatNumbers := mapset.NewSet()
	playerNames := mapset.NewSet()
	cardsInPlay := mapset.NewSet()

	for _, seat := range s.Seats {
		if seat.Seat < 0 || seat.Seat >= numSeats {
			return fmt.Errorf("Seat number [%d] is out of range for %d seats", seat.Seat, numSeats)
		}
		if seatNumbers.Contains(seat.Seat) {
			return fmt.Errorf("Duplicate seat number [%d] in seats", seat.Seat)
		}
		seatNumbers.Add(seat.Seat)
		if seat.Player == "" {
			return fmt.Errorf("Seat [%d] has no player name", seat.Seat)
		}
		if playerNames.Contains(seat.Player) {
			return fmt.Errorf("Duplicate player name [%s] in seats", seat.Player)
		}
		playerNames.Add(seat.Player)
		if len(seat.Cards) != 2 {
			return fmt.Errorf("Seat [%d] needs exactly 2 hole cards, got %d", seat.Seat, len(seat.Cards))
		}
		for _, label := range seat.Cards {
			card, err := poker.ParseCard(label)
			if err != nil {
				return errors.Wrapf(err, "Seat [%d] has an invalid card", seat.Seat)
			}
			if cardsInPlay.Contains(card) {
				return fmt.Errorf("Card [%s] appears more than once in the script", label)
			}
			cardsInPlay.Add(card)
		}
	}

	if len(s.Board.Flop) != 3 {
		return fmt.Errorf("Flop needs exactly 3 cards, got %d", len(s.Board.Flop))
	}
	boardLabels := append(append([]string{}, s.Board.Flop...), s.Board.Turn, s.Board.River)
	for _, label := range boardLabels {
		if label == "" {
			return fmt.Errorf("Board is missing a card")
		}
		card, err := poker.ParseCard(label)
		if err != nil {
			return errors.Wrapf(err, "Board has an invalid card")
		}
		if cardsInPlay.Contains(card) {
			return fmt.Errorf("Card [%s] appears more than once in the script", label)
		}
		cardsInPlay.Add(card)
	}

	if s.Result != nil {
		for _, winner := range s.Result.Winners {
			if !seatNumbers.Contains(winner) {
				return fmt.Errorf("Result winner [%d] is not a scripted seat", winner)
			}
		}
	}

	return nil
}

// PlayerNames returns the scripted names ordered by seat number.
func (s *Script) PlayerNames() []string {
	names := make([]string, len(s.Seats))
	for _, seat := range s.Seats {
		names[seat.Seat] = seat.Player
	}
	return names
}

// DealOrder returns every scripted card in the order a dealer would
// physically deal it: one hole card per seat starting left of the
// button, twice around, then the flop, turn and river.
func (s *Script) DealOrder() ([]poker.Card, error) {
	numSeats := len(s.Seats)
	holeBySeat := make(map[int][]poker.Card, numSeats)
	for _, seat := range s.Seats {
		cards, err := parseLabels(seat.Cards)
		if err != nil {
			return nil, errors.Wrapf(err, "Seat [%d] has an invalid card", seat.Seat)
		}
		holeBySeat[seat.Seat] = cards
	}

	order := make([]poker.Card, 0, 2*numSeats+5)
	for pass := 0; pass < 2; pass++ {
		for k := 1; k <= numSeats; k++ {
			seatNo := (s.ButtonSeat + k) % numSeats
			cards, ok := holeBySeat[seatNo]
			if !ok {
				return nil, fmt.Errorf("Seat [%d] is not scripted", seatNo)
			}
			order = append(order, cards[pass])
		}
	}

	boardLabels := append(append([]string{}, s.Board.Flop...), s.Board.Turn, s.Board.River)
	board, err := parseLabels(boardLabels)
	if err != nil {
		return nil, errors.Wrapf(err, "Board has an invalid card")
	}
	order = append(order, board...)

	return order, nil
}

func parseLabels(labels []string) ([]poker.Card, error) {
	cards := make([]poker.Card, len(labels))
	for i, label := range labels {
		card, err := poker.ParseCard(label)
		if err != nil {
			return nil, err
		}
		cards[i] = card
	}
	return cards, nil
}
