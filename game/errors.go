package game

import "fmt"

type InvalidConfigError struct {
	Msg string
}

func (e InvalidConfigError) Error() string {
	return e.Msg
}

type UnexpectedPhaseError struct {
	Phase     Phase
	Operation string
}

func (e UnexpectedPhaseError) Error() string {
	return fmt.Sprintf("Cannot %s while phase is %s", e.Operation, e.Phase)
}

type DeckExhaustedError struct {
	Needed int
}

func (e DeckExhaustedError) Error() string {
	return fmt.Sprintf("Deck exhausted: %d more cards needed", e.Needed)
}

type UnknownCardError struct {
	UID string
}

func (e UnknownCardError) Error() string {
	return fmt.Sprintf("No card is mapped to tag %s", e.UID)
}

type DuplicateCardError struct {
	Card string
}

func (e DuplicateCardError) Error() string {
	return fmt.Sprintf("Card %s was already dealt this hand", e.Card)
}

type WrongHostCodeError struct {
}

func (e WrongHostCodeError) Error() string {
	return "Host code does not match"
}

type TableNotFoundError struct {
	TableCode string
}

func (e TableNotFoundError) Error() string {
	return fmt.Sprintf("No table with code %s", e.TableCode)
}
