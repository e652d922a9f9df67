package game

// HandSessionState is the serialized form of a hand in progress.
// Cards travel as wire bytes so the stored blob stays compact and
// stable across releases.
type HandSessionState struct {
	HandNum    uint32 `json:"handNum"`
	ButtonSeat int    `json:"buttonSeat"`
	Phase      Phase  `json:"phase"`
	DealtHole  int    `json:"dealtHole"`

	Hands  [][]byte `json:"hands"`
	Board  []byte   `json:"board"`
	Burned []byte   `json:"burned"`
	Deck   []byte   `json:"deck"`

	Equity       map[Phase]*EquitySnapshot `json:"equity"`
	LastComputed Phase                     `json:"lastComputed,omitempty"`
}

// TableState is everything needed to bring a table back after a
// restart: identity, configuration, counters and the live hand.
type TableState struct {
	TableCode    string            `json:"tableCode"`
	HostCode     string            `json:"hostCode"`
	Players      []string          `json:"players"`
	InfoMode     InfoMode          `json:"infoMode"`
	DealMode     DealMode          `json:"dealMode"`
	BurnCards    bool              `json:"burnCards"`
	ButtonSeat   int               `json:"buttonSeat"`
	ManualButton bool              `json:"manualButton"`
	HandNum      uint32            `json:"handNum"`
	Version      uint64            `json:"version"`
	Fingerprint  []byte            `json:"fingerprint,omitempty"`
	Hand         *HandSessionState `json:"hand,omitempty"`
}

type PersistTableState interface {
	Load(tableCode string) (*TableState, error)
	Save(tableCode string, state *TableState) error
	Remove(tableCode string) error
	ListCodes() ([]string, error)
}
