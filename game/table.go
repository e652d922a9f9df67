package game

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"railbird.club/server/logging"
	"railbird.club/server/poker"
	"railbird.club/server/util"
	"railbird.club/server/util/random"
)

var tableLogger = logging.GetZeroLogger("game::table", os.Stdout)

const hostCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
const hostCodeLength = 4

// ViewListener is notified after every change to a table's public
// view. Listeners run under the table lock and must not call back
// into the table.
type ViewListener interface {
	OnViewChanged(view TableView)
}

type TableConfig struct {
	TableCode  string
	Players    []string
	ButtonSeat int
	InfoMode   InfoMode
	DealMode   DealMode
	BurnCards  bool

	// HostCode is generated when empty. Passing one keeps a host
	// logged in across table re-creation.
	HostCode string

	// Seed fixes the card and estimator randomness. Zero seeds from
	// crypto randomness.
	Seed int64
}

// Table is the single-writer coordinator for one poker table. All
// mutations and reads go through its lock; the version counter moves
// exactly when the public view changes.
type Table struct {
	lock sync.Mutex

	tableCode   string
	hostCode    string
	players     []string
	infoMode    InfoMode
	dealMode    DealMode
	burnEnabled bool
	tuning      Tuning

	buttonSeat   int
	manualButton bool
	handNum      uint32
	version      uint64
	fingerprint  []byte

	session   *handSession
	randGen   *rand.Rand
	estimator *EquityEstimator

	persist   PersistTableState
	listeners []ViewListener
	logger    *zerolog.Logger
}

func NewTable(config TableConfig, tuning Tuning, persist PersistTableState) (*Table, error) {
	n := len(config.Players)
	if n < 2 || n > 10 {
		return nil, InvalidConfigError{Msg: fmt.Sprintf("2-10 players required, got %d", n)}
	}
	for seat, name := range config.Players {
		if strings.TrimSpace(name) == "" {
			return nil, InvalidConfigError{Msg: fmt.Sprintf("seat %d has an empty player name", seat)}
		}
	}
	if !config.InfoMode.Valid() {
		return nil, InvalidConfigError{Msg: fmt.Sprintf("unknown info mode [%s]", config.InfoMode)}
	}
	if !config.DealMode.Valid() {
		return nil, InvalidConfigError{Msg: fmt.Sprintf("unknown deal mode [%s]", config.DealMode)}
	}

	seed := config.Seed
	if seed == 0 {
		seed = random.NewSeed()
	}
	randGen := random.NewRand(seed)

	hostCode := config.HostCode
	if hostCode == "" {
		hostCode = NewHostCode(randGen)
	}

	logger := tableLogger.With().Str(logging.TableCodeKey, config.TableCode).Logger()

	t := &Table{
		tableCode:   config.TableCode,
		hostCode:    hostCode,
		players:     append([]string{}, config.Players...),
		infoMode:    config.InfoMode,
		dealMode:    config.DealMode,
		burnEnabled: config.BurnCards,
		tuning:      tuning,
		buttonSeat:  ((config.ButtonSeat % n) + n) % n,
		randGen:     randGen,
		estimator:   NewEquityEstimator(tuning, randGen),
		persist:     persist,
		logger:      &logger,
	}

	util.MetricsTableOpened()
	t.logger.Info().
		Str(logging.InfoModeKey, string(config.InfoMode)).
		Msgf("Table created with %d players, button at seat %d", n, t.buttonSeat)
	return t, nil
}

// NewHostCode builds a short code the host types to unlock table
// controls. The alphabet drops I and O to keep it readable on a
// phone.
func NewHostCode(randGen *rand.Rand) string {
	var sb strings.Builder
	for i := 0; i < hostCodeLength; i++ {
		sb.WriteByte(hostCodeAlphabet[randGen.Intn(len(hostCodeAlphabet))])
	}
	return sb.String()
}

func (t *Table) TableCode() string {
	return t.tableCode
}

// AuthorizeHost checks a submitted host code, case-insensitively.
func (t *Table) AuthorizeHost(code string) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return strings.ToUpper(strings.TrimSpace(code)) == t.hostCode
}

// HostCode is exposed so a freshly created table can hand the code
// back to its creator once.
func (t *Table) HostCode() string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.hostCode
}

func (t *Table) AddListener(listener ViewListener) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.listeners = append(t.listeners, listener)
}

// Advance moves the table forward one step: it deals the next hand
// when waiting or after a showdown, otherwise it deals the next
// street. Scan-fed tables block here until the cards arrive or ctx
// expires; a timed out deal resumes on the next call.
func (t *Table) Advance(ctx context.Context) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	var err error
	switch {
	case t.session == nil:
		err = t.startHandLocked(ctx, false)
	case t.session.phase == PhaseWaiting:
		err = t.session.dealHoleCards(ctx)
	case t.session.phase == PhaseShowdown:
		err = t.startHandLocked(ctx, true)
	case t.session.phase == PhaseRiver:
		err = t.session.advanceStreet(ctx)
		if err == nil {
			t.session.resolveShowdownEquity()
		}
	default:
		err = t.session.advanceStreet(ctx)
	}

	t.refreshLocked()
	if err != nil {
		return err
	}

	t.logger.Info().
		Uint32(logging.HandNumKey, t.handNum).
		Str(logging.PhaseKey, string(t.session.phase)).
		Uint64(logging.VersionKey, t.version).
		Msg("Advanced")
	return nil
}

// ForceButton abandons the current hand and redeals with the button
// at the given seat. The next hand keeps that button too, then
// rotation resumes.
func (t *Table) ForceButton(ctx context.Context, seat int) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	n := len(t.players)
	t.buttonSeat = ((seat % n) + n) % n
	t.manualButton = true
	err := t.startHandLocked(ctx, false)

	t.refreshLocked()
	if err != nil {
		return err
	}

	t.logger.Info().
		Uint32(logging.HandNumKey, t.handNum).
		Int(logging.SeatNoKey, t.buttonSeat).
		Msg("Button forced, hand redealt")
	return nil
}

// ScanCard feeds one scanned card into the current hand. Only valid
// on scan-fed tables.
func (t *Table) ScanCard(card poker.Card) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.dealMode != DealModeScan {
		util.MetricsScanRejected()
		return InvalidConfigError{Msg: "table does not take scanned cards"}
	}
	if t.session == nil || t.session.feed == nil {
		util.MetricsScanRejected()
		return UnexpectedPhaseError{Phase: PhaseWaiting, Operation: "scan a card"}
	}

	if err := t.session.feed.Push(card); err != nil {
		util.MetricsScanRejected()
		return err
	}
	util.MetricsScanAccepted()
	return nil
}

// View returns the audience view. In FULL mode the first read of a
// street computes its equities, which counts as a visible change and
// bumps the version.
func (t *Table) View() TableView {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.refreshLocked()
}

// HostView is the unfiltered view for the table operator: hole cards
// and descriptors regardless of the audience mode. Reading it never
// changes the public version.
func (t *Table) HostView() TableView {
	t.lock.Lock()
	defer t.lock.Unlock()
	view := buildTableView(t.tableCode, InfoModeFull, t.players, t.session, t.estimator)
	view.InfoMode = t.infoMode
	view.Version = t.version
	return view
}

func (t *Table) startHandLocked(ctx context.Context, rotate bool) error {
	n := len(t.players)
	if rotate {
		if t.manualButton {
			t.manualButton = false
		} else {
			t.buttonSeat = (t.buttonSeat - 1 + n) % n
		}
	}
	t.handNum++

	var source CardSource
	var feed *FeedSource
	if t.dealMode == DealModeScan {
		feed = NewFeedSource(int(t.tuning.ScanBufferSize))
		source = feed
	} else {
		source = NewDeckSource(poker.NewDeck(t.randGen))
	}

	t.session = newHandSession(t.handNum, n, t.buttonSeat, t.dealMode, t.burnEnabled, source, feed)
	return t.session.dealHoleCards(ctx)
}

// refreshLocked rebuilds the audience view, bumps the version when
// the content moved, persists and notifies. Returns the fresh view.
func (t *Table) refreshLocked() TableView {
	view := buildTableView(t.tableCode, t.infoMode, t.players, t.session, t.estimator)
	fp, err := jsoniter.Marshal(view)
	if err != nil {
		t.logger.Error().Msgf("Unable to fingerprint view: %s", err)
		view.Version = t.version
		return view
	}

	if !bytes.Equal(fp, t.fingerprint) {
		t.version++
		t.fingerprint = fp
		view.Version = t.version
		t.persistLocked()
		for _, listener := range t.listeners {
			listener.OnViewChanged(view)
		}
	} else {
		view.Version = t.version
	}
	return view
}

func (t *Table) persistLocked() {
	if t.persist == nil || !t.tuning.PersistEveryHand {
		return
	}
	if err := t.persist.Save(t.tableCode, t.stateLocked()); err != nil {
		t.logger.Warn().Msgf("Unable to persist table state: %s", err)
	}
}

func (t *Table) stateLocked() *TableState {
	state := &TableState{
		TableCode:    t.tableCode,
		HostCode:     t.hostCode,
		Players:      append([]string{}, t.players...),
		InfoMode:     t.infoMode,
		DealMode:     t.dealMode,
		BurnCards:    t.burnEnabled,
		ButtonSeat:   t.buttonSeat,
		ManualButton: t.manualButton,
		HandNum:      t.handNum,
		Version:      t.version,
		Fingerprint:  t.fingerprint,
	}

	s := t.session
	if s == nil {
		return state
	}

	hand := &HandSessionState{
		HandNum:      s.handNum,
		ButtonSeat:   s.buttonSeat,
		Phase:        s.phase,
		DealtHole:    s.dealtHole,
		Hands:        make([][]byte, len(s.hands)),
		Board:        poker.CardsToByteCards(s.board),
		Burned:       poker.CardsToByteCards(s.burned),
		Equity:       s.equityCache,
		LastComputed: s.lastComputed,
	}
	for i, h := range s.hands {
		hand.Hands[i] = poker.CardsToByteCards(h)
	}
	if ds, ok := s.source.(*DeckSource); ok {
		hand.Deck = ds.Deck().GetBytes()
	}
	state.Hand = hand
	return state
}

// RestoreTable rebuilds a table from persisted state. Cached equity
// snapshots come back as-is; a scan-fed hand keeps its dealt cards
// and waits for the remaining scans.
func RestoreTable(state *TableState, tuning Tuning, persist PersistTableState) (*Table, error) {
	t, err := NewTable(TableConfig{
		TableCode:  state.TableCode,
		Players:    state.Players,
		ButtonSeat: state.ButtonSeat,
		InfoMode:   state.InfoMode,
		DealMode:   state.DealMode,
		BurnCards:  state.BurnCards,
		HostCode:   state.HostCode,
	}, tuning, persist)
	if err != nil {
		return nil, err
	}

	t.manualButton = state.ManualButton
	t.handNum = state.HandNum
	t.version = state.Version
	t.fingerprint = state.Fingerprint

	if state.Hand == nil {
		return t, nil
	}

	h := state.Hand
	var source CardSource
	var feed *FeedSource
	if state.DealMode == DealModeScan {
		feed = NewFeedSource(int(tuning.ScanBufferSize))
		source = feed
	} else {
		source = NewDeckSource(poker.DeckFromBytes(h.Deck))
	}

	s := newHandSession(h.HandNum, len(state.Players), h.ButtonSeat, state.DealMode, state.BurnCards, source, feed)
	s.phase = h.Phase
	s.dealtHole = h.DealtHole
	for i, cards := range h.Hands {
		s.hands[i] = poker.FromByteCards(cards)
	}
	s.board = poker.FromByteCards(h.Board)
	s.burned = poker.FromByteCards(h.Burned)
	if h.Equity != nil {
		s.equityCache = h.Equity
	}
	s.lastComputed = h.LastComputed

	if feed != nil {
		for _, hand := range s.hands {
			feed.MarkSeen(hand)
		}
		feed.MarkSeen(s.board)
	}

	t.session = s
	t.logger.Info().
		Uint32(logging.HandNumKey, t.handNum).
		Str(logging.PhaseKey, string(s.phase)).
		Msg("Table restored from persisted state")
	return t, nil
}

// Close removes the table's persisted state and releases its metrics
// slot.
func (t *Table) Close() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.persist != nil {
		if err := t.persist.Remove(t.tableCode); err != nil {
			t.logger.Warn().Msgf("Unable to remove persisted state: %s", err)
		}
	}
	util.MetricsTableClosed()
	t.logger.Info().Msg("Table closed")
}
