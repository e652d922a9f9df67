package nats

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"railbird.club/server/game"
	"railbird.club/server/logging"
	"railbird.club/server/poker"
)

var tableLogger = logging.GetZeroLogger("nats::table", os.Stdout)

// ScanMessage is what a table-side scanner publishes on the table's
// scan subject. The reader sends the raw tag when it has no local
// card map, or the resolved label when it does.
type ScanMessage struct {
	UID  string `json:"uid,omitempty"`
	Card string `json:"card,omitempty"`
}

// NatsTable bridges one table to NATS: view changes go out on the
// view subject, card scans come in on the scan subject.
type NatsTable struct {
	tableCode   string
	viewSubject string
	scanSubject string

	scanSubscription *natsgo.Subscription
	nc               *natsgo.Conn
	manager          *Manager
	logger           *zerolog.Logger
}

func newNatsTable(nc *natsgo.Conn, manager *Manager, tableCode string) (*NatsTable, error) {
	logger := tableLogger.With().Str(logging.TableCodeKey, tableCode).Logger()
	t := &NatsTable{
		tableCode:   tableCode,
		viewSubject: GetTableViewSubject(tableCode),
		scanSubject: GetTableScanSubject(tableCode),
		nc:          nc,
		manager:     manager,
		logger:      &logger,
	}

	var err error
	t.scanSubscription, err = nc.Subscribe(t.scanSubject, t.onScan)
	if err != nil {
		t.logger.Error().Msgf("Failed to subscribe to %s", t.scanSubject)
		return nil, err
	}
	return t, nil
}

func (t *NatsTable) cleanup() {
	if t.scanSubscription != nil {
		t.scanSubscription.Unsubscribe()
	}
}

// OnViewChanged publishes the new audience view. Fired by the table
// on every version bump.
func (t *NatsTable) OnViewChanged(view game.TableView) {
	data, err := jsoniter.Marshal(view)
	if err != nil {
		t.logger.Error().Msgf("Unable to marshal view: %s", err)
		return
	}
	if err := t.nc.Publish(t.viewSubject, data); err != nil {
		t.logger.Error().Msgf("Unable to publish view to %s: %s", t.viewSubject, err)
	}
}

// onScan handles a card scan from the table hardware. Scans that
// cannot be resolved or applied are logged and dropped; the dealer
// just taps the card again.
func (t *NatsTable) onScan(msg *natsgo.Msg) {
	var scan ScanMessage
	if err := jsoniter.Unmarshal(msg.Data, &scan); err != nil {
		t.logger.Error().Msgf("Scanner->Table: unreadable scan message: %s", err)
		return
	}

	card, err := t.resolveCard(scan)
	if err != nil {
		t.logger.Error().Str(logging.CardUIDKey, scan.UID).Msgf("Scanner->Table: %s", err)
		return
	}

	table, err := t.manager.gameManager.GetTable(t.tableCode)
	if err != nil {
		t.logger.Error().Msgf("Scanner->Table: %s", err)
		return
	}
	if err := table.ScanCard(card); err != nil {
		t.logger.Warn().Msgf("Scanner->Table: scan of %s rejected: %s", card, err)
		return
	}
	t.logger.Info().Msgf("Scanner->Table: %s", card)
}

func (t *NatsTable) resolveCard(scan ScanMessage) (poker.Card, error) {
	if scan.Card != "" {
		return poker.ParseCard(scan.Card)
	}
	return t.manager.resolver.Resolve(scan.UID)
}
