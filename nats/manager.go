package nats

import (
	"os"

	natsgo "github.com/nats-io/nats.go"
	cmap "github.com/orcaman/concurrent-map"

	"railbird.club/server/game"
	"railbird.club/server/logging"
	"railbird.club/server/poker"
	"railbird.club/server/util"
)

var managerLogger = logging.GetZeroLogger("nats::manager", os.Stdout)

// CardResolver turns a scanner tag UID into a card. Satisfied by the
// cardmap cache.
type CardResolver interface {
	Resolve(uid string) (poker.Card, error)
}

// Manager keeps a NatsTable bridge per live table. Install its
// TableListener as the game manager's listener factory and every
// table gets wired up as it is created or resumed.
type Manager struct {
	nc           *natsgo.Conn
	gameManager  *game.Manager
	resolver     CardResolver
	activeTables cmap.ConcurrentMap
}

func NewManager(gameManager *game.Manager, resolver CardResolver) (*Manager, error) {
	url := util.Env.GetNatsURL()
	nc, err := natsgo.Connect(url)
	if err != nil {
		managerLogger.Error().Msgf("Failed to connect to nats server at %s: %v", url, err)
		return nil, err
	}
	managerLogger.Info().Msgf("Connected to nats server at %s", url)

	return &Manager{
		nc:           nc,
		gameManager:  gameManager,
		resolver:     resolver,
		activeTables: cmap.New(),
	}, nil
}

// TableListener is a game.ListenerFactory. It opens the NATS bridge
// for the table and returns the view publisher side of it.
func (m *Manager) TableListener(tableCode string) game.ViewListener {
	table, err := newNatsTable(m.nc, m, tableCode)
	if err != nil {
		managerLogger.Error().Str(logging.TableCodeKey, tableCode).
			Msgf("Unable to open nats bridge: %s", err)
		return noopListener{}
	}
	m.activeTables.Set(tableCode, table)
	return table
}

// CloseTable tears down the bridge for a table that is going away.
func (m *Manager) CloseTable(tableCode string) {
	if val, ok := m.activeTables.Get(tableCode); ok {
		val.(*NatsTable).cleanup()
		m.activeTables.Remove(tableCode)
	}
}

func (m *Manager) Close() {
	for item := range m.activeTables.IterBuffered() {
		item.Val.(*NatsTable).cleanup()
	}
	m.nc.Close()
}

// noopListener stands in when the bridge cannot be opened, so a nats
// outage never blocks table play.
type noopListener struct{}

func (noopListener) OnViewChanged(game.TableView) {}
