package game

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	cmap "github.com/orcaman/concurrent-map"

	"railbird.club/server/logging"
	"railbird.club/server/util"
)

var managerLogger = logging.GetZeroLogger("game::manager", os.Stdout)

// ListenerFactory builds the view listener to attach to each new
// table, typically a NATS publisher for that table's subject.
type ListenerFactory func(tableCode string) ViewListener

// Manager owns every live table in the server, keyed by table code.
type Manager struct {
	tuning          Tuning
	persist         PersistTableState
	activeTables    cmap.ConcurrentMap
	listenerFactory ListenerFactory
}

func NewTableManager(tuning Tuning, persist PersistTableState) *Manager {
	return &Manager{
		tuning:       tuning,
		persist:      persist,
		activeTables: cmap.New(),
	}
}

// CreateTableManager builds a manager with the persistence backend
// named by the environment: redis keeps live hands across restarts,
// memory is for dev.
func CreateTableManager(tuning Tuning) (*Manager, error) {
	var persist PersistTableState
	var err error
	if util.Env.GetPersistMethod() == "redis" {
		redisHost := util.Env.GetRedisHost()
		redisPort := util.Env.GetRedisPort()
		persist = NewRedisTableStateTracker(
			fmt.Sprintf("%s:%d", redisHost, redisPort),
			util.Env.GetRedisPW(),
			util.Env.GetRedisDB(),
		)
	} else {
		persist, err = NewMemoryTableStateTracker()
		if err != nil {
			return nil, err
		}
	}
	return NewTableManager(tuning, persist), nil
}

func (tm *Manager) SetListenerFactory(factory ListenerFactory) {
	tm.listenerFactory = factory
}

// CreateTable builds a table, deals its first hand and registers it.
// The code in the config is honored when present, otherwise a fresh
// one is generated.
func (tm *Manager) CreateTable(ctx context.Context, config TableConfig) (*Table, error) {
	if config.TableCode == "" {
		config.TableCode = tm.newTableCode()
	}
	if tm.activeTables.Has(config.TableCode) {
		return nil, InvalidConfigError{Msg: "table code is already in use"}
	}

	table, err := NewTable(config, tm.tuning, tm.persist)
	if err != nil {
		return nil, err
	}
	if tm.listenerFactory != nil {
		table.AddListener(tm.listenerFactory(table.TableCode()))
	}

	// First hand goes out immediately. A scan-fed table may time out
	// here and finish dealing on a later advance; it is still live.
	dealErr := table.Advance(ctx)

	tm.activeTables.Set(table.TableCode(), table)
	return table, dealErr
}

func (tm *Manager) GetTable(tableCode string) (*Table, error) {
	if val, ok := tm.activeTables.Get(tableCode); ok {
		return val.(*Table), nil
	}
	return nil, TableNotFoundError{TableCode: tableCode}
}

func (tm *Manager) CloseTable(tableCode string) error {
	val, ok := tm.activeTables.Get(tableCode)
	if !ok {
		return TableNotFoundError{TableCode: tableCode}
	}
	tm.activeTables.Remove(tableCode)
	val.(*Table).Close()
	return nil
}

func (tm *Manager) TableCodes() []string {
	return tm.activeTables.Keys()
}

// ResumeTables brings back every table the persist layer knows about.
// Called once at boot; tables that fail to restore are logged and
// skipped so one corrupt record cannot hold the server down.
func (tm *Manager) ResumeTables() int {
	if tm.persist == nil {
		return 0
	}

	codes, err := tm.persist.ListCodes()
	if err != nil {
		managerLogger.Warn().Msgf("Unable to list persisted tables: %s", err)
		return 0
	}

	resumed := 0
	for _, code := range codes {
		state, err := tm.persist.Load(code)
		if err != nil {
			managerLogger.Warn().Str(logging.TableCodeKey, code).Msgf("Unable to load persisted table: %s", err)
			continue
		}
		table, err := RestoreTable(state, tm.tuning, tm.persist)
		if err != nil {
			managerLogger.Warn().Str(logging.TableCodeKey, code).Msgf("Unable to restore table: %s", err)
			continue
		}
		if tm.listenerFactory != nil {
			table.AddListener(tm.listenerFactory(table.TableCode()))
		}
		tm.activeTables.Set(code, table)
		resumed++
	}

	if resumed > 0 {
		managerLogger.Info().Msgf("Resumed %d table(s) from persisted state", resumed)
	}
	return resumed
}

func (tm *Manager) newTableCode() string {
	for {
		code := strings.ToUpper(strings.Split(uuid.New().String(), "-")[0])
		if !tm.activeTables.Has(code) {
			return code
		}
	}
}
