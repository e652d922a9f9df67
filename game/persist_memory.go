package game

import (
	"fmt"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// MemoryTableStateTracker keeps table state in process memory. Good
// enough for dev tables; a restart loses everything.
type MemoryTableStateTracker struct {
	lock         sync.RWMutex
	activeTables map[string][]byte
}

func NewMemoryTableStateTracker() (*MemoryTableStateTracker, error) {
	return &MemoryTableStateTracker{
		activeTables: make(map[string][]byte),
	}, nil
}

func (m *MemoryTableStateTracker) Load(tableCode string) (*TableState, error) {
	return m.load(tableCode)
}

func (m *MemoryTableStateTracker) load(key string) (*TableState, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if stateBytes, ok := m.activeTables[key]; ok {
		state := TableState{}
		err := jsoniter.Unmarshal(stateBytes, &state)
		if err != nil {
			return nil, err
		}
		return &state, nil
	}
	return nil, fmt.Errorf("Table state for Key: %s is not found", key)
}

func (m *MemoryTableStateTracker) Save(tableCode string, state *TableState) error {
	return m.save(tableCode, state)
}

func (m *MemoryTableStateTracker) save(key string, state *TableState) error {
	stateInBytes, err := jsoniter.Marshal(state)
	if err != nil {
		return err
	}
	m.lock.Lock()
	m.activeTables[key] = stateInBytes
	m.lock.Unlock()
	return nil
}

func (m *MemoryTableStateTracker) Remove(tableCode string) error {
	return m.remove(tableCode)
}

func (m *MemoryTableStateTracker) remove(key string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.activeTables[key]; ok {
		delete(m.activeTables, key)
	}

	return nil
}

func (m *MemoryTableStateTracker) ListCodes() ([]string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	codes := make([]string, 0, len(m.activeTables))
	for code := range m.activeTables {
		codes = append(codes, code)
	}
	return codes, nil
}
