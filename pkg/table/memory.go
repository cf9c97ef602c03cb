package table

import (
	"context"
	"sort"
	"sync"

	"sam-server/pkg/playable/sam"
)

// MemoryStore keeps tables in memory. Tables are cloned on the way in and out.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]*sam.Table
	games  map[string][]*GameRecord
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables: make(map[string]*sam.Table),
		games:  make(map[string][]*GameRecord),
	}
}

// Create implements Store
func (m *MemoryStore) Create(_ context.Context, t *sam.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[t.ID]; ok {
		return ErrDuplicateKey
	}

	t.UpdateSerial = 1
	m.tables[t.ID] = t.Clone()
	return nil
}

// Get implements Store
func (m *MemoryStore) Get(_ context.Context, id string) (*sam.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[id]
	if !ok {
		return nil, ErrNotFound
	}

	return t.Clone(), nil
}

// List implements Store
func (m *MemoryStore) List(_ context.Context, start, rows int) ([]*Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summaries := make([]*Summary, 0, len(m.tables))
	for _, t := range m.tables {
		summaries = append(summaries, NewSummary(t))
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt.Equal(summaries[j].CreatedAt) {
			return summaries[i].ID < summaries[j].ID
		}

		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	start, end := page(len(summaries), start, rows)
	return summaries[start:end], nil
}

// Count implements Store
func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.tables), nil
}

// Save implements Store
func (m *MemoryStore) Save(_ context.Context, t *sam.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.tables[t.ID]
	if !ok {
		return ErrNotFound
	}

	if stored.UpdateSerial != t.UpdateSerial {
		return ErrConflict
	}

	if rec := endedGame(t); rec != nil && !m.archived(t.ID, rec.ID) {
		m.games[t.ID] = append([]*GameRecord{rec}, m.games[t.ID]...)
	}

	t.UpdateSerial++
	m.tables[t.ID] = t.Clone()
	return nil
}

func (m *MemoryStore) archived(tableID, gameID string) bool {
	for _, rec := range m.games[tableID] {
		if rec.ID == gameID {
			return true
		}
	}

	return false
}

// Delete implements Store
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[id]; !ok {
		return ErrNotFound
	}

	delete(m.tables, id)
	delete(m.games, id)
	return nil
}

// Games implements Store
func (m *MemoryStore) Games(_ context.Context, tableID string, start, rows int) ([]*GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	games := m.games[tableID]
	start, end := page(len(games), start, rows)

	records := make([]*GameRecord, 0, end-start)
	for _, rec := range games[start:end] {
		cp := *rec
		cp.Game = rec.Game.Clone()
		records = append(records, &cp)
	}

	return records, nil
}
