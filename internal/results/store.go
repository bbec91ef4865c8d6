package results

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Store persists saved records and serves the admin listing.
type Store interface {
	Save(ctx context.Context, r Record) (Record, error)
	List(ctx context.Context, opts ListOpts) ([]Record, error)
}

type memoryStore struct {
	mu      sync.RWMutex
	records []Record
	nextID  int64
}

// NewMemoryStore is for tests and throwaway deployments; records vanish
// with the process.
func NewMemoryStore() Store {
	return &memoryStore{nextID: 1}
}

func (m *memoryStore) Save(ctx context.Context, r Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextID
	m.nextID++
	r.SavedAt = time.Now().Unix()
	m.records = append(m.records, r)
	return r, nil
}

func (m *memoryStore) List(ctx context.Context, opts ListOpts) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		if opts.Role != "" && r.Role != string(opts.Role) {
			continue
		}
		out = append(out, r)
	}
	// newest first, matching the SQL store's ordering
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			return []Record{}, nil
		}
		out = out[opts.Offset:]
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}
