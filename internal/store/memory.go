// internal/store/memory.go
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"policy-advisor/internal/analysis"
)

// MemoryStore keeps every analysis in process memory. State is lost on
// restart; that is the documented default behavior, not a defect.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*StoredAnalysis
	seq     map[string]uint64
	nextSeq uint64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*StoredAnalysis),
		seq:     make(map[string]uint64),
	}
}

func (s *MemoryStore) Create(_ context.Context, input *analysis.PolicyInput, assessment *analysis.Assessment) (*StoredAnalysis, error) {
	record := newRecord(input, assessment)
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	s.seq[record.ID] = s.nextSeq
	s.records[record.ID] = record
	return record, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*StoredAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, exists := s.records[id]
	if !exists {
		return nil, ErrNotFound
	}
	return record, nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]*StoredAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*StoredAnalysis, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		// Equal timestamps: reverse insertion order.
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out, nil
}
