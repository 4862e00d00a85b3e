package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Memory is a Store kept in process memory.
type Memory struct {
	mu        sync.RWMutex
	skeletons map[string]*Skeleton
}

func NewMemory() *Memory {
	return &Memory{skeletons: make(map[string]*Skeleton)}
}

func (m *Memory) Create(ctx context.Context, s *Skeleton) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.skeletons[s.ID]; ok {
		return fmt.Errorf("skeleton %q: %w", s.ID, ErrDuplicate)
	}
	cp := *s
	cp.Data = slices.Clone(s.Data)
	m.skeletons[s.ID] = &cp
	return nil
}

func (m *Memory) Get(ctx context.Context, id string) (*Skeleton, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.skeletons[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	cp.Data = slices.Clone(s.Data)
	return &cp, nil
}

func (m *Memory) List(ctx context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]Summary, 0, len(m.skeletons))
	for _, s := range m.skeletons {
		list = append(list, s.Summary)
	}
	slices.SortFunc(list, func(a, b Summary) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return list, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.skeletons[id]; !ok {
		return ErrNotFound
	}
	delete(m.skeletons, id)
	return nil
}
