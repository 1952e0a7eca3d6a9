package server

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/siegeai/shapeinfer/merge"
	"github.com/siegeai/shapeinfer/shape"
)

var ErrCollectionNotFound = errors.New("collection not found")

// collection accumulates the samples posted under one id.
type collection struct {
	shape   shape.Shape
	samples int
}

type store struct {
	mu          sync.RWMutex
	collections map[uuid.UUID]*collection
}

func newStore() *store {
	return &store{collections: make(map[uuid.UUID]*collection)}
}

func (s *store) create() uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[id] = &collection{shape: shape.Unknown{}}
	return id
}

// add merges the folded shape of n samples into the collection and returns the new
// sample count.
func (s *store) add(id uuid.UUID, folded shape.Shape, n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok {
		return 0, ErrCollectionNotFound
	}
	c.shape = merge.Shape(c.shape, folded)
	c.samples += n
	return c.samples, nil
}

func (s *store) get(id uuid.UUID) (shape.Shape, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[id]
	if !ok {
		return nil, 0, ErrCollectionNotFound
	}
	return c.shape, c.samples, nil
}

func (s *store) delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[id]; !ok {
		return ErrCollectionNotFound
	}
	delete(s.collections, id)
	return nil
}

func (s *store) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections)
}
