// Package store holds the in-memory platform collection shared by the
// reconciler, the manual holdings operations and the dashboard.
package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"wealthsync/src/model"
)

// Listener is notified with a fresh snapshot after every change. Listeners
// run one at a time in write order and must not call back into the store.
type Listener func(platforms []model.Platform)

// Store is a keyed map of platform id to platform. Writers swap whole
// platform values, so a reader never sees a partially replaced platform.
// All returned values are deep copies.
type Store struct {
	mu        sync.RWMutex
	platforms map[uuid.UUID]model.Platform
	listeners []Listener

	// held from the end of a write until its listeners return
	notifyMu sync.Mutex
	// held by Exclusive sections
	writeMu  sync.Mutex
}

func New() *Store {
	return &Store{platforms: make(map[uuid.UUID]model.Platform)}
}

func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Exclusive runs fn while no other Exclusive section runs. Writers that read
// the collection, persist and then publish wrap those steps in it so one
// cannot publish a result computed from a stale read of another.
func (s *Store) Exclusive(fn func() error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return fn()
}

func (s *Store) Get(id uuid.UUID) (model.Platform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.platforms[id]
	if !ok {
		return model.Platform{}, false
	}
	return p.Clone(), true
}

// FindByName matches the unique platform name exactly.
func (s *Store) FindByName(name string) (model.Platform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.platforms {
		if p.Name == name {
			return p.Clone(), true
		}
	}
	return model.Platform{}, false
}

// List returns the platforms ordered by name.
func (s *Store) List() []model.Platform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.platforms)
}

// Put inserts or replaces one platform. A platform with the same name but a
// different id is replaced, keeping names unique.
func (s *Store) Put(p model.Platform) {
	s.mu.Lock()
	for id, existing := range s.platforms {
		if existing.Name == p.Name && id != p.ID {
			delete(s.platforms, id)
		}
	}
	s.platforms[p.ID] = p.Clone()
	s.publishLocked()
}

// ReplaceAll swaps the whole collection in one step.
func (s *Store) ReplaceAll(platforms []model.Platform) {
	s.Update(func([]model.Platform) []model.Platform { return platforms })
}

// Update replaces the collection with fn applied to its current contents,
// under the write lock, so no write lands between the read and the swap.
func (s *Store) Update(fn func(current []model.Platform) []model.Platform) {
	s.mu.Lock()
	platforms := fn(s.snapshotLocked())
	next := make(map[uuid.UUID]model.Platform, len(platforms))
	for _, p := range platforms {
		next[p.ID] = p.Clone()
	}
	s.platforms = next
	s.publishLocked()
}

func (s *Store) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	_, ok := s.platforms[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.platforms, id)
	s.publishLocked()
	return true
}

// publishLocked takes the snapshot, hands over from the write lock to the
// notify lock and runs the listeners. Readers are not blocked meanwhile.
func (s *Store) publishLocked() {
	snapshot, listeners := s.snapshotLocked(), s.listeners
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()
	for _, l := range listeners {
		l(snapshot)
	}
}

func (s *Store) snapshotLocked() []model.Platform {
	out := make([]model.Platform, 0, len(s.platforms))
	for _, p := range s.platforms {
		out = append(out, p.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
