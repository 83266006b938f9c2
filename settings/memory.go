// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package settings

import (
	"sync"

	"github.com/juju/pubsub/v2"

	"github.com/servicehub/servicehub/core/tenant"
)

type key struct {
	tenant   tenant.ID
	property string
}

// MemoryStore is an in-process Store. Mutations publish a Change on the
// hub supplied at construction.
type MemoryStore struct {
	hub *pubsub.SimpleHub

	mu     sync.Mutex
	values map[key]string
}

// NewMemoryStore returns an empty memory-backed store that notifies
// through the given hub.
func NewMemoryStore(hub *pubsub.SimpleHub) *MemoryStore {
	return &MemoryStore{
		hub:    hub,
		values: make(map[key]string),
	}
}

// Get is part of the Store interface.
func (s *MemoryStore) Get(id tenant.ID, property string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.values[key{id, property}]
	return value, ok
}

// Set is part of the Store interface.
func (s *MemoryStore) Set(id tenant.ID, property, value string) {
	s.mu.Lock()
	s.values[key{id, property}] = value
	s.mu.Unlock()
	s.hub.Publish(ChangeTopic, Change{Tenant: id, Property: property})
}

// Unset is part of the Store interface.
func (s *MemoryStore) Unset(id tenant.ID, property string) {
	s.mu.Lock()
	_, ok := s.values[key{id, property}]
	delete(s.values, key{id, property})
	s.mu.Unlock()
	if ok {
		s.hub.Publish(ChangeTopic, Change{Tenant: id, Property: property})
	}
}
