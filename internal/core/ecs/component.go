package ecs

import "slices"

// ComponentType is the closed set of component kinds the core knows about.
type ComponentType uint8

const (
	ComponentTransform ComponentType = iota
	ComponentVehicle
	ComponentWeapon
	ComponentAI
	ComponentHealth
)

func (t ComponentType) String() string {
	switch t {
	case ComponentTransform:
		return "Transform"
	case ComponentVehicle:
		return "Vehicle"
	case ComponentWeapon:
		return "Weapon"
	case ComponentAI:
		return "AI"
	case ComponentHealth:
		return "Health"
	default:
		return "Unknown"
	}
}

// Removable is implemented by all component stores so the Registry can
// drop an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
	Has(id EntityID) bool
	IDs() []EntityID
}

// Store is a typed component map keyed by entity.
type Store[T any] struct {
	data map[EntityID]*T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[EntityID]*T, 64),
	}
}

func (s *Store[T]) Set(id EntityID, c *T) {
	s.data[id] = c
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Remove(id EntityID) {
	delete(s.data, id)
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// IDs returns the owning entities in ascending order.
func (s *Store[T]) IDs() []EntityID {
	ids := make([]EntityID, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Each visits components in ascending entity order.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for _, id := range s.IDs() {
		fn(id, s.data[id])
	}
}
