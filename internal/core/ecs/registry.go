package ecs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/arena/internal/core/transform"
	"github.com/zeusync/arena/pkg/sequence"
)

var (
	ErrUnknownEntity  = errors.New("ecs: unknown entity")
	ErrEntityNotAlive = errors.New("ecs: entity not alive")
)

// Registry owns entities, their transforms and the component stores
// registered against it. It is driven from the simulation goroutine only.
type Registry struct {
	pool      *EntityPool
	hierarchy *transform.Hierarchy
	entities  map[EntityID]*Entity
	stores    map[ComponentType]Removable
}

func NewRegistry(hierarchy *transform.Hierarchy) *Registry {
	if hierarchy == nil {
		hierarchy = transform.NewHierarchy()
	}
	return &Registry{
		pool:      NewEntityPool(),
		hierarchy: hierarchy,
		entities:  make(map[EntityID]*Entity, 64),
		stores:    make(map[ComponentType]Removable, 8),
	}
}

func (r *Registry) Hierarchy() *transform.Hierarchy {
	return r.hierarchy
}

// Register attaches a component store under its type. Destroy removes the
// entity from every registered store.
func (r *Registry) Register(t ComponentType, store Removable) {
	r.stores[t] = store
}

// Create spawns a new entity. A nil t gets an identity transform.
func (r *Registry) Create(name string, t *transform.Transform, tags ...Tag) *Entity {
	id := r.pool.Create()
	entity := &Entity{
		ID:        id,
		Name:      name,
		Tags:      slices.Clone(tags),
		Transform: r.hierarchy.Create(t),
	}
	r.entities[id] = entity
	return entity
}

func (r *Registry) Destroy(id EntityID) error {
	entity, ok := r.entities[id]
	if !ok || !r.pool.Alive(id) {
		return fmt.Errorf("destroy %s: %w", id, ErrUnknownEntity)
	}
	for _, store := range r.stores {
		store.Remove(id)
	}
	// the entity goes away even if its transform was released elsewhere
	err := r.hierarchy.Destroy(entity.Transform)
	delete(r.entities, id)
	r.pool.Destroy(id)
	if err != nil {
		return fmt.Errorf("destroy %s: transform %s: %w", id, entity.Transform, err)
	}
	return nil
}

func (r *Registry) IsAlive(id EntityID) bool {
	return r.pool.Alive(id) && r.entities[id] != nil
}

// FindEntity resolves id, returning false for destroyed or stale ids.
func (r *Registry) FindEntity(id EntityID) (*Entity, bool) {
	if !r.pool.Alive(id) {
		return nil, false
	}
	entity, ok := r.entities[id]
	return entity, ok
}

// FindByName returns the lowest-id entity carrying name.
func (r *Registry) FindByName(name string) (*Entity, bool) {
	return sequence.From(r.sortedEntities()).
		Filter(func(e *Entity) bool { return e.Name == name }).
		First()
}

// EntitiesByTag returns entities carrying any of tags in ascending id order.
func (r *Registry) EntitiesByTag(tags ...Tag) []*Entity {
	return sequence.From(r.sortedEntities()).
		Filter(func(e *Entity) bool { return e.HasAnyTag(tags...) }).
		Collect()
}

// ComponentsByType lists owners of a component kind in ascending id order.
func (r *Registry) ComponentsByType(t ComponentType) []EntityID {
	switch t {
	case ComponentTransform:
		return r.ids(func(*Entity) bool { return true })
	case ComponentHealth:
		return r.ids(func(e *Entity) bool { return e.MaxHealth > 0 })
	}
	store, ok := r.stores[t]
	if !ok {
		return nil
	}
	return sequence.From(store.IDs()).Filter(r.IsAlive).Collect()
}

func (r *Registry) Len() int {
	return len(r.entities)
}

// Transform resolves the transform of a live entity.
func (r *Registry) Transform(id EntityID) (*transform.Transform, bool) {
	entity, ok := r.FindEntity(id)
	if !ok {
		return nil, false
	}
	t := r.hierarchy.Get(entity.Transform)
	return t, t != nil
}

// Position is the global position of a live entity.
func (r *Registry) Position(id EntityID) (mgl64.Vec3, bool) {
	t, ok := r.Transform(id)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return t.GlobalPosition(), true
}

// SetParent links child's transform under parent's.
func (r *Registry) SetParent(child, parent EntityID) error {
	c, ok := r.FindEntity(child)
	if !ok {
		return fmt.Errorf("child %s: %w", child, ErrUnknownEntity)
	}
	p, ok := r.FindEntity(parent)
	if !ok {
		return fmt.Errorf("parent %s: %w", parent, ErrUnknownEntity)
	}
	return r.hierarchy.SetParent(c.Transform, p.Transform)
}

func (r *Registry) ids(keep func(*Entity) bool) []EntityID {
	return sequence.Map(
		sequence.From(r.sortedEntities()).Filter(keep),
		func(e *Entity) EntityID { return e.ID },
	).Collect()
}

func (r *Registry) sortedEntities() []*Entity {
	out := make([]*Entity, 0, len(r.entities))
	for _, e := range r.entities {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *Entity) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}
