package ecs

import (
	"fmt"
	"slices"

	"github.com/zeusync/arena/internal/core/transform"
)

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generations start at one, so the zero EntityID never
// names a live entity.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

func (id EntityID) String() string {
	return fmt.Sprintf("%d:%d", id.Index(), id.Generation())
}

// EntityPool hands out generational ids from a free list.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, 64),
		freeList:    make([]uint32, 0, 16),
	}
}

func (p *EntityPool) Create() EntityID {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return NewEntityID(idx, p.generations[idx])
	}
	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 1)
	return NewEntityID(idx, 1)
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if int(idx) >= len(p.generations) {
		return false
	}
	return p.generations[idx] == id.Generation()
}

// Destroy invalidates id. Stale ids are ignored.
func (p *EntityPool) Destroy(id EntityID) bool {
	if id.IsZero() || !p.Alive(id) {
		return false
	}
	idx := id.Index()
	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.freeList = append(p.freeList, idx)
	return true
}

type Tag string

const (
	TagVehicle   Tag = "Vehicle"
	TagAiVehicle Tag = "AiVehicle"
	TagWaypoint  Tag = "Waypoint"
)

// VehicleTags matches every driveable entity, player or AI.
var VehicleTags = []Tag{TagVehicle, TagAiVehicle}

type Entity struct {
	ID        EntityID
	Name      string
	Tags      []Tag
	Transform transform.Handle

	Health    float64
	MaxHealth float64
}

func (e *Entity) HasTag(tag Tag) bool {
	return slices.Contains(e.Tags, tag)
}

func (e *Entity) HasAnyTag(tags ...Tag) bool {
	for _, tag := range tags {
		if e.HasTag(tag) {
			return true
		}
	}
	return false
}

// SetMaxHealth sets both the cap and the current health.
func (e *Entity) SetMaxHealth(health float64) {
	e.MaxHealth = health
	e.Health = health
}

// TakeDamage lowers health, never below zero, and reports whether this hit
// killed the entity.
func (e *Entity) TakeDamage(amount float64) bool {
	if amount <= 0 || !e.Alive() {
		return false
	}
	e.Health -= amount
	if e.Health <= 0 {
		e.Health = 0
		return true
	}
	return false
}

// Alive reports whether the entity still has health left.
func (e *Entity) Alive() bool {
	return e.Health > 0
}
