package ecs

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/arena/internal/core/transform"
)

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	assert.False(t, a.IsZero())
	assert.Equal(t, uint32(1), a.Generation())
	assert.True(t, p.Alive(a))

	assert.True(t, p.Destroy(a))
	assert.False(t, p.Alive(a))
	assert.False(t, p.Destroy(a), "stale destroy is ignored")

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index())
	assert.NotEqual(t, a, b)
	assert.True(t, p.Alive(b))
	assert.False(t, p.Alive(0))
}

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(nil)
	car := r.Create("car", transform.NewWith(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()), TagVehicle)
	car.SetMaxHealth(100)

	found, ok := r.FindEntity(car.ID)
	require.True(t, ok)
	assert.Same(t, car, found)

	pos, ok := r.Position(car.ID)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, pos)

	require.NoError(t, r.Destroy(car.ID))
	assert.False(t, r.IsAlive(car.ID))
	_, ok = r.FindEntity(car.ID)
	assert.False(t, ok)
	_, ok = r.Position(car.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, r.Destroy(car.ID), ErrUnknownEntity)
	assert.Zero(t, r.Hierarchy().Len())
}

func TestDestroyReportsReleasedTransform(t *testing.T) {
	r := NewRegistry(nil)
	car := r.Create("car", transform.New(), TagVehicle)
	require.NoError(t, r.Hierarchy().Destroy(car.Transform))

	err := r.Destroy(car.ID)
	assert.ErrorIs(t, err, transform.ErrInvalidHandle)
	assert.False(t, r.IsAlive(car.ID), "the entity is released anyway")
	assert.ErrorIs(t, r.Destroy(car.ID), ErrUnknownEntity)
}

func TestEntitiesByTagIsAscending(t *testing.T) {
	r := NewRegistry(nil)
	var want []EntityID
	for i := 0; i < 10; i++ {
		tag := TagVehicle
		if i%2 == 1 {
			tag = TagAiVehicle
		}
		e := r.Create("v", nil, tag)
		want = append(want, e.ID)
	}
	r.Create("wp", nil, TagWaypoint)

	got := r.EntitiesByTag(VehicleTags...)
	require.Len(t, got, len(want))
	for i, e := range got {
		assert.Equal(t, want[i], e.ID)
	}
	assert.Len(t, r.EntitiesByTag(TagAiVehicle), 5)
	assert.Len(t, r.EntitiesByTag(TagWaypoint), 1)
}

func TestFindByNameAndParenting(t *testing.T) {
	r := NewRegistry(nil)
	body := r.Create("body", transform.NewWith(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()))
	turret := r.Create("turret", transform.NewWith(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()))

	got, ok := r.FindByName("turret")
	require.True(t, ok)
	assert.Equal(t, turret.ID, got.ID)
	_, ok = r.FindByName("missing")
	assert.False(t, ok)

	require.NoError(t, r.SetParent(turret.ID, body.ID))
	pos, _ := r.Position(turret.ID)
	assert.Equal(t, mgl64.Vec3{10, 1, 0}, pos)

	require.NoError(t, r.Destroy(body.ID))
	pos, _ = r.Position(turret.ID)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, pos)
	assert.ErrorIs(t, r.SetParent(turret.ID, body.ID), ErrUnknownEntity)
}

type marker struct{ n int }

func TestComponentsByTypeFollowsStores(t *testing.T) {
	r := NewRegistry(nil)
	store := NewStore[marker]()
	r.Register(ComponentAI, store)

	a := r.Create("a", nil)
	b := r.Create("b", nil)
	c := r.Create("c", nil)
	c.SetMaxHealth(30)
	store.Set(b.ID, &marker{n: 2})
	store.Set(a.ID, &marker{n: 1})

	assert.Equal(t, []EntityID{a.ID, b.ID}, r.ComponentsByType(ComponentAI))
	assert.Equal(t, []EntityID{a.ID, b.ID, c.ID}, r.ComponentsByType(ComponentTransform))
	assert.Equal(t, []EntityID{c.ID}, r.ComponentsByType(ComponentHealth))
	assert.Nil(t, r.ComponentsByType(ComponentWeapon))

	require.NoError(t, r.Destroy(a.ID))
	assert.False(t, store.Has(a.ID))
	assert.Equal(t, 1, store.Len())

	var visited []int
	store.Each(func(_ EntityID, m *marker) { visited = append(visited, m.n) })
	assert.Equal(t, []int{2}, visited)
}

func TestTakeDamage(t *testing.T) {
	e := &Entity{}
	e.SetMaxHealth(50)
	assert.True(t, e.Alive())
	assert.False(t, e.TakeDamage(20))
	assert.Equal(t, 30.0, e.Health)
	assert.False(t, e.TakeDamage(-5))
	assert.True(t, e.TakeDamage(40))
	assert.Equal(t, 0.0, e.Health)
	assert.False(t, e.Alive())
	assert.False(t, e.TakeDamage(10), "already dead")
}
