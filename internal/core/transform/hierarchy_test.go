package transform

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestroyedParentResolvesAsRoot(t *testing.T) {
	h := NewHierarchy()
	parent := h.Create(NewWith(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()))
	child := h.Create(NewWith(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()))
	require.NoError(t, h.SetParent(child, parent))
	assertVec(t, mgl64.Vec3{11, 0, 0}, h.Get(child).GlobalPosition())

	require.NoError(t, h.Destroy(parent))
	assert.Nil(t, h.Get(parent))
	assert.True(t, h.ParentOf(child).IsZero())
	assertVec(t, mgl64.Vec3{1, 0, 0}, h.Get(child).GlobalPosition())

	// the reused slot must not be mistaken for the old parent
	reused := h.Create(NewWith(mgl64.Vec3{50, 0, 0}, mgl64.Vec3{1, 1, 1}, mgl64.QuatIdent()))
	assert.NotEqual(t, parent, reused)
	assertVec(t, mgl64.Vec3{1, 0, 0}, h.Get(child).GlobalPosition())

	assert.ErrorIs(t, h.Destroy(parent), ErrInvalidHandle)
}

func TestSetParentRejectsCycles(t *testing.T) {
	h := NewHierarchy()
	a := h.Create(nil)
	b := h.Create(nil)
	c := h.Create(nil)
	require.NoError(t, h.SetParent(b, a))
	require.NoError(t, h.SetParent(c, b))

	assert.ErrorIs(t, h.SetParent(a, c), ErrCycle)
	assert.ErrorIs(t, h.SetParent(a, a), ErrCycle)
	assert.ErrorIs(t, h.SetParent(a, Handle{index: 99, gen: 1}), ErrInvalidHandle)

	require.NoError(t, h.SetParent(c, Handle{}))
	assert.True(t, h.ParentOf(c).IsZero())
	assert.Equal(t, 3, h.Len())
}

func TestSnapshotMatchesSerialQueries(t *testing.T) {
	h := NewHierarchy()
	var handles []Handle
	var prev Handle
	for i := 0; i < 32; i++ {
		tr := New()
		tr.SetPosition(mgl64.Vec3{float64(i), 0, 1})
		tr.SetRotationAxisAngles(Up, float64(i)*0.1)
		handle := h.Create(tr)
		if !prev.IsZero() {
			require.NoError(t, h.SetParent(handle, prev))
		}
		prev = handle
		handles = append(handles, handle)
	}

	poses, err := h.Snapshot(context.Background(), handles, 4)
	require.NoError(t, err)
	require.Len(t, poses, len(handles))
	for i, pose := range poses {
		tr := h.Get(handles[i])
		assert.Equal(t, handles[i], pose.Handle)
		assertVec(t, tr.GlobalPosition(), pose.Position)
		assertVec(t, tr.Forward(), pose.Forward)
	}

	_, err = h.Snapshot(context.Background(), []Handle{{}}, 2)
	assert.ErrorIs(t, err, ErrInvalidHandle)
}
