package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/arena/pkg/concurrent"
)

var (
	ErrInvalidHandle = errors.New("transform: invalid handle")
	ErrCycle         = errors.New("transform: parent would create a cycle")
)

// Handle is a generation-checked reference into a Hierarchy. The zero Handle
// never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.index, h.gen)
}

type node struct {
	transform *Transform
	gen       uint32
	alive     bool
}

// Hierarchy is an arena of transforms. Parent links are handles into the
// same arena, so destroying a node turns its children into roots instead of
// leaving them with a dangling reference. Not safe for concurrent mutation.
type Hierarchy struct {
	nodes []node
	free  []uint32
	count int
}

func NewHierarchy() *Hierarchy {
	return &Hierarchy{}
}

// Create adopts t into the arena. A nil t creates an identity transform.
func (h *Hierarchy) Create(t *Transform) Handle {
	if t == nil {
		t = New()
	}
	t.owner = h
	t.parent = Handle{}

	var index uint32
	if n := len(h.free); n > 0 {
		index = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		index = uint32(len(h.nodes))
		h.nodes = append(h.nodes, node{})
	}

	slot := &h.nodes[index]
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	slot.alive = true
	slot.transform = t
	h.count++
	return Handle{index: index, gen: slot.gen}
}

// Get resolves a handle, returning nil for stale or zero handles.
func (h *Hierarchy) Get(handle Handle) *Transform {
	if handle.gen == 0 || int(handle.index) >= len(h.nodes) {
		return nil
	}
	slot := &h.nodes[handle.index]
	if !slot.alive || slot.gen != handle.gen {
		return nil
	}
	return slot.transform
}

func (h *Hierarchy) Valid(handle Handle) bool {
	return h.Get(handle) != nil
}

// Destroy releases the slot. The detached transform keeps its local state
// but no longer resolves a parent.
func (h *Hierarchy) Destroy(handle Handle) error {
	t := h.Get(handle)
	if t == nil {
		return ErrInvalidHandle
	}
	slot := &h.nodes[handle.index]
	slot.alive = false
	slot.gen++
	slot.transform = nil
	t.owner = nil
	t.parent = Handle{}
	h.free = append(h.free, handle.index)
	h.count--
	return nil
}

// SetParent links child under parent. A zero parent detaches the child.
func (h *Hierarchy) SetParent(child, parent Handle) error {
	c := h.Get(child)
	if c == nil {
		return fmt.Errorf("child %s: %w", child, ErrInvalidHandle)
	}
	if parent.IsZero() {
		c.parent = Handle{}
		return nil
	}
	if h.Get(parent) == nil {
		return fmt.Errorf("parent %s: %w", parent, ErrInvalidHandle)
	}
	for cur := parent; !cur.IsZero(); {
		if cur == child {
			return ErrCycle
		}
		t := h.Get(cur)
		if t == nil {
			break
		}
		cur = t.parent
	}
	c.parent = parent
	return nil
}

// ParentOf returns the live parent handle, or the zero Handle for roots.
func (h *Hierarchy) ParentOf(child Handle) Handle {
	c := h.Get(child)
	if c == nil || h.Get(c.parent) == nil {
		return Handle{}
	}
	return c.parent
}

func (h *Hierarchy) Len() int { return h.count }

// Pose is the world-space state of one node.
type Pose struct {
	Handle   Handle
	Position mgl64.Vec3
	Scale    mgl64.Vec3
	Forward  mgl64.Vec3
	Matrix   mgl64.Mat4
}

// Snapshot computes global poses for handles using up to workers goroutines.
// Callers must not mutate the hierarchy until Snapshot returns.
func (h *Hierarchy) Snapshot(ctx context.Context, handles []Handle, workers int) ([]Pose, error) {
	return concurrent.ParallelMap(ctx, handles, workers, func(_ context.Context, handle Handle) (Pose, error) {
		t := h.Get(handle)
		if t == nil {
			return Pose{}, fmt.Errorf("snapshot %s: %w", handle, ErrInvalidHandle)
		}
		m := t.Matrix()
		return Pose{
			Handle:   handle,
			Position: m.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3(),
			Scale:    t.GlobalScale(),
			Forward:  m.Mul4x1(Forward.Vec4(0)).Vec3(),
			Matrix:   m,
		}, nil
	})
}
