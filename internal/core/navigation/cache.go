package navigation

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// CachedPathfinder memoises another pathfinder. Queries are keyed by the mesh
// fingerprint and the mesh cells holding start and goal, so two starts inside
// the same cell share an answer. Meshes that do not implement
// Fingerprinter bypass the cache. Eviction is first in, first out.
type CachedPathfinder struct {
	inner    Pathfinder
	capacity int
	entries  map[uint64][]mgl64.Vec3
	order    []uint64

	hits   uint64
	misses uint64
}

var _ Pathfinder = (*CachedPathfinder)(nil)

func NewCachedPathfinder(inner Pathfinder, capacity int) *CachedPathfinder {
	if capacity < 1 {
		capacity = 1
	}
	return &CachedPathfinder{
		inner:    inner,
		capacity: capacity,
		entries:  make(map[uint64][]mgl64.Vec3, capacity),
		order:    make([]uint64, 0, capacity),
	}
}

func (c *CachedPathfinder) FindPath(mesh Mesh, start, goal mgl64.Vec3) []mgl64.Vec3 {
	fp, ok := mesh.(Fingerprinter)
	if !ok {
		return c.inner.FindPath(mesh, start, goal)
	}

	startCell, _ := fp.CellAt(start)
	goalCell, _ := fp.CellAt(goal)
	key := queryKey(fp.Fingerprint(), startCell, goalCell)
	if path, ok := c.entries[key]; ok {
		c.hits++
		return slices.Clone(path)
	}
	c.misses++

	path := c.inner.FindPath(mesh, start, goal)
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = slices.Clone(path)
	c.order = append(c.order, key)
	return path
}

// Stats reports cache hits and misses since construction.
func (c *CachedPathfinder) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}

func (c *CachedPathfinder) Len() int { return len(c.entries) }

func (c *CachedPathfinder) Reset() {
	clear(c.entries)
	c.order = c.order[:0]
}

func queryKey(fingerprint uint64, start, goal Cell) uint64 {
	var buf [8 * 5]byte
	binary.LittleEndian.PutUint64(buf[0:], fingerprint)
	off := 8
	for _, v := range [4]int{start.X, start.Z, goal.X, goal.Z} {
		binary.LittleEndian.PutUint64(buf[off:], uint64(int64(v)))
		off += 8
	}
	return xxhash.Sum64(buf[:])
}
