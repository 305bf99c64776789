package navigation

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Cell addresses a grid square on the XZ plane.
type Cell struct {
	X int
	Z int
}

// Grid is a uniform navigation grid lying on the XZ plane. Cell (0,0) has
// its minimum corner at Origin.
type Grid struct {
	width   int
	depth   int
	spacing float64
	origin  mgl64.Vec3
	blocked []bool

	fingerprint uint64
	dirty       bool
}

var (
	_ Mesh          = (*Grid)(nil)
	_ Fingerprinter = (*Grid)(nil)
)

func NewGrid(width, depth int, spacing float64, origin mgl64.Vec3) (*Grid, error) {
	if width <= 0 || depth <= 0 {
		return nil, fmt.Errorf("size %dx%d: %w", width, depth, ErrInvalidGrid)
	}
	if spacing <= 0 || math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return nil, fmt.Errorf("spacing %v: %w", spacing, ErrInvalidGrid)
	}
	return &Grid{
		width:   width,
		depth:   depth,
		spacing: spacing,
		origin:  origin,
		blocked: make([]bool, width*depth),
		dirty:   true,
	}, nil
}

func (g *Grid) Spacing() float64   { return g.spacing }
func (g *Grid) Width() int         { return g.width }
func (g *Grid) Depth() int         { return g.depth }
func (g *Grid) Origin() mgl64.Vec3 { return g.origin }

func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Z >= 0 && c.X < g.width && c.Z < g.depth
}

func (g *Grid) SetBlocked(c Cell, blocked bool) error {
	if !g.InBounds(c) {
		return fmt.Errorf("cell %v: %w", c, ErrOutOfBounds)
	}
	g.blocked[c.Z*g.width+c.X] = blocked
	g.dirty = true
	return nil
}

func (g *Grid) Walkable(c Cell) bool {
	return g.InBounds(c) && !g.blocked[c.Z*g.width+c.X]
}

// CellAt maps a world position to its cell; ok is false outside the grid.
func (g *Grid) CellAt(p mgl64.Vec3) (Cell, bool) {
	c := Cell{
		X: int(math.Floor((p[0] - g.origin[0]) / g.spacing)),
		Z: int(math.Floor((p[2] - g.origin[2]) / g.spacing)),
	}
	return c, g.InBounds(c)
}

// Center is the world position of a cell's centre at the grid's height.
func (g *Grid) Center(c Cell) mgl64.Vec3 {
	half := g.spacing * 0.5
	return mgl64.Vec3{
		g.origin[0] + float64(c.X)*g.spacing + half,
		g.origin[1],
		g.origin[2] + float64(c.Z)*g.spacing + half,
	}
}

// NearestWalkable searches outward ring by ring from c.
func (g *Grid) NearestWalkable(c Cell) (Cell, bool) {
	if g.Walkable(c) {
		return c, true
	}
	maxRadius := max(g.width, g.depth)
	for r := 1; r <= maxRadius; r++ {
		best, found := Cell{}, false
		bestDist := math.Inf(1)
		for dz := -r; dz <= r; dz++ {
			for dx := -r; dx <= r; dx++ {
				if max(abs(dx), abs(dz)) != r {
					continue
				}
				n := Cell{X: c.X + dx, Z: c.Z + dz}
				if !g.Walkable(n) {
					continue
				}
				if d := float64(dx*dx + dz*dz); d < bestDist {
					best, bestDist, found = n, d, true
				}
			}
		}
		if found {
			return best, true
		}
	}
	return Cell{}, false
}

// LineOfSight walks the cells between a and b and reports whether none of
// them is blocked. Points outside the grid see everything.
func (g *Grid) LineOfSight(a, b mgl64.Vec3) bool {
	from, okA := g.CellAt(a)
	to, okB := g.CellAt(b)
	if !okA || !okB {
		return true
	}

	dx, dz := abs(to.X-from.X), -abs(to.Z-from.Z)
	sx, sz := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Z > to.Z {
		sz = -1
	}
	e := dx + dz
	c := from
	for {
		if !g.Walkable(c) {
			return false
		}
		if c == to {
			return true
		}
		e2 := 2 * e
		if e2 >= dz {
			e += dz
			c.X += sx
		}
		if e2 <= dx {
			e += dx
			c.Z += sz
		}
	}
}

// Fingerprint hashes the grid layout with xxhash.
func (g *Grid) Fingerprint() uint64 {
	if !g.dirty {
		return g.fingerprint
	}
	d := xxhash.New()
	var buf [8]byte
	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	writeU64(uint64(g.width))
	writeU64(uint64(g.depth))
	writeU64(math.Float64bits(g.spacing))
	for _, v := range g.origin {
		writeU64(math.Float64bits(v))
	}
	row := make([]byte, len(g.blocked))
	for i, b := range g.blocked {
		if b {
			row[i] = 1
		}
	}
	_, _ = d.Write(row)

	g.fingerprint = d.Sum64()
	g.dirty = false
	return g.fingerprint
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
