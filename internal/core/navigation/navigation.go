// Package navigation holds the pathfinding contracts the AI consumes and a
// grid-based implementation of them.
package navigation

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidGrid = errors.New("navigation: invalid grid")
	ErrOutOfBounds = errors.New("navigation: cell out of bounds")
)

// Mesh is walkable space with a fixed resolution.
type Mesh interface {
	Spacing() float64
}

// Pathfinder answers path queries synchronously. The result is ordered goal
// first and start last, so callers consume it from the back. An empty result
// means no path is available right now.
type Pathfinder interface {
	FindPath(mesh Mesh, start, goal mgl64.Vec3) []mgl64.Vec3
}

type PathfinderFunc func(mesh Mesh, start, goal mgl64.Vec3) []mgl64.Vec3

func (f PathfinderFunc) FindPath(mesh Mesh, start, goal mgl64.Vec3) []mgl64.Vec3 {
	return f(mesh, start, goal)
}

// Fingerprinter is implemented by meshes whose layout can be summarised as a
// hash. Two meshes with the same fingerprint must answer queries identically,
// and any two points CellAt maps to the same cell must be interchangeable as
// query endpoints.
type Fingerprinter interface {
	Fingerprint() uint64
	CellAt(p mgl64.Vec3) (Cell, bool)
}
