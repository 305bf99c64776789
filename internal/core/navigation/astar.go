package navigation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/arena/pkg/generic"
	"github.com/zeusync/arena/pkg/sequence"
)

// AStar finds 8-connected paths over a *Grid with octile costs. Diagonal
// steps may not cut blocked corners. Queries against any other mesh return
// an empty path.
type AStar struct{}

var _ Pathfinder = AStar{}

var neighbourSteps = [8]Cell{
	{X: 1, Z: 0}, {X: -1, Z: 0}, {X: 0, Z: 1}, {X: 0, Z: -1},
	{X: 1, Z: 1}, {X: 1, Z: -1}, {X: -1, Z: 1}, {X: -1, Z: -1},
}

// FindPath snaps blocked endpoints to the nearest walkable cell. Endpoints
// outside the grid or unreachable goals yield nil. The start cell itself is
// not part of the result.
func (AStar) FindPath(mesh Mesh, start, goal mgl64.Vec3) []mgl64.Vec3 {
	grid, ok := mesh.(*Grid)
	if !ok || grid == nil {
		return nil
	}
	startCell, ok := grid.CellAt(start)
	if !ok {
		return nil
	}
	goalCell, ok := grid.CellAt(goal)
	if !ok {
		return nil
	}
	if startCell, ok = grid.NearestWalkable(startCell); !ok {
		return nil
	}
	if goalCell, ok = grid.NearestWalkable(goalCell); !ok {
		return nil
	}
	if startCell == goalCell {
		return []mgl64.Vec3{grid.Center(goalCell)}
	}

	cells := search(grid, startCell, goalCell)
	if len(cells) == 0 {
		return nil
	}
	out := make([]mgl64.Vec3, 0, len(cells))
	for _, c := range cells {
		out = append(out, grid.Center(c))
	}
	return out
}

// scratch holds the per-cell search state, reused across queries.
type scratch struct {
	gScore   []float64
	cameFrom []int
	closed   []bool
	open     *sequence.PriorityQueue[Cell]
}

var scratchPool = generic.NewPool(
	func() *scratch { return &scratch{open: sequence.NewPriorityQueue[Cell]()} },
	func(s *scratch) { s.open.Clear() },
)

func (s *scratch) prepare(n int) {
	if cap(s.gScore) < n {
		s.gScore = make([]float64, n)
		s.cameFrom = make([]int, n)
		s.closed = make([]bool, n)
	}
	s.gScore = s.gScore[:n]
	s.cameFrom = s.cameFrom[:n]
	s.closed = s.closed[:n]
	for i := range n {
		s.gScore[i] = math.Inf(1)
		s.cameFrom[i] = -1
		s.closed[i] = false
	}
}

// search returns cells from goal back to, but excluding, start.
func search(grid *Grid, start, goal Cell) []Cell {
	index := func(c Cell) int { return c.Z*grid.width + c.X }

	st := scratchPool.Get()
	defer scratchPool.Put(st)
	st.prepare(grid.width * grid.depth)
	gScore, cameFrom, closed, open := st.gScore, st.cameFrom, st.closed, st.open

	gScore[index(start)] = 0
	open.Enqueue(start, octile(start, goal))

	for !open.IsEmpty() {
		current, _ := open.Dequeue()
		ci := index(current)
		if closed[ci] {
			continue
		}
		if current == goal {
			return reconstruct(grid, cameFrom, ci, index(start))
		}
		closed[ci] = true

		for _, step := range neighbourSteps {
			next := Cell{X: current.X + step.X, Z: current.Z + step.Z}
			if !grid.Walkable(next) {
				continue
			}
			cost := 1.0
			if step.X != 0 && step.Z != 0 {
				if !grid.Walkable(Cell{X: current.X + step.X, Z: current.Z}) ||
					!grid.Walkable(Cell{X: current.X, Z: current.Z + step.Z}) {
					continue
				}
				cost = math.Sqrt2
			}
			ni := index(next)
			if closed[ni] {
				continue
			}
			tentative := gScore[ci] + cost
			if tentative >= gScore[ni] {
				continue
			}
			gScore[ni] = tentative
			cameFrom[ni] = ci
			open.Enqueue(next, tentative+octile(next, goal))
		}
	}
	return nil
}

func reconstruct(grid *Grid, cameFrom []int, goal, start int) []Cell {
	var out []Cell
	for i := goal; i != start && i >= 0; i = cameFrom[i] {
		out = append(out, Cell{X: i % grid.width, Z: i / grid.width})
	}
	return out
}

func octile(a, b Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dz := math.Abs(float64(a.Z - b.Z))
	return (dx + dz) + (math.Sqrt2-2)*math.Min(dx, dz)
}
