package ai

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/arena/internal/core/ecs"
	"github.com/zeusync/arena/pkg/sequence"
)

type candidate struct {
	id       ecs.EntityID
	distance float64
	score    float64
}

// candidates lists live vehicles other than the owner in ascending id order.
func (c *Controller) candidates(tc *TickContext) []candidate {
	pos, ok := tc.Registry.Position(c.owner)
	if !ok {
		return nil
	}
	vehicles := sequence.From(tc.Registry.EntitiesByTag(ecs.VehicleTags...)).
		Filter(func(e *ecs.Entity) bool { return e.ID != c.owner && e.Alive() })

	return sequence.Map(vehicles, func(e *ecs.Entity) candidate {
		p, _ := tc.Registry.Position(e.ID)
		d := distance(pos, p)
		return candidate{id: e.ID, distance: d, score: d * e.Health}
	}).Collect()
}

// bestAttackCandidate prefers close, weak targets: the lowest
// distance * health wins and ties go to the closer vehicle.
func (c *Controller) bestAttackCandidate(tc *TickContext) (ecs.EntityID, bool) {
	best, ok := sequence.From(c.candidates(tc)).MinFunc(func(a, b candidate) int {
		switch {
		case a.score < b.score:
			return -1
		case a.score > b.score:
			return 1
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		}
		return 0
	})
	return best.id, ok
}

func (c *Controller) nearestVehicle(tc *TickContext) (ecs.EntityID, bool) {
	best, ok := sequence.From(c.candidates(tc)).MinFunc(func(a, b candidate) int {
		switch {
		case a.distance < b.distance:
			return -1
		case a.distance > b.distance:
			return 1
		}
		return 0
	})
	return best.id, ok
}

func distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}
