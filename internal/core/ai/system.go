package ai

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/arena/internal/core/ecs"
	"github.com/zeusync/arena/internal/core/physics"
	"github.com/zeusync/arena/internal/core/system"
)

// System owns every controller and ticks them in ascending entity order.
// Controllers are stored as the registry's AI component, so destroying an
// entity drops its controller too.
type System struct {
	tc          *TickContext
	controllers *ecs.Store[Controller]
}

var (
	_ system.System    = (*System)(nil)
	_ physics.Steering = (*System)(nil)
)

func NewSystem(tc *TickContext) *System {
	s := &System{
		tc:          tc,
		controllers: ecs.NewStore[Controller](),
	}
	tc.Registry.Register(ecs.ComponentAI, s.controllers)
	return s
}

func (s *System) Context() *TickContext { return s.tc }

func (s *System) Add(c *Controller) {
	s.controllers.Set(c.owner, c)
	s.tc.Metrics.Controllers(s.controllers.Len())
}

func (s *System) Remove(id ecs.EntityID) {
	s.controllers.Remove(id)
	s.tc.Metrics.Controllers(s.controllers.Len())
}

func (s *System) Get(id ecs.EntityID) (*Controller, bool) {
	return s.controllers.Get(id)
}

func (s *System) Len() int { return s.controllers.Len() }

// IDs lists controlled entities in tick order.
func (s *System) IDs() []ecs.EntityID { return s.controllers.IDs() }

func (s *System) Phase() system.Phase { return system.PhaseAI }

// Update ticks every controller whose owner is still alive and drops the
// others.
func (s *System) Update(time.Duration) {
	for _, id := range s.controllers.IDs() {
		c, _ := s.controllers.Get(id)
		owner, ok := s.tc.Registry.FindEntity(id)
		if !ok || (owner.MaxHealth > 0 && !owner.Alive()) {
			s.Remove(id)
			continue
		}
		c.Update(s.tc)
	}
}

// Waypoint exposes a controller's current waypoint as steering input.
func (s *System) Waypoint(id ecs.EntityID) (mgl64.Vec3, bool) {
	c, ok := s.controllers.Get(id)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return c.CurrentWaypoint()
}

// State is a read-only view of a controller for inspection.
type State struct {
	Entity    ecs.EntityID `json:"entity"`
	Name      string       `json:"name"`
	Mode      string       `json:"mode"`
	Previous  string       `json:"previous_mode"`
	Target    ecs.EntityID `json:"target"`
	PathLen   int          `json:"path_len"`
	Charged   bool         `json:"charged"`
	Health    float64      `json:"health"`
	Position  [3]float64   `json:"position"`
	Waypoint  *[3]float64  `json:"waypoint,omitempty"`
	ModeStart float64      `json:"mode_start_seconds"`
}

// States snapshots every controller in ascending entity order.
func (s *System) States() []State {
	ids := s.controllers.IDs()
	out := make([]State, 0, len(ids))
	for _, id := range ids {
		c, _ := s.controllers.Get(id)
		st := State{
			Entity:    id,
			Mode:      c.mode.String(),
			Previous:  c.previousMode.String(),
			Target:    c.target,
			PathLen:   len(c.path),
			Charged:   c.charged,
			ModeStart: c.modeStart.Seconds(),
		}
		if e, ok := s.tc.Registry.FindEntity(id); ok {
			st.Name = e.Name
			st.Health = e.Health
		}
		if p, ok := s.tc.Registry.Position(id); ok {
			st.Position = p
		}
		if wp, ok := c.CurrentWaypoint(); ok {
			w := [3]float64(wp)
			st.Waypoint = &w
		}
		out = append(out, st)
	}
	return out
}
