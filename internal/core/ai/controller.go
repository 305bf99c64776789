// Package ai drives AI vehicles with a timed finite-state controller.
//
// Each tick a Controller runs the behaviour of its current mode, keeps its
// path fresh through the pathfinding oracle, advances along the path and
// finally evaluates mode transitions. Controllers hold only entity ids and
// re-resolve them through the registry every tick.
package ai

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/zeusync/arena/internal/core/ecs"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/observability/metrics"
	"github.com/zeusync/arena/internal/core/transform"
	"github.com/zeusync/arena/internal/core/weapon"
)

type Controller struct {
	owner  ecs.EntityID
	cfg    Config
	weapon weapon.Weapon

	mode         Mode
	previousMode Mode
	modeStart    time.Duration
	modeFresh    bool

	target ecs.EntityID
	// path is consumed from the back.
	path           []mgl64.Vec3
	lastPathUpdate Stamp
	stuckSince     Stamp
	lostSince      Stamp
	charged        bool
	patrolIndex    int

	history *History
}

// NewController creates a controller in ModeWaypoint at time now. The weapon
// may be nil for unarmed vehicles.
func NewController(owner ecs.EntityID, cfg Config, w weapon.Weapon, now time.Duration) *Controller {
	c := &Controller{
		owner:   owner,
		cfg:     cfg,
		weapon:  w,
		history: NewHistory(cfg.HistorySize),
	}
	c.mode = ModeWaypoint
	c.previousMode = ModeWaypoint
	c.modeStart = now
	c.modeFresh = true
	return c
}

func (c *Controller) Owner() ecs.EntityID      { return c.owner }
func (c *Controller) Mode() Mode               { return c.mode }
func (c *Controller) PreviousMode() Mode       { return c.previousMode }
func (c *Controller) ModeStart() time.Duration { return c.modeStart }
func (c *Controller) Charged() bool            { return c.charged }
func (c *Controller) Target() ecs.EntityID     { return c.target }
func (c *Controller) PatrolIndex() int         { return c.patrolIndex }
func (c *Controller) History() *History        { return c.history }
func (c *Controller) Config() Config           { return c.cfg }

// SetConfig swaps the tuning values. Mode timers, tracking and history are
// kept.
func (c *Controller) SetConfig(cfg Config) {
	c.cfg = cfg
}

// SetTarget replaces the target. The zero id clears it.
func (c *Controller) SetTarget(id ecs.EntityID) {
	c.target = id
}

// SetMode enters mode at now. The previous mode, the entry time and the
// fresh flag change together; re-entering the current mode restarts its
// timer.
func (c *Controller) SetMode(mode Mode, now time.Duration) {
	c.previousMode = c.mode
	c.mode = mode
	c.modeStart = now
	c.modeFresh = true
	c.history.Record(Transition{At: now, From: c.previousMode, To: mode})
}

// SetPath replaces the path. The slice is ordered goal first.
func (c *Controller) SetPath(path []mgl64.Vec3) {
	c.path = path
}

// Path returns the remaining waypoints, goal first. Callers must not modify it.
func (c *Controller) Path() []mgl64.Vec3 {
	return c.path
}

func (c *Controller) FinishedPath() bool {
	return len(c.path) == 0
}

// NextWaypoint drops the waypoint currently being driven to. It does nothing
// on an empty path.
func (c *Controller) NextWaypoint() {
	if len(c.path) == 0 {
		return
	}
	c.path = c.path[:len(c.path)-1]
}

// CurrentWaypoint is the point the vehicle should drive toward.
func (c *Controller) CurrentWaypoint() (mgl64.Vec3, bool) {
	if len(c.path) == 0 {
		return mgl64.Vec3{}, false
	}
	return c.path[len(c.path)-1], true
}

// NextPatrolPoint advances the patrol index, wrapping at count.
func (c *Controller) NextPatrolPoint(count int) int {
	if count <= 0 {
		c.patrolIndex = 0
		return 0
	}
	c.patrolIndex = (c.patrolIndex + 1) % count
	return c.patrolIndex
}

// Reset leaves any mode, including ModeStuck, and clears all tracking.
func (c *Controller) Reset(now time.Duration) {
	c.SetMode(ModeWaypoint, now)
	c.target = 0
	c.path = nil
	c.lastPathUpdate.Clear()
	c.stuckSince.Clear()
	c.lostSince.Clear()
	c.charged = false
	c.patrolIndex = 0
}

// Update runs one tick.
func (c *Controller) Update(tc *TickContext) {
	c.revalidateTarget(tc)

	switch c.mode {
	case ModeAttack:
		c.updateAttack(tc)
	case ModeSeekPowerup:
		c.updateSeekPowerup(tc)
	case ModeWaypoint:
		c.updatePatrol(tc)
	}
	c.modeFresh = false

	now := tc.Clock.Now()
	if since, ok := c.lastPathUpdate.Elapsed(now); !ok || since >= c.cfg.PathRefreshInterval || c.FinishedPath() {
		c.UpdatePath(tc)
	}
	if wp, ok := c.CurrentWaypoint(); ok {
		if pos, ok := tc.Registry.Position(c.owner); ok && pos.Sub(wp).Len() <= c.reachDistance(tc) {
			c.NextWaypoint()
		}
	}
	if c.FinishedPath() {
		c.UpdatePath(tc)
	}

	c.UpdateMode(tc)
}

// UpdateMode evaluates the transition rules in order: the stuck ceiling,
// stuck onset tracking, then the periodic re-roll with two 50/50 draws.
func (c *Controller) UpdateMode(tc *TickContext) {
	now := tc.Clock.Now()

	if stuckFor, ok := c.stuckSince.Elapsed(now); ok && stuckFor > c.cfg.StuckTimeout && c.mode != ModeStuck {
		c.switchMode(tc, ModeStuck)
	}

	speed := 0.0
	if tc.Speed != nil {
		speed = tc.Speed.ForwardSpeed(c.owner)
	}
	if math.Abs(speed) < c.cfg.StuckSpeed {
		c.stuckSince.SetOnce(now)
	} else {
		c.stuckSince.Clear()
	}

	if c.mode == ModeStuck || now-c.modeStart < c.cfg.ReRollInterval || tc.Rand == nil {
		return
	}
	hasPowerup := tc.Rand.Intn(2) == 0
	attack := tc.Rand.Intn(2) == 0
	switch {
	case !hasPowerup:
		c.switchMode(tc, ModeSeekPowerup)
	case attack:
		c.switchMode(tc, ModeAttack)
	default:
		// staying restarts the interval but is not a transition
		c.modeStart = now
	}
}

// UpdatePath queries the oracle from a point offset ahead of the vehicle to
// the target. A non-empty answer always replaces the path; an empty one is
// accepted only when the current path is already finished.
func (c *Controller) UpdatePath(tc *TickContext) {
	if tc.Pathfinder == nil || tc.Mesh == nil {
		return
	}
	targetPos, ok := c.targetPosition(tc)
	if !ok {
		return
	}
	self, ok := tc.Registry.Transform(c.owner)
	if !ok {
		return
	}
	now := tc.Clock.Now()
	pos := self.GlobalPosition()

	away := transform.SafeNormalize(self.Forward()).Mul(-1)
	toward := transform.SafeNormalize(targetPos.Sub(pos))
	offset := transform.SafeNormalize(away.Add(toward)).Mul(c.cfg.StartOffsetFactor * tc.spacing())
	start := pos.Add(offset)

	path := tc.Pathfinder.FindPath(tc.Mesh, start, targetPos)
	c.lastPathUpdate.Set(now)

	switch {
	case len(path) > 0:
		c.path = path
		tc.Metrics.PathRequest(metrics.PathCommitted)
		tc.logger().Debug("path committed",
			log.Stringer("entity", c.owner),
			log.Int("waypoints", len(path)),
		)
		tc.publish(EventPathCommitted, c.owner, PathCommitted{Entity: c.owner, Length: len(path)})
	case c.FinishedPath():
		c.path = path
		tc.Metrics.PathRequest(metrics.PathEmpty)
	default:
		tc.Metrics.PathRequest(metrics.PathKept)
	}
}

func (c *Controller) updateAttack(tc *TickContext) {
	if c.target.IsZero() || c.modeFresh {
		best, ok := c.bestAttackCandidate(tc)
		if !ok {
			c.target = 0
			c.switchMode(tc, ModeSeekPowerup)
			return
		}
		c.acquire(tc, best)
	}

	now := tc.Clock.Now()
	targetPos, ok := c.targetPosition(tc)
	if !ok {
		return
	}
	pos, ok := tc.Registry.Position(c.owner)
	if !ok {
		return
	}

	visible := tc.Visibility == nil || tc.Visibility.Visible(c.owner, c.target)
	if visible && pos.Sub(targetPos).Len() <= c.cfg.EngagementRange {
		c.lostSince.Clear()
		if !c.charged {
			if c.weapon != nil {
				c.weapon.Charge()
			}
			c.charged = true
		}
		if c.weapon != nil {
			c.weapon.Shoot(targetPos)
			tc.publish(EventWeaponFired, c.owner, WeaponFired{Entity: c.owner, Target: c.target})
		}
		return
	}

	if lost, ok := c.lostSince.Elapsed(now); !ok {
		c.lostSince.Set(now)
	} else if lost > c.cfg.DechargeDelay {
		c.charged = false
	}
}

func (c *Controller) updateSeekPowerup(tc *TickContext) {
	if !c.target.IsZero() {
		return
	}
	nearest, ok := c.nearestVehicle(tc)
	if !ok {
		c.switchMode(tc, ModeAttack)
		return
	}
	c.acquire(tc, nearest)
}

// updatePatrol cycles through waypoint entities while no other target is held.
func (c *Controller) updatePatrol(tc *TickContext) {
	points := tc.Registry.EntitiesByTag(ecs.TagWaypoint)
	if len(points) == 0 {
		return
	}
	if c.target.IsZero() {
		c.acquire(tc, points[c.patrolIndex%len(points)].ID)
		return
	}

	target, ok := tc.Registry.FindEntity(c.target)
	if !ok || !target.HasTag(ecs.TagWaypoint) {
		return
	}
	pos, ok := tc.Registry.Position(c.owner)
	if !ok {
		return
	}
	targetPos, ok := tc.Registry.Position(c.target)
	if ok && pos.Sub(targetPos).Len() <= c.reachDistance(tc) {
		next := c.NextPatrolPoint(len(points))
		c.acquire(tc, points[next].ID)
		c.path = nil
	}
}

func (c *Controller) switchMode(tc *TickContext, mode Mode) {
	from := c.mode
	c.SetMode(mode, tc.Clock.Now())
	tc.Metrics.ModeTransition(from.String(), mode.String())
	if from == mode {
		return
	}
	tc.logger().Debug("ai mode changed",
		log.Stringer("entity", c.owner),
		log.Stringer("from", from),
		log.Stringer("to", mode),
	)
	tc.publish(EventModeChanged, c.owner, ModeChanged{Entity: c.owner, From: from, To: mode})
}

func (c *Controller) acquire(tc *TickContext, target ecs.EntityID) {
	if c.target == target {
		return
	}
	c.target = target
	c.charged = false
	c.lostSince.Clear()
	tc.logger().Debug("ai target acquired",
		log.Stringer("entity", c.owner),
		log.Stringer("target", target),
		log.Stringer("mode", c.mode),
	)
	tc.publish(EventTargetAcquired, c.owner, TargetAcquired{Entity: c.owner, Target: target, Mode: c.mode})
}

// revalidateTarget drops targets destroyed since the last tick and vehicles
// that have been killed.
func (c *Controller) revalidateTarget(tc *TickContext) {
	if c.target.IsZero() {
		return
	}
	e, ok := tc.Registry.FindEntity(c.target)
	if !ok || (e.HasAnyTag(ecs.VehicleTags...) && !e.Alive()) {
		c.target = 0
	}
}

func (c *Controller) targetPosition(tc *TickContext) (mgl64.Vec3, bool) {
	if c.target.IsZero() {
		return mgl64.Vec3{}, false
	}
	return tc.Registry.Position(c.target)
}

func (c *Controller) reachDistance(tc *TickContext) float64 {
	return c.cfg.WaypointReachFactor * tc.spacing()
}
