package agent

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"voxworld/internal/pathfind"
	"voxworld/internal/physics"
	"voxworld/internal/voxel"
)

// Behavior is what an agent is currently doing. Transitions happen inside
// update: a wanderer with a target in detection range starts chasing, and a
// chaser whose target escapes far enough falls back to wandering.
type Behavior uint8

const (
	BehaviorIdle Behavior = iota
	BehaviorWandering
	BehaviorChasing
)

func (b Behavior) String() string {
	switch b {
	case BehaviorIdle:
		return "idle"
	case BehaviorWandering:
		return "wandering"
	case BehaviorChasing:
		return "chasing"
	default:
		return "unknown"
	}
}

// Target supplies a live position to chase.
type Target interface {
	TargetPosition() mgl32.Vec3
}

// TargetFunc adapts a closure to the Target interface.
type TargetFunc func() mgl32.Vec3

func (f TargetFunc) TargetPosition() mgl32.Vec3 { return f() }

const (
	arriveRadius   = 0.35
	hopVelocity    = 8.5
	repathInterval = 1.5
	wanderWaitMin  = 2.0
	wanderWaitSpan = 3.0
	wanderRadius   = 10
	surfaceScan    = 8
	despawnDepth   = -16
	escapeFactor   = 2.0
	stallLimit     = 2.0
)

// Agent is a mobile creature. It is a plain record: species parameters come
// from the manager's table and behavior dispatch is a switch, not a type
// hierarchy.
type Agent struct {
	ID       uuid.UUID
	Species  Species
	Behavior Behavior
	Position mgl32.Vec3
	Velocity mgl32.Vec3

	params SpeciesParams
	target Target

	path      []pathfind.Node
	pathIndex int
	pending   <-chan pathfind.Result

	repathClock  float32
	wanderClock  float32
	stallClock   float32
	lastWaypoint float32

	onFloor bool
	onWater bool
	dead    bool
}

// SetTarget gives the agent something to notice and chase. A wandering agent
// with a target switches to chasing once the target is inside its detection
// radius.
func (a *Agent) SetTarget(t Target) { a.target = t }

// Params returns the species row the agent was spawned with.
func (a *Agent) Params() SpeciesParams { return a.params }

// Kill marks the agent for removal on the next manager update.
func (a *Agent) Kill() { a.dead = true }

// Dead reports whether the agent should be compacted away.
func (a *Agent) Dead() bool { return a.dead }

// OnFloor reports whether the last resolve left the agent grounded.
func (a *Agent) OnFloor() bool { return a.onFloor }

func (a *Agent) update(dt float32, m *Manager) {
	a.pollPath()

	switch a.Behavior {
	case BehaviorIdle:
		a.Velocity[0] = 0
		a.Velocity[2] = 0
	case BehaviorWandering:
		a.updateWander(dt, m)
	case BehaviorChasing:
		a.updateChase(dt, m)
	}

	a.Velocity = physics.ApplyGravity(a.Velocity, dt, a.onWater)
	next := a.Position.Add(a.Velocity.Mul(dt))
	pos, vel, contacts := physics.Resolve(next, a.Velocity, a.params.Box(), m.world, m.reg)
	a.Position = pos
	a.Velocity = vel
	a.onFloor = contacts.OnFloor
	a.onWater = contacts.OnWater

	if a.Position.Y() < despawnDepth {
		a.dead = true
	}
}

// pollPath collects an answered path request without blocking the tick.
func (a *Agent) pollPath() {
	if a.pending == nil {
		return
	}
	select {
	case res := <-a.pending:
		a.pending = nil
		if len(res.Path) > 0 {
			a.path = res.Path
			a.pathIndex = 0
			a.stallClock = 0
			a.lastWaypoint = math.MaxFloat32
		}
	default:
	}
}

func (a *Agent) updateWander(dt float32, m *Manager) {
	if a.target != nil && a.horizontalDistanceTo(a.target.TargetPosition()) <= a.params.DetectionRadius {
		a.Behavior = BehaviorChasing
		a.path = nil
		a.repathClock = 0
		return
	}

	if len(a.path) == 0 && a.pending == nil {
		a.wanderClock -= dt
		if a.wanderClock <= 0 {
			a.wanderClock = wanderWaitMin + m.rng.Float32()*wanderWaitSpan
			a.pickWanderGoal(m)
		}
	}
	a.followPath(dt)
}

func (a *Agent) updateChase(dt float32, m *Manager) {
	if a.target == nil {
		a.Behavior = BehaviorWandering
		return
	}
	targetPos := a.target.TargetPosition()
	if a.horizontalDistanceTo(targetPos) > a.params.DetectionRadius*escapeFactor {
		a.Behavior = BehaviorWandering
		a.path = nil
		return
	}

	a.repathClock -= dt
	if a.repathClock <= 0 && a.pending == nil {
		a.repathClock = repathInterval
		goal, ok := m.standableNear(int(floor(targetPos.X())), int(floor(targetPos.Y())), int(floor(targetPos.Z())))
		if ok {
			a.pending = m.queue.Submit(a.node(), goal)
		}
	}
	a.followPath(dt)
}

// pickWanderGoal throws a dart within the wander radius and paths to it if
// the landing column has standable ground.
func (a *Agent) pickWanderGoal(m *Manager) {
	dx := m.rng.Intn(2*wanderRadius+1) - wanderRadius
	dz := m.rng.Intn(2*wanderRadius+1) - wanderRadius
	if dx == 0 && dz == 0 {
		return
	}
	cur := a.node()
	goal, ok := m.standableNear(cur.X+dx, cur.Y, cur.Z+dz)
	if !ok {
		return
	}
	a.pending = m.queue.Submit(cur, goal)
}

// followPath steers toward the current waypoint, advancing when close and
// hopping when the next waypoint sits one voxel above the agent's feet. A
// path that stops making progress, because an edit walled it off after the
// search ran, is dropped after stallLimit seconds.
func (a *Agent) followPath(dt float32) {
	if len(a.path) == 0 || a.pathIndex >= len(a.path) {
		a.dropPath()
		return
	}

	wp := a.path[a.pathIndex]
	dx := float32(wp.X) + 0.5 - a.Position.X()
	dz := float32(wp.Z) + 0.5 - a.Position.Z()
	dist := float32(math.Sqrt(float64(dx*dx + dz*dz)))

	if dist < arriveRadius {
		a.pathIndex++
		a.stallClock = 0
		a.lastWaypoint = math.MaxFloat32
		if a.pathIndex >= len(a.path) {
			a.dropPath()
		}
		return
	}

	if dist+0.01 < a.lastWaypoint {
		a.lastWaypoint = dist
		a.stallClock = 0
	} else {
		a.stallClock += dt
		if a.stallClock > stallLimit {
			a.dropPath()
			return
		}
	}

	speed := a.params.WalkSpeed
	a.Velocity[0] = dx / dist * speed
	a.Velocity[2] = dz / dist * speed

	if wp.Y > a.feetY() && a.onFloor {
		a.Velocity[1] = hopVelocity
	}
}

func (a *Agent) dropPath() {
	a.path = nil
	a.pathIndex = 0
	a.stallClock = 0
	a.lastWaypoint = 0
	a.Velocity[0] = 0
	a.Velocity[2] = 0
}

// node is the feet voxel the agent occupies. The small bias keeps an agent
// resting exactly on a voxel boundary in the upper cell.
func (a *Agent) node() pathfind.Node {
	return pathfind.Node{
		X: int(floor(a.Position.X())),
		Y: a.feetY(),
		Z: int(floor(a.Position.Z())),
	}
}

func (a *Agent) feetY() int {
	return int(floor(a.Position.Y() + 0.01))
}

func (a *Agent) horizontalDistanceTo(p mgl32.Vec3) float32 {
	dx := p.X() - a.Position.X()
	dz := p.Z() - a.Position.Z()
	return float32(math.Sqrt(float64(dx*dx + dz*dz)))
}

// standableNear scans the column at (x, z) around refY for a cell an agent
// can stand in: solid below, air at feet and head. Unknown terrain is
// skipped; the path search itself requests loads for chunks it runs into.
func (m *Manager) standableNear(x, refY, z int) (pathfind.Node, bool) {
	for dy := 0; dy <= surfaceScan; dy++ {
		for _, y := range []int{refY + dy, refY - dy} {
			if m.walkable(x, y, z) {
				return pathfind.Node{X: x, Y: y, Z: z}, true
			}
			if dy == 0 {
				break
			}
		}
	}
	return pathfind.Node{}, false
}

func (m *Manager) walkable(x, y, z int) bool {
	below, ok := m.world.VoxelTypeAt(x, y-1, z)
	if !ok || !m.reg.IsSolid(below) {
		return false
	}
	feet, ok := m.world.VoxelTypeAt(x, y, z)
	if !ok || feet != voxel.Air {
		return false
	}
	head, ok := m.world.VoxelTypeAt(x, y+1, z)
	if !ok || head != voxel.Air {
		return false
	}
	return true
}

func floor(v float32) float32 {
	return float32(math.Floor(float64(v)))
}
