package agent

import (
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"voxworld/internal/pathfind"
	"voxworld/internal/profiling"
	"voxworld/internal/voxel"
)

// World is the terrain query surface agents move through. The chunk manager
// satisfies it.
type World interface {
	VoxelTypeAt(x, y, z int) (voxel.Type, bool)
}

// Manager owns every live agent and ticks them on the simulation thread.
type Manager struct {
	world World
	reg   *voxel.Registry
	queue *pathfind.Queue
	table *Table
	rng   *rand.Rand

	mu     sync.RWMutex
	agents []*Agent
}

// NewManager wires the shared services agents need each tick. The seed
// drives wander goal picking only, so runs with the same seed roam the same.
func NewManager(w World, reg *voxel.Registry, queue *pathfind.Queue, table *Table, seed int64) *Manager {
	if table == nil {
		table = DefaultTable()
	}
	return &Manager{
		world: w,
		reg:   reg,
		queue: queue,
		table: table,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Spawn creates an agent at a position and registers it.
func (m *Manager) Spawn(sp Species, behavior Behavior, pos mgl32.Vec3) *Agent {
	a := &Agent{
		ID:       uuid.New(),
		Species:  sp,
		Behavior: behavior,
		Position: pos,
		params:   m.table.Params(sp),
	}
	m.mu.Lock()
	m.agents = append(m.agents, a)
	m.mu.Unlock()
	return a
}

// Update ticks every live agent and compacts dead ones in place, preserving
// order without reallocating.
func (m *Manager) Update(dt float32) {
	defer profiling.Track("agent.Update")()

	m.mu.Lock()
	defer m.mu.Unlock()

	active := 0
	for _, a := range m.agents {
		if a.Dead() {
			continue
		}
		a.update(dt, m)
		if a.Dead() {
			continue
		}
		m.agents[active] = a
		active++
	}
	for i := active; i < len(m.agents); i++ {
		m.agents[i] = nil
	}
	m.agents = m.agents[:active]
}

// Agents returns a snapshot of the live agents.
func (m *Manager) Agents() []*Agent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Agent, len(m.agents))
	copy(out, m.agents)
	return out
}

// Count returns the number of live agents.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.agents)
}

// Find returns the agent with the given id, or nil.
func (m *Manager) Find(id uuid.UUID) *Agent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}
