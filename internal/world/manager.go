package world

import (
	"log"
	"math"
	"runtime"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"

	"voxworld/internal/meshing"
	"voxworld/internal/profiling"
	"voxworld/internal/voxel"
)

// SceneSink receives chunk mesh lifecycle events. Handles are the stable
// reference: a mesh attached under a handle is mutated in place by edits and
// only ever detached when the chunk leaves the active set.
type SceneSink interface {
	AttachChunkMesh(h Handle, mesh *meshing.Mesh)
	DetachChunkMesh(h Handle)
}

type loadState uint8

const (
	stateQueued loadState = iota + 1
	stateLoading
	stateActive
)

// ChunkManager owns the active chunk set. All methods are tick-thread calls;
// the only other goroutines involved are generation workers, which build
// private chunks and hand them back over the published channel.
type ChunkManager struct {
	gen *Generator
	reg *voxel.Registry

	loadRadius   int
	deleteRadius int
	workers      int

	active   map[ChunkCoord]*Chunk
	byHandle map[Handle]*Chunk
	states   map[ChunkCoord]loadState
	modified map[ChunkCoord]*Chunk

	queue    []ChunkCoord // ring-ordered, nearest first, rebuilt every update
	requests []ChunkCoord // out-of-band loads, served before the ring queue

	pool      pond.Pool
	published chan *Chunk

	scene SceneSink

	lastObserver mgl32.Vec3
	haveObserver bool
}

// ManagerOption tweaks a ChunkManager at construction.
type ManagerOption func(*ChunkManager)

// WithLoadRadius sets how far (in chunks) terrain loads around the observer.
func WithLoadRadius(r int) ManagerOption {
	return func(m *ChunkManager) { m.loadRadius = r }
}

// WithDeleteRadius sets how far a chunk may drift before eviction. Values at
// or below the load radius are raised to load+2; without that slack a chunk
// on the boundary would load and evict on alternating updates.
func WithDeleteRadius(r int) ManagerOption {
	return func(m *ChunkManager) { m.deleteRadius = r }
}

// WithWorkers sets the generation pool size. Zero means no pool: loads run
// inline inside Update, which tests rely on for determinism.
func WithWorkers(n int) ManagerOption {
	return func(m *ChunkManager) { m.workers = n }
}

// WithSceneSink attaches a scene notification target.
func WithSceneSink(s SceneSink) ManagerOption {
	return func(m *ChunkManager) { m.scene = s }
}

// NewChunkManager creates a manager around a generator and voxel registry.
func NewChunkManager(gen *Generator, reg *voxel.Registry, opts ...ManagerOption) *ChunkManager {
	m := &ChunkManager{
		gen:          gen,
		reg:          reg,
		loadRadius:   8,
		deleteRadius: -1,
		workers:      runtime.NumCPU(),
		active:       make(map[ChunkCoord]*Chunk),
		byHandle:     make(map[Handle]*Chunk),
		states:       make(map[ChunkCoord]loadState),
		modified:     make(map[ChunkCoord]*Chunk),
		published:    make(chan *Chunk, 256),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.loadRadius < 1 {
		m.loadRadius = 1
	}
	if m.deleteRadius <= m.loadRadius {
		m.deleteRadius = m.loadRadius + 2
	}
	if m.workers > 0 {
		m.pool = pond.NewPool(m.workers)
	}
	return m
}

// Close drains the generation pool. Chunks already published but not yet
// integrated are dropped with the manager.
func (m *ChunkManager) Close() {
	if m.pool != nil {
		m.pool.StopAndWait()
	}
}

// Update advances chunk streaming one tick: integrate chunks the workers
// finished, evict what drifted too far, rebuild the load queue around the
// observer, then start at most one new load.
func (m *ChunkManager) Update(observer mgl32.Vec3) {
	defer profiling.Track("world.Update")()

	m.lastObserver = observer
	m.haveObserver = true

	m.integratePublished()

	center := ChunkCoordAt(int(math.Floor(float64(observer.X()))), int(math.Floor(float64(observer.Z()))))
	m.evictFar(center)
	m.rebuildQueue(center)
	m.startOneLoad(center)
}

func (m *ChunkManager) integratePublished() {
	for {
		select {
		case c := <-m.published:
			m.install(c)
		default:
			return
		}
	}
}

func (m *ChunkManager) install(c *Chunk) {
	coord := c.Coord
	if old, ok := m.active[coord]; ok && old != c {
		delete(m.byHandle, old.Handle())
		if m.scene != nil {
			m.scene.DetachChunkMesh(old.Handle())
		}
	}
	m.active[coord] = c
	m.byHandle[c.Handle()] = c
	m.states[coord] = stateActive
	if m.scene != nil {
		m.scene.AttachChunkMesh(c.Handle(), c.Mesh())
	}
}

func (m *ChunkManager) evictFar(center ChunkCoord) {
	r2 := m.deleteRadius * m.deleteRadius
	for coord, c := range m.active {
		dx := coord.X - center.X
		dz := coord.Z - center.Z
		if dx*dx+dz*dz <= r2 {
			continue
		}
		delete(m.active, coord)
		delete(m.byHandle, c.Handle())
		delete(m.states, coord)
		if m.scene != nil {
			m.scene.DetachChunkMesh(c.Handle())
		}
		if c.Modified() {
			if err := c.Pack(); err != nil {
				log.Printf("world: packing %v for the modified cache: %v", coord, err)
			}
			m.modified[coord] = c
		}
	}
}

// rebuildQueue walks concentric square rings outward from the center and
// collects every in-range coordinate that is neither active nor loading.
// The walk order makes the queue nearest-first for free.
func (m *ChunkManager) rebuildQueue(center ChunkCoord) {
	for coord, s := range m.states {
		if s == stateQueued {
			delete(m.states, coord)
		}
	}
	m.queue = m.queue[:0]

	for r := 0; r <= m.loadRadius; r++ {
		if r == 0 {
			m.enqueue(center, center)
			continue
		}
		x0 := center.X - r
		x1 := center.X + r
		z0 := center.Z - r
		z1 := center.Z + r
		for xk := x0; xk <= x1; xk++ {
			m.enqueue(ChunkCoord{X: xk, Z: z0}, center)
		}
		for zk := z0 + 1; zk <= z1-1; zk++ {
			m.enqueue(ChunkCoord{X: x1, Z: zk}, center)
		}
		for xk := x1; xk >= x0; xk-- {
			m.enqueue(ChunkCoord{X: xk, Z: z1}, center)
		}
		for zk := z1 - 1; zk >= z0+1; zk-- {
			m.enqueue(ChunkCoord{X: x0, Z: zk}, center)
		}
	}
}

func (m *ChunkManager) enqueue(coord, center ChunkCoord) {
	dx := coord.X - center.X
	dz := coord.Z - center.Z
	// The load area is the euclidean circle, not the square ring; keeping
	// the same metric as eviction prevents corner chunks from thrashing.
	if dx*dx+dz*dz > m.loadRadius*m.loadRadius {
		return
	}
	if _, busy := m.states[coord]; busy {
		return
	}
	m.states[coord] = stateQueued
	m.queue = append(m.queue, coord)
}

// startOneLoad starts at most one chunk load per update so generation cost
// never spikes a tick. Out-of-band requests win over the ring queue.
func (m *ChunkManager) startOneLoad(center ChunkCoord) {
	r2 := m.loadRadius * m.loadRadius

	for len(m.requests) > 0 {
		coord := m.requests[0]
		m.requests = m.requests[1:]
		dx := coord.X - center.X
		dz := coord.Z - center.Z
		if dx*dx+dz*dz > r2 {
			if m.states[coord] == stateQueued {
				delete(m.states, coord)
			}
			continue
		}
		if m.states[coord] == stateQueued {
			m.beginLoad(coord)
			return
		}
	}

	for _, coord := range m.queue {
		if m.states[coord] != stateQueued {
			continue
		}
		m.beginLoad(coord)
		return
	}
}

// beginLoad builds (or revives) the chunk at coord. With a pool the heavy
// work runs on a worker and the chunk arrives through the published channel
// on a later update; without one it completes inline.
func (m *ChunkManager) beginLoad(coord ChunkCoord) {
	m.states[coord] = stateLoading

	cached, revive := m.modified[coord]
	if revive {
		delete(m.modified, coord)
	}
	build := func() *Chunk {
		if revive {
			cached.RebuildMesh(m.reg)
			return cached
		}
		c := m.gen.GenerateChunk(coord.X, coord.Z)
		c.RebuildMesh(m.reg)
		return c
	}

	if m.pool == nil {
		m.install(build())
		return
	}
	m.pool.Submit(func() {
		m.published <- build()
	})
}

// ChunkAt returns the chunk at (cx, cz) if it is active or sitting in the
// modified cache. It never triggers a load.
func (m *ChunkManager) ChunkAt(cx, cz int) *Chunk {
	coord := ChunkCoord{X: cx, Z: cz}
	if c, ok := m.active[coord]; ok {
		return c
	}
	return m.modified[coord]
}

// ChunkByHandle resolves a handle to its active chunk, nil once the chunk
// is evicted.
func (m *ChunkManager) ChunkByHandle(h Handle) *Chunk {
	return m.byHandle[h]
}

// LoadedChunks returns the active set in map order.
func (m *ChunkManager) LoadedChunks() []*Chunk {
	out := make([]*Chunk, 0, len(m.active))
	for _, c := range m.active {
		out = append(out, c)
	}
	return out
}

// VoxelTypeAt reads one voxel by world coordinates. ok is false when the
// owning chunk is not active; callers that care about the difference between
// air and not-yet-known terrain (the pathfinder) must check it.
func (m *ChunkManager) VoxelTypeAt(x, y, z int) (voxel.Type, bool) {
	if y < 0 || y >= WorldHeight {
		return voxel.Air, true
	}
	c, ok := m.active[ChunkCoordAt(x, z)]
	if !ok {
		return voxel.Air, false
	}
	return c.VoxelAt(mod(x, ChunkSizeX), y, mod(z, ChunkSizeZ)), true
}

// Walkable reports whether an agent could stand at (x, y, z): solid footing
// below, air at feet and head. Columns that are not resident are never
// walkable; callers that want them loaded use RequestChunkLoad.
func (m *ChunkManager) Walkable(x, y, z int) bool {
	below, ok := m.VoxelTypeAt(x, y-1, z)
	if !ok || !m.reg.IsSolid(below) {
		return false
	}
	feet, ok := m.VoxelTypeAt(x, y, z)
	if !ok || feet != voxel.Air {
		return false
	}
	head, ok := m.VoxelTypeAt(x, y+1, z)
	return ok && head == voxel.Air
}

// RequestChunkLoad asks for (cx, cz) to be loaded soon. It reports whether
// the chunk is in range and active, queued or loading; repeated calls are
// cheap and never double-queue. Requests beyond the load radius of the last
// observer are refused, which keeps runaway callers from dragging terrain
// in behind the observer's back.
func (m *ChunkManager) RequestChunkLoad(cx, cz int) bool {
	if !m.haveObserver {
		return false
	}
	coord := ChunkCoord{X: cx, Z: cz}
	center := ChunkCoordAt(int(math.Floor(float64(m.lastObserver.X()))), int(math.Floor(float64(m.lastObserver.Z()))))
	dx := coord.X - center.X
	dz := coord.Z - center.Z
	if dx*dx+dz*dz > m.loadRadius*m.loadRadius {
		return false
	}
	if _, busy := m.states[coord]; busy {
		return true
	}
	m.states[coord] = stateQueued
	m.requests = append(m.requests, coord)
	return true
}

// EnsureLoaded synchronously loads and installs the chunk at (cx, cz),
// returning it. Boot paths use this to guarantee terrain under the first
// observer before the loop starts.
func (m *ChunkManager) EnsureLoaded(cx, cz int) *Chunk {
	coord := ChunkCoord{X: cx, Z: cz}
	if c, ok := m.active[coord]; ok {
		return c
	}
	var c *Chunk
	if cached, ok := m.modified[coord]; ok {
		delete(m.modified, coord)
		cached.RebuildMesh(m.reg)
		c = cached
	} else {
		c = m.gen.GenerateChunk(cx, cz)
		c.RebuildMesh(m.reg)
	}
	m.install(c)
	return c
}

// PlaceVoxel writes a voxel by world coordinates and rebuilds the owning
// chunk's mesh in place. Writes into unloaded chunks are dropped.
func (m *ChunkManager) PlaceVoxel(x, y, z int, t voxel.Type) {
	c, ok := m.active[ChunkCoordAt(x, z)]
	if !ok {
		return
	}
	c.UpdateVoxel(mod(x, ChunkSizeX), y, mod(z, ChunkSizeZ), t)
	c.RebuildMesh(m.reg)
}

// RemoveVoxel clears a voxel by world coordinates.
func (m *ChunkManager) RemoveVoxel(x, y, z int) {
	m.PlaceVoxel(x, y, z, voxel.Air)
}

// Stats reports active, queued and cached chunk counts for status logging.
func (m *ChunkManager) Stats() (active, queued, cached int) {
	return len(m.active), len(m.queue), len(m.modified)
}

// SeaLevel exposes the generator's sea level to systems that only hold the
// manager.
func (m *ChunkManager) SeaLevel() int { return m.gen.SeaLevel() }
