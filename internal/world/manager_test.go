package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxworld/internal/meshing"
	"voxworld/internal/voxel"
)

// Inline managers (zero workers) load exactly one chunk per Update, which
// makes streaming behavior fully deterministic under test.
func testManager(radius int, opts ...ManagerOption) *ChunkManager {
	gen := NewGenerator(1, DefaultParams())
	base := []ManagerOption{WithLoadRadius(radius), WithWorkers(0)}
	return NewChunkManager(gen, voxel.NewRegistry(), append(base, opts...)...)
}

func hasActive(m *ChunkManager, cx, cz int) bool {
	for _, c := range m.LoadedChunks() {
		if c.Coord.X == cx && c.Coord.Z == cz {
			return true
		}
	}
	return false
}

// chunkObserver positions the observer at the middle of chunk (cx, cz).
func chunkObserver(cx, cz int) mgl32.Vec3 {
	return mgl32.Vec3{float32(cx*ChunkSizeX) + 8, 90, float32(cz*ChunkSizeZ) + 8}
}

// TestUpdateLoadsOneChunkPerCall verifies the one-load-per-update budget and
// that the full load circle eventually fills. Radius 2 covers 13 coords.
func TestUpdateLoadsOneChunkPerCall(t *testing.T) {
	m := testManager(2)
	obs := chunkObserver(0, 0)

	for i := 1; i <= 13; i++ {
		m.Update(obs)
		if got := len(m.LoadedChunks()); got != i {
			t.Fatalf("after %d updates: %d active chunks, want %d", i, got, i)
		}
	}
	m.Update(obs)
	if got := len(m.LoadedChunks()); got != 13 {
		t.Fatalf("load circle overfilled: %d active chunks, want 13", got)
	}
}

// TestUpdateLoadsNearestFirst verifies ring ordering: the observer's own
// chunk loads first, then the four edge-adjacent ones.
func TestUpdateLoadsNearestFirst(t *testing.T) {
	m := testManager(2)
	obs := chunkObserver(0, 0)

	m.Update(obs)
	if !hasActive(m, 0, 0) {
		t.Fatalf("first update did not load the observer's chunk")
	}
	for i := 0; i < 4; i++ {
		m.Update(obs)
	}
	for _, c := range m.LoadedChunks() {
		d2 := c.Coord.X*c.Coord.X + c.Coord.Z*c.Coord.Z
		if d2 > 1 {
			t.Fatalf("chunk %v loaded before the inner ring finished", c.Coord)
		}
	}
}

// TestEvictionHysteresis verifies chunks between the load and delete radii
// stay active instead of thrashing.
func TestEvictionHysteresis(t *testing.T) {
	m := testManager(2) // delete radius defaults to 4
	obs := chunkObserver(0, 0)
	for i := 0; i < 13; i++ {
		m.Update(obs)
	}

	m.Update(chunkObserver(3, 0))
	if !hasActive(m, 0, 0) {
		t.Fatalf("chunk at distance 3 evicted despite delete radius 4")
	}
	if hasActive(m, -2, 0) {
		t.Fatalf("chunk at distance 5 survived beyond the delete radius")
	}
}

// TestEvictionKeepsEditsAndRegeneratesPristine verifies the modified cache
// round trip: edited chunks come back byte-identical with the same handle,
// pristine chunks are discarded and regenerate deterministically under a
// fresh handle.
func TestEvictionKeepsEditsAndRegeneratesPristine(t *testing.T) {
	m := testManager(1) // 5 coords in the circle, delete radius 3
	home := chunkObserver(0, 0)
	for i := 0; i < 5; i++ {
		m.Update(home)
	}

	m.PlaceVoxel(1, 200, 1, voxel.Stone)
	edited := m.ChunkAt(0, 0)
	editedHandle := edited.Handle()
	pristine := m.ChunkAt(1, 0)
	pristineHandle := pristine.Handle()
	pristineHash := hashChunkVoxels(pristine)

	m.Update(chunkObserver(8, 0))
	if hasActive(m, 0, 0) || hasActive(m, 1, 0) {
		t.Fatalf("chunks at distance 8 not evicted")
	}
	if m.ChunkAt(0, 0) == nil {
		t.Fatalf("edited chunk missing from the modified cache")
	}
	if m.ChunkAt(1, 0) != nil {
		t.Fatalf("pristine chunk kept after eviction")
	}
	if _, ok := m.VoxelTypeAt(1, 200, 1); ok {
		t.Fatalf("VoxelTypeAt reported ok for an evicted chunk")
	}

	for i := 0; i < 8; i++ {
		m.Update(home)
	}
	if v, ok := m.VoxelTypeAt(1, 200, 1); !ok || v != voxel.Stone {
		t.Fatalf("edit lost across eviction: got %v ok=%v", v, ok)
	}
	if got := m.ChunkAt(0, 0).Handle(); got != editedHandle {
		t.Fatalf("revived chunk changed handle: got %d, want %d", got, editedHandle)
	}
	reborn := m.ChunkAt(1, 0)
	if reborn.Handle() == pristineHandle {
		t.Fatalf("regenerated chunk reused the old handle")
	}
	if hashChunkVoxels(reborn) != pristineHash {
		t.Fatalf("pristine chunk did not regenerate identically")
	}
}

// TestVoxelTypeAtUnloaded verifies the known/unknown split: unloaded columns
// report ok=false, out-of-range heights are known air.
func TestVoxelTypeAtUnloaded(t *testing.T) {
	m := testManager(2)

	if v, ok := m.VoxelTypeAt(0, 64, 0); ok {
		t.Fatalf("unloaded chunk reported known voxel %v", v)
	}
	if v, ok := m.VoxelTypeAt(0, -1, 0); !ok || v != voxel.Air {
		t.Fatalf("below-world read: got %v ok=%v, want air true", v, ok)
	}
	if v, ok := m.VoxelTypeAt(0, WorldHeight, 0); !ok || v != voxel.Air {
		t.Fatalf("above-world read: got %v ok=%v, want air true", v, ok)
	}
}

// TestWalkable verifies the standing rule: solid footing, clear feet and
// head, and nothing walkable in terrain that is not resident.
func TestWalkable(t *testing.T) {
	m := flatManager(4) // plateau surface at y=70

	if !m.Walkable(8, 71, 8) {
		t.Fatalf("clear column on the plateau not walkable")
	}
	if m.Walkable(8, 70, 8) {
		t.Fatalf("walkable with feet inside the surface voxel")
	}
	if m.Walkable(8, 90, 8) {
		t.Fatalf("walkable in mid-air")
	}
	m.PlaceVoxel(8, 72, 8, voxel.Stone)
	if m.Walkable(8, 71, 8) {
		t.Fatalf("walkable with no head room")
	}
	if m.Walkable(500, 71, 500) {
		t.Fatalf("unloaded column reported walkable")
	}
}

// TestRequestChunkLoad verifies out-of-band requests: gated on the load
// radius, idempotent, and served before the ring queue.
func TestRequestChunkLoad(t *testing.T) {
	m := testManager(2)

	if m.RequestChunkLoad(0, 0) {
		t.Fatalf("request accepted before any observer was seen")
	}

	obs := chunkObserver(0, 0)
	m.Update(obs)
	if m.RequestChunkLoad(5, 5) {
		t.Fatalf("request beyond the load radius accepted")
	}
	for i := 0; i < 3; i++ {
		if !m.RequestChunkLoad(0, 2) {
			t.Fatalf("in-range request %d refused", i)
		}
	}

	m.Update(obs)
	if !hasActive(m, 0, 2) {
		t.Fatalf("requested chunk not served before the ring queue")
	}
	m.Update(obs)
	if got := len(m.LoadedChunks()); got != 3 {
		t.Fatalf("duplicate requests loaded extra chunks: %d active, want 3", got)
	}
	if !m.RequestChunkLoad(0, 2) {
		t.Fatalf("request for an already-active chunk refused")
	}
}

// TestEnsureLoaded verifies the synchronous path installs immediately and is
// idempotent.
func TestEnsureLoaded(t *testing.T) {
	m := testManager(2)

	c := m.EnsureLoaded(3, 4)
	if c == nil {
		t.Fatalf("EnsureLoaded returned nil")
	}
	if m.ChunkAt(3, 4) != c {
		t.Fatalf("EnsureLoaded did not install the chunk")
	}
	if m.EnsureLoaded(3, 4) != c {
		t.Fatalf("repeat EnsureLoaded replaced the chunk")
	}
	if m.ChunkByHandle(c.Handle()) != c {
		t.Fatalf("handle lookup missed an installed chunk")
	}
}

type sceneRecorder struct {
	attached map[Handle]*meshing.Mesh
	detached []Handle
}

func newSceneRecorder() *sceneRecorder {
	return &sceneRecorder{attached: make(map[Handle]*meshing.Mesh)}
}

func (s *sceneRecorder) AttachChunkMesh(h Handle, mesh *meshing.Mesh) { s.attached[h] = mesh }

func (s *sceneRecorder) DetachChunkMesh(h Handle) { s.detached = append(s.detached, h) }

// TestSceneSinkAttachDetach verifies every activation attaches a mesh and
// every eviction detaches the same handle.
func TestSceneSinkAttachDetach(t *testing.T) {
	rec := newSceneRecorder()
	m := testManager(1, WithSceneSink(rec))
	home := chunkObserver(0, 0)
	for i := 0; i < 5; i++ {
		m.Update(home)
	}

	if len(rec.attached) != 5 || len(rec.detached) != 0 {
		t.Fatalf("after loading: %d attached %d detached, want 5 and 0", len(rec.attached), len(rec.detached))
	}
	for h, mesh := range rec.attached {
		if mesh == nil || mesh.OpaqueVertexCount() == 0 {
			t.Fatalf("handle %d attached with an empty mesh", h)
		}
	}

	m.Update(chunkObserver(9, 0))
	if len(rec.detached) != 5 {
		t.Fatalf("eviction detached %d handles, want 5", len(rec.detached))
	}
	for _, h := range rec.detached {
		if _, ok := rec.attached[h]; !ok {
			t.Fatalf("detached handle %d was never attached", h)
		}
	}
}
