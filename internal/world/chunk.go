package world

import (
	"log"
	"sync/atomic"

	"voxworld/internal/meshing"
	"voxworld/internal/voxel"
)

// Handle identifies a chunk to external systems (scene sinks, debuggers).
// Handles are issued once at chunk creation and never reused, so a stale
// handle can never resolve to a different chunk's data.
type Handle uint64

var handleCounter uint64

func newHandle() Handle {
	return Handle(atomic.AddUint64(&handleCounter, 1))
}

// Chunk is one ChunkSizeX x WorldHeight x ChunkSizeZ column of voxels plus
// its mesh. The voxel grid is dense and x-major; while the chunk sits in the
// modified cache the grid is held packed instead and unpacks on next access.
type Chunk struct {
	Coord ChunkCoord

	voxels []voxel.Type // nil while packed
	packed []byte

	handle   Handle
	mesh     *meshing.Mesh
	modified bool
}

// NewChunk allocates an all-air chunk at the given coordinate.
func NewChunk(coord ChunkCoord) *Chunk {
	return &Chunk{
		Coord:  coord,
		voxels: make([]voxel.Type, ChunkSizeX*WorldHeight*ChunkSizeZ),
		handle: newHandle(),
		mesh:   &meshing.Mesh{},
	}
}

func voxelIndex(x, y, z int) int {
	return (x*WorldHeight+y)*ChunkSizeZ + z
}

// VoxelAt returns the voxel at local coordinates. Out of bounds reads are
// air, which is exactly what the mesher wants at chunk borders.
func (c *Chunk) VoxelAt(x, y, z int) voxel.Type {
	if x < 0 || y < 0 || z < 0 || x >= ChunkSizeX || y >= WorldHeight || z >= ChunkSizeZ {
		return voxel.Air
	}
	c.ensureUnpacked()
	return c.voxels[voxelIndex(x, y, z)]
}

// Dims makes Chunk a meshing.Grid.
func (c *Chunk) Dims() (int, int, int) {
	return ChunkSizeX, WorldHeight, ChunkSizeZ
}

// SetVoxel writes a voxel during population. Out of bounds writes are
// dropped, so decorations spilling past the chunk edge are simply lost.
func (c *Chunk) SetVoxel(x, y, z int, t voxel.Type) {
	if x < 0 || y < 0 || z < 0 || x >= ChunkSizeX || y >= WorldHeight || z >= ChunkSizeZ {
		return
	}
	c.ensureUnpacked()
	c.voxels[voxelIndex(x, y, z)] = t
}

// UpdateVoxel is the runtime edit path: same write as SetVoxel but the chunk
// is flagged modified so eviction preserves it. Writing the value a cell
// already holds still counts as an edit.
func (c *Chunk) UpdateVoxel(x, y, z int, t voxel.Type) {
	if x < 0 || y < 0 || z < 0 || x >= ChunkSizeX || y >= WorldHeight || z >= ChunkSizeZ {
		return
	}
	c.ensureUnpacked()
	c.voxels[voxelIndex(x, y, z)] = t
	c.modified = true
}

// Modified reports whether the chunk diverged from its generated state.
func (c *Chunk) Modified() bool { return c.modified }

// Handle returns the chunk's stable identity.
func (c *Chunk) Handle() Handle { return c.handle }

// Mesh returns the chunk's mesh. The pointer stays the same across rebuilds;
// holders never need to re-fetch it after an edit.
func (c *Chunk) Mesh() *meshing.Mesh { return c.mesh }

// RebuildMesh regenerates both vertex groups from current voxel state and
// swaps them into the existing mesh.
func (c *Chunk) RebuildMesh(reg *voxel.Registry) {
	c.ensureUnpacked()
	opaque, water := meshing.BuildMesh(c, reg)
	c.mesh.Replace(opaque, water)
}

// TopNonAir returns the highest y holding a non-air voxel in the column, or
// -1 for an empty column.
func (c *Chunk) TopNonAir(x, z int) int {
	if x < 0 || z < 0 || x >= ChunkSizeX || z >= ChunkSizeZ {
		return -1
	}
	c.ensureUnpacked()
	for y := WorldHeight - 1; y >= 0; y-- {
		if c.voxels[voxelIndex(x, y, z)] != voxel.Air {
			return y
		}
	}
	return -1
}

// Pack compresses the voxel grid and drops both it and the mesh geometry.
// The chunk stays restorable: the next accessor call unpacks. Used when an
// edited chunk leaves the active set.
func (c *Chunk) Pack() error {
	if c.voxels == nil {
		return nil
	}
	packed, err := packGrid(c.voxels)
	if err != nil {
		return err
	}
	c.packed = packed
	c.voxels = nil
	c.mesh.Replace(nil, nil)
	return nil
}

// Packed reports whether the grid is currently held compressed.
func (c *Chunk) Packed() bool { return c.voxels == nil && c.packed != nil }

func (c *Chunk) ensureUnpacked() {
	if c.voxels != nil {
		return
	}
	grid, err := unpackGrid(c.packed)
	if err != nil {
		// Only reachable if the snapshot bytes were corrupted in memory;
		// surface it loudly and fall back to an empty column.
		log.Printf("chunk %v: unpack failed: %v", c.Coord, err)
		grid = make([]voxel.Type, ChunkSizeX*WorldHeight*ChunkSizeZ)
	}
	c.voxels = grid
	c.packed = nil
}
