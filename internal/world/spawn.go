package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxworld/internal/voxel"
)

// spawnSearchRadius bounds the ring search in columns. Past this the input
// position is returned unchanged.
const spawnSearchRadius = 32

// ClosestFreeSpace finds a safe standing position near pos: a grass-topped
// column at or above sea level whose feet cell, its eight horizontal
// neighbors and the head cell are all air. Columns are visited in expanding
// rings so the nearest acceptable one wins. Only active chunks are
// consulted; if nothing qualifies, pos comes back untouched.
func (m *ChunkManager) ClosestFreeSpace(pos mgl32.Vec3) mgl32.Vec3 {
	cx := int(math.Floor(float64(pos.X())))
	cz := int(math.Floor(float64(pos.Z())))

	for r := 0; r <= spawnSearchRadius; r++ {
		if r == 0 {
			if out, ok := m.standableAt(cx, cz); ok {
				return out
			}
			continue
		}
		x0 := cx - r
		x1 := cx + r
		z0 := cz - r
		z1 := cz + r
		for xk := x0; xk <= x1; xk++ {
			if out, ok := m.standableAt(xk, z0); ok {
				return out
			}
		}
		for zk := z0 + 1; zk <= z1-1; zk++ {
			if out, ok := m.standableAt(x1, zk); ok {
				return out
			}
		}
		for xk := x1; xk >= x0; xk-- {
			if out, ok := m.standableAt(xk, z1); ok {
				return out
			}
		}
		for zk := z1 - 1; zk >= z0+1; zk-- {
			if out, ok := m.standableAt(x0, zk); ok {
				return out
			}
		}
	}
	return pos
}

// standableAt checks the column (x, z) and returns the feet position when it
// qualifies.
func (m *ChunkManager) standableAt(x, z int) (mgl32.Vec3, bool) {
	c, ok := m.active[ChunkCoordAt(x, z)]
	if !ok {
		return mgl32.Vec3{}, false
	}
	surface := c.TopNonAir(mod(x, ChunkSizeX), mod(z, ChunkSizeZ))
	feet := surface + 1
	if feet < m.gen.SeaLevel() || feet+1 >= WorldHeight {
		return mgl32.Vec3{}, false
	}
	if ground, _ := m.VoxelTypeAt(x, surface, z); ground != voxel.Grass {
		return mgl32.Vec3{}, false
	}
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			v, known := m.VoxelTypeAt(x+dx, feet, z+dz)
			if !known || v != voxel.Air {
				return mgl32.Vec3{}, false
			}
		}
	}
	if head, _ := m.VoxelTypeAt(x, feet+1, z); head != voxel.Air {
		return mgl32.Vec3{}, false
	}
	return mgl32.Vec3{float32(x) + 0.5, float32(feet), float32(z) + 0.5}, true
}
