package world

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxworld/internal/voxel"
)

// flatParams produces a featureless plateau at y=70: no mountains, oceans,
// detail relief, trees or caves. Spawn assertions stay deterministic on it.
func flatParams() Params {
	p := DefaultParams()
	p.BaseHeight = 70
	p.BaseAmplitude = 0
	p.DetailAmplitude = 0
	p.MountainThreshold = 2
	p.OceanThreshold = 2
	p.PersistenceJitter = 0
	p.TreeFrequency = 0
	p.CaveMaxPerChunk = 0
	return p
}

func flatManager(radius int) *ChunkManager {
	gen := NewGenerator(7, flatParams())
	m := NewChunkManager(gen, voxel.NewRegistry(), WithLoadRadius(radius), WithWorkers(0))
	for cx := -2; cx <= 2; cx++ {
		for cz := -2; cz <= 2; cz++ {
			m.EnsureLoaded(cx, cz)
		}
	}
	return m
}

// TestClosestFreeSpaceAcceptsClearPad verifies a grass column with clear feet,
// neighbors and head is accepted in place.
func TestClosestFreeSpaceAcceptsClearPad(t *testing.T) {
	m := flatManager(4)
	m.PlaceVoxel(8, 70, 8, voxel.Grass)

	probe := mgl32.Vec3{8.5, 71, 8.5}
	if got := m.ClosestFreeSpace(probe); got != probe {
		t.Fatalf("clear pad rejected: got %v, want %v", got, probe)
	}
}

// TestClosestFreeSpaceSkipsBlockedNeighbor verifies a single obstructed cell
// in the surrounding ring disqualifies the column and the search moves on to
// the next grass pad.
func TestClosestFreeSpaceSkipsBlockedNeighbor(t *testing.T) {
	m := flatManager(4)
	m.PlaceVoxel(8, 70, 8, voxel.Grass)
	m.PlaceVoxel(12, 70, 12, voxel.Grass)
	m.PlaceVoxel(9, 71, 9, voxel.Stone)

	probe := mgl32.Vec3{8.5, 71, 8.5}
	got := m.ClosestFreeSpace(probe)
	if got == probe {
		t.Fatalf("column accepted despite a blocked neighbor")
	}
	if got.Y() != 71 {
		t.Fatalf("spawn at y=%v, want 71 on a flat world", got.Y())
	}
	gx := int(math.Floor(float64(got.X())))
	gz := int(math.Floor(float64(got.Z())))
	if ground, ok := m.VoxelTypeAt(gx, 70, gz); !ok || ground != voxel.Grass {
		t.Fatalf("spawn above %v, want grass", ground)
	}
}

// TestClosestFreeSpaceFallsBack verifies the input position comes back when
// no column qualifies.
func TestClosestFreeSpaceFallsBack(t *testing.T) {
	gen := NewGenerator(7, flatParams())
	m := NewChunkManager(gen, voxel.NewRegistry(), WithLoadRadius(4), WithWorkers(0))

	probe := mgl32.Vec3{8.5, 71, 8.5}
	if got := m.ClosestFreeSpace(probe); got != probe {
		t.Fatalf("fallback broken: got %v, want %v", got, probe)
	}
}

// TestClosestFreeSpaceRejectsOcean verifies submerged columns never qualify:
// the surface voxel is water, not grass.
func TestClosestFreeSpaceRejectsOcean(t *testing.T) {
	p := flatParams()
	p.BaseHeight = 40
	gen := NewGenerator(7, p)
	m := NewChunkManager(gen, voxel.NewRegistry(), WithLoadRadius(4), WithWorkers(0))
	for cx := -1; cx <= 1; cx++ {
		for cz := -1; cz <= 1; cz++ {
			m.EnsureLoaded(cx, cz)
		}
	}

	probe := mgl32.Vec3{8.5, 65, 8.5}
	if got := m.ClosestFreeSpace(probe); got != probe {
		t.Fatalf("spawned in the ocean at %v", got)
	}
}
