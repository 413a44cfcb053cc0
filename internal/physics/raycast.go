package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxworld/internal/profiling"
	"voxworld/internal/voxel"
)

const (
	DefaultRayStep   = 0.02
	MaxReachDistance = 5.0
)

// RaycastResult stores the outcome of a ray march.
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	Distance         float32
	Hit              bool
}

// Raycast marches from origin along dir in fixed steps until it enters a
// solid voxel, returning that voxel plus the last empty one before it (the
// natural placement cell). Water is passed through, as is terrain that is
// not resident: picking must never report cubes nobody can see.
func Raycast(origin, dir mgl32.Vec3, step, maxDist float32, w World, reg *voxel.Registry) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	if step <= 0 {
		step = DefaultRayStep
	}
	steps := int(maxDist / step)

	last := [3]int{
		int(math.Floor(float64(origin.X()))),
		int(math.Floor(float64(origin.Y()))),
		int(math.Floor(float64(origin.Z()))),
	}
	for i := 0; i <= steps; i++ {
		dist := float32(i) * step
		p := origin.Add(dir.Mul(dist))
		idx := [3]int{
			int(math.Floor(float64(p.X()))),
			int(math.Floor(float64(p.Y()))),
			int(math.Floor(float64(p.Z()))),
		}
		v, ok := w.VoxelTypeAt(idx[0], idx[1], idx[2])
		if ok && reg.IsSolid(v) {
			return RaycastResult{
				HitPosition:      idx,
				AdjacentPosition: last,
				Distance:         dist,
				Hit:              true,
			}
		}
		last = idx
	}
	return RaycastResult{}
}
