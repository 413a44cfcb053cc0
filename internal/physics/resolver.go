package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxworld/internal/voxel"
)

// World is the voxel query surface the resolver reads. ok=false marks
// terrain that is not resident; the resolver treats it as solid so nothing
// walks off the edge of the loaded area.
type World interface {
	VoxelTypeAt(x, y, z int) (voxel.Type, bool)
}

// Box is an axis-aligned collision volume anchored at the feet: it spans
// [-HalfWidth, +HalfWidth] on X and Z and [0, Height] upward from the
// position.
type Box struct {
	HalfWidth float32
	Height    float32
}

// Contacts reports what the volume touches after resolution.
type Contacts struct {
	OnFloor    bool
	OnWater    bool
	Underwater bool
}

const (
	Gravity          = 32.0
	TerminalVelocity = -78.4

	// Water cuts gravity and caps sink speed instead of blocking.
	waterGravityScale = 0.3
	waterSinkVelocity = -4.0

	maxResolveIterations = 10
	resolveEpsilon       = 1e-4
	floorProbe           = 0.05
	eyeHeightFactor      = 0.9
)

// Resolve pushes a feet-anchored box out of any solid voxels it overlaps
// and returns the corrected position, velocity, and contact flags. Each
// iteration fixes one overlap along its axis of minimum penetration; the
// velocity component on a resolved axis is zeroed. The iteration cap keeps
// pathological states (a box buried in solid terrain) from spinning.
func Resolve(pos, vel mgl32.Vec3, box Box, w World, reg *voxel.Registry) (mgl32.Vec3, mgl32.Vec3, Contacts) {
	for i := 0; i < maxResolveIterations; i++ {
		if !resolveOnce(&pos, &vel, box, w, reg) {
			break
		}
	}
	return pos, vel, sampleContacts(pos, box, w, reg)
}

func resolveOnce(pos, vel *mgl32.Vec3, box Box, w World, reg *voxel.Registry) bool {
	minX := pos.X() - box.HalfWidth
	maxX := pos.X() + box.HalfWidth
	minY := pos.Y()
	maxY := pos.Y() + box.Height
	minZ := pos.Z() - box.HalfWidth
	maxZ := pos.Z() + box.HalfWidth

	x0 := int(math.Floor(float64(minX))) - 1
	x1 := int(math.Floor(float64(maxX))) + 1
	y0 := int(math.Floor(float64(minY))) - 1
	y1 := int(math.Floor(float64(maxY))) + 1
	z0 := int(math.Floor(float64(minZ))) - 1
	z1 := int(math.Floor(float64(maxZ))) + 1

	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				if !solidAt(w, reg, x, y, z) {
					continue
				}
				overX := min(maxX, float32(x)+1) - max(minX, float32(x))
				overY := min(maxY, float32(y)+1) - max(minY, float32(y))
				overZ := min(maxZ, float32(z)+1) - max(minZ, float32(z))
				if overX <= resolveEpsilon || overY <= resolveEpsilon || overZ <= resolveEpsilon {
					continue
				}

				switch {
				case overX <= overY && overX <= overZ:
					if pos.X() < float32(x)+0.5 {
						pos[0] -= overX
					} else {
						pos[0] += overX
					}
					vel[0] = 0
				case overY <= overZ:
					if pos.Y()+box.Height/2 < float32(y)+0.5 {
						pos[1] -= overY
					} else {
						pos[1] += overY
					}
					vel[1] = 0
				default:
					if pos.Z() < float32(z)+0.5 {
						pos[2] -= overZ
					} else {
						pos[2] += overZ
					}
					vel[2] = 0
				}
				return true
			}
		}
	}
	return false
}

func sampleContacts(pos mgl32.Vec3, box Box, w World, reg *voxel.Registry) Contacts {
	var c Contacts

	fy := int(math.Floor(float64(pos.Y() - floorProbe)))
	x0 := int(math.Floor(float64(pos.X() - box.HalfWidth)))
	x1 := int(math.Floor(float64(pos.X() + box.HalfWidth)))
	z0 := int(math.Floor(float64(pos.Z() - box.HalfWidth)))
	z1 := int(math.Floor(float64(pos.Z() + box.HalfWidth)))
floor:
	for x := x0; x <= x1; x++ {
		for z := z0; z <= z1; z++ {
			if solidAt(w, reg, x, fy, z) {
				c.OnFloor = true
				break floor
			}
		}
	}

	cx := int(math.Floor(float64(pos.X())))
	cz := int(math.Floor(float64(pos.Z())))
	feet := int(math.Floor(float64(pos.Y())))
	if typeAt(w, cx, feet, cz) == voxel.Water || typeAt(w, cx, feet+1, cz) == voxel.Water {
		c.OnWater = true
	}
	eye := int(math.Floor(float64(pos.Y() + box.Height*eyeHeightFactor)))
	if typeAt(w, cx, eye, cz) == voxel.Water {
		c.Underwater = true
	}
	return c
}

// ApplyGravity integrates gravity into vel over dt and clamps the fall
// speed. On water the pull and terminal speed drop to a slow sink.
func ApplyGravity(vel mgl32.Vec3, dt float32, onWater bool) mgl32.Vec3 {
	g := float32(Gravity)
	terminal := float32(TerminalVelocity)
	if onWater {
		g *= waterGravityScale
		terminal = waterSinkVelocity
	}
	vel[1] -= g * dt
	if vel[1] < terminal {
		vel[1] = terminal
	}
	return vel
}

func solidAt(w World, reg *voxel.Registry, x, y, z int) bool {
	v, ok := w.VoxelTypeAt(x, y, z)
	if !ok {
		return true
	}
	return reg.IsSolid(v)
}

func typeAt(w World, x, y, z int) voxel.Type {
	v, _ := w.VoxelTypeAt(x, y, z)
	return v
}
