package meshing

import (
	"voxworld/internal/voxel"
)

// VertexStride is number of float32 per vertex (pos.xyz + normal.xyz + color.rgb + uv)
const VertexStride = 11

// Grid is the voxel volume a mesh is built from. VoxelAt must return
// voxel.Air outside the dims, so volume borders mesh as if fully exposed.
// Neighboring chunks are deliberately not consulted: the overdraw at seams
// is paid for simpler, order-independent chunk rebuilds.
type Grid interface {
	VoxelAt(x, y, z int) voxel.Type
	Dims() (sx, sy, sz int)
}

// BuildMesh builds the triangle lists for a chunk-sized grid: an opaque list
// from greedy-merged block faces and a separate translucent list for water
// surfaces. Coordinates are local to the grid; a voxel at (x,y,z) occupies
// the unit cube from (x,y,z) to (x+1,y+1,z+1).
func BuildMesh(g Grid, reg *voxel.Registry) (opaque, water []float32) {
	opaque = make([]float32, 0, 1024)

	// +X faces (east)
	opaque = append(opaque, buildGreedyForDirection(g, reg, +1, 0, 0)...)
	// -X faces (west)
	opaque = append(opaque, buildGreedyForDirection(g, reg, -1, 0, 0)...)
	// +Y faces (top)
	opaque = append(opaque, buildGreedyForDirection(g, reg, 0, +1, 0)...)
	// -Y faces (bottom)
	opaque = append(opaque, buildGreedyForDirection(g, reg, 0, -1, 0)...)
	// +Z faces (north)
	opaque = append(opaque, buildGreedyForDirection(g, reg, 0, 0, +1)...)
	// -Z faces (south)
	opaque = append(opaque, buildGreedyForDirection(g, reg, 0, 0, -1)...)

	water = buildWaterSurface(g, reg)
	return opaque, water
}

// buildGreedyForDirection performs 2D greedy meshing for one face direction.
// The direction is a normal (nx,ny,nz) with exactly one component -1 or +1.
// Each layer perpendicular to the normal gets a mask of voxel types where a
// solid voxel meets a non-solid one; runs of the same type merge into the
// widest, then tallest rectangle, two triangles per rectangle. Water is not
// solid here, so solids facing water still emit and water itself never does.
func buildGreedyForDirection(g Grid, reg *voxel.Registry, nx, ny, nz int) []float32 {
	var (
		sx, sy, sz = g.Dims()
		vertices   []float32
	)

	// Helper lambda to push a quad made of two triangles with given 4 corners,
	// normal and color. UVs derive from the corner position along the two
	// in-plane axes, in block units, so the surface tile repeats per block no
	// matter how large the merged rectangle is.
	emitQuad := func(x0, y0, z0, x1, y1, z1, x2, y2, z2, x3, y3, z3 float32, fnx, fny, fnz, r, gc, b float32) {
		push := func(x, y, z float32) {
			var u, v float32
			switch {
			case fnx != 0:
				u, v = z, y
			case fny != 0:
				u, v = x, z
			default:
				u, v = x, y
			}
			vertices = append(vertices, x, y, z, fnx, fny, fnz, r, gc, b, u, v)
		}
		// Triangle 1: v0,v1,v2
		push(x0, y0, z0)
		push(x1, y1, z1)
		push(x2, y2, z2)
		// Triangle 2: v2,v3,v0
		push(x2, y2, z2)
		push(x3, y3, z3)
		push(x0, y0, z0)
	}

	if nx != 0 { // Faces perpendicular to X axis, plane is Y-Z
		for x := 0; x < sx; x++ {
			mask := make([]voxel.Type, sy*sz)
			for y := 0; y < sy; y++ {
				for z := 0; z < sz; z++ {
					t := g.VoxelAt(x, y, z)
					if !reg.IsSolid(t) {
						continue
					}
					if !reg.IsSolid(g.VoxelAt(x+nx, y, z)) {
						mask[y*sz+z] = t
					}
				}
			}
			// Greedy merge over mask (u=y, v=z); only equal types merge
			i := 0
			for i < sy*sz {
				t := mask[i]
				if t == voxel.Air {
					i++
					continue
				}
				z0 := i % sz
				y0 := i / sz
				wWidth := 1
				for z1 := z0 + 1; z1 < sz && mask[y0*sz+z1] == t; z1++ {
					wWidth++
				}
				hHeight := 1
			outerYZ:
				for y1 := y0 + 1; y1 < sy; y1++ {
					for z1 := z0; z1 < z0+wWidth; z1++ {
						if mask[y1*sz+z1] != t {
							break outerYZ
						}
					}
					hHeight++
				}
				// emit quad at plane x or x+1 depending on nx sign
				fx := float32(x)
				if nx > 0 {
					fx = float32(x + 1)
				}
				fy0 := float32(y0)
				fz0 := float32(z0)
				fy1 := float32(y0 + hHeight)
				fz1 := float32(z0 + wWidth)
				col := reg.Color(t)
				// Order vertices so front-face is CCW with normal pointing outward
				if nx > 0 { // +X
					emitQuad(
						fx, fy0, fz0,
						fx, fy0, fz1,
						fx, fy1, fz1,
						fx, fy1, fz0,
						float32(nx), 0, 0, col[0], col[1], col[2],
					)
				} else { // -X
					emitQuad(
						fx, fy0, fz0,
						fx, fy1, fz0,
						fx, fy1, fz1,
						fx, fy0, fz1,
						float32(nx), 0, 0, col[0], col[1], col[2],
					)
				}
				for yy := y0; yy < y0+hHeight; yy++ {
					for zz := z0; zz < z0+wWidth; zz++ {
						mask[yy*sz+zz] = voxel.Air
					}
				}
			}
		}
		return vertices
	}

	if ny != 0 { // Faces perpendicular to Y axis, plane is X-Z
		for y := 0; y < sy; y++ {
			mask := make([]voxel.Type, sx*sz)
			for x := 0; x < sx; x++ {
				for z := 0; z < sz; z++ {
					t := g.VoxelAt(x, y, z)
					if !reg.IsSolid(t) {
						continue
					}
					if !reg.IsSolid(g.VoxelAt(x, y+ny, z)) {
						mask[x*sz+z] = t
					}
				}
			}
			// Greedy (u=x, v=z)
			i := 0
			for i < sx*sz {
				t := mask[i]
				if t == voxel.Air {
					i++
					continue
				}
				x0 := i / sz
				z0 := i % sz
				wWidth := 1
				for z1 := z0 + 1; z1 < sz && mask[x0*sz+z1] == t; z1++ {
					wWidth++
				}
				hHeight := 1
			outerXZ:
				for x1 := x0 + 1; x1 < sx; x1++ {
					for z1 := z0; z1 < z0+wWidth; z1++ {
						if mask[x1*sz+z1] != t {
							break outerXZ
						}
					}
					hHeight++
				}
				fy := float32(y)
				if ny > 0 {
					fy = float32(y + 1)
				}
				fx0 := float32(x0)
				fz0 := float32(z0)
				fx1 := float32(x0 + hHeight)
				fz1 := float32(z0 + wWidth)
				fny := float32(ny)
				// The world floor has no underside viewpoint: the y=0 layer of
				// the downward pass flips to an upward-facing quad instead.
				flipUp := ny < 0 && y == 0
				if flipUp {
					fny = 1
				}
				col := reg.Color(t)
				if ny > 0 || flipUp { // +Y (top)
					emitQuad(
						fx0, fy, fz0,
						fx1, fy, fz0,
						fx1, fy, fz1,
						fx0, fy, fz1,
						0, fny, 0, col[0], col[1], col[2],
					)
				} else { // -Y (bottom)
					emitQuad(
						fx0, fy, fz0,
						fx0, fy, fz1,
						fx1, fy, fz1,
						fx1, fy, fz0,
						0, fny, 0, col[0], col[1], col[2],
					)
				}
				for xx := x0; xx < x0+hHeight; xx++ {
					for zz := z0; zz < z0+wWidth; zz++ {
						mask[xx*sz+zz] = voxel.Air
					}
				}
			}
		}
		return vertices
	}

	// nz != 0 // Faces perpendicular to Z axis, plane is X-Y
	for z := 0; z < sz; z++ {
		mask := make([]voxel.Type, sx*sy)
		for x := 0; x < sx; x++ {
			for y := 0; y < sy; y++ {
				t := g.VoxelAt(x, y, z)
				if !reg.IsSolid(t) {
					continue
				}
				if !reg.IsSolid(g.VoxelAt(x, y, z+nz)) {
					mask[x*sy+y] = t
				}
			}
		}
		// Greedy (u=x, v=y)
		i := 0
		for i < sx*sy {
			t := mask[i]
			if t == voxel.Air {
				i++
				continue
			}
			x0 := i / sy
			y0 := i % sy
			wWidth := 1
			for y1 := y0 + 1; y1 < sy && mask[x0*sy+y1] == t; y1++ {
				wWidth++
			}
			hHeight := 1
		outerXY:
			for x1 := x0 + 1; x1 < sx; x1++ {
				for y1 := y0; y1 < y0+wWidth; y1++ {
					if mask[x1*sy+y1] != t {
						break outerXY
					}
				}
				hHeight++
			}
			fz := float32(z)
			if nz > 0 {
				fz = float32(z + 1)
			}
			fx0 := float32(x0)
			fy0 := float32(y0)
			fx1 := float32(x0 + hHeight)
			fy1 := float32(y0 + wWidth)
			col := reg.Color(t)
			if nz > 0 { // +Z (north)
				emitQuad(
					fx0, fy0, fz,
					fx0, fy1, fz,
					fx1, fy1, fz,
					fx1, fy0, fz,
					0, 0, float32(nz), col[0], col[1], col[2],
				)
			} else { // -Z (south)
				emitQuad(
					fx0, fy0, fz,
					fx1, fy0, fz,
					fx1, fy1, fz,
					fx0, fy1, fz,
					0, 0, float32(nz), col[0], col[1], col[2],
				)
			}
			for xx := x0; xx < x0+hHeight; xx++ {
				for yy := y0; yy < y0+wWidth; yy++ {
					mask[xx*sy+yy] = voxel.Air
				}
			}
		}
	}
	return vertices
}
