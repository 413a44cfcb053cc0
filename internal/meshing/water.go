package meshing

import (
	"voxworld/internal/voxel"
)

// waterSurfaceInset drops the rendered water surface slightly below the top
// of the block so shorelines read as a step down.
const waterSurfaceInset = float32(0.1)

// buildWaterSurface emits upward-facing quads wherever water meets non-water
// above, greedy-merged per layer in the X-Z plane. Side and bottom faces of
// water are never built; the opaque pass already draws the terrain behind
// them and the translucent surface is all the renderer blends.
func buildWaterSurface(g Grid, reg *voxel.Registry) []float32 {
	var (
		sx, sy, sz = g.Dims()
		vertices   []float32
		col        = reg.Color(voxel.Water)
	)

	for y := 0; y < sy; y++ {
		mask := make([]bool, sx*sz)
		found := false
		for x := 0; x < sx; x++ {
			for z := 0; z < sz; z++ {
				if g.VoxelAt(x, y, z) != voxel.Water {
					continue
				}
				if g.VoxelAt(x, y+1, z) == voxel.Water {
					continue
				}
				mask[x*sz+z] = true
				found = true
			}
		}
		if !found {
			continue
		}

		fy := float32(y+1) - waterSurfaceInset
		i := 0
		for i < sx*sz {
			if !mask[i] {
				i++
				continue
			}
			x0 := i / sz
			z0 := i % sz
			wWidth := 1
			for z1 := z0 + 1; z1 < sz && mask[x0*sz+z1]; z1++ {
				wWidth++
			}
			hHeight := 1
		outerWater:
			for x1 := x0 + 1; x1 < sx; x1++ {
				for z1 := z0; z1 < z0+wWidth; z1++ {
					if !mask[x1*sz+z1] {
						break outerWater
					}
				}
				hHeight++
			}
			vertices = appendWaterQuad(vertices,
				float32(x0), float32(z0),
				float32(x0+hHeight), float32(z0+wWidth),
				fy, col[0], col[1], col[2])
			for xx := x0; xx < x0+hHeight; xx++ {
				for zz := z0; zz < z0+wWidth; zz++ {
					mask[xx*sz+zz] = false
				}
			}
		}
	}
	return vertices
}

// appendWaterQuad pushes one upward-facing quad as two triangles, the same
// winding the opaque pass uses for +Y faces. UVs are the X-Z position in
// block units.
func appendWaterQuad(vertices []float32, fx0, fz0, fx1, fz1, fy, r, g, b float32) []float32 {
	corners := [4][2]float32{
		{fx0, fz0},
		{fx1, fz0},
		{fx1, fz1},
		{fx0, fz1},
	}
	for _, ci := range [6]int{0, 1, 2, 2, 3, 0} {
		x, z := corners[ci][0], corners[ci][1]
		vertices = append(vertices, x, fy, z, 0, 1, 0, r, g, b, x, z)
	}
	return vertices
}
