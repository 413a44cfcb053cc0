package world

import "voxworld/internal/voxel"

// leafVariants, indexed by the per-tree variant draw. A tree's whole canopy
// shares one variant.
var leafVariants = [4]voxel.Type{voxel.Leaves, voxel.LeavesAutumn, voxel.LeavesYoung, voxel.LeavesCherry}

// plantTrees walks every column and grows a tree where the surface is grass
// and the column's accept draw clears the biome-scaled frequency. Canopy
// cells that land outside the chunk are dropped by the local-write bounds
// check, so a border tree simply loses its overhang.
func (g *Generator) plantTrees(c *Chunk, cx, cz int, heights *[ChunkSizeX][ChunkSizeZ]int, biomes *[ChunkSizeX][ChunkSizeZ]Biome) {
	p := g.params
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			factor := biomes[lx][lz].treeFactor()
			if factor == 0 {
				continue
			}
			h := heights[lx][lz]
			if c.VoxelAt(lx, h, lz) != voxel.Grass {
				continue
			}
			wx := int64(cx*ChunkSizeX + lx)
			wz := int64(cz*ChunkSizeZ + lz)
			if hashUnit2(g.seed+saltTreeAccept, wx, wz) >= p.TreeFrequency*factor {
				continue
			}
			g.growTree(c, lx, h, lz, wx, wz)
		}
	}
}

// growTree raises a trunk of 4..7 voxels and stacks 2..4 canopy layers on
// top, the lowest at radius 2 and the rest at radius 1. Leaves only fill
// air, and each cell rolls against the leaf gate so canopies come out
// ragged instead of box-shaped.
func (g *Generator) growTree(c *Chunk, lx, surfaceY, lz int, wx, wz int64) {
	p := g.params

	trunkHeight := 4 + int(hashUnit2(g.seed+saltTrunk, wx, wz)*4)
	if trunkHeight > 7 {
		trunkHeight = 7
	}
	layers := 2 + int(hashUnit2(g.seed+saltCanopy, wx, wz)*3)
	if layers > 4 {
		layers = 4
	}
	variantDraw := int(hashUnit2(g.seed+saltVariant, wx, wz) * 4)
	variant := leafVariants[(trunkHeight+variantDraw)%len(leafVariants)]

	for i := 1; i <= trunkHeight; i++ {
		c.SetVoxel(lx, surfaceY+i, lz, voxel.Trunk)
	}

	canopyBase := surfaceY + trunkHeight
	for layer := 0; layer < layers; layer++ {
		radius := 1
		if layer == 0 {
			radius = 2
		}
		y := canopyBase + layer
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				gate := g.flora.Noise3(
					float64(wx+int64(dx))*0.91+0.5,
					float64(y)*0.91+0.5,
					float64(wz+int64(dz))*0.91+0.5,
				)
				if gate < p.TreeLeafGate {
					continue
				}
				if c.VoxelAt(lx+dx, y, lz+dz) != voxel.Air {
					continue
				}
				c.SetVoxel(lx+dx, y, lz+dz, variant)
			}
		}
	}
}
