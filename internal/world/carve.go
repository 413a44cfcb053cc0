package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"voxworld/internal/voxel"
)

// carveCaves runs up to CaveMaxPerChunk random walks through the chunk,
// stamping spheres of air along the way. Like tree canopies, a walk that
// wanders past the chunk border just stops affecting anything; the local
// write bounds drop it.
func (g *Generator) carveCaves(c *Chunk, cx, cz int, heights *[ChunkSizeX][ChunkSizeZ]int, biomes *[ChunkSizeX][ChunkSizeZ]Biome) {
	p := g.params
	if p.CaveMaxPerChunk <= 0 {
		return
	}
	factor := biomes[ChunkSizeX/2][ChunkSizeZ/2].caveFactor()
	draw := hashUnit2(g.seed+saltCaveCount, int64(cx), int64(cz))
	count := int(draw * (float64(p.CaveMaxPerChunk) + 1) * factor)
	if count > p.CaveMaxPerChunk {
		count = p.CaveMaxPerChunk
	}
	for i := 0; i < count; i++ {
		g.carveCave(c, cx, cz, i, heights)
	}
}

func (g *Generator) carveCave(c *Chunk, cx, cz, idx int, heights *[ChunkSizeX][ChunkSizeZ]int) {
	p := g.params
	icx, icz, iidx := int64(cx), int64(cz), int64(idx)

	// Start somewhere inside the chunk, between just above bedrock and a
	// little under the local surface.
	sx := hashUnit3(g.seed+saltCaveStart, icx, icz, iidx*3)
	sz := hashUnit3(g.seed+saltCaveStart, icx, icz, iidx*3+1)
	sy := hashUnit3(g.seed+saltCaveStart, icx, icz, iidx*3+2)
	lx := int(sx * ChunkSizeX)
	lz := int(sz * ChunkSizeZ)
	ceiling := float64(heights[lx][lz] - 6)
	if ceiling < 8 {
		ceiling = 8
	}
	startY := 4 + sy*(ceiling-4)

	span := p.CaveMaxLength - p.CaveMinLength
	if span < 0 {
		span = 0
	}
	length := p.CaveMinLength + int(hashUnit3(g.seed+saltCaveLen, icx, icz, iidx)*float64(span+1))
	if length < 1 {
		length = 1
	}

	pos := mgl64.Vec3{float64(lx), startY, float64(lz)}
	dir := safeDirection(mgl64.Vec3{
		hashUnit3(g.seed+saltCaveStart+1, icx, icz, iidx) - 0.5,
		(hashUnit3(g.seed+saltCaveStart+2, icx, icz, iidx) - 0.5) * 0.6,
		hashUnit3(g.seed+saltCaveStart+3, icx, icz, iidx) - 0.5,
	}, mgl64.Vec3{1, 0, 0})

	// Per-cave offset keeps walks from tracing the same flow field.
	off := float64(idx) * 37.0

	for step := 0; step < length; step++ {
		wx := float64(int64(cx)*ChunkSizeX) + pos.X()
		wz := float64(int64(cz)*ChunkSizeZ) + pos.Z()
		turn := mgl64.Vec3{
			g.cave.Noise3(wx*0.07+off, pos.Y()*0.07, wz*0.07) - 0.5,
			g.cave.Noise3(wx*0.07+off+100, pos.Y()*0.07, wz*0.07) - 0.5,
			g.cave.Noise3(wx*0.07+off+200, pos.Y()*0.07, wz*0.07) - 0.5,
		}
		dir = safeDirection(dir.Add(turn.Mul(0.7)), dir)
		pos = pos.Add(dir)

		radius := p.CaveBaseRadius + g.cave.Noise3(wx*0.11+off, pos.Y()*0.11, wz*0.11)*p.CaveRadiusVariance
		stampSphere(c, pos, radius)
	}
}

// stampSphere clears solid voxels within radius of center. Water and bedrock
// are left alone: caves never breach the sea or the world floor.
func stampSphere(c *Chunk, center mgl64.Vec3, radius float64) {
	if radius <= 0 {
		return
	}
	r := int(math.Ceil(radius))
	cx := int(math.Floor(center.X()))
	cy := int(math.Floor(center.Y()))
	cz := int(math.Floor(center.Z()))
	r2 := radius * radius

	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			for dz := -r; dz <= r; dz++ {
				fdx := float64(cx+dx) + 0.5 - center.X()
				fdy := float64(cy+dy) + 0.5 - center.Y()
				fdz := float64(cz+dz) + 0.5 - center.Z()
				if fdx*fdx+fdy*fdy+fdz*fdz > r2 {
					continue
				}
				switch c.VoxelAt(cx+dx, cy+dy, cz+dz) {
				case voxel.Air, voxel.Water, voxel.Bedrock:
					continue
				}
				c.SetVoxel(cx+dx, cy+dy, cz+dz, voxel.Air)
			}
		}
	}
}

// safeDirection normalizes v, falling back when it is too short to carry a
// direction.
func safeDirection(v, fallback mgl64.Vec3) mgl64.Vec3 {
	if v.Len() < 1e-9 {
		return fallback
	}
	return v.Normalize()
}
