package world

import (
	"math"

	"voxworld/internal/voxel"
)

// Derived-stream salts keep hash draws for unrelated decisions independent.
const (
	saltPersistence int64 = 0xA1
	saltThickness   int64 = 0xB7
	saltTreeAccept  int64 = 0xC3
	saltTrunk       int64 = 0xD9
	saltCanopy      int64 = 0xE5
	saltVariant     int64 = 0xF1
	saltCaveCount   int64 = 0x107
	saltCaveStart   int64 = 0x113
	saltCaveLen     int64 = 0x11F
)

// Generator produces chunk terrain. It is a pure function of (seed, params,
// chunk coordinate): the same triple yields a bit-identical chunk no matter
// when, where or in which order chunks are built.
type Generator struct {
	seed   int64
	params Params

	base     *NoiseSource
	mountain *NoiseSource
	ocean    *NoiseSource
	detail   *NoiseSource
	temp     *NoiseSource
	rain     *NoiseSource
	flora    *NoiseSource
	cave     *NoiseSource
}

// NewGenerator creates a generator for the given seed and tuning.
func NewGenerator(seed int64, params Params) *Generator {
	return &Generator{
		seed:     seed,
		params:   params,
		base:     NewNoiseSource(seed),
		mountain: NewNoiseSource(seed + 131),
		ocean:    NewNoiseSource(seed + 2*131),
		detail:   NewNoiseSource(seed + 3*131),
		temp:     NewNoiseSource(seed + 4*131),
		rain:     NewNoiseSource(seed + 5*131),
		flora:    NewNoiseSource(seed + 6*131),
		cave:     NewNoiseSource(seed + 7*131),
	}
}

// Seed returns the generator's world seed.
func (g *Generator) Seed() int64 { return g.seed }

// Params returns the active tuning.
func (g *Generator) Params() Params { return g.params }

// SeaLevel returns the y at and below which empty terrain is water.
func (g *Generator) SeaLevel() int { return g.params.SeaLevel }

// GenerateChunk builds the chunk at (cx, cz): heightfield and biomes, stone
// body, water fill, surface layers, trees, then caves.
func (g *Generator) GenerateChunk(cx, cz int) *Chunk {
	c := NewChunk(ChunkCoord{X: cx, Z: cz})

	persistence := g.chunkPersistence(cx, cz)

	var heights [ChunkSizeX][ChunkSizeZ]int
	var biomes [ChunkSizeX][ChunkSizeZ]Biome
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			wx := cx*ChunkSizeX + lx
			wz := cz*ChunkSizeZ + lz
			h, temp, rain := g.columnSample(wx, wz, persistence)
			heights[lx][lz] = h
			biomes[lx][lz] = classifyBiome(h, g.params.SeaLevel, g.params.SnowHeight, temp, rain)
		}
	}

	g.shapeTerrain(c, &heights)
	g.fillWater(c, &heights)
	g.dressSurface(c, cx, cz, &heights, &biomes)
	g.plantTrees(c, cx, cz, &heights, &biomes)
	g.carveCaves(c, cx, cz, &heights, &biomes)

	return c
}

// HeightAt computes the pre-decoration surface height (block y) at world
// (x, z), exactly as GenerateChunk would for that column.
func (g *Generator) HeightAt(wx, wz int) int {
	cc := ChunkCoordAt(wx, wz)
	h, _, _ := g.columnSample(wx, wz, g.chunkPersistence(cc.X, cc.Z))
	return h
}

// BiomeAt classifies the column at world (x, z).
func (g *Generator) BiomeAt(wx, wz int) Biome {
	cc := ChunkCoordAt(wx, wz)
	h, temp, rain := g.columnSample(wx, wz, g.chunkPersistence(cc.X, cc.Z))
	return classifyBiome(h, g.params.SeaLevel, g.params.SnowHeight, temp, rain)
}

// chunkPersistence jitters the fBm persistence once per chunk. Each chunk
// draws independently, so roughness steps at borders are possible; the
// height blend across columns keeps them subtle.
func (g *Generator) chunkPersistence(cx, cz int) float64 {
	p := g.params
	if p.PersistenceJitter == 0 {
		return p.Persistence
	}
	j := hashUnit2(g.seed+saltPersistence, int64(cx), int64(cz))
	return p.Persistence + (j-0.5)*2*p.PersistenceJitter
}

// fbm2 accumulates octaves of gradient noise, normalized back to [0,1].
func (g *Generator) fbm2(ns *NoiseSource, x, z, persistence float64) float64 {
	p := g.params
	octaves := p.Octaves
	if octaves < 1 {
		octaves = 1
	}
	amp := 1.0
	freq := p.BaseFrequency
	total := 0.0
	norm := 0.0
	for i := 0; i < octaves; i++ {
		total += ns.Noise2(x*freq, z*freq) * amp
		norm += amp
		amp *= persistence
		freq *= p.Lacunarity
	}
	return total / norm
}

// columnSample computes the final height plus climate for one column.
func (g *Generator) columnSample(wx, wz int, persistence float64) (int, float64, float64) {
	p := g.params
	fx, fz := float64(wx), float64(wz)

	h := p.BaseHeight + g.fbm2(g.base, fx, fz, persistence)*p.BaseAmplitude
	if h > float64(p.PrairieMax) {
		h = float64(p.PrairieMax)
	}

	if m := g.mountain.Noise2(fx*p.MountainFrequency, fz*p.MountainFrequency); m > p.MountainThreshold {
		h += (m - p.MountainThreshold) / (1 - p.MountainThreshold) * p.MountainAmplitude
	}
	if o := g.ocean.Noise2(fx*p.OceanFrequency, fz*p.OceanFrequency); o > p.OceanThreshold {
		h -= (o - p.OceanThreshold) / (1 - p.OceanThreshold) * p.OceanDepth
		if h < float64(p.OceanFloor) {
			h = float64(p.OceanFloor)
		}
	}

	d := g.detail.Noise2(fx*p.DetailFrequency, fz*p.DetailFrequency)
	h += (d - 0.5) * 2 * p.DetailAmplitude

	maxY := p.WorldHeight - 1
	if maxY > WorldHeight-1 {
		maxY = WorldHeight - 1
	}
	height := int(math.Floor(h))
	if height < 1 {
		height = 1
	}
	if height > maxY {
		height = maxY
	}

	temp := g.temp.Noise2(fx*p.TempFrequency, fz*p.TempFrequency)
	rain := g.rain.Noise2(fx*p.RainFrequency, fz*p.RainFrequency)
	return height, temp, rain
}

// shapeTerrain lays bedrock at y=0 and stone up to each column's height.
func (g *Generator) shapeTerrain(c *Chunk, heights *[ChunkSizeX][ChunkSizeZ]int) {
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			c.SetVoxel(lx, 0, lz, voxel.Bedrock)
			for y := 1; y <= heights[lx][lz]; y++ {
				c.SetVoxel(lx, y, lz, voxel.Stone)
			}
		}
	}
}

// fillWater floods every column below sea level up to it.
func (g *Generator) fillWater(c *Chunk, heights *[ChunkSizeX][ChunkSizeZ]int) {
	sea := g.params.SeaLevel
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			for y := heights[lx][lz] + 1; y <= sea; y++ {
				c.SetVoxel(lx, y, lz, voxel.Water)
			}
		}
	}
}

// dressSurface replaces the top stone of each column with its biome surface
// and a few filler layers beneath.
func (g *Generator) dressSurface(c *Chunk, cx, cz int, heights *[ChunkSizeX][ChunkSizeZ]int, biomes *[ChunkSizeX][ChunkSizeZ]Biome) {
	for lx := 0; lx < ChunkSizeX; lx++ {
		for lz := 0; lz < ChunkSizeZ; lz++ {
			h := heights[lx][lz]
			s := biomes[lx][lz].surface()
			wx := int64(cx*ChunkSizeX + lx)
			wz := int64(cz*ChunkSizeZ + lz)

			thickness := 4 + int(hashUnit2(g.seed+saltThickness, wx, wz)*5)
			if thickness > 8 {
				thickness = 8
			}

			if c.VoxelAt(lx, h, lz) == voxel.Stone {
				c.SetVoxel(lx, h, lz, s.top)
			}
			for y := h - 1; y > h-thickness && y >= 1; y-- {
				if c.VoxelAt(lx, y, lz) == voxel.Stone {
					c.SetVoxel(lx, y, lz, s.filler)
				}
			}
		}
	}
}
