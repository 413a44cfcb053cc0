package world

import "voxworld/internal/voxel"

// Biome classifies one column of terrain. Classification is a pure function
// of the column's own height and climate samples; neighboring columns never
// influence it, so chunk borders need no special handling.
type Biome uint8

const (
	BiomeOcean Biome = iota
	BiomeBeach
	BiomePlains
	BiomeForest
	BiomeDesert
	BiomeSnow
)

func (b Biome) String() string {
	switch b {
	case BiomeOcean:
		return "ocean"
	case BiomeBeach:
		return "beach"
	case BiomePlains:
		return "plains"
	case BiomeForest:
		return "forest"
	case BiomeDesert:
		return "desert"
	case BiomeSnow:
		return "snow"
	}
	return "unknown"
}

// classifyBiome picks the biome for a column. temp and rain are noise samples
// in [0,1]. Order matters: water beats climate, altitude beats heat.
func classifyBiome(height, seaLevel, snowHeight int, temp, rain float64) Biome {
	switch {
	case height <= seaLevel:
		return BiomeOcean
	case height <= seaLevel+2:
		return BiomeBeach
	case height >= snowHeight || temp < 0.25:
		return BiomeSnow
	case temp > 0.65 && rain < 0.35:
		return BiomeDesert
	case rain > 0.6:
		return BiomeForest
	default:
		return BiomePlains
	}
}

// surface is the (top, filler) pair a biome dresses exposed stone with.
// Thickness is jittered per column by the generator.
type surface struct {
	top    voxel.Type
	filler voxel.Type
}

func (b Biome) surface() surface {
	switch b {
	case BiomeOcean, BiomeBeach, BiomeDesert:
		return surface{top: voxel.Sand, filler: voxel.Sand}
	case BiomeSnow:
		return surface{top: voxel.Snow, filler: voxel.Dirt}
	default:
		return surface{top: voxel.Grass, filler: voxel.Dirt}
	}
}

// treeFactor scales the global tree frequency. Only biomes whose surface is
// grass can host trees at all.
func (b Biome) treeFactor() float64 {
	switch b {
	case BiomeForest:
		return 8
	case BiomePlains:
		return 1
	}
	return 0
}

// caveFactor scales how many caves a chunk attempts.
func (b Biome) caveFactor() float64 {
	switch b {
	case BiomeSnow:
		return 1.5
	case BiomeDesert, BiomeOcean:
		return 0.5
	}
	return 1
}
