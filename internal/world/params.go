package world

import (
	"fmt"
	"net/url"
	"strconv"
)

// Params holds every numeric knob the terrain pipeline reads. A Params is a
// plain value: copy it, override fields, hand it to NewGenerator. Overrides
// are not range-validated; callers own the consequences of absurd values.
type Params struct {
	WorldHeight int
	SeaLevel    int

	// Base heightfield (fractional Brownian motion over Noise2).
	Octaves           int
	Persistence       float64
	PersistenceJitter float64
	Lacunarity        float64
	BaseFrequency     float64
	BaseHeight        float64
	BaseAmplitude     float64
	PrairieMax        int

	// Mountain uplift applied where mountain noise exceeds its threshold.
	MountainFrequency float64
	MountainThreshold float64
	MountainAmplitude float64

	// Ocean depression applied where ocean noise exceeds its threshold.
	OceanFrequency float64
	OceanThreshold float64
	OceanDepth     float64
	OceanFloor     int

	// High-frequency surface detail.
	DetailFrequency float64
	DetailAmplitude float64

	// Climate fields for biome classification.
	TempFrequency float64
	RainFrequency float64
	SnowHeight    int

	// Flora.
	TreeFrequency float64
	TreeLeafGate  float64

	// Cave carving.
	CaveMaxPerChunk    int
	CaveMinLength      int
	CaveMaxLength      int
	CaveBaseRadius     float64
	CaveRadiusVariance float64
}

// DefaultParams returns the tuning the engine ships with: rolling plains a
// touch above sea level, occasional mountain ranges and oceans, sparse caves.
func DefaultParams() Params {
	return Params{
		WorldHeight: WorldHeight,
		SeaLevel:    63,

		Octaves:           4,
		Persistence:       0.5,
		PersistenceJitter: 0.1,
		Lacunarity:        2.0,
		BaseFrequency:     1.0 / 128.0,
		BaseHeight:        64,
		BaseAmplitude:     20,
		PrairieMax:        80,

		MountainFrequency: 1.0 / 256.0,
		MountainThreshold: 0.6,
		MountainAmplitude: 64,

		OceanFrequency: 1.0 / 320.0,
		OceanThreshold: 0.58,
		OceanDepth:     40,
		OceanFloor:     20,

		DetailFrequency: 1.0 / 16.0,
		DetailAmplitude: 3,

		TempFrequency: 1.0 / 512.0,
		RainFrequency: 1.0 / 448.0,
		SnowHeight:    100,

		TreeFrequency: 0.02,
		TreeLeafGate:  0.3,

		CaveMaxPerChunk:    3,
		CaveMinLength:      20,
		CaveMaxLength:      80,
		CaveBaseRadius:     1.5,
		CaveRadiusVariance: 1.0,
	}
}

// Apply overwrites the fields named by m. Keys are the field names with a
// leading lower-case letter ("seaLevel", "baseFrequency", ...). Integer
// fields truncate toward zero. Unknown keys are ignored.
func (p *Params) Apply(m map[string]float64) {
	for k, v := range m {
		switch k {
		case "worldHeight":
			p.WorldHeight = int(v)
		case "seaLevel":
			p.SeaLevel = int(v)
		case "octaves":
			p.Octaves = int(v)
		case "persistence":
			p.Persistence = v
		case "persistenceJitter":
			p.PersistenceJitter = v
		case "lacunarity":
			p.Lacunarity = v
		case "baseFrequency":
			p.BaseFrequency = v
		case "baseHeight":
			p.BaseHeight = v
		case "baseAmplitude":
			p.BaseAmplitude = v
		case "prairieMax":
			p.PrairieMax = int(v)
		case "mountainFrequency":
			p.MountainFrequency = v
		case "mountainThreshold":
			p.MountainThreshold = v
		case "mountainAmplitude":
			p.MountainAmplitude = v
		case "oceanFrequency":
			p.OceanFrequency = v
		case "oceanThreshold":
			p.OceanThreshold = v
		case "oceanDepth":
			p.OceanDepth = v
		case "oceanFloor":
			p.OceanFloor = int(v)
		case "detailFrequency":
			p.DetailFrequency = v
		case "detailAmplitude":
			p.DetailAmplitude = v
		case "tempFrequency":
			p.TempFrequency = v
		case "rainFrequency":
			p.RainFrequency = v
		case "snowHeight":
			p.SnowHeight = int(v)
		case "treeFrequency":
			p.TreeFrequency = v
		case "treeLeafGate":
			p.TreeLeafGate = v
		case "caveMaxPerChunk":
			p.CaveMaxPerChunk = int(v)
		case "caveMinLength":
			p.CaveMinLength = int(v)
		case "caveMaxLength":
			p.CaveMaxLength = int(v)
		case "caveBaseRadius":
			p.CaveBaseRadius = v
		case "caveRadiusVariance":
			p.CaveRadiusVariance = v
		}
	}
}

// ParseQuery applies overrides from a query-string-like text, e.g.
// "seaLevel=48&treeFrequency=0.05". Values that do not parse as floats are
// skipped along with unknown keys; only malformed query syntax is an error.
func (p *Params) ParseQuery(q string) error {
	values, err := url.ParseQuery(q)
	if err != nil {
		return fmt.Errorf("terrain overrides: %w", err)
	}
	m := make(map[string]float64, len(values))
	for k, vs := range values {
		if len(vs) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(vs[len(vs)-1], 64)
		if err != nil {
			continue
		}
		m[k] = v
	}
	p.Apply(m)
	return nil
}
