package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"voxworld/internal/physics"
)

// Species selects a parameter row from the table.
type Species uint8

const (
	SpeciesRabbit Species = iota
	SpeciesDeer
	SpeciesWolf
	speciesCount
)

func (s Species) String() string {
	switch s {
	case SpeciesRabbit:
		return "rabbit"
	case SpeciesDeer:
		return "deer"
	case SpeciesWolf:
		return "wolf"
	default:
		return "unknown"
	}
}

// SpeciesParams describes a species' body and drives. Geometry is an opaque
// descriptor a renderer can map to a model; the engine never interprets it.
type SpeciesParams struct {
	Name            string  `yaml:"name"`
	HalfWidth       float32 `yaml:"halfWidth"`
	Height          float32 `yaml:"height"`
	WalkSpeed       float32 `yaml:"walkSpeed"`
	DetectionRadius float32 `yaml:"detectionRadius"`
	Geometry        string  `yaml:"geometry"`
}

// Box is the species' collision volume.
func (p SpeciesParams) Box() physics.Box {
	return physics.Box{HalfWidth: p.HalfWidth, Height: p.Height}
}

func defaultParams() [speciesCount]SpeciesParams {
	return [speciesCount]SpeciesParams{
		SpeciesRabbit: {
			Name:            "rabbit",
			HalfWidth:       0.2,
			Height:          0.5,
			WalkSpeed:       2.5,
			DetectionRadius: 8,
			Geometry:        "quad-low",
		},
		SpeciesDeer: {
			Name:            "deer",
			HalfWidth:       0.35,
			Height:          1.4,
			WalkSpeed:       3.5,
			DetectionRadius: 12,
			Geometry:        "quad-tall",
		},
		SpeciesWolf: {
			Name:            "wolf",
			HalfWidth:       0.3,
			Height:          0.9,
			WalkSpeed:       4.5,
			DetectionRadius: 16,
			Geometry:        "quad-mid",
		},
	}
}

// Table holds the parameters for every species.
type Table struct {
	params [speciesCount]SpeciesParams
}

// DefaultTable returns the built-in species set.
func DefaultTable() *Table {
	return &Table{params: defaultParams()}
}

// LoadTable reads a YAML overlay on top of the defaults. Fields absent from
// the file keep their default values, so a file can tweak a single number:
//
//	species:
//	  wolf:
//	    walkSpeed: 5.2
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading species file: %w", err)
	}
	var doc struct {
		Species map[string]yaml.Node `yaml:"species"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing species file: %w", err)
	}

	t := DefaultTable()
	for name, node := range doc.Species {
		sp, ok := speciesByName(name)
		if !ok {
			return nil, fmt.Errorf("species file names unknown species %q", name)
		}
		p := t.params[sp]
		if err := node.Decode(&p); err != nil {
			return nil, fmt.Errorf("species %q: %w", name, err)
		}
		t.params[sp] = p
	}
	return t, nil
}

// Params returns the row for a species.
func (t *Table) Params(s Species) SpeciesParams {
	if s >= speciesCount {
		return t.params[SpeciesRabbit]
	}
	return t.params[s]
}

func speciesByName(name string) (Species, bool) {
	for s := Species(0); s < speciesCount; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}
