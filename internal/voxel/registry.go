package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Definition describes the fixed properties of one voxel type.
type Definition struct {
	Type        Type
	Name        string
	Solid       bool
	Transparent bool
	Color       mgl32.Vec3
}

// unknownDef is returned for codes nothing registered: non-solid and
// magenta so a bad lookup is visible instead of crashing the tick.
var unknownDef = Definition{Name: "unknown", Color: mgl32.Vec3{1.0, 0.0, 1.0}}

// Registry is the lookup table for voxel definitions. It is built once and
// handed to whoever needs voxel properties (meshing, physics, agents);
// there is no package-global instance.
type Registry struct {
	defs []Definition
	set  []bool
}

// NewRegistry returns a registry populated with the built-in voxel set.
func NewRegistry() *Registry {
	r := &Registry{
		defs: make([]Definition, Count),
		set:  make([]bool, Count),
	}
	for _, def := range builtins {
		r.Register(def)
	}
	return r
}

// Register installs or replaces a definition.
func (r *Registry) Register(def Definition) {
	i := int(def.Type)
	if i >= len(r.defs) {
		grown := make([]Definition, i+1)
		copy(grown, r.defs)
		r.defs = grown
		grownSet := make([]bool, i+1)
		copy(grownSet, r.set)
		r.set = grownSet
	}
	r.defs[i] = def
	r.set[i] = true
}

// Definition returns the definition for t, or a sentinel "unknown"
// definition for unregistered codes.
func (r *Registry) Definition(t Type) Definition {
	i := int(t)
	if i >= len(r.defs) || !r.set[i] {
		return unknownDef
	}
	return r.defs[i]
}

// IsSolid reports whether t blocks movement. Air and Water do not.
func (r *Registry) IsSolid(t Type) bool {
	return r.Definition(t).Solid
}

// Color returns the render tint for t.
func (r *Registry) Color(t Type) mgl32.Vec3 {
	return r.Definition(t).Color
}

// Name returns the registered name for t, for logs and debug output.
func (r *Registry) Name(t Type) string {
	return r.Definition(t).Name
}

var builtins = []Definition{
	{Type: Air, Name: "air", Solid: false, Transparent: true, Color: mgl32.Vec3{0, 0, 0}},
	{Type: Water, Name: "water", Solid: false, Transparent: true, Color: mgl32.Vec3{0.13, 0.38, 0.72}},
	{Type: Sand, Name: "sand", Solid: true, Color: mgl32.Vec3{0.86, 0.81, 0.58}},
	{Type: Grass, Name: "grass", Solid: true, Color: mgl32.Vec3{0.29, 0.62, 0.26}},
	{Type: Dirt, Name: "dirt", Solid: true, Color: mgl32.Vec3{0.48, 0.33, 0.21}},
	{Type: Stone, Name: "stone", Solid: true, Color: mgl32.Vec3{0.52, 0.52, 0.53}},
	{Type: Snow, Name: "snow", Solid: true, Color: mgl32.Vec3{0.92, 0.94, 0.96}},
	{Type: Trunk, Name: "trunk", Solid: true, Color: mgl32.Vec3{0.36, 0.25, 0.14}},
	{Type: Leaves, Name: "leaves", Solid: true, Color: mgl32.Vec3{0.22, 0.48, 0.18}},
	{Type: LeavesAutumn, Name: "leaves_autumn", Solid: true, Color: mgl32.Vec3{0.77, 0.45, 0.15}},
	{Type: LeavesYoung, Name: "leaves_young", Solid: true, Color: mgl32.Vec3{0.45, 0.69, 0.30}},
	{Type: LeavesCherry, Name: "leaves_cherry", Solid: true, Color: mgl32.Vec3{0.87, 0.58, 0.72}},
	{Type: Cloud, Name: "cloud", Solid: true, Color: mgl32.Vec3{0.97, 0.97, 0.98}},
	{Type: Bedrock, Name: "bedrock", Solid: true, Color: mgl32.Vec3{0.15, 0.15, 0.16}},
}
