package voxel

// Type identifies what occupies a single cell of the world lattice.
type Type uint16

const (
	Air Type = iota
	Water
	Sand
	Grass
	Dirt
	Stone
	Snow
	Trunk
	Leaves
	LeavesAutumn
	LeavesYoung
	LeavesCherry
	Cloud
	Bedrock

	typeCount
)

// Count is the number of registered built-in voxel types.
const Count = int(typeCount)

// IsLeaf reports whether t is one of the canopy variants.
func IsLeaf(t Type) bool {
	switch t {
	case Leaves, LeavesAutumn, LeavesYoung, LeavesCherry:
		return true
	}
	return false
}
