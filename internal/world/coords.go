package world

import "strconv"

const (
	// Chunk dimensions. A chunk is a full-height column of the world.
	ChunkSizeX = 16
	ChunkSizeZ = 16

	// WorldHeight is the fixed vertical extent of every chunk.
	WorldHeight = 256
)

// ChunkCoord identifies a chunk column in the XZ plane.
type ChunkCoord struct {
	X, Z int
}

func (c ChunkCoord) String() string {
	return "chunk(" + strconv.Itoa(c.X) + "," + strconv.Itoa(c.Z) + ")"
}

// ChunkCoordAt returns the coordinate of the chunk containing the block at
// world (x, z).
func ChunkCoordAt(x, z int) ChunkCoord {
	return ChunkCoord{X: floorDiv(x, ChunkSizeX), Z: floorDiv(z, ChunkSizeZ)}
}

// floorDiv divides rounding toward negative infinity, so chunk coordinates
// stay consistent across the origin.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns the non-negative remainder of a/b.
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
