package world

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"

	"voxworld/internal/voxel"
)

// Grid snapshots are run-length encoded as (value, length) uvarint pairs and
// then zstd-compressed. Terrain is dominated by tall vertical runs of the
// same type, so an edited chunk usually packs to well under a kilobyte.

var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// packGrid serializes and compresses a voxel grid.
func packGrid(grid []voxel.Type) ([]byte, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("pack: empty grid")
	}
	buf := make([]byte, 0, 4096)
	var tmp [binary.MaxVarintLen64]byte
	i := 0
	for i < len(grid) {
		v := grid[i]
		run := 1
		for i+run < len(grid) && grid[i+run] == v {
			run++
		}
		n := binary.PutUvarint(tmp[:], uint64(v))
		buf = append(buf, tmp[:n]...)
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf = append(buf, tmp[:n]...)
		i += run
	}
	return zstdEncoder.EncodeAll(buf, nil), nil
}

// unpackGrid reverses packGrid. The result always holds the full chunk cell
// count; short, overlong or malformed streams are errors.
func unpackGrid(packed []byte) ([]voxel.Type, error) {
	raw, err := zstdDecoder.DecodeAll(packed, nil)
	if err != nil {
		return nil, fmt.Errorf("unpack: %w", err)
	}
	const cells = ChunkSizeX * WorldHeight * ChunkSizeZ
	grid := make([]voxel.Type, 0, cells)
	i := 0
	for i < len(raw) {
		v, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("unpack: bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("unpack: bad varint at %d", i)
		}
		i += n
		if v > math.MaxUint16 {
			return nil, fmt.Errorf("unpack: voxel code %d out of range", v)
		}
		if run == 0 || run > cells || len(grid)+int(run) > cells {
			return nil, fmt.Errorf("unpack: run of %d overflows grid", run)
		}
		for j := uint64(0); j < run; j++ {
			grid = append(grid, voxel.Type(v))
		}
	}
	if len(grid) != cells {
		return nil, fmt.Errorf("unpack: stream ends at %d cells, want %d", len(grid), cells)
	}
	return grid, nil
}
