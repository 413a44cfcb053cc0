package world

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"
	"time"
)

// NoiseSource is seeded 2-D/3-D coherent gradient noise. Every instance owns
// its permutation table, built once from the seed and never mutated, so two
// sources with the same seed agree at every coordinate and sources never
// share state.
type NoiseSource struct {
	perm [512]int
}

// NewNoiseSource builds a source from a seed.
func NewNoiseSource(seed int64) *NoiseSource {
	ns := &NoiseSource{}
	var p [256]int
	for i := range p {
		p[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	for i := len(p) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		p[i], p[j] = p[j], p[i]
	}
	// Doubled so lattice lookups never wrap explicitly
	for i := range ns.perm {
		ns.perm[i] = p[i&255]
	}
	return ns
}

// NewRandomNoiseSource builds a source from a time-derived seed.
func NewRandomNoiseSource() *NoiseSource {
	return NewNoiseSource(time.Now().UnixNano())
}

// ParseSeed maps seed text to a seed value: integer text parses directly,
// any other text is hashed, empty text randomizes.
func ParseSeed(s string) int64 {
	if s == "" {
		return time.Now().UnixNano()
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// hashUnit2 maps an integer lattice point to a uniform draw in [0,1).
// Gradient noise is far too smooth for per-column accept/reject decisions;
// this gives every column an independent coin.
func hashUnit2(seed, x, z int64) float64 {
	h := uint64(seed) ^ uint64(x)*0x9E3779B97F4A7C15 ^ uint64(z)*0xC2B2AE3D27D4EB4F
	h ^= h >> 30
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 27
	h *= 0x94D049BB133111EB
	h ^= h >> 31
	return float64(h>>11) / float64(1<<53)
}

// hashUnit3 is hashUnit2 with one more lattice coordinate.
func hashUnit3(seed, x, z, w int64) float64 {
	return hashUnit2(seed^int64(uint64(w)*0xD6E8FEB86659FD93), x, z)
}

// fade is the 6t^5 - 15t^4 + 10t^3 smoothing polynomial.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func grad2(h int, x, y float64) float64 {
	switch h & 7 {
	case 0:
		return x + y
	case 1:
		return x - y
	case 2:
		return -x + y
	case 3:
		return -x - y
	case 4:
		return x
	case 5:
		return -x
	case 6:
		return y
	default:
		return -y
	}
}

func grad3(h int, x, y, z float64) float64 {
	switch h & 15 {
	case 0:
		return x + y
	case 1:
		return -x + y
	case 2:
		return x - y
	case 3:
		return -x - y
	case 4:
		return x + z
	case 5:
		return -x + z
	case 6:
		return x - z
	case 7:
		return -x - z
	case 8:
		return y + z
	case 9:
		return -y + z
	case 10:
		return y - z
	case 11:
		return -y - z
	case 12:
		return y + x
	case 13:
		return -y + z
	case 14:
		return y - x
	default:
		return -y - z
	}
}

// Noise2 samples single-octave noise at (x, y) and returns a value in [0,1].
// Octave accumulation is the caller's job.
func (ns *NoiseSource) Noise2(x, y float64) float64 {
	xf := math.Floor(x)
	yf := math.Floor(y)
	xi := int(xf) & 255
	yi := int(yf) & 255
	dx := x - xf
	dy := y - yf

	u := fade(dx)
	v := fade(dy)

	aa := ns.perm[ns.perm[xi]+yi]
	ab := ns.perm[ns.perm[xi]+yi+1]
	ba := ns.perm[ns.perm[xi+1]+yi]
	bb := ns.perm[ns.perm[xi+1]+yi+1]

	x1 := lerp(grad2(aa, dx, dy), grad2(ba, dx-1, dy), u)
	x2 := lerp(grad2(ab, dx, dy-1), grad2(bb, dx-1, dy-1), u)
	raw := lerp(x1, x2, v) // within [-1,1] for this gradient set

	return clamp((raw+1)*0.5, 0, 1)
}

// Noise3 samples single-octave noise at (x, y, z) in [0,1].
func (ns *NoiseSource) Noise3(x, y, z float64) float64 {
	xf := math.Floor(x)
	yf := math.Floor(y)
	zf := math.Floor(z)
	xi := int(xf) & 255
	yi := int(yf) & 255
	zi := int(zf) & 255
	dx := x - xf
	dy := y - yf
	dz := z - zf

	u := fade(dx)
	v := fade(dy)
	w := fade(dz)

	a := ns.perm[xi] + yi
	aa := ns.perm[a] + zi
	ab := ns.perm[a+1] + zi
	b := ns.perm[xi+1] + yi
	ba := ns.perm[b] + zi
	bb := ns.perm[b+1] + zi

	x1 := lerp(grad3(ns.perm[aa], dx, dy, dz), grad3(ns.perm[ba], dx-1, dy, dz), u)
	x2 := lerp(grad3(ns.perm[ab], dx, dy-1, dz), grad3(ns.perm[bb], dx-1, dy-1, dz), u)
	y1 := lerp(x1, x2, v)

	x1 = lerp(grad3(ns.perm[aa+1], dx, dy, dz-1), grad3(ns.perm[ba+1], dx-1, dy, dz-1), u)
	x2 = lerp(grad3(ns.perm[ab+1], dx, dy-1, dz-1), grad3(ns.perm[bb+1], dx-1, dy-1, dz-1), u)
	y2 := lerp(x1, x2, v)

	raw := lerp(y1, y2, w)

	return clamp((raw+1)*0.5, 0, 1)
}
