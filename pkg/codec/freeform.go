package codec

import (
	"encoding/binary"

	"github.com/lintang-b-s/gridwords/pkg/geo"
	"github.com/zeebo/blake3"
)

// coefficients of the combining polynomials h1*P^2 + h2*P + h3 (mod 2^64), one
// polynomial per axis. both are odd so every word still moves the result.
const (
	latPolynomialBase uint64 = 0x9E3779B97F4A7C15
	lonPolynomialBase uint64 = 0xC2B2AE3D27D4EB4F
)

/*
FreeformHasher maps three arbitrary words to a point inside the bounding box.

every word is lowercased, trimmed and hashed with BLAKE3. bytes [0, 8) of the
three digests feed the latitude polynomial, bytes [8, 16) the longitude one,
and the top 53 bits of each result become a fraction of the box span.

this is a content-addressed pseudo geocode, not a cell index: the same words
always give the bit-identical point, but there is no inverse, different words
may land on the same cell, and nothing ties the point to a cell boundary.
*/
type FreeformHasher struct {
	box geo.BoundingBox
}

func NewFreeformHasher(box geo.BoundingBox) *FreeformHasher {
	return &FreeformHasher{box: box}
}

// HashWord is the BLAKE3-256 digest of the normalized word.
func HashWord(word string) [32]byte {
	return blake3.Sum256([]byte(normalizeToken(word)))
}

func combine(base uint64, h1, h2, h3 uint64) uint64 {
	return h1*base*base + h2*base + h3
}

// unitFraction maps v to [0, 1) using its 53 most significant bits.
func unitFraction(v uint64) float64 {
	return float64(v>>11) / (1 << 53)
}

func (f *FreeformHasher) Point(t Triple) geo.Coordinate {
	var lat, lon [TripleSize]uint64
	for i, w := range t {
		sum := HashWord(w)
		lat[i] = binary.LittleEndian.Uint64(sum[0:8])
		lon[i] = binary.LittleEndian.Uint64(sum[8:16])
	}

	latFrac := unitFraction(combine(latPolynomialBase, lat[0], lat[1], lat[2]))
	lonFrac := unitFraction(combine(lonPolynomialBase, lon[0], lon[1], lon[2]))

	return geo.NewCoordinate(
		f.box.LatMin+latFrac*f.box.LatSpan(),
		f.box.LonMin+lonFrac*f.box.LonSpan(),
	)
}
