package codec

import (
	"testing"

	"github.com/lintang-b-s/gridwords/pkg/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cells of the 3 meter grid over India.
const nationalGridCells = 1_263_472_448_000

func TestSyntheticWidth(t *testing.T) {
	testCases := []struct {
		total int64
		want  int
	}{
		{total: 1, want: 1},
		{total: 1000, want: 1},
		{total: 1001, want: 2},
		{total: nationalGridCells, want: 5},
	}
	for _, tt := range testCases {
		c, err := NewSyntheticCodec(ModeAddressable, tt.total, DefaultSyntheticPrefixes)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.Width(), "total %d", tt.total)
	}
}

func TestSyntheticEncode(t *testing.T) {
	c, err := NewSyntheticCodec(ModeAddressable, nationalGridCells, DefaultSyntheticPrefixes)
	require.NoError(t, err)

	got, err := c.Encode(1_234_567_890_123)
	require.NoError(t, err)
	assert.Equal(t, Triple{"h00123", "m45678", "l90123"}, got)
	assert.Equal(t, "h00123.m45678.l90123", got.String())
}

func TestSyntheticRoundTripAnyOrder(t *testing.T) {
	c, err := NewSyntheticCodec(ModeAddressable, nationalGridCells, DefaultSyntheticPrefixes)
	require.NoError(t, err)

	for _, id := range []grid.CellID{0, 1, 99_999, 100_000, 987_654_321_012, nationalGridCells - 1} {
		triple, err := c.Encode(id)
		require.NoError(t, err)

		got, err := c.Decode(triple)
		require.NoError(t, err)
		assert.Equal(t, id, got)

		shuffled := Triple{triple[2], triple[0], triple[1]}
		got, err = c.Decode(shuffled)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestSyntheticDecodeMalformed(t *testing.T) {
	c, err := NewSyntheticCodec(ModeAddressable, nationalGridCells, DefaultSyntheticPrefixes)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		triple  Triple
		wantPos int
	}{
		{name: "unknown prefix", triple: Triple{"x00001", "m00002", "l00003"}, wantPos: 0},
		{name: "duplicate prefix", triple: Triple{"h00001", "h00002", "l00003"}, wantPos: 1},
		{name: "short digits", triple: Triple{"h00001", "m0002", "l00003"}, wantPos: 1},
		{name: "non digits", triple: Triple{"h00001", "m00002", "l0000x"}, wantPos: 2},
		{name: "signed digits", triple: Triple{"h00001", "m-0002", "l00003"}, wantPos: 1},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.triple)
			var malformed *MalformedTokenError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.wantPos, malformed.Position)
		})
	}
}

func TestSyntheticDecorative(t *testing.T) {
	c, err := NewSyntheticCodec(ModeDecorative, nationalGridCells, DefaultSyntheticPrefixes)
	require.NoError(t, err)

	first, err := c.Encode(1_234_567_890_123)
	require.NoError(t, err)
	second, err := c.Encode(1_234_567_890_123)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "h90123", first[0])
	assert.Regexp(t, `^m\d{5}$`, first[1])
	assert.Regexp(t, `^l\d{5}$`, first[2])

	_, err = c.Decode(first)
	assert.ErrorIs(t, err, ErrDisplayOnly)
}

func TestSyntheticPrefixValidation(t *testing.T) {
	bad := [][TripleSize]string{
		{"h", "h", "l"},
		{"a", "ab", "c"},
		{"", "m", "l"},
		{"H", "m", "l"},
		{"h1", "m", "l"},
	}
	for _, prefixes := range bad {
		_, err := NewSyntheticCodec(ModeAddressable, 1000, prefixes)
		assert.Error(t, err, "%q", prefixes)
	}
}
