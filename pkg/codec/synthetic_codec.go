package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lintang-b-s/gridwords/pkg/grid"
	"github.com/zeebo/blake3"
)

type SyntheticMode uint8

const (
	// ModeAddressable tokens carry the whole cell id and decode exactly.
	ModeAddressable SyntheticMode = iota
	// ModeDecorative tokens carry the low digits of the cell id plus hash filler.
	// they are for display only and never decode.
	ModeDecorative
)

func (m SyntheticMode) String() string {
	if m == ModeDecorative {
		return "decorative"
	}
	return "addressable"
}

// DefaultSyntheticPrefixes name the high, middle and low digit groups.
var DefaultSyntheticPrefixes = [TripleSize]string{"h", "m", "l"}

// SyntheticCodec splits a cell id into three base-10 digit groups of a fixed
// width W and writes each as prefix + zero padded digits, e.g. "h00012.m34567.l89012".
// W is the smallest width with 10^(3W) >= total cells. the prefix names the group,
// so addressable tokens decode in any order.
type SyntheticCodec struct {
	mode     SyntheticMode
	prefixes [TripleSize]string
	width    int
	base     int64
}

func NewSyntheticCodec(mode SyntheticMode, totalCells int64, prefixes [TripleSize]string) (*SyntheticCodec, error) {
	if err := validatePrefixes(prefixes); err != nil {
		return nil, err
	}
	width, base := digitGroupWidth(totalCells)
	return &SyntheticCodec{
		mode:     mode,
		prefixes: prefixes,
		width:    width,
		base:     base,
	}, nil
}

func validatePrefixes(prefixes [TripleSize]string) error {
	for i, p := range prefixes {
		if p == "" || strings.ToLower(p) != p {
			return fmt.Errorf("synthetic prefix %q must be non-empty and lowercase", p)
		}
		for _, r := range p {
			if r < 'a' || r > 'z' {
				return fmt.Errorf("synthetic prefix %q must only contain letters a-z", p)
			}
		}
		for j := 0; j < i; j++ {
			if strings.HasPrefix(p, prefixes[j]) || strings.HasPrefix(prefixes[j], p) {
				return fmt.Errorf("synthetic prefixes %q and %q are ambiguous", prefixes[j], p)
			}
		}
	}
	return nil
}

func digitGroupWidth(totalCells int64) (int, int64) {
	width, base := 1, int64(10)
	for {
		// base^3 > MaxInt64 covers every id.
		if base > int64(math.Cbrt(math.MaxInt64)) || base*base*base >= totalCells {
			return width, base
		}
		width++
		base *= 10
	}
}

func (c *SyntheticCodec) Mode() SyntheticMode {
	return c.mode
}

// Width is the number of digits of every token.
func (c *SyntheticCodec) Width() int {
	return c.width
}

func (c *SyntheticCodec) token(field int, v int64) string {
	return c.prefixes[field] + fmt.Sprintf("%0*d", c.width, v)
}

func (c *SyntheticCodec) Encode(id grid.CellID) (Triple, error) {
	n := int64(id)
	if n < 0 {
		return Triple{}, fmt.Errorf("negative cell id %d", n)
	}
	b := c.base

	if c.mode == ModeDecorative {
		f1, f2 := decorativeFiller(n)
		return Triple{
			c.token(0, n%b),
			c.token(1, int64(f1%uint64(b))),
			c.token(2, int64(f2%uint64(b))),
		}, nil
	}

	hi := n / (b * b)
	if hi >= b {
		return Triple{}, fmt.Errorf("cell id %d needs more than %d digits per token", n, c.width)
	}
	return Triple{
		c.token(0, hi),
		c.token(1, (n/b)%b),
		c.token(2, n%b),
	}, nil
}

// decorativeFiller derives two numbers from the cell id alone. they carry no
// information about the cell.
func decorativeFiller(n int64) (uint64, uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	sum := blake3.Sum256(buf[:])
	return binary.LittleEndian.Uint64(sum[0:8]), binary.LittleEndian.Uint64(sum[8:16])
}

// Decode parses addressable tokens back into the cell id. decorative addresses
// return ErrDisplayOnly.
func (c *SyntheticCodec) Decode(t Triple) (grid.CellID, error) {
	if c.mode == ModeDecorative {
		return 0, ErrDisplayOnly
	}

	var (
		fields [TripleSize]int64
		seen   [TripleSize]bool
	)
	for pos, tok := range t {
		field, digits := c.splitToken(tok)
		if field < 0 {
			return 0, &MalformedTokenError{Token: tok, Position: pos,
				Reason: fmt.Sprintf("want one of the prefixes %q", c.prefixes)}
		}
		if seen[field] {
			return 0, &MalformedTokenError{Token: tok, Position: pos,
				Reason: fmt.Sprintf("prefix %q appears more than once", c.prefixes[field])}
		}
		if len(digits) != c.width || strings.IndexFunc(digits, notDigit) >= 0 {
			return 0, &MalformedTokenError{Token: tok, Position: pos,
				Reason: fmt.Sprintf("want exactly %d digits after the prefix", c.width)}
		}
		v, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0, &MalformedTokenError{Token: tok, Position: pos, Reason: err.Error()}
		}
		seen[field] = true
		fields[field] = v
	}

	b := c.base
	hi := fields[0]
	if hi > (math.MaxInt64-fields[1]*b-fields[2])/(b*b) {
		return 0, &MalformedTokenError{Token: t.String(), Position: -1, Reason: "cell id overflows int64"}
	}
	return grid.CellID(hi*b*b + fields[1]*b + fields[2]), nil
}

func (c *SyntheticCodec) splitToken(tok string) (int, string) {
	tok = normalizeToken(tok)
	for i, p := range c.prefixes {
		if strings.HasPrefix(tok, p) {
			return i, tok[len(p):]
		}
	}
	return -1, ""
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}
