package codec

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/lintang-b-s/gridwords/pkg/grid"
)

// Scheme selects how a cell id (or a coordinate) is turned into three tokens.
type Scheme uint8

const (
	// SchemeVocabulary writes the cell id as three base-V digits, one word each. exact.
	SchemeVocabulary Scheme = iota
	// SchemeSynthetic writes the cell id as three prefixed, zero padded digit groups. exact.
	SchemeSynthetic
	// SchemeDecorative mixes one real digit group with hash filler. display only.
	SchemeDecorative
	// SchemeFreeform hashes three arbitrary words to a point. advisory, not a cell index.
	SchemeFreeform
)

var schemeNames = map[Scheme]string{
	SchemeVocabulary: "vocabulary",
	SchemeSynthetic:  "synthetic",
	SchemeDecorative: "decorative",
	SchemeFreeform:   "freeform",
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scheme(%d)", s)
}

// Exact reports whether decode(encode(cell)) returns the same cell.
func (s Scheme) Exact() bool {
	return s == SchemeVocabulary || s == SchemeSynthetic
}

func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vocabulary", "words":
		return SchemeVocabulary, nil
	case "synthetic", "addressable":
		return SchemeSynthetic, nil
	case "decorative":
		return SchemeDecorative, nil
	case "freeform", "custom":
		return SchemeFreeform, nil
	}
	return 0, fmt.Errorf("unknown scheme %q (want vocabulary, synthetic, decorative or freeform)", name)
}

// CellCodec is implemented by the schemes that address grid cells.
type CellCodec interface {
	Encode(id grid.CellID) (Triple, error)
	Decode(t Triple) (grid.CellID, error)
}

const TripleSize = 3

// Triple is a three token address, written "w1.w2.w3".
type Triple [TripleSize]string

func (t Triple) String() string {
	return strings.Join(t[:], ".")
}

func (t Triple) Slice() []string {
	return []string{t[0], t[1], t[2]}
}

func normalizeToken(tok string) string {
	return strings.ToLower(strings.TrimSpace(tok))
}

// NewTriple checks the shape of an address: exactly three non-empty tokens without
// whitespace or separators. tokens are lowercased.
func NewTriple(tokens []string) (Triple, error) {
	var t Triple
	if len(tokens) != TripleSize {
		return t, &MalformedTokenError{
			Position: -1,
			Reason:   fmt.Sprintf("want %d tokens, got %d", TripleSize, len(tokens)),
		}
	}
	for i, tok := range tokens {
		norm := normalizeToken(tok)
		if norm == "" {
			return t, &MalformedTokenError{Token: tok, Position: i, Reason: "empty token"}
		}
		if strings.IndexFunc(norm, invalidTokenRune) >= 0 {
			return t, &MalformedTokenError{Token: tok, Position: i, Reason: "token must not contain whitespace, '.' or '/'"}
		}
		t[i] = norm
	}
	return t, nil
}

func invalidTokenRune(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r) || r == '.' || r == '/'
}

// ParseAddress parses "w1.w2.w3". a leading "///" is accepted.
func ParseAddress(address string) (Triple, error) {
	address = strings.TrimPrefix(strings.TrimSpace(address), "///")
	return NewTriple(strings.Split(address, "."))
}
