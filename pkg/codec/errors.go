package codec

import (
	"errors"
	"fmt"
)

// ErrDisplayOnly is returned when decoding an address produced by a lossy scheme.
var ErrDisplayOnly = errors.New("address was produced by a display-only scheme and cannot be decoded")

// UnknownWordError is a vocabulary lookup miss.
type UnknownWordError struct {
	Word     string
	Position int
}

func (e *UnknownWordError) Error() string {
	return fmt.Sprintf("word %d %q is not in the vocabulary", e.Position+1, e.Word)
}

// MalformedTokenError reports an address with the wrong number of tokens, or a
// token that does not have the shape its scheme expects. Position is -1 when the
// error is about the address as a whole.
type MalformedTokenError struct {
	Token    string
	Position int
	Reason   string
}

func (e *MalformedTokenError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("malformed address: %s", e.Reason)
	}
	return fmt.Sprintf("malformed token %d %q: %s", e.Position+1, e.Token, e.Reason)
}

// VocabularyTooSmallError means three words cannot address every cell of the grid.
type VocabularyTooSmallError struct {
	Size       int
	Capacity   int64
	TotalCells int64
}

func (e *VocabularyTooSmallError) Error() string {
	return fmt.Sprintf("vocabulary of %d words addresses %d cells, the grid has %d cells (need at least %d words)",
		e.Size, e.Capacity, e.TotalCells, MinVocabularySize(e.TotalCells))
}
