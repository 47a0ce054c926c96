package codec

import (
	"fmt"

	"github.com/lintang-b-s/gridwords/pkg/grid"
)

// VocabularyCodec treats a cell id as a three digit base-V number and spells every
// digit as the word at that index of the sorted vocabulary:
//
//	w1 = id / V^2, w2 = (id / V) mod V, w3 = id mod V
type VocabularyCodec struct {
	vocab *Vocabulary
	base  int64
}

// NewVocabularyCodec fails with *VocabularyTooSmallError when V^3 < totalCells,
// three words would otherwise alias distinct cells.
func NewVocabularyCodec(vocab *Vocabulary, totalCells int64) (*VocabularyCodec, error) {
	if vocab.Capacity() < totalCells {
		return nil, &VocabularyTooSmallError{
			Size:       vocab.Size(),
			Capacity:   vocab.Capacity(),
			TotalCells: totalCells,
		}
	}
	return &VocabularyCodec{vocab: vocab, base: int64(vocab.Size())}, nil
}

func (c *VocabularyCodec) Vocabulary() *Vocabulary {
	return c.vocab
}

func (c *VocabularyCodec) Encode(id grid.CellID) (Triple, error) {
	n := int64(id)
	if n < 0 || n >= c.vocab.Capacity() {
		return Triple{}, fmt.Errorf("cell id %d outside vocabulary capacity %d", n, c.vocab.Capacity())
	}
	v := c.base
	return Triple{
		c.vocab.Word(int(n / (v * v))),
		c.vocab.Word(int((n / v) % v)),
		c.vocab.Word(int(n % v)),
	}, nil
}

// Decode returns *UnknownWordError for the first word missing from the vocabulary.
// the id is not range checked against the grid, that is the indexer's job.
func (c *VocabularyCodec) Decode(t Triple) (grid.CellID, error) {
	var digits [TripleSize]int64
	for i, w := range t {
		d, ok := c.vocab.Index(w)
		if !ok {
			return 0, &UnknownWordError{Word: w, Position: i}
		}
		digits[i] = int64(d)
	}
	v := c.base
	return grid.CellID(digits[0]*v*v + digits[1]*v + digits[2]), nil
}
