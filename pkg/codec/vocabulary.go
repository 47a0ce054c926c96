package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/gridwords/pkg/util"
)

// DefaultWords is the small demo noun list. three of them address only 8000
// cells, enough for tests with a tiny box, far too few for a national grid.
var DefaultWords = []string{
	"apple", "bench", "chair", "crow", "dance", "eagle", "flame", "globe", "horse", "kites",
	"lions", "mango", "nails", "ocean", "place", "queen", "river", "snake", "tiger", "whale",
}

// MaxVocabularySize keeps V^3 inside int64.
const MaxVocabularySize = 1<<21 - 1

const (
	syllableConsonants = "bdfgklmnprstvz"
	syllableVowels     = "aeiou"
)

// SyllableWords generates the consonant-vowel-consonant-vowel-consonant words
// ("babab" .. "zuzuz"), 68600 of them, already sorted. V^3 is about 3.2e14, which
// covers a 3 meter grid over a continent.
func SyllableWords() []string {
	c, v := syllableConsonants, syllableVowels
	words := make([]string, 0, len(c)*len(v)*len(c)*len(v)*len(c))
	buf := make([]byte, 5)
	for _, c1 := range []byte(c) {
		buf[0] = c1
		for _, v1 := range []byte(v) {
			buf[1] = v1
			for _, c2 := range []byte(c) {
				buf[2] = c2
				for _, v2 := range []byte(v) {
					buf[3] = v2
					for _, c3 := range []byte(c) {
						buf[4] = c3
						words = append(words, string(buf))
					}
				}
			}
		}
	}
	return words
}

// Vocabulary is the sorted, lowercase, duplicate free word list of the vocabulary
// scheme. it is read-only once built.
type Vocabulary struct {
	words []string
	index map[string]int
}

func NewVocabulary(words []string) (*Vocabulary, error) {
	set := make(map[string]struct{}, len(words))
	for i, w := range words {
		norm := normalizeToken(w)
		if norm == "" {
			continue
		}
		if strings.IndexFunc(norm, invalidTokenRune) >= 0 {
			return nil, fmt.Errorf("vocabulary word %d %q must not contain whitespace, '.' or '/'", i+1, w)
		}
		set[norm] = struct{}{}
	}
	if len(set) < 2 {
		return nil, fmt.Errorf("vocabulary needs at least 2 distinct words, got %d", len(set))
	}
	if len(set) > MaxVocabularySize {
		return nil, fmt.Errorf("vocabulary has %d words, at most %d are supported", len(set), MaxVocabularySize)
	}

	sorted := make([]string, 0, len(set))
	for w := range set {
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)

	index := make(map[string]int, len(sorted))
	for i, w := range sorted {
		index[w] = i
	}
	return &Vocabulary{words: sorted, index: index}, nil
}

// ReadVocabulary reads one word per line. blank lines and lines starting with '#'
// are skipped.
func ReadVocabulary(r io.Reader) (*Vocabulary, error) {
	br := bufio.NewReader(r)
	words := make([]string, 0, 1024)
	for {
		line, err := util.ReadLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return NewVocabulary(words)
}

// LoadVocabulary reads a word list file. files ending in ".bz2" are decompressed.
func LoadVocabulary(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".bz2") {
		bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		r = bz
	}

	vocab, err := ReadVocabulary(r)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return vocab, nil
}

func (v *Vocabulary) Size() int {
	return len(v.words)
}

func (v *Vocabulary) Word(i int) string {
	return v.words[i]
}

// Index looks a word up case-insensitively.
func (v *Vocabulary) Index(word string) (int, bool) {
	i, ok := v.index[normalizeToken(word)]
	return i, ok
}

// Capacity is V^3, the number of distinct addresses.
func (v *Vocabulary) Capacity() int64 {
	return cube(int64(len(v.words)))
}

func cube(n int64) int64 {
	if n > 0 && n > math.MaxInt64/n/n {
		return math.MaxInt64
	}
	return n * n * n
}

// MinVocabularySize is the smallest V with V^3 >= totalCells.
func MinVocabularySize(totalCells int64) int64 {
	v := int64(math.Cbrt(float64(totalCells)))
	for v > 0 && cube(v) >= totalCells {
		v--
	}
	for cube(v) < totalCells {
		v++
	}
	return v
}
