// Package securerand provides uniformly distributed random integers and
// shuffles backed by crypto/rand. Sources are safe for concurrent use.
//
// A failure to read from the operating system's entropy source is not
// recoverable; Source implementations panic instead of returning an error.
package securerand

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
)

// Source produces uniformly distributed integers.
// Implementations should be safe for concurrent use.
type Source interface {
	// Intn returns a uniform integer in [0, n). It panics if n <= 0.
	Intn(n int) int
}

// cryptoSource implements Source on top of an entropy reader using
// rejection sampling, so every value in [0, n) is equally likely.
type cryptoSource struct {
	r io.Reader
}

// New returns a Source backed by crypto/rand.
func New() Source {
	return &cryptoSource{r: rand.Reader}
}

// Intn returns a uniform random integer in [0, n).
func (s *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("securerand: invalid bound %d", n))
	}
	if n == 1 {
		return 0
	}

	bound := uint64(n)
	// 2^64 mod bound; words below it would make small results more likely.
	threshold := -bound % bound

	var buf [8]byte
	for {
		if _, err := io.ReadFull(s.r, buf[:]); err != nil {
			panic(fmt.Errorf("securerand: read entropy: %w", err))
		}
		v := binary.BigEndian.Uint64(buf[:])
		if v >= threshold {
			return int(v % bound)
		}
	}
}

// Range returns a uniform random integer in [lo, hi). It panics if hi <= lo.
func Range(src Source, lo, hi int) int {
	if hi <= lo {
		panic(fmt.Sprintf("securerand: invalid range [%d, %d)", lo, hi))
	}
	return lo + src.Intn(hi-lo)
}

// Shuffle performs an in-place Fisher-Yates shuffle of n elements using swap,
// yielding a uniformly random permutation.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// ShuffleRunes shuffles s in place.
func ShuffleRunes(src Source, s []rune) {
	Shuffle(src, len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
