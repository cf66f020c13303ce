package securerand

import (
	"bytes"
	"encoding/binary"
	"math"
	"slices"
	"sync"
	"testing"
)

// wordsReader returns a reader yielding the given 64-bit words big-endian.
func wordsReader(words ...uint64) *bytes.Reader {
	buf := make([]byte, 0, 8*len(words))
	for _, w := range words {
		buf = binary.BigEndian.AppendUint64(buf, w)
	}
	return bytes.NewReader(buf)
}

// scriptedSource returns pre-recorded values and records the bounds it was asked for.
type scriptedSource struct {
	values []int
	bounds []int
}

func (s *scriptedSource) Intn(n int) int {
	s.bounds = append(s.bounds, n)
	v := s.values[0]
	s.values = s.values[1:]
	return v
}

func TestNew(t *testing.T) {
	if New() == nil {
		t.Fatal("New() returned nil")
	}
}

func TestIntn(t *testing.T) {
	t.Run("stays within bounds", func(t *testing.T) {
		src := New()
		for _, n := range []int{1, 2, 3, 7, 10, 62, 1000, math.MaxInt32} {
			for range 200 {
				v := src.Intn(n)
				if v < 0 || v >= n {
					t.Fatalf("Intn(%d) = %d, out of range", n, v)
				}
			}
		}
	})

	t.Run("bound of one needs no entropy", func(t *testing.T) {
		src := &cryptoSource{r: bytes.NewReader(nil)}
		if got := src.Intn(1); got != 0 {
			t.Errorf("Intn(1) = %d, want 0", got)
		}
	})

	t.Run("rejects words below the bias threshold", func(t *testing.T) {
		// 2^64 mod 3 == 1, so the word 0 must be discarded.
		src := &cryptoSource{r: wordsReader(0, 5)}
		if got := src.Intn(3); got != 2 {
			t.Errorf("Intn(3) = %d, want 2", got)
		}
	})

	t.Run("accepts the first unbiased word", func(t *testing.T) {
		src := &cryptoSource{r: wordsReader(41)}
		if got := src.Intn(10); got != 1 {
			t.Errorf("Intn(10) = %d, want 1", got)
		}
	})

	t.Run("panics on non-positive bound", func(t *testing.T) {
		for _, n := range []int{0, -1} {
			func() {
				defer func() {
					if recover() == nil {
						t.Errorf("Intn(%d) did not panic", n)
					}
				}()
				New().Intn(n)
			}()
		}
	})

	t.Run("panics when entropy is exhausted", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic on short read")
			}
		}()
		src := &cryptoSource{r: bytes.NewReader([]byte{1, 2, 3})}
		src.Intn(10)
	})

	t.Run("distribution is roughly uniform", func(t *testing.T) {
		const (
			buckets = 10
			draws   = 100_000
		)
		src := New()
		counts := make([]int, buckets)
		for range draws {
			counts[src.Intn(buckets)]++
		}

		want := draws / buckets
		for i, c := range counts {
			if c < want*9/10 || c > want*11/10 {
				t.Errorf("bucket %d has %d draws, want about %d", i, c, want)
			}
		}
	})

	t.Run("concurrent use is safe", func(t *testing.T) {
		src := New()
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 500 {
					if v := src.Intn(26); v < 0 || v >= 26 {
						t.Errorf("Intn(26) = %d", v)
						return
					}
				}
			}()
		}
		wg.Wait()
	})
}

func TestRange(t *testing.T) {
	src := New()
	for range 500 {
		v := Range(src, 5, 10)
		if v < 5 || v >= 10 {
			t.Fatalf("Range(5, 10) = %d", v)
		}
	}

	t.Run("offsets the draw", func(t *testing.T) {
		s := &scriptedSource{values: []int{3}}
		if got := Range(s, 10, 20); got != 13 {
			t.Errorf("Range(10, 20) = %d, want 13", got)
		}
		if s.bounds[0] != 10 {
			t.Errorf("Intn bound = %d, want 10", s.bounds[0])
		}
	})

	t.Run("panics on empty range", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		Range(src, 4, 4)
	})
}

func TestShuffle(t *testing.T) {
	t.Run("walks from the end with shrinking bounds", func(t *testing.T) {
		s := &scriptedSource{values: []int{0, 0, 0}}
		got := []rune("abcd")
		ShuffleRunes(s, got)

		if want := []int{4, 3, 2}; !slices.Equal(s.bounds, want) {
			t.Errorf("bounds = %v, want %v", s.bounds, want)
		}
		// i=3 swaps with 0: dbca; i=2 with 0: cbda; i=1 with 0: bcda
		if string(got) != "bcda" {
			t.Errorf("shuffled = %q, want %q", string(got), "bcda")
		}
	})

	t.Run("preserves elements", func(t *testing.T) {
		in := []rune("abcdefghijklmnopqrstuvwxyz0123456789")
		got := slices.Clone(in)
		ShuffleRunes(New(), got)

		slices.Sort(got)
		sorted := slices.Clone(in)
		slices.Sort(sorted)
		if !slices.Equal(got, sorted) {
			t.Errorf("shuffle changed the multiset: %q", string(got))
		}
	})

	t.Run("empty and single element are no-ops", func(t *testing.T) {
		s := &scriptedSource{}
		ShuffleRunes(s, nil)
		one := []rune("x")
		ShuffleRunes(s, one)
		if len(s.bounds) != 0 {
			t.Errorf("expected no draws, got %v", s.bounds)
		}
		if string(one) != "x" {
			t.Errorf("single element changed to %q", string(one))
		}
	})

	t.Run("every position is reachable", func(t *testing.T) {
		src := New()
		seenFirst := make(map[rune]bool)
		for range 2000 {
			s := []rune("abcd")
			ShuffleRunes(src, s)
			seenFirst[s[0]] = true
		}
		if len(seenFirst) != 4 {
			t.Errorf("only %d of 4 elements reached position 0", len(seenFirst))
		}
	})
}

func BenchmarkIntn(b *testing.B) {
	src := New()
	for b.Loop() {
		src.Intn(94)
	}
}
