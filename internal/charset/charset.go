// Package charset builds character pools for password generation and
// classifies generated text into the four character categories.
package charset

import (
	"math"
	"strings"
)

const (
	LowerChars = "abcdefghijklmnopqrstuvwxyz"
	UpperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DigitChars = "0123456789"
)

// Category is one of the four character classes.
type Category uint8

const (
	Lower Category = iota
	Upper
	Digit
	Symbol
)

func (c Category) String() string {
	switch c {
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	case Digit:
		return "digit"
	case Symbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Options selects the enabled categories and exclusions for one request.
type Options struct {
	Lower            bool
	Upper            bool
	Digits           bool
	Symbols          bool
	ExcludeSimilar   bool
	ExcludeAmbiguous bool
}

// Enabled returns the enabled categories in fixed order.
func (o Options) Enabled() []Category {
	cats := make([]Category, 0, 4)
	if o.Lower {
		cats = append(cats, Lower)
	}
	if o.Upper {
		cats = append(cats, Upper)
	}
	if o.Digits {
		cats = append(cats, Digit)
	}
	if o.Symbols {
		cats = append(cats, Symbol)
	}
	return cats
}

// Sets holds the operator-configured character sets.
type Sets struct {
	Symbols   string
	Similar   string
	Ambiguous string
}

// Subset is the exclusion-filtered character set of one category.
// Chars may be empty when every character of the category was excluded.
type Subset struct {
	Category Category
	Chars    []rune
}

// Pool is the request-scoped universe of characters to draw from.
type Pool struct {
	Chars      []rune
	Categories []Subset
}

// NonEmpty returns the categories that still have characters, in order.
func (p Pool) NonEmpty() []Subset {
	out := make([]Subset, 0, len(p.Categories))
	for _, s := range p.Categories {
		if len(s.Chars) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Build assembles the pool and per-category subsets for opts.
// Categories are appended in lower, upper, digit, symbol order.
func Build(opts Options, sets Sets) Pool {
	excluded := make(map[rune]struct{})
	if opts.ExcludeSimilar {
		for _, r := range sets.Similar {
			excluded[r] = struct{}{}
		}
	}
	if opts.ExcludeAmbiguous {
		for _, r := range sets.Ambiguous {
			excluded[r] = struct{}{}
		}
	}

	filter := func(chars string) []rune {
		out := make([]rune, 0, len(chars))
		for _, r := range chars {
			if _, skip := excluded[r]; !skip {
				out = append(out, r)
			}
		}
		return out
	}

	var pool Pool
	for _, cat := range opts.Enabled() {
		var src string
		switch cat {
		case Lower:
			src = LowerChars
		case Upper:
			src = UpperChars
		case Digit:
			src = DigitChars
		case Symbol:
			src = sets.Symbols
		}
		chars := filter(src)
		pool.Categories = append(pool.Categories, Subset{Category: cat, Chars: chars})
		pool.Chars = append(pool.Chars, chars...)
	}
	return pool
}

// Composition counts the characters of each category present in a text.
type Composition struct {
	Lower   int
	Upper   int
	Digits  int
	Symbols int
}

// Count returns the count for a single category.
func (c Composition) Count(cat Category) int {
	switch cat {
	case Lower:
		return c.Lower
	case Upper:
		return c.Upper
	case Digit:
		return c.Digits
	case Symbol:
		return c.Symbols
	default:
		return 0
	}
}

// Analyze classifies every character of text. Characters outside ASCII
// letters and digits count as symbols only when they appear in symbolSet;
// anything else is ignored.
func Analyze(text, symbolSet string) Composition {
	var comp Composition
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			comp.Lower++
		case r >= 'A' && r <= 'Z':
			comp.Upper++
		case r >= '0' && r <= '9':
			comp.Digits++
		case strings.ContainsRune(symbolSet, r):
			comp.Symbols++
		}
	}
	return comp
}

// SatisfiedSets reports how many enabled categories actually occur in comp.
func SatisfiedSets(comp Composition, opts Options) int {
	n := 0
	for _, cat := range opts.Enabled() {
		if comp.Count(cat) > 0 {
			n++
		}
	}
	return n
}

// Entropy returns length*log2(poolSize), the entropy of length independent
// uniform draws. A pool of one or zero characters carries no entropy.
//
// The estimate is not reduced for guaranteed-category placement.
func Entropy(poolSize, length int) float64 {
	if poolSize <= 1 {
		return 0
	}
	return float64(length) * math.Log2(float64(poolSize))
}

// Round1 rounds bits to one decimal place for reporting.
func Round1(bits float64) float64 {
	return math.Round(bits*10) / 10
}
