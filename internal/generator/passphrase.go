package generator

import (
	"context"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sundayezeilo/passwordgen/internal/charset"
	"github.com/sundayezeilo/passwordgen/securerand"
)

// WordSource supplies the shared word corpus.
type WordSource interface {
	Words(ctx context.Context) ([]string, error)
}

// Passphrase joins randomly drawn words, optionally followed by a digit and
// a symbol.
type Passphrase struct {
	settings Settings
	words    WordSource
	rnd      securerand.Source
}

// NewPassphrase creates a passphrase generator.
func NewPassphrase(settings Settings, words WordSource, rnd securerand.Source) *Passphrase {
	return &Passphrase{settings: settings, words: words, rnd: rnd}
}

func (g *Passphrase) Method() Method { return MethodPassphrase }

func (g *Passphrase) Generate(ctx context.Context, req Request) ([]Result, error) {
	opts := DefaultPassphraseOptions(g.settings)
	if req.Passphrase != nil {
		opts = *req.Passphrase
	}

	corpus, err := g.words.Words(ctx)
	if err != nil {
		return nil, err
	}
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	symbols := []rune(g.settings.SymbolSet)
	appendSymbol := opts.AppendSymbol && len(symbols) > 0
	entropy := charset.Round1(passphraseEntropy(len(corpus), opts.WordCount, opts.AppendNumber, appendSymbol, len(symbols)))

	results := make([]Result, 0, req.Count)
	for range req.Count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		words := make([]string, opts.WordCount)
		for i := range words {
			words[i] = capitalize(corpus[g.rnd.Intn(len(corpus))], opts.Capitalize)
		}

		var b strings.Builder
		b.WriteString(strings.Join(words, opts.Separator))
		if opts.AppendNumber {
			b.WriteByte(byte('0' + securerand.Range(g.rnd, 0, 10)))
		}
		if appendSymbol {
			b.WriteRune(symbols[g.rnd.Intn(len(symbols))])
		}

		phrase := b.String()
		results = append(results, Result{
			Password:        phrase,
			EntropyBits:     entropy,
			PolicySatisfied: true,
			Composition:     charset.Analyze(phrase, g.settings.SymbolSet),
		})
	}
	return results, nil
}

// passphraseEntropy adds the bits of each independent draw. Repeated words
// do not reduce the estimate.
func passphraseEntropy(corpusSize, wordCount int, number, symbol bool, symbolSetSize int) float64 {
	bits := float64(wordCount) * math.Log2(float64(corpusSize))
	if number {
		bits += math.Log2(10)
	}
	if symbol {
		bits += math.Log2(float64(symbolSetSize))
	}
	return bits
}

// capitalize applies mode to word. Unrecognized modes leave it unchanged.
func capitalize(word string, mode CapitalizeMode) string {
	switch CapitalizeMode(strings.ToLower(string(mode))) {
	case CapitalizeFirst:
		r, size := utf8.DecodeRuneInString(word)
		if size == 0 {
			return word
		}
		return string(unicode.ToUpper(r)) + word[size:]
	case CapitalizeAll:
		return strings.ToUpper(word)
	default:
		return word
	}
}
