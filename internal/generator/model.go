package generator

import (
	"strings"

	"github.com/sundayezeilo/passwordgen/internal/charset"
)

// Method names a generation strategy.
type Method string

const (
	MethodPolicy     Method = "policy"
	MethodUniform    Method = "uniform"
	MethodPassphrase Method = "passphrase"
)

// Methods returns every supported method in a stable order.
func Methods() []Method {
	return []Method{MethodPolicy, MethodUniform, MethodPassphrase}
}

// ParseMethod matches s case-insensitively against the supported methods.
func ParseMethod(s string) (Method, bool) {
	for _, m := range Methods() {
		if strings.EqualFold(s, string(m)) {
			return m, true
		}
	}
	return "", false
}

// CapitalizeMode controls per-word capitalization of passphrases.
type CapitalizeMode string

const (
	CapitalizeNone  CapitalizeMode = "none"
	CapitalizeFirst CapitalizeMode = "first"
	CapitalizeAll   CapitalizeMode = "all"
)

const DefaultWordCount = 4

// PassphraseOptions tunes passphrase output.
type PassphraseOptions struct {
	WordCount    int
	Separator    string
	Capitalize   CapitalizeMode
	AppendNumber bool
	AppendSymbol bool
}

// DefaultPassphraseOptions returns the options used when a passphrase
// request carries none.
func DefaultPassphraseOptions(s Settings) PassphraseOptions {
	return PassphraseOptions{
		WordCount:    DefaultWordCount,
		Separator:    s.Passphrase.DefaultSeparator,
		Capitalize:   CapitalizeFirst,
		AppendNumber: true,
		AppendSymbol: true,
	}
}

// Request describes one generation batch.
// Method holds the caller's raw value until validated.
type Request struct {
	Method           Method
	Length           int
	Count            int
	IncludeLower     bool
	IncludeUpper     bool
	IncludeDigits    bool
	IncludeSymbols   bool
	ExcludeSimilar   bool
	ExcludeAmbiguous bool
	RequiredSets     int
	Passphrase       *PassphraseOptions
}

// CharsetOptions extracts the category and exclusion flags.
func (r Request) CharsetOptions() charset.Options {
	return charset.Options{
		Lower:            r.IncludeLower,
		Upper:            r.IncludeUpper,
		Digits:           r.IncludeDigits,
		Symbols:          r.IncludeSymbols,
		ExcludeSimilar:   r.ExcludeSimilar,
		ExcludeAmbiguous: r.ExcludeAmbiguous,
	}
}

// Result is one generated secret with its measured properties.
type Result struct {
	Password        string
	EntropyBits     float64
	PolicySatisfied bool
	Composition     charset.Composition
}

// Settings are the operator limits and character sets shared by every
// generator. They are loaded once and never mutated.
type Settings struct {
	SymbolSet           string
	SimilarCharacters   string
	AmbiguousCharacters string
	MinLength           int
	MaxLength           int
	MaxCount            int
	Passphrase          PassphraseSettings
}

type PassphraseSettings struct {
	WordListPath     string
	MinWordCount     int
	MaxWordCount     int
	DefaultSeparator string
}

// DefaultSettings returns the built-in limits and character sets.
func DefaultSettings() Settings {
	return Settings{
		SymbolSet:           "!@#$%^&*()-_=+[]{};:,.<>?",
		SimilarCharacters:   "O0Il1|",
		AmbiguousCharacters: `{}[]()/'"~,;:.<>`,
		MinLength:           8,
		MaxLength:           256,
		MaxCount:            50,
		Passphrase: PassphraseSettings{
			WordListPath:     "assets/wordlist/words.txt",
			MinWordCount:     3,
			MaxWordCount:     8,
			DefaultSeparator: "-",
		},
	}
}

// CharSets returns the character sets in the form charset.Build expects.
func (s Settings) CharSets() charset.Sets {
	return charset.Sets{
		Symbols:   s.SymbolSet,
		Similar:   s.SimilarCharacters,
		Ambiguous: s.AmbiguousCharacters,
	}
}
