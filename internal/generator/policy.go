package generator

import (
	"context"

	"github.com/sundayezeilo/passwordgen/internal/charset"
	"github.com/sundayezeilo/passwordgen/securerand"
)

// Policy draws one character from each required category, fills the rest
// from the whole pool and shuffles the result.
//
// Reported entropy is the pool-based estimate for length uniform draws and
// is not reduced for the guaranteed placements.
type Policy struct {
	settings Settings
	rnd      securerand.Source
}

// NewPolicy creates a policy generator.
func NewPolicy(settings Settings, rnd securerand.Source) *Policy {
	return &Policy{settings: settings, rnd: rnd}
}

func (g *Policy) Method() Method { return MethodPolicy }

func (g *Policy) Generate(ctx context.Context, req Request) ([]Result, error) {
	opts := req.CharsetOptions()
	pool := charset.Build(opts, g.settings.CharSets())
	if len(pool.Chars) == 0 {
		return nil, ErrEmptyPool
	}

	// Empty categories are never indexed.
	guaranteed := pool.NonEmpty()
	required := min(max(req.RequiredSets, 0), len(guaranteed), req.Length)
	entropy := charset.Round1(charset.Entropy(len(pool.Chars), req.Length))

	results := make([]Result, 0, req.Count)
	for range req.Count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		buf := make([]rune, req.Length)
		for i := range required {
			chars := guaranteed[i].Chars
			buf[i] = chars[g.rnd.Intn(len(chars))]
		}
		for i := required; i < len(buf); i++ {
			buf[i] = pool.Chars[g.rnd.Intn(len(pool.Chars))]
		}
		securerand.ShuffleRunes(g.rnd, buf)

		results = append(results, measure(string(buf), entropy, req, opts, g.settings.SymbolSet))
	}
	return results, nil
}

// measure derives composition and policy satisfaction from the actual output.
func measure(password string, entropy float64, req Request, opts charset.Options, symbolSet string) Result {
	comp := charset.Analyze(password, symbolSet)
	return Result{
		Password:        password,
		EntropyBits:     entropy,
		PolicySatisfied: charset.SatisfiedSets(comp, opts) >= req.RequiredSets,
		Composition:     comp,
	}
}
