package generator

import (
	"context"

	"github.com/sundayezeilo/passwordgen/internal/charset"
	"github.com/sundayezeilo/passwordgen/securerand"
)

// Uniform draws every character independently from the pool with no
// category guarantees.
type Uniform struct {
	settings Settings
	rnd      securerand.Source
}

// NewUniform creates a uniform generator.
func NewUniform(settings Settings, rnd securerand.Source) *Uniform {
	return &Uniform{settings: settings, rnd: rnd}
}

func (g *Uniform) Method() Method { return MethodUniform }

func (g *Uniform) Generate(ctx context.Context, req Request) ([]Result, error) {
	opts := req.CharsetOptions()
	pool := charset.Build(opts, g.settings.CharSets())
	if len(pool.Chars) == 0 {
		return nil, ErrEmptyPool
	}
	entropy := charset.Round1(charset.Entropy(len(pool.Chars), req.Length))

	results := make([]Result, 0, req.Count)
	for range req.Count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		buf := make([]rune, req.Length)
		for i := range buf {
			buf[i] = pool.Chars[g.rnd.Intn(len(pool.Chars))]
		}

		results = append(results, measure(string(buf), entropy, req, opts, g.settings.SymbolSet))
	}
	return results, nil
}
