package generator

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/sundayezeilo/passwordgen/internal/charset"
	"github.com/sundayezeilo/passwordgen/securerand"
)

func TestUniform_Generate(t *testing.T) {
	gen := NewUniform(DefaultSettings(), securerand.New())

	t.Run("lower only", func(t *testing.T) {
		req := Request{
			Method:       MethodUniform,
			Length:       64,
			Count:        10,
			IncludeLower: true,
			RequiredSets: 1,
		}

		results, err := gen.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(results) != 10 {
			t.Fatalf("len(results) = %d, want 10", len(results))
		}
		for _, r := range results {
			for _, c := range r.Password {
				if c < 'a' || c > 'z' {
					t.Fatalf("password %q has non-lowercase %q", r.Password, c)
				}
			}
			if !r.PolicySatisfied {
				t.Errorf("PolicySatisfied = false for %q", r.Password)
			}
			if r.Composition.Lower != 64 {
				t.Errorf("Composition = %+v", r.Composition)
			}
			if r.EntropyBits != charset.Round1(charset.Entropy(26, 64)) {
				t.Errorf("EntropyBits = %v", r.EntropyBits)
			}
		}
	})

	t.Run("outputs are distinct", func(t *testing.T) {
		req := policyRequest()
		req.Method = MethodUniform
		req.Length = 32
		req.Count = 10

		results, err := gen.Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		seen := make(map[string]struct{}, len(results))
		for _, r := range results {
			if _, dup := seen[r.Password]; dup {
				t.Fatalf("duplicate password %q", r.Password)
			}
			seen[r.Password] = struct{}{}
		}
	})

	t.Run("draws only from the pool", func(t *testing.T) {
		src := &scriptedSource{values: []int{0, 1, 2, 3, 4, 5, 6, 7}}
		req := Request{
			Method:        MethodUniform,
			Length:        8,
			Count:         1,
			IncludeUpper:  true,
			IncludeDigits: true,
		}

		results, err := NewUniform(DefaultSettings(), src).Generate(context.Background(), req)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if got := results[0].Password; got != "ABCDEFGH" {
			t.Errorf("Password = %q, want ABCDEFGH", got)
		}
		if !slices.Equal(src.bounds, []int{36, 36, 36, 36, 36, 36, 36, 36}) {
			t.Errorf("bounds = %v", src.bounds)
		}
	})
}

func TestUniform_EmptyPool(t *testing.T) {
	settings := DefaultSettings()
	settings.SymbolSet = "{}"
	gen := NewUniform(settings, securerand.New())

	req := Request{
		Method:           MethodUniform,
		Length:           8,
		Count:            1,
		IncludeSymbols:   true,
		ExcludeAmbiguous: true,
	}
	if _, err := gen.Generate(context.Background(), req); !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("Generate() error = %v, want ErrEmptyPool", err)
	}
}

func TestUniform_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &cancelingSource{cancel: cancel, inner: securerand.New()}
	req := policyRequest()
	req.Method = MethodUniform
	req.Count = 3

	results, err := NewUniform(DefaultSettings(), src).Generate(ctx, req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Generate() error = %v, want context.Canceled", err)
	}
	if results != nil {
		t.Errorf("results = %v, want nil", results)
	}
}
