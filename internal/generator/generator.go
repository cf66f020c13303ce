// Package generator implements the password and passphrase generation
// strategies and the request rules they rely on.
package generator

import (
	"context"
	"errors"
)

var (
	// ErrEmptyPool is returned when exclusions remove every character of
	// the enabled categories.
	ErrEmptyPool = errors.New("generator: character pool is empty")
	// ErrEmptyCorpus is returned when the word source yields no words. Like a
	// missing word list it is an operator fault.
	ErrEmptyCorpus = errors.New("generator: word corpus is empty")
)

// Generator produces a batch of results for a validated request.
// Implementations check ctx between outputs and return ctx.Err() unwrapped
// when it is done; no partial batch is returned.
type Generator interface {
	Method() Method
	Generate(ctx context.Context, req Request) ([]Result, error)
}

// Registry dispatches methods to their generators.
type Registry struct {
	generators map[Method]Generator
}

// NewRegistry indexes gens by their method. A later generator for the same
// method replaces an earlier one.
func NewRegistry(gens ...Generator) *Registry {
	r := &Registry{generators: make(map[Method]Generator, len(gens))}
	for _, g := range gens {
		r.generators[g.Method()] = g
	}
	return r
}

// Get returns the generator registered for m.
func (r *Registry) Get(m Method) (Generator, bool) {
	g, ok := r.generators[m]
	return g, ok
}

// Methods lists the registered methods in canonical order.
func (r *Registry) Methods() []Method {
	out := make([]Method, 0, len(r.generators))
	for _, m := range Methods() {
		if _, ok := r.generators[m]; ok {
			out = append(out, m)
		}
	}
	return out
}
