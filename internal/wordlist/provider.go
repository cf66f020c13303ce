// Package wordlist loads and caches the word corpus used for passphrases.
package wordlist

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/sundayezeilo/passwordgen/internal/errx"
)

// Provider lazily loads the word corpus from its Source on first use and
// serves the cached copy afterwards. The returned slice is shared and must
// not be modified by callers.
type Provider struct {
	source Source
	logger *slog.Logger
	onLoad func(size int)

	mu    sync.Mutex
	words atomic.Pointer[[]string]
}

// ProviderConfig holds dependencies for Provider.
type ProviderConfig struct {
	Source Source
	Logger *slog.Logger
	// OnLoad, if set, is called once with the corpus size after a successful load.
	OnLoad func(size int)
}

// NewProvider creates a Provider. Nothing is read until the first call to Words.
func NewProvider(cfg ProviderConfig) *Provider {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		source: cfg.Source,
		logger: logger,
		onLoad: cfg.OnLoad,
	}
}

// Words returns the corpus, loading it if needed. Concurrent first callers
// block until a single load finishes. A failed load is not cached.
func (p *Provider) Words(ctx context.Context) ([]string, error) {
	const op = "wordlist.Provider.Words"

	if words := p.words.Load(); words != nil {
		return *words, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if words := p.words.Load(); words != nil {
		return *words, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, errx.E(op, errx.Canceled, err)
	}

	words, err := p.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	p.words.Store(&words)
	p.logger.Info("word list loaded",
		"source", p.source.String(),
		"words", len(words),
	)
	if p.onLoad != nil {
		p.onLoad(len(words))
	}

	return words, nil
}
