// Package passwords orchestrates validation and generation and exposes the
// result over HTTP.
package passwords

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sundayezeilo/passwordgen/internal/errx"
	"github.com/sundayezeilo/passwordgen/internal/generator"
	"github.com/sundayezeilo/passwordgen/internal/idgen"
	"github.com/sundayezeilo/passwordgen/internal/metrics"
	"github.com/sundayezeilo/passwordgen/internal/wordlist"
)

// Batch is the outcome of one successful generation request.
type Batch struct {
	ID          uuid.UUID
	Method      generator.Method
	Results     []generator.Result
	GeneratedAt time.Time
}

// Capabilities describes the limits and defaults a client may rely on.
type Capabilities struct {
	Methods                []generator.Method
	MinLength              int
	MaxLength              int
	MaxCount               int
	SymbolSet              string
	ExcludedSimilarDefault string
	Passphrase             PassphraseCapabilities
}

type PassphraseCapabilities struct {
	MinWordCount     int
	MaxWordCount     int
	DefaultSeparator string
}

// Recorder receives one observation per Generate call.
type Recorder interface {
	ObserveGeneration(method, outcome string, results int, elapsed time.Duration)
}

// Service defines the generation operations.
type Service interface {
	Generate(ctx context.Context, req generator.Request) (Batch, error)
	Capabilities() Capabilities
}

type service struct {
	registry *generator.Registry
	settings generator.Settings
	ids      idgen.Generator
	recorder Recorder
	tracer   trace.Tracer
	now      func() time.Time
}

// ServiceConfig holds optional collaborators for the service.
type ServiceConfig struct {
	IDGenerator idgen.Generator // default: UUID v7
	Recorder    Recorder        // default: none
	Tracer      trace.Tracer    // default: global provider
	Clock       func() time.Time
}

// NewService creates a new service instance.
func NewService(registry *generator.Registry, settings generator.Settings, config *ServiceConfig) Service {
	if config == nil {
		config = &ServiceConfig{}
	}

	ids := config.IDGenerator
	if ids == nil {
		ids = idgen.NewV7()
	}

	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer("passwordgen/passwords")
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &service{
		registry: registry,
		settings: settings,
		ids:      ids,
		recorder: config.Recorder,
		tracer:   tracer,
		now:      clock,
	}
}

// Generate validates req, runs the matching generator and stamps the batch.
// Errors carry an errx.Kind: Invalid wraps a *generator.ValidationError,
// Canceled wraps the context error, Misconfigured wraps
// wordlist.ErrResourceMissing or generator.ErrEmptyCorpus.
func (s *service) Generate(ctx context.Context, req generator.Request) (_ Batch, err error) {
	const op = "passwords.service.Generate"

	start := time.Now()
	label := strings.ToLower(string(req.Method))

	// Attributes describe the request shape only; passwords never reach a span.
	ctx, span := s.tracer.Start(ctx, "passwords.generate",
		trace.WithAttributes(
			attribute.String("generation.method", label),
			attribute.Int("generation.count", req.Count),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, errx.KindOf(err).String())
		}
		span.End()
	}()

	if err := generator.Validate(req, s.settings); err != nil {
		if _, ok := generator.ParseMethod(label); !ok {
			label = ""
		}
		s.observe(label, metrics.OutcomeInvalid, 0, start)
		return Batch{}, errx.E(op, errx.Invalid, err)
	}

	method, _ := generator.ParseMethod(label)
	req.Method = method

	gen, ok := s.registry.Get(method)
	if !ok {
		s.observe(label, metrics.OutcomeInvalid, 0, start)
		return Batch{}, errx.E(op, errx.Invalid, &generator.ValidationError{
			Code:    generator.CodeUnknownMethod,
			Message: "method must be policy|uniform|passphrase",
		})
	}

	results, err := gen.Generate(ctx, req)
	if err != nil {
		kind, wrapped := classify(err)
		s.observe(label, outcomeOf(kind), 0, start)
		return Batch{}, errx.E(op, kind, wrapped)
	}

	id, err := s.ids.Generate()
	if err != nil {
		s.observe(label, metrics.OutcomeError, 0, start)
		return Batch{}, errx.E(op, errx.Internal, err)
	}

	s.observe(label, metrics.OutcomeSuccess, len(results), start)
	span.SetAttributes(attribute.String("batch.id", id.String()))
	return Batch{
		ID:          id,
		Method:      method,
		Results:     results,
		GeneratedAt: s.now().UTC(),
	}, nil
}

func (s *service) Capabilities() Capabilities {
	return Capabilities{
		Methods:                s.registry.Methods(),
		MinLength:              s.settings.MinLength,
		MaxLength:              s.settings.MaxLength,
		MaxCount:               s.settings.MaxCount,
		SymbolSet:              s.settings.SymbolSet,
		ExcludedSimilarDefault: s.settings.SimilarCharacters,
		Passphrase: PassphraseCapabilities{
			MinWordCount:     s.settings.Passphrase.MinWordCount,
			MaxWordCount:     s.settings.Passphrase.MaxWordCount,
			DefaultSeparator: s.settings.Passphrase.DefaultSeparator,
		},
	}
}

func (s *service) observe(method, outcome string, results int, start time.Time) {
	if s.recorder == nil {
		return
	}
	s.recorder.ObserveGeneration(method, outcome, results, time.Since(start))
}

// classify picks the kind for a generator failure. An exclusion that empties
// the pool is the caller's to fix.
func classify(err error) (errx.Kind, error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errx.Canceled, err
	case errors.Is(err, generator.ErrEmptyPool):
		return errx.Invalid, &generator.ValidationError{
			Code:    generator.CodeValidation,
			Message: "No characters remain after applying exclusions",
			Details: []string{"every enabled category is empty after excludeSimilar/excludeAmbiguous filtering"},
		}
	case errors.Is(err, wordlist.ErrResourceMissing), errors.Is(err, generator.ErrEmptyCorpus):
		return errx.Misconfigured, err
	}

	if kind := errx.KindOf(err); kind != errx.Unknown {
		return kind, err
	}
	return errx.Internal, err
}

func outcomeOf(kind errx.Kind) string {
	switch kind {
	case errx.Invalid:
		return metrics.OutcomeInvalid
	case errx.Canceled:
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}
