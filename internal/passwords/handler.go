package passwords

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sundayezeilo/passwordgen/internal/errx"
	"github.com/sundayezeilo/passwordgen/internal/generator"
	"github.com/sundayezeilo/passwordgen/internal/httpx"
)

// Request defaults applied when a field is omitted from the body.
const (
	DefaultMethod       = generator.MethodPolicy
	DefaultLength       = 16
	DefaultCount        = 1
	DefaultRequiredSets = 3
)

// GenerateRequest is the JSON body of a generate call. Pointer fields
// distinguish an omitted field from an explicit zero or false.
type GenerateRequest struct {
	Method           *string            `json:"method"`
	Length           *int               `json:"length"`
	Count            *int               `json:"count"`
	IncludeLower     *bool              `json:"includeLower"`
	IncludeUpper     *bool              `json:"includeUpper"`
	IncludeDigits    *bool              `json:"includeDigits"`
	IncludeSymbols   *bool              `json:"includeSymbols"`
	ExcludeSimilar   *bool              `json:"excludeSimilar"`
	ExcludeAmbiguous *bool              `json:"excludeAmbiguous"`
	RequiredSets     *int               `json:"requiredSets"`
	Passphrase       *PassphraseRequest `json:"passphrase"`
}

type PassphraseRequest struct {
	WordCount      *int    `json:"wordCount"`
	Separator      *string `json:"separator"`
	CapitalizeMode *string `json:"capitalizeMode"`
	AppendNumber   *bool   `json:"appendNumber"`
	AppendSymbol   *bool   `json:"appendSymbol"`
}

type GenerateResponse struct {
	Method         string           `json:"method"`
	ID             string           `json:"id"`
	Results        []ResultResponse `json:"results"`
	GeneratedAtUTC time.Time        `json:"generatedAtUtc"`
}

type ResultResponse struct {
	Password        string              `json:"password"`
	EntropyBits     float64             `json:"entropyBits"`
	PolicySatisfied bool                `json:"policySatisfied"`
	Composition     CompositionResponse `json:"composition"`
}

type CompositionResponse struct {
	Lower   int `json:"lower"`
	Upper   int `json:"upper"`
	Digits  int `json:"digits"`
	Symbols int `json:"symbols"`
}

type CapabilitiesResponse struct {
	Methods                []string                       `json:"methods"`
	Limits                 LimitsResponse                 `json:"limits"`
	SymbolSet              string                         `json:"symbolSet"`
	ExcludedSimilarDefault string                         `json:"excludedSimilarDefault"`
	Passphrase             PassphraseCapabilitiesResponse `json:"passphrase"`
}

type LimitsResponse struct {
	MinLength int `json:"minLength"`
	MaxLength int `json:"maxLength"`
	MaxCount  int `json:"maxCount"`
}

type PassphraseCapabilitiesResponse struct {
	MinWordCount     int    `json:"minWordCount"`
	MaxWordCount     int    `json:"maxWordCount"`
	DefaultSeparator string `json:"defaultSeparator"`
}

// Handler provides HTTP handlers for the generation service.
type Handler struct {
	service  Service
	logger   *slog.Logger
	settings generator.Settings
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Service  Service
	Logger   *slog.Logger
	Settings generator.Settings // supplies the default passphrase separator
}

// NewHandler creates a new Handler instance.
func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		service:  cfg.Service,
		logger:   logger,
		settings: cfg.Settings,
	}
}

// Generate handles POST /api/v1/passwords/generate.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	logger := h.logger.With(
		"request_id", httpx.GetRequestID(ctx),
		"method", r.Method,
		"path", r.URL.Path,
	)

	body, err := httpx.DecodeJSON[GenerateRequest](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request", "error", err.Error())
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeInvalidRequest, err.Error(), nil)
		return
	}

	batch, err := h.service.Generate(ctx, body.toRequest(h.settings))
	if err != nil {
		h.handleGenerateError(ctx, w, logger, err)
		return
	}

	logger.InfoContext(ctx, "passwords generated",
		"batch_id", batch.ID.String(),
		"generation_method", string(batch.Method),
		"count", len(batch.Results),
	)

	httpx.WriteJSON(w, http.StatusOK, newGenerateResponse(batch))
}

// Capabilities handles GET /api/v1/passwords/capabilities.
func (h *Handler) Capabilities(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, newCapabilitiesResponse(h.service.Capabilities()))
}

func (h *Handler) handleGenerateError(ctx context.Context, w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := errx.KindOf(err)

	logAttrs := []any{
		"error", err.Error(),
		"error_kind", kind,
		"operation", errx.OpOf(err),
	}

	switch kind {
	case errx.Invalid:
		logger.WarnContext(ctx, "invalid generation request", logAttrs...)
		var vErr *generator.ValidationError
		if errors.As(err, &vErr) {
			var details any
			if len(vErr.Details) > 0 {
				details = vErr.Details
			}
			httpx.WriteError(w, http.StatusBadRequest, vErr.Code, vErr.Message, details)
			return
		}
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeValidation, err.Error(), nil)

	case errx.Canceled:
		logger.InfoContext(ctx, "generation canceled by client", logAttrs...)
		httpx.WriteStatus(w, httpx.StatusClientClosedRequest)

	case errx.Misconfigured:
		logger.ErrorContext(ctx, "required resource missing", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal,
			"A required resource could not be loaded", nil)

	case errx.Unavailable:
		logger.ErrorContext(ctx, "dependency unavailable", logAttrs...)
		httpx.WriteError(w, http.StatusServiceUnavailable, httpx.CodeUnavailable,
			"A required resource is temporarily unavailable. Please try again.", nil)

	default:
		logger.ErrorContext(ctx, "unexpected error generating passwords", logAttrs...)
		httpx.WriteError(w, http.StatusInternalServerError, httpx.CodeInternal,
			"An unexpected error occurred", nil)
	}
}

// toRequest applies the documented defaults to omitted fields.
func (b GenerateRequest) toRequest(settings generator.Settings) generator.Request {
	req := generator.Request{
		Method:           generator.Method(valueOr(b.Method, string(DefaultMethod))),
		Length:           valueOr(b.Length, DefaultLength),
		Count:            valueOr(b.Count, DefaultCount),
		IncludeLower:     valueOr(b.IncludeLower, true),
		IncludeUpper:     valueOr(b.IncludeUpper, true),
		IncludeDigits:    valueOr(b.IncludeDigits, true),
		IncludeSymbols:   valueOr(b.IncludeSymbols, true),
		ExcludeSimilar:   valueOr(b.ExcludeSimilar, true),
		ExcludeAmbiguous: valueOr(b.ExcludeAmbiguous, false),
		RequiredSets:     valueOr(b.RequiredSets, DefaultRequiredSets),
	}

	if p := b.Passphrase; p != nil {
		defaults := generator.DefaultPassphraseOptions(settings)
		req.Passphrase = &generator.PassphraseOptions{
			WordCount:    valueOr(p.WordCount, defaults.WordCount),
			Separator:    valueOr(p.Separator, defaults.Separator),
			Capitalize:   generator.CapitalizeMode(valueOr(p.CapitalizeMode, string(defaults.Capitalize))),
			AppendNumber: valueOr(p.AppendNumber, defaults.AppendNumber),
			AppendSymbol: valueOr(p.AppendSymbol, defaults.AppendSymbol),
		}
	}

	return req
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func newGenerateResponse(b Batch) GenerateResponse {
	results := make([]ResultResponse, len(b.Results))
	for i, r := range b.Results {
		results[i] = ResultResponse{
			Password:        r.Password,
			EntropyBits:     r.EntropyBits,
			PolicySatisfied: r.PolicySatisfied,
			Composition: CompositionResponse{
				Lower:   r.Composition.Lower,
				Upper:   r.Composition.Upper,
				Digits:  r.Composition.Digits,
				Symbols: r.Composition.Symbols,
			},
		}
	}

	return GenerateResponse{
		Method:         string(b.Method),
		ID:             b.ID.String(),
		Results:        results,
		GeneratedAtUTC: b.GeneratedAt.UTC(),
	}
}

func newCapabilitiesResponse(c Capabilities) CapabilitiesResponse {
	methods := make([]string, len(c.Methods))
	for i, m := range c.Methods {
		methods[i] = string(m)
	}

	return CapabilitiesResponse{
		Methods: methods,
		Limits: LimitsResponse{
			MinLength: c.MinLength,
			MaxLength: c.MaxLength,
			MaxCount:  c.MaxCount,
		},
		SymbolSet:              c.SymbolSet,
		ExcludedSimilarDefault: c.ExcludedSimilarDefault,
		Passphrase: PassphraseCapabilitiesResponse{
			MinWordCount:     c.Passphrase.MinWordCount,
			MaxWordCount:     c.Passphrase.MaxWordCount,
			DefaultSeparator: c.Passphrase.DefaultSeparator,
		},
	}
}
