package generator

import (
	"fmt"
	"strings"
)

// Validation error codes.
const (
	CodeUnknownMethod = "UNKNOWN_METHOD"
	CodeValidation    = "VALIDATION_ERROR"
)

// ValidationError reports a request the caller must correct.
type ValidationError struct {
	Code    string
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(e.Details, "; "))
}

func invalid(msg, detail string) error {
	return &ValidationError{Code: CodeValidation, Message: msg, Details: []string{detail}}
}

// Validate checks req against s. The first failing rule wins. It returns nil
// or a *ValidationError.
func Validate(req Request, s Settings) error {
	method, ok := ParseMethod(string(req.Method))
	if !ok {
		return &ValidationError{
			Code:    CodeUnknownMethod,
			Message: "method must be policy|uniform|passphrase",
		}
	}

	if method == MethodPassphrase {
		wordCount := DefaultWordCount
		if req.Passphrase != nil {
			wordCount = req.Passphrase.WordCount
		}
		minWords, maxWords := s.Passphrase.MinWordCount, s.Passphrase.MaxWordCount
		if wordCount < minWords || wordCount > maxWords {
			return invalid(
				fmt.Sprintf("wordCount must be between %d and %d", minWords, maxWords),
				fmt.Sprintf("wordCount=%d, allowed range [%d..%d]", wordCount, minWords, maxWords),
			)
		}
	} else {
		enabled := len(req.CharsetOptions().Enabled())
		if enabled == 0 {
			return invalid(
				"At least one character category must be enabled",
				"At least one of includeLower, includeUpper, includeDigits, includeSymbols must be true",
			)
		}
		if req.RequiredSets > enabled {
			return invalid(
				"requiredSets cannot exceed enabled character sets",
				fmt.Sprintf("requiredSets=%d but enabledSets=%d", req.RequiredSets, enabled),
			)
		}
		if req.Length < s.MinLength || req.Length > s.MaxLength {
			return invalid(
				fmt.Sprintf("length must be between %d and %d", s.MinLength, s.MaxLength),
				fmt.Sprintf("length=%d, allowed range [%d..%d]", req.Length, s.MinLength, s.MaxLength),
			)
		}
		if req.RequiredSets > 1 && req.Length < req.RequiredSets {
			return invalid(
				"length must be >= requiredSets when requiredSets > 1",
				fmt.Sprintf("length=%d is less than requiredSets=%d", req.Length, req.RequiredSets),
			)
		}
	}

	if req.Count < 1 || req.Count > s.MaxCount {
		return invalid(
			fmt.Sprintf("count must be between 1 and %d", s.MaxCount),
			fmt.Sprintf("count=%d, allowed range [1..%d]", req.Count, s.MaxCount),
		)
	}

	return nil
}
