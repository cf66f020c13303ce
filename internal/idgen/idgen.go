// Package idgen produces batch identifiers. IDs correlate a generation batch
// across logs and responses; they never derive from generated secrets.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator generates unique identifiers.
// Implementations should be safe for concurrent use.
type Generator interface {
	Generate() (uuid.UUID, error)
}

// Func adapts a function to Generator.
type Func func() (uuid.UUID, error)

func (f Func) Generate() (uuid.UUID, error) { return f() }

// Version selects a UUID variant.
type Version uint8

const (
	V4 Version = 4
	V7 Version = 7
)

// ParseVersion accepts "4", "v4", "7" or "v7".
func ParseVersion(s string) (Version, error) {
	switch s {
	case "4", "v4":
		return V4, nil
	case "7", "v7":
		return V7, nil
	default:
		return 0, fmt.Errorf("unsupported uuid version %q (want 4 or 7)", s)
	}
}

// NewV4 returns a Generator that produces random UUID v4 values.
func NewV4() Generator {
	return Func(func() (uuid.UUID, error) {
		return uuid.NewRandom()
	})
}

// NewV7 returns a Generator that produces time-ordered UUID v7 values, so
// batch IDs sort by creation in log stores.
func NewV7() Generator {
	return Func(func() (uuid.UUID, error) {
		id, err := uuid.NewV7()
		if err != nil {
			return uuid.Nil, fmt.Errorf("uuid v7 generation failed: %w", err)
		}
		return id, nil
	})
}

// New returns a Generator for the requested UUID version. Unknown versions
// fall back to v7.
func New(v Version) Generator {
	switch v {
	case V4:
		return NewV4()
	default:
		return NewV7()
	}
}
