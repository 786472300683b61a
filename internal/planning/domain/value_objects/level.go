package value_objects

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Level is an urgency or importance rating on a 1 to 5 scale.
type Level int

const (
	MinLevel Level = 1
	MaxLevel Level = 5

	// Threshold is the lowest level counted as urgent or important.
	Threshold Level = 3
)

var ErrInvalidLevel = errors.New("level must be between 1 and 5")

// NewLevel validates v.
func NewLevel(v int) (Level, error) {
	l := Level(v)
	if !l.IsValid() {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidLevel, v)
	}
	return l, nil
}

// ParseLevel parses a decimal level such as "4".
func ParseLevel(s string) (Level, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
	return NewLevel(v)
}

func (l Level) IsValid() bool {
	return l >= MinLevel && l <= MaxLevel
}

// IsHigh reports whether l reaches Threshold.
func (l Level) IsHigh() bool {
	return l >= Threshold
}

func (l Level) Int() int {
	return int(l)
}

func (l Level) String() string {
	return strconv.Itoa(int(l))
}
