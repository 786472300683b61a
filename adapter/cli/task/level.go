package task

import (
	"strconv"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/value_objects"
)

// levelFlag is a pflag.Value that accepts only urgency or importance
// levels, so "-u high" or "-u 9" fail while flags are parsed.
type levelFlag struct {
	target *int
}

func (f levelFlag) String() string {
	if f.target == nil {
		return ""
	}
	return strconv.Itoa(*f.target)
}

func (f levelFlag) Set(s string) error {
	level, err := value_objects.ParseLevel(s)
	if err != nil {
		return err
	}
	*f.target = level.Int()
	return nil
}

func (f levelFlag) Type() string { return "level" }
