package skeleton

import (
	"errors"
	"fmt"
)

var (
	// ErrNilData is returned when a constructor receives no setup data.
	ErrNilData = errors.New("skeleton: nil setup data")
	// ErrUnresolved is returned when setup data references an entity that
	// does not exist.
	ErrUnresolved = errors.New("skeleton: unresolved reference")
)

func unresolved(kind string, index int, owner string) error {
	return fmt.Errorf("%w: %s index %d in %q", ErrUnresolved, kind, index, owner)
}
