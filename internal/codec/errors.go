package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnresolved is returned when a document references a bone, slot,
	// skin, constraint, event or attachment that does not exist.
	ErrUnresolved = errors.New("codec: unresolved reference")
	// ErrInvalidSkeleton is returned for truncated or malformed documents.
	ErrInvalidSkeleton = errors.New("codec: invalid skeleton")
	// ErrSkip is returned by an AttachmentLoader to leave an attachment
	// out of its skin. Only region, mesh and bounding box attachments may
	// be skipped.
	ErrSkip = errors.New("codec: skip attachment")
)

// LoadError identifies the entity a decode failed on.
type LoadError struct {
	// Kind is what was being resolved or read, e.g. "bone" or "parent mesh".
	Kind string
	// Name is the entity's name, or its index for binary references.
	Name string
	// Context names the entity that holds the reference.
	Context string
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s %q", e.Kind, e.Name)
	if e.Context != "" {
		msg += " in " + e.Context
	}
	if e.Err != nil {
		return e.Err.Error() + ": " + msg
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

func unresolved(kind, name, context string) *LoadError {
	return &LoadError{Kind: kind, Name: name, Context: context, Err: ErrUnresolved}
}

func invalid(kind, name, context string) *LoadError {
	return &LoadError{Kind: kind, Name: name, Context: context, Err: ErrInvalidSkeleton}
}
