package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("skeleton not found")
	ErrDuplicate = errors.New("skeleton already exists")
)

// Format names the encoding a skeleton was uploaded in.
type Format string

const (
	FormatJSON   Format = "json"
	FormatBinary Format = "binary"
)

// Summary describes a stored skeleton without its payload.
type Summary struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Format    Format    `json:"format" db:"format"`
	Version   string    `json:"version" db:"version"`
	Hash      string    `json:"hash" db:"hash"`
	Size      int       `json:"size" db:"size"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Skeleton is a stored skeleton document as it was uploaded.
type Skeleton struct {
	Summary
	Data []byte `json:"-"`
}

// Store persists uploaded skeleton documents. List returns newest first.
type Store interface {
	Create(ctx context.Context, s *Skeleton) error
	Get(ctx context.Context, id string) (*Skeleton, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, id string) error
}
