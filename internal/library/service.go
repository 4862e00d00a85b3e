package library

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/inamate/rig/internal/codec"
	"github.com/inamate/rig/internal/engine"
	"github.com/inamate/rig/internal/skeleton"
	"github.com/inamate/rig/internal/store"
	"github.com/inamate/rig/internal/typeid"
)

var (
	ErrNotFound        = errors.New("skeleton not found")
	ErrInvalidSkeleton = errors.New("invalid skeleton")
	ErrInvalidPose     = errors.New("invalid pose")
)

// Service stores skeleton documents and poses them. Decoded setup data is
// cached per id and shared by every caller.
type Service struct {
	store store.Store
	scale float64

	mu    sync.Mutex
	cache map[string]*skeleton.SkeletonData
}

// NewService decodes every skeleton at scale. Zero means 1.
func NewService(st store.Store, scale float64) *Service {
	return &Service{
		store: st,
		scale: scale,
		cache: make(map[string]*skeleton.SkeletonData),
	}
}

// Detail is a stored skeleton's summary plus what it contains.
type Detail struct {
	store.Summary
	Info engine.SkeletonInfo `json:"info"`
}

func (s *Service) decode(data []byte) (*skeleton.SkeletonData, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidSkeleton)
	}
	d := codec.NewDecoder(nil)
	d.Scale = s.scale
	sd, err := d.Read(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSkeleton, err)
	}
	return sd, nil
}

func (s *Service) Create(ctx context.Context, name string, data []byte) (*store.Summary, error) {
	sd, err := s.decode(data)
	if err != nil {
		return nil, err
	}

	format := store.FormatBinary
	if codec.IsJSON(data) {
		format = store.FormatJSON
	}
	if name == "" {
		name = sd.Name
	}
	if name == "" {
		name = "untitled"
	}
	sum := sha256.Sum256(data)

	rec := &store.Skeleton{
		Summary: store.Summary{
			ID:        typeid.NewSkeletonID(),
			Name:      name,
			Format:    format,
			Version:   sd.Version,
			Hash:      hex.EncodeToString(sum[:]),
			Size:      len(data),
			CreatedAt: time.Now().UTC(),
		},
		Data: data,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create skeleton: %w", err)
	}

	s.mu.Lock()
	s.cache[rec.ID] = sd
	s.mu.Unlock()

	slog.Info("skeleton stored", "id", rec.ID, "format", format, "size", rec.Size)
	return &rec.Summary, nil
}

func (s *Service) List(ctx context.Context) ([]store.Summary, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skeletons: %w", err)
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	rec, err := s.Raw(ctx, id)
	if err != nil {
		return nil, err
	}
	sd, err := s.SkeletonData(ctx, id)
	if err != nil {
		return nil, err
	}

	e := engine.NewEngine(nil)
	if err := e.LoadSkeletonData(sd); err != nil {
		return nil, fmt.Errorf("load skeleton: %w", err)
	}
	return &Detail{Summary: rec.Summary, Info: e.Info()}, nil
}

// Raw returns the skeleton document as it was uploaded.
func (s *Service) Raw(ctx context.Context, id string) (*store.Skeleton, error) {
	if err := typeid.Validate(id, typeid.PrefixSkeleton); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get skeleton: %w", err)
	}
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete skeleton: %w", err)
	}

	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()
	return nil
}

// SkeletonData returns the decoded setup data for id, decoding it on first
// use.
func (s *Service) SkeletonData(ctx context.Context, id string) (*skeleton.SkeletonData, error) {
	s.mu.Lock()
	sd, ok := s.cache[id]
	s.mu.Unlock()
	if ok {
		return sd, nil
	}

	rec, err := s.Raw(ctx, id)
	if err != nil {
		return nil, err
	}
	sd, err = s.decode(rec.Data)
	if err != nil {
		return nil, fmt.Errorf("stored skeleton %s: %w", id, err)
	}

	s.mu.Lock()
	if cached, ok := s.cache[id]; ok {
		sd = cached
	} else {
		s.cache[id] = sd
	}
	s.mu.Unlock()
	return sd, nil
}

// Pose applies p to a fresh instance of the skeleton in its setup pose.
func (s *Service) Pose(ctx context.Context, id string, p engine.Pose) (*engine.Frame, error) {
	sd, err := s.SkeletonData(ctx, id)
	if err != nil {
		return nil, err
	}

	e := engine.NewEngine(nil)
	if err := e.LoadSkeletonData(sd); err != nil {
		return nil, fmt.Errorf("load skeleton: %w", err)
	}
	if err := e.ApplyPose(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPose, err)
	}
	frame := e.Frame()
	return &frame, nil
}
