package relation

import (
	"context"
	"errors"

	"Foodgram-Backend/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// Options carries per-request rendering parameters.
	Options struct {
		RecipesLimit int
	}

	// Definition describes one toggle resource.
	Definition[L Link, V any] struct {
		New func(subject, target uuid.UUID) L
		// LoadTarget fails with a not found error when target is missing.
		LoadTarget func(ctx context.Context, target uuid.UUID) error
		Render     func(ctx context.Context, viewer domain.Viewer, target uuid.UUID, opts Options) (V, error)
		// Check rejects pairs that may never be linked. Optional.
		Check func(subject, target uuid.UUID) error

		ErrNotFound error
		ErrExists   error
		ErrMissing  error
	}

	Service[L Link, V any] interface {
		Add(ctx context.Context, viewer domain.Viewer, targetID string, opts Options) (V, error)
		Remove(ctx context.Context, viewer domain.Viewer, targetID string) error
	}

	service[L Link, V any] struct {
		repository Repository[L]
		def        Definition[L, V]
	}
)

func NewService[L Link, V any](repository Repository[L], def Definition[L, V]) Service[L, V] {
	return &service[L, V]{repository: repository, def: def}
}

func (s *service[L, V]) target(ctx context.Context, viewer domain.Viewer, targetID string) (uuid.UUID, error) {
	if !viewer.Authenticated() {
		return uuid.Nil, domain.ErrUnauthenticated
	}
	target, err := uuid.Parse(targetID)
	if err != nil {
		return uuid.Nil, s.def.ErrNotFound
	}
	if err := s.def.LoadTarget(ctx, target); err != nil {
		return uuid.Nil, err
	}
	return target, nil
}

func (s *service[L, V]) Add(ctx context.Context, viewer domain.Viewer, targetID string, opts Options) (V, error) {
	var zero V
	target, err := s.target(ctx, viewer, targetID)
	if err != nil {
		return zero, err
	}
	if s.def.Check != nil {
		if err := s.def.Check(viewer.UserID, target); err != nil {
			return zero, err
		}
	}

	exists, err := s.repository.Exists(ctx, viewer.UserID, target)
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, s.def.ErrExists
	}
	if err := s.repository.Create(ctx, s.def.New(viewer.UserID, target)); err != nil {
		// the unique index settles concurrent adds
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return zero, s.def.ErrExists
		}
		return zero, err
	}
	return s.def.Render(ctx, viewer, target, opts)
}

func (s *service[L, V]) Remove(ctx context.Context, viewer domain.Viewer, targetID string) error {
	target, err := s.target(ctx, viewer, targetID)
	if err != nil {
		return err
	}
	removed, err := s.repository.Delete(ctx, viewer.UserID, target)
	if err != nil {
		return err
	}
	if !removed {
		return s.def.ErrMissing
	}
	return nil
}
