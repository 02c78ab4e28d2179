package relation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// Link is a row joining a subject (the requester) to a target.
	Link interface {
		SubjectColumn() string
		TargetColumn() string
	}

	Repository[L Link] interface {
		Exists(ctx context.Context, subject, target uuid.UUID) (bool, error)
		Create(ctx context.Context, link L) error
		// Delete reports whether a row was removed.
		Delete(ctx context.Context, subject, target uuid.UUID) (bool, error)
	}

	repository[L Link] struct {
		db      *gorm.DB
		newLink func() L
	}
)

// NewRepository builds a repository over the table of L. newLink must return
// a fresh non-nil model.
func NewRepository[L Link](db *gorm.DB, newLink func() L) Repository[L] {
	return &repository[L]{db: db, newLink: newLink}
}

func (r *repository[L]) where(subject, target uuid.UUID) (string, []any) {
	link := r.newLink()
	return link.SubjectColumn() + " = ? AND " + link.TargetColumn() + " = ?", []any{subject, target}
}

func (r *repository[L]) Exists(ctx context.Context, subject, target uuid.UUID) (bool, error) {
	var count int64
	cond, args := r.where(subject, target)
	if err := r.db.WithContext(ctx).Model(r.newLink()).Where(cond, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository[L]) Create(ctx context.Context, link L) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *repository[L]) Delete(ctx context.Context, subject, target uuid.UUID) (bool, error) {
	cond, args := r.where(subject, target)
	res := r.db.WithContext(ctx).Where(cond, args...).Delete(r.newLink())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
