package tag

import (
	"context"
	"errors"
	"fmt"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/cache"
	"Foodgram-Backend/internal/utils/logger"

	"github.com/google/uuid"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.Tag, error)
		GetTag(ctx context.Context, id string) (domain.Tag, error)
		ImportTags(ctx context.Context, rows []domain.TagImport) (int, error)
	}

	tagService struct {
		tagRepository TagRepository
		cache         cache.Cache
		log           *logger.Logger
	}
)

const tagsCacheKey = "tags"

func NewTagService(tagRepository TagRepository, catalog cache.Cache, log *logger.Logger) TagService {
	return &tagService{
		tagRepository: tagRepository,
		cache:         catalog,
		log:           log.With("service", "tag"),
	}
}

func ToTag(t *entities.Tag) domain.Tag {
	return domain.Tag{
		ID:    t.ID.String(),
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.Tag, error) {
	var cached []domain.Tag
	if err := s.cache.Get(ctx, tagsCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("cache read failed", "key", tagsCacheKey, "error", err)
	}

	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		res = append(res, ToTag(t))
	}

	if err := s.cache.Set(ctx, tagsCacheKey, res); err != nil {
		s.log.Warn("cache write failed", "key", tagsCacheKey, "error", err)
	}
	return res, nil
}

func (s *tagService) GetTag(ctx context.Context, id string) (domain.Tag, error) {
	tagID, err := uuid.Parse(id)
	if err != nil {
		return domain.Tag{}, domain.ErrTagNotFound
	}
	tag, err := s.tagRepository.GetTagByID(ctx, tagID)
	if err != nil {
		return domain.Tag{}, err
	}
	return ToTag(tag), nil
}

// ImportTags inserts every row as is and drops the cached listing, also
// when a row fails part way.
func (s *tagService) ImportTags(ctx context.Context, rows []domain.TagImport) (int, error) {
	// rows written before a failure stay, so the listing is dropped either way
	defer func() {
		if err := s.cache.Delete(ctx, tagsCacheKey); err != nil {
			s.log.Warn("cache invalidation failed", "key", tagsCacheKey, "error", err)
		}
	}()

	count := 0
	for i, row := range rows {
		tag := &entities.Tag{Name: row.Name, Slug: row.Slug, Color: row.Color}
		if err := s.tagRepository.CreateTag(ctx, tag); err != nil {
			return count, fmt.Errorf("tag row %d (%s): %w", i+1, row.Slug, err)
		}
		count++
	}
	return count, nil
}
