package ingredient

import (
	"context"
	"errors"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/cache"
	"Foodgram-Backend/internal/utils/logger"

	"github.com/google/uuid"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error)
		GetIngredient(ctx context.Context, id string) (domain.Ingredient, error)
		ImportIngredients(ctx context.Context, rows []domain.IngredientImport) (int, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
		cache                cache.Cache
		log                  *logger.Logger
	}
)

func NewIngredientService(ingredientRepository IngredientRepository, catalog cache.Cache, log *logger.Logger) IngredientService {
	return &ingredientService{
		ingredientRepository: ingredientRepository,
		cache:                catalog,
		log:                  log.With("service", "ingredient"),
	}
}

func ToIngredient(i *entities.Ingredient) domain.Ingredient {
	return domain.Ingredient{
		ID:              i.ID.String(),
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

func listCacheKey(prefix string) string {
	return "ingredients:" + strings.ToLower(prefix)
}

func (s *ingredientService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	namePrefix = strings.TrimSpace(namePrefix)
	key := listCacheKey(namePrefix)

	var cached []domain.Ingredient
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn("cache read failed", "key", key, "error", err)
	}

	ingredients, err := s.ingredientRepository.GetIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Ingredient, 0, len(ingredients))
	for _, i := range ingredients {
		res = append(res, ToIngredient(i))
	}

	if err := s.cache.Set(ctx, key, res); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
	return res, nil
}

func (s *ingredientService) GetIngredient(ctx context.Context, id string) (domain.Ingredient, error) {
	ingredientID, err := uuid.Parse(id)
	if err != nil {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}
	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, ingredientID)
	if err != nil {
		return domain.Ingredient{}, err
	}
	return ToIngredient(ingredient), nil
}

// ImportIngredients inserts every row without de-duplication. Listings are
// cached per search prefix, so the whole catalog scope is cleared.
func (s *ingredientService) ImportIngredients(ctx context.Context, rows []domain.IngredientImport) (int, error) {
	ingredients := make([]*entities.Ingredient, 0, len(rows))
	for _, row := range rows {
		ingredients = append(ingredients, &entities.Ingredient{
			Name:            row.Name,
			MeasurementUnit: row.MeasurementUnit,
		})
	}
	if err := s.ingredientRepository.CreateIngredients(ctx, ingredients); err != nil {
		return 0, err
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.log.Warn("cache invalidation failed", "error", err)
	}
	return len(ingredients), nil
}
