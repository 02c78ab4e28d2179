package recipe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/apierr"
	"Foodgram-Backend/internal/utils/logger"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/user"

	"github.com/google/uuid"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, viewer domain.Viewer, req domain.CreateRecipeRequest) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, viewer domain.Viewer, id string, req domain.UpdateRecipeRequest) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, viewer domain.Viewer, id string) error
		GetRecipe(ctx context.Context, viewer domain.Viewer, id string) (domain.Recipe, error)
		GetRecipes(ctx context.Context, viewer domain.Viewer, filter domain.RecipeFilter) (domain.Page[domain.Recipe], error)
		GetRecipeShort(ctx context.Context, id uuid.UUID) (domain.RecipeShort, error)
		ShoppingList(ctx context.Context, viewer domain.Viewer) (domain.ShoppingListFile, error)

		RecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]domain.RecipeShort, error)
		CountRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		userService      user.UserService
		storage          storage.ImageStorage
		log              *logger.Logger
		now              func() time.Time
	}
)

const imageFolder = "recipes"

func NewRecipeService(recipeRepository RecipeRepository, userService user.UserService, imageStorage storage.ImageStorage, log *logger.Logger) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		userService:      userService,
		storage:          imageStorage,
		log:              log.With("service", "recipe"),
		now:              time.Now,
	}
}

func parseRecipeID(id string) (uuid.UUID, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.ErrRecipeNotFound
	}
	return recipeID, nil
}

// validateComposition checks tags and ingredients of a payload against the
// catalog and returns the parsed rows ready for insertion.
func (s *recipeService) validateComposition(ctx context.Context, tags []string, ingredients []domain.RecipeIngredientRequest) ([]uuid.UUID, []*entities.RecipeIngredient, error) {
	if len(tags) == 0 {
		return nil, nil, domain.ErrNoTags
	}
	tagIDs := make([]uuid.UUID, 0, len(tags))
	seenTags := make(map[uuid.UUID]bool, len(tags))
	for _, raw := range tags {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, apierr.Wrap(domain.ErrUnknownTag, "%s", raw)
		}
		if seenTags[id] {
			return nil, nil, apierr.Wrap(domain.ErrDuplicateTag, "%s", raw)
		}
		seenTags[id] = true
		tagIDs = append(tagIDs, id)
	}
	found, err := s.recipeRepository.CountTags(ctx, tagIDs)
	if err != nil {
		return nil, nil, err
	}
	if found != int64(len(tagIDs)) {
		return nil, nil, domain.ErrUnknownTag
	}

	if len(ingredients) == 0 {
		return nil, nil, domain.ErrNoIngredients
	}
	rows := make([]*entities.RecipeIngredient, 0, len(ingredients))
	ingredientIDs := make([]uuid.UUID, 0, len(ingredients))
	seenIngredients := make(map[uuid.UUID]bool, len(ingredients))
	for _, item := range ingredients {
		id, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, nil, apierr.Wrap(domain.ErrUnknownIngredient, "%s", item.ID)
		}
		if seenIngredients[id] {
			return nil, nil, apierr.Wrap(domain.ErrDuplicateIngredient, "%s", item.ID)
		}
		if item.Amount < domain.MinIngredientAmount || item.Amount > domain.MaxIngredientAmount {
			return nil, nil, domain.ErrInvalidAmount
		}
		seenIngredients[id] = true
		ingredientIDs = append(ingredientIDs, id)
		rows = append(rows, &entities.RecipeIngredient{IngredientID: id, Amount: item.Amount})
	}
	found, err = s.recipeRepository.CountIngredients(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, err
	}
	if found != int64(len(ingredientIDs)) {
		return nil, nil, domain.ErrUnknownIngredient
	}
	return tagIDs, rows, nil
}

func (s *recipeService) uploadImage(ctx context.Context, name, image string) (string, error) {
	data, err := storage.DecodeDataURL(image)
	if err != nil {
		return "", apierr.Wrap(domain.ErrInvalidImage, "%v", err)
	}
	key, err := s.storage.UploadFile(ctx, name, data, imageFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileType) || errors.Is(err, storage.ErrEmptyFile) {
			return "", apierr.Wrap(domain.ErrInvalidImage, "%v", err)
		}
		return "", err
	}
	return s.storage.GetPublicLinkKey(key), nil
}

func (s *recipeService) discardImage(ctx context.Context, link string) {
	if link == "" {
		return
	}
	if err := s.storage.DeleteFile(ctx, s.storage.GetObjectKeyFromLink(link)); err != nil {
		s.log.Warn("failed to delete image", "link", link, "error", err)
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, viewer domain.Viewer, req domain.CreateRecipeRequest) (domain.Recipe, error) {
	if !viewer.Authenticated() {
		return domain.Recipe{}, domain.ErrUnauthenticated
	}
	tagIDs, ingredients, err := s.validateComposition(ctx, req.Tags, req.Ingredients)
	if err != nil {
		return domain.Recipe{}, err
	}
	if req.CookingTime < 1 {
		return domain.Recipe{}, domain.ErrInvalidCookingTime
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Recipe{}, domain.ErrBlankRecipeName
	}

	imageURL, err := s.uploadImage(ctx, name, req.Image)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe := &entities.Recipe{
		AuthorID:    viewer.UserID,
		Name:        name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    imageURL,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe, tagIDs, ingredients); err != nil {
		s.discardImage(ctx, imageURL)
		return domain.Recipe{}, err
	}
	return s.GetRecipe(ctx, viewer, recipe.ID.String())
}

func (s *recipeService) authorOnly(ctx context.Context, viewer domain.Viewer, id string) (*entities.Recipe, error) {
	if !viewer.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return nil, err
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != viewer.UserID {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, viewer domain.Viewer, id string, req domain.UpdateRecipeRequest) (domain.Recipe, error) {
	recipe, err := s.authorOnly(ctx, viewer, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	tagIDs, ingredients, err := s.validateComposition(ctx, req.Tags, req.Ingredients)
	if err != nil {
		return domain.Recipe{}, err
	}

	fields := RecipeFields{
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		ImageURL:    recipe.ImageURL,
	}
	if req.Name != nil {
		fields.Name = strings.TrimSpace(*req.Name)
		if fields.Name == "" {
			return domain.Recipe{}, domain.ErrBlankRecipeName
		}
	}
	if req.Text != nil {
		fields.Text = *req.Text
	}
	if req.CookingTime != nil {
		if *req.CookingTime < 1 {
			return domain.Recipe{}, domain.ErrInvalidCookingTime
		}
		fields.CookingTime = *req.CookingTime
	}
	if req.Image != nil {
		fields.ImageURL, err = s.uploadImage(ctx, fields.Name, *req.Image)
		if err != nil {
			return domain.Recipe{}, err
		}
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe.ID, fields, tagIDs, ingredients); err != nil {
		if fields.ImageURL != recipe.ImageURL {
			s.discardImage(ctx, fields.ImageURL)
		}
		return domain.Recipe{}, err
	}
	if fields.ImageURL != recipe.ImageURL {
		s.discardImage(ctx, recipe.ImageURL)
	}
	return s.GetRecipe(ctx, viewer, id)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, viewer domain.Viewer, id string) error {
	recipe, err := s.authorOnly(ctx, viewer, id)
	if err != nil {
		return err
	}
	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		return err
	}
	s.discardImage(ctx, recipe.ImageURL)
	return nil
}

func (s *recipeService) GetRecipe(ctx context.Context, viewer domain.Viewer, id string) (domain.Recipe, error) {
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return domain.Recipe{}, err
	}
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.Recipe{}, err
	}
	views, err := s.toRecipes(ctx, viewer, []*entities.Recipe{recipe})
	if err != nil {
		return domain.Recipe{}, err
	}
	return views[0], nil
}

func (s *recipeService) GetRecipes(ctx context.Context, viewer domain.Viewer, filter domain.RecipeFilter) (domain.Page[domain.Recipe], error) {
	query := RecipeQuery{
		Page:     filter.Page,
		TagSlugs: filter.Tags,
	}
	if filter.AuthorID != "" {
		authorID, err := uuid.Parse(filter.AuthorID)
		if err != nil {
			return domain.Page[domain.Recipe]{}, apierr.Wrap(domain.ErrParseUUID, "author %s", filter.AuthorID)
		}
		query.AuthorID = authorID
	}
	// the relation filters only make sense for a known requester
	if viewer.Authenticated() {
		if filter.IsFavorited {
			query.FavoritedBy = viewer.UserID
		}
		if filter.IsInShoppingCart {
			query.InCartOf = viewer.UserID
		}
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, query)
	if err != nil {
		return domain.Page[domain.Recipe]{}, err
	}
	views, err := s.toRecipes(ctx, viewer, recipes)
	if err != nil {
		return domain.Page[domain.Recipe]{}, err
	}
	return domain.NewPage(views, count, filter.Page), nil
}

func (s *recipeService) GetRecipeShort(ctx context.Context, id uuid.UUID) (domain.RecipeShort, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeShort{}, err
	}
	return ToRecipeShort(recipe), nil
}

func (s *recipeService) ShoppingList(ctx context.Context, viewer domain.Viewer) (domain.ShoppingListFile, error) {
	me, err := s.userService.Me(ctx, viewer)
	if err != nil {
		return domain.ShoppingListFile{}, err
	}
	items, err := s.recipeRepository.ShoppingList(ctx, viewer.UserID)
	if err != nil {
		return domain.ShoppingListFile{}, fmt.Errorf("aggregate shopping list: %w", err)
	}
	return domain.ShoppingListFile{
		Filename: me.Username + "_shopping_list.txt",
		Content:  RenderShoppingList(items, s.now()),
	}, nil
}

func (s *recipeService) RecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]domain.RecipeShort, error) {
	recipes, err := s.recipeRepository.GetRecipesByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecipeShort, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, ToRecipeShort(r))
	}
	return out, nil
}

func (s *recipeService) CountRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return s.recipeRepository.CountRecipesByAuthors(ctx, authorIDs)
}
