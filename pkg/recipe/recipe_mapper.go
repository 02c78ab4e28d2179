package recipe

import (
	"context"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/tag"

	"github.com/google/uuid"
)

func ToRecipeShort(r *entities.Recipe) domain.RecipeShort {
	return domain.RecipeShort{
		ID:          r.ID.String(),
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTime,
	}
}

// toRecipes renders recipes for viewer. The per-viewer flags cost one query
// per relation for the whole batch and none for an anonymous viewer.
func (s *recipeService) toRecipes(ctx context.Context, viewer domain.Viewer, recipes []*entities.Recipe) ([]domain.Recipe, error) {
	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	if viewer.Authenticated() && len(recipes) > 0 {
		ids := make([]uuid.UUID, 0, len(recipes))
		for _, r := range recipes {
			ids = append(ids, r.ID)
		}
		var err error
		if favorited, err = s.recipeRepository.FavoritedIDs(ctx, viewer.UserID, ids); err != nil {
			return nil, err
		}
		if inCart, err = s.recipeRepository.InShoppingCartIDs(ctx, viewer.UserID, ids); err != nil {
			return nil, err
		}
	}

	// distinct authors keep the subscription lookup to one query
	authorIdx := map[uuid.UUID]int{}
	var authors []*entities.User
	for _, r := range recipes {
		if r.Author == nil {
			continue
		}
		if _, ok := authorIdx[r.AuthorID]; !ok {
			authorIdx[r.AuthorID] = len(authors)
			authors = append(authors, r.Author)
		}
	}
	profiles, err := s.userService.Profiles(ctx, viewer, authors)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		view := domain.Recipe{
			ID:               r.ID.String(),
			Tags:             make([]domain.Tag, 0, len(r.Tags)),
			Ingredients:      make([]domain.RecipeIngredient, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
			Name:             r.Name,
			Image:            r.ImageURL,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		}
		if i, ok := authorIdx[r.AuthorID]; ok {
			view.Author = profiles[i]
		}
		for _, t := range r.Tags {
			view.Tags = append(view.Tags, tag.ToTag(t))
		}
		for _, ri := range r.Ingredients {
			item := domain.RecipeIngredient{ID: ri.IngredientID.String(), Amount: ri.Amount}
			if ri.Ingredient != nil {
				item.Name = ri.Ingredient.Name
				item.MeasurementUnit = ri.Ingredient.MeasurementUnit
			}
			view.Ingredients = append(view.Ingredients, item)
		}
		out = append(out, view)
	}
	return out, nil
}
