package domain

import (
	"errors"
	"net/http"

	"Foodgram-Backend/internal/utils/apierr"
)

const (
	MinIngredientAmount = 1
	MaxIngredientAmount = 50000
)

var (
	MessageSuccessGetRecipes        = "success get recipes"
	MessageSuccessGetRecipeDetail   = "success get recipe detail"
	MessageSuccessCreateRecipe      = "recipe created successfully"
	MessageSuccessUpdateRecipe      = "recipe updated successfully"
	MessageSuccessDeleteRecipe      = "recipe deleted successfully"
	MessageSuccessAddFavorite       = "recipe added to favorites"
	MessageSuccessRemoveFavorite    = "recipe removed from favorites"
	MessageSuccessAddShoppingCart   = "recipe added to shopping cart"
	MessageSuccessRemoveShopingCart = "recipe removed from shopping cart"

	MessageFailedGetRecipes         = "failed to get recipes"
	MessageFailedGetRecipeDetail    = "failed to get recipe detail"
	MessageFailedCreateRecipe       = "failed to create recipe"
	MessageFailedUpdateRecipe       = "failed to update recipe"
	MessageFailedDeleteRecipe       = "failed to delete recipe"
	MessageFailedAddFavorite        = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite     = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart    = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart = "failed to remove recipe from shopping cart"
	MessageFailedShoppingList       = "failed to build shopping list"

	ErrRecipeNotFound           = apierr.New(http.StatusNotFound, "recipe_not_found", errors.New("recipe not found"))
	ErrUnauthorizedRecipeAccess = apierr.New(http.StatusForbidden, "recipe_forbidden", errors.New("only the author can change this recipe"))
	ErrRecipeNameTaken          = apierr.New(http.StatusBadRequest, "recipe_name_taken", errors.New("a recipe with this name already exists"))
	ErrBlankRecipeName          = apierr.New(http.StatusBadRequest, "blank_recipe_name", errors.New("recipe name must not be blank"))
	ErrNoTags                   = apierr.New(http.StatusBadRequest, "no_tags", errors.New("at least one tag is required"))
	ErrDuplicateTag             = apierr.New(http.StatusBadRequest, "duplicate_tag", errors.New("tag is repeated"))
	ErrUnknownTag               = apierr.New(http.StatusBadRequest, "unknown_tag", errors.New("tag does not exist"))
	ErrNoIngredients            = apierr.New(http.StatusBadRequest, "no_ingredients", errors.New("ingredient list must not be empty"))
	ErrDuplicateIngredient      = apierr.New(http.StatusBadRequest, "duplicate_ingredient", errors.New("ingredient is already listed"))
	ErrUnknownIngredient        = apierr.New(http.StatusBadRequest, "unknown_ingredient", errors.New("ingredient does not exist"))
	ErrInvalidAmount            = apierr.New(http.StatusBadRequest, "invalid_amount", errors.New("ingredient amount must be between 1 and 50000"))
	ErrInvalidCookingTime       = apierr.New(http.StatusBadRequest, "invalid_cooking_time", errors.New("cooking time must be greater than 0"))
	ErrInvalidImage             = apierr.New(http.StatusBadRequest, "invalid_image", errors.New("image must be a base64 encoded picture"))
	ErrAlreadyFavorited         = apierr.New(http.StatusBadRequest, "already_favorited", errors.New("recipe is already in favorites"))
	ErrNotFavorited             = apierr.New(http.StatusBadRequest, "not_favorited", errors.New("recipe is not in favorites"))
	ErrAlreadyInShoppingCart    = apierr.New(http.StatusBadRequest, "already_in_shopping_cart", errors.New("recipe is already in the shopping cart"))
	ErrNotInShoppingCart        = apierr.New(http.StatusBadRequest, "not_in_shopping_cart", errors.New("recipe is not in the shopping cart"))
)

type (
	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,gte=1,lte=50000"`
	}

	CreateRecipeRequest struct {
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Image       string                    `json:"image" validate:"required"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,gte=1"`
	}

	// UpdateRecipeRequest replaces tags and ingredients wholesale; scalar
	// fields left out keep their stored value.
	UpdateRecipeRequest struct {
		Tags        []string                  `json:"tags" validate:"required,min=1,dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Name        *string                   `json:"name" validate:"omitempty,min=1,max=200"`
		Image       *string                   `json:"image" validate:"omitempty,min=1"`
		Text        *string                   `json:"text" validate:"omitempty,min=1"`
		CookingTime *int                      `json:"cooking_time" validate:"omitempty,gte=1"`
	}

	RecipeFilter struct {
		Page             int
		Tags             []string
		AuthorID         string
		IsFavorited      bool
		IsInShoppingCart bool
	}

	RecipeIngredient struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	Recipe struct {
		ID               string             `json:"id"`
		Tags             []Tag              `json:"tags"`
		Author           UserProfile        `json:"author"`
		Ingredients      []RecipeIngredient `json:"ingredients"`
		IsFavorited      bool               `json:"is_favorited"`
		IsInShoppingCart bool               `json:"is_in_shopping_cart"`
		Name             string             `json:"name"`
		Image            string             `json:"image"`
		Text             string             `json:"text"`
		CookingTime      int                `json:"cooking_time"`
	}

	RecipeShort struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	ShoppingListItem struct {
		Name            string
		MeasurementUnit string
		Amount          int64
	}

	ShoppingListFile struct {
		Filename string
		Content  string
	}
)
