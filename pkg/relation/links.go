package relation

import (
	"context"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	FavoriteService     = Service[*entities.Favorite, domain.RecipeShort]
	ShoppingCartService = Service[*entities.ShoppingCart, domain.RecipeShort]
	FollowService       = Service[*entities.Follow, domain.Subscription]
)

func recipeTarget(recipes recipe.RecipeService) (func(context.Context, uuid.UUID) error, func(context.Context, domain.Viewer, uuid.UUID, Options) (domain.RecipeShort, error)) {
	load := func(ctx context.Context, id uuid.UUID) error {
		_, err := recipes.GetRecipeShort(ctx, id)
		return err
	}
	render := func(ctx context.Context, _ domain.Viewer, id uuid.UUID, _ Options) (domain.RecipeShort, error) {
		return recipes.GetRecipeShort(ctx, id)
	}
	return load, render
}

func favoriteDefinition(recipes recipe.RecipeService) Definition[*entities.Favorite, domain.RecipeShort] {
	load, render := recipeTarget(recipes)
	return Definition[*entities.Favorite, domain.RecipeShort]{
		New: func(subject, target uuid.UUID) *entities.Favorite {
			return &entities.Favorite{UserID: subject, RecipeID: target}
		},
		LoadTarget:  load,
		Render:      render,
		ErrNotFound: domain.ErrRecipeNotFound,
		ErrExists:   domain.ErrAlreadyFavorited,
		ErrMissing:  domain.ErrNotFavorited,
	}
}

func NewFavoriteService(db *gorm.DB, recipes recipe.RecipeService) FavoriteService {
	return NewService(
		NewRepository(db, func() *entities.Favorite { return &entities.Favorite{} }),
		favoriteDefinition(recipes),
	)
}

func NewShoppingCartService(db *gorm.DB, recipes recipe.RecipeService) ShoppingCartService {
	load, render := recipeTarget(recipes)
	return NewService(
		NewRepository(db, func() *entities.ShoppingCart { return &entities.ShoppingCart{} }),
		Definition[*entities.ShoppingCart, domain.RecipeShort]{
			New: func(subject, target uuid.UUID) *entities.ShoppingCart {
				return &entities.ShoppingCart{UserID: subject, RecipeID: target}
			},
			LoadTarget:  load,
			Render:      render,
			ErrNotFound: domain.ErrRecipeNotFound,
			ErrExists:   domain.ErrAlreadyInShoppingCart,
			ErrMissing:  domain.ErrNotInShoppingCart,
		},
	)
}

func NewFollowService(db *gorm.DB, users user.UserRepository, subscriptions user.SubscriptionService) FollowService {
	return NewService(
		NewRepository(db, func() *entities.Follow { return &entities.Follow{} }),
		Definition[*entities.Follow, domain.Subscription]{
			New: func(subject, target uuid.UUID) *entities.Follow {
				return &entities.Follow{UserID: subject, AuthorID: target}
			},
			LoadTarget: func(ctx context.Context, id uuid.UUID) error {
				_, err := users.GetUserByID(ctx, id)
				return err
			},
			Render: func(ctx context.Context, viewer domain.Viewer, id uuid.UUID, opts Options) (domain.Subscription, error) {
				return subscriptions.Subscription(ctx, viewer, id, opts.RecipesLimit)
			},
			Check: func(subject, target uuid.UUID) error {
				if subject == target {
					return domain.ErrSelfSubscription
				}
				return nil
			},
			ErrNotFound: domain.ErrUserNotFound,
			ErrExists:   domain.ErrAlreadySubscribed,
			ErrMissing:  domain.ErrNotSubscribed,
		},
	)
}
