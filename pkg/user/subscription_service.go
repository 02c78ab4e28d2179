package user

import (
	"context"
	"strconv"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"

	"github.com/google/uuid"
)

type (
	// AuthorRecipes supplies the recipe side of a subscription view.
	AuthorRecipes interface {
		RecipesByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]domain.RecipeShort, error)
		CountRecipesByAuthors(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	}

	SubscriptionService interface {
		GetSubscriptions(ctx context.Context, viewer domain.Viewer, page, recipesLimit int) (domain.Page[domain.Subscription], error)
		Subscription(ctx context.Context, viewer domain.Viewer, authorID uuid.UUID, recipesLimit int) (domain.Subscription, error)
	}

	subscriptionService struct {
		userRepository UserRepository
		recipes        AuthorRecipes
	}
)

func NewSubscriptionService(userRepository UserRepository, recipes AuthorRecipes) SubscriptionService {
	return &subscriptionService{
		userRepository: userRepository,
		recipes:        recipes,
	}
}

// ParseRecipesLimit reads the recipes_limit query value. Zero means no limit.
func ParseRecipesLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, domain.ErrInvalidRecipesLimit
	}
	return limit, nil
}

func (s *subscriptionService) GetSubscriptions(ctx context.Context, viewer domain.Viewer, page, recipesLimit int) (domain.Page[domain.Subscription], error) {
	if !viewer.Authenticated() {
		return domain.Page[domain.Subscription]{}, domain.ErrUnauthenticated
	}
	authors, count, err := s.userRepository.GetSubscriptions(ctx, viewer.UserID, page)
	if err != nil {
		return domain.Page[domain.Subscription]{}, err
	}
	res, err := s.build(ctx, authors, recipesLimit, func(*entities.User) bool { return true })
	if err != nil {
		return domain.Page[domain.Subscription]{}, err
	}
	return domain.NewPage(res, count, page), nil
}

func (s *subscriptionService) Subscription(ctx context.Context, viewer domain.Viewer, authorID uuid.UUID, recipesLimit int) (domain.Subscription, error) {
	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return domain.Subscription{}, err
	}
	subscribed, err := s.userRepository.SubscribedAuthorIDs(ctx, viewer.UserID, []uuid.UUID{authorID})
	if err != nil {
		return domain.Subscription{}, err
	}
	res, err := s.build(ctx, []*entities.User{author}, recipesLimit, func(u *entities.User) bool { return subscribed[u.ID] })
	if err != nil {
		return domain.Subscription{}, err
	}
	return res[0], nil
}

func (s *subscriptionService) build(ctx context.Context, authors []*entities.User, recipesLimit int, subscribed func(*entities.User) bool) ([]domain.Subscription, error) {
	ids := make([]uuid.UUID, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipes.CountRecipesByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Subscription, 0, len(authors))
	for _, a := range authors {
		recipes, err := s.recipes.RecipesByAuthor(ctx, a.ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Subscription{
			UserProfile:  ToUserProfile(a, subscribed(a)),
			Recipes:      recipes,
			RecipesCount: counts[a.ID],
		})
	}
	return out, nil
}
