package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/cache"
	"Foodgram-Backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, token string) error
		Me(ctx context.Context, viewer domain.Viewer) (domain.UserProfile, error)
		GetUser(ctx context.Context, viewer domain.Viewer, id string) (domain.UserProfile, error)
		GetUsers(ctx context.Context, viewer domain.Viewer, page int) (domain.Page[domain.UserProfile], error)
		SetPassword(ctx context.Context, viewer domain.Viewer, req domain.SetPasswordRequest) error

		// GetUserEntity loads a user by id, mapping bad ids to not found.
		GetUserEntity(ctx context.Context, id string) (*entities.User, error)
		// Profiles renders users as seen by viewer with one subscription lookup.
		Profiles(ctx context.Context, viewer domain.Viewer, users []*entities.User) ([]domain.UserProfile, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		revoked        cache.Cache
		now            func() time.Time
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, revoked cache.Cache) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		revoked:        revoked,
		now:            time.Now,
	}
}

func ToUserProfile(u *entities.User, subscribed bool) domain.UserProfile {
	return domain.UserProfile{
		Email:        u.Email,
		ID:           u.ID.String(),
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	emailTaken, usernameTaken, err := s.userRepository.CheckEmailOrUsername(ctx, email, req.Username)
	if err != nil {
		return domain.RegisterResponse{}, err
	}
	if emailTaken {
		return domain.RegisterResponse{}, domain.ErrEmailTaken
	}
	if usernameTaken {
		return domain.RegisterResponse{}, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := &entities.User{
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hash),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent registration
			return domain.RegisterResponse{}, domain.ErrUsernameTaken
		}
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		Email:     user.Email,
		ID:        user.ID.String(),
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), domain.RoleUser)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

// Logout revokes token for the rest of its lifetime.
func (s *userService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ParseClaims(token)
	if err != nil {
		return err
	}
	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	return s.revoked.SetTTL(ctx, claims.ID, true, ttl)
}

func (s *userService) Me(ctx context.Context, viewer domain.Viewer) (domain.UserProfile, error) {
	if !viewer.Authenticated() {
		return domain.UserProfile{}, domain.ErrUnauthenticated
	}
	user, err := s.userRepository.GetUserByID(ctx, viewer.UserID)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return ToUserProfile(user, false), nil
}

func (s *userService) GetUserEntity(ctx context.Context, id string) (*entities.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return s.userRepository.GetUserByID(ctx, userID)
}

func (s *userService) GetUser(ctx context.Context, viewer domain.Viewer, id string) (domain.UserProfile, error) {
	user, err := s.GetUserEntity(ctx, id)
	if err != nil {
		return domain.UserProfile{}, err
	}
	profiles, err := s.Profiles(ctx, viewer, []*entities.User{user})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return profiles[0], nil
}

func (s *userService) GetUsers(ctx context.Context, viewer domain.Viewer, page int) (domain.Page[domain.UserProfile], error) {
	users, count, err := s.userRepository.GetUsers(ctx, page)
	if err != nil {
		return domain.Page[domain.UserProfile]{}, err
	}
	profiles, err := s.Profiles(ctx, viewer, users)
	if err != nil {
		return domain.Page[domain.UserProfile]{}, err
	}
	return domain.NewPage(profiles, count, page), nil
}

func (s *userService) SetPassword(ctx context.Context, viewer domain.Viewer, req domain.SetPasswordRequest) error {
	if !viewer.Authenticated() {
		return domain.ErrUnauthenticated
	}
	user, err := s.userRepository.GetUserByID(ctx, viewer.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.userRepository.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *userService) Profiles(ctx context.Context, viewer domain.Viewer, users []*entities.User) ([]domain.UserProfile, error) {
	subscribed := map[uuid.UUID]bool{}
	if viewer.Authenticated() && len(users) > 0 {
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		var err error
		subscribed, err = s.userRepository.SubscribedAuthorIDs(ctx, viewer.UserID, ids)
		if err != nil {
			return nil, err
		}
	}

	out := make([]domain.UserProfile, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserProfile(u, subscribed[u.ID]))
	}
	return out, nil
}
