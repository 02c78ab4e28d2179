package user

import (
	"context"
	"testing"
	"time"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/cache"
	"Foodgram-Backend/internal/testutil"
	"Foodgram-Backend/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*gorm.DB, UserService, jwt.JWTService, cache.Cache) {
	t.Helper()
	db := testutil.NewDB(t)
	jwtService := jwt.NewJWTServiceWith("secret", time.Hour)
	revoked := cache.NewMemoryCache(0)
	return db, NewUserService(NewUserRepository(db), jwtService, revoked), jwtService, revoked
}

func registerRequest(username string) domain.RegisterRequest {
	return domain.RegisterRequest{
		Email:     username + "@Example.com",
		Username:  username,
		FirstName: "First",
		LastName:  "Last",
		Password:  "correct-horse",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	_, svc, jwtService, _ := newUserService(t)

	res, err := svc.Register(ctx, registerRequest("anna"))
	require.NoError(t, err)
	require.Equal(t, "anna@example.com", res.Email)
	require.NotEmpty(t, res.ID)

	_, err = svc.Register(ctx, registerRequest("anna"))
	require.ErrorIs(t, err, domain.ErrEmailTaken)

	other := registerRequest("anna")
	other.Email = "someone@example.com"
	_, err = svc.Register(ctx, other)
	require.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "anna@example.com", Password: "wrong"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	login, err := svc.Login(ctx, domain.LoginRequest{Email: "ANNA@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	claims, err := jwtService.ParseClaims(login.AuthToken)
	require.NoError(t, err)
	require.Equal(t, res.ID, claims.UserID)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	db, svc, jwtService, revoked := newUserService(t)
	u := testutil.CreateUser(t, db, "max")

	login, err := svc.Login(ctx, domain.LoginRequest{Email: u.Email, Password: testutil.Password})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, login.AuthToken))

	claims, err := jwtService.ParseClaims(login.AuthToken)
	require.NoError(t, err)
	ok, err := revoked.Exists(ctx, claims.ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, svc.Logout(ctx, "garbage"), domain.ErrTokenInvalid)
}

func TestSetPassword(t *testing.T) {
	ctx := context.Background()
	db, svc, _, _ := newUserService(t)
	u := testutil.CreateUser(t, db, "lena")
	viewer := domain.Viewer{UserID: u.ID}

	err := svc.SetPassword(ctx, viewer, domain.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new-pass"})
	require.ErrorIs(t, err, domain.ErrWrongPassword)

	require.NoError(t, svc.SetPassword(ctx, viewer, domain.SetPasswordRequest{CurrentPassword: testutil.Password, NewPassword: "brand-new-pass"}))

	_, err = svc.Login(ctx, domain.LoginRequest{Email: u.Email, Password: testutil.Password})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Login(ctx, domain.LoginRequest{Email: u.Email, Password: "brand-new-pass"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.SetPassword(ctx, domain.Anonymous(), domain.SetPasswordRequest{}), domain.ErrUnauthenticated)
}

func TestProfilesIsSubscribed(t *testing.T) {
	ctx := context.Background()
	db, svc, _, _ := newUserService(t)
	reader := testutil.CreateUser(t, db, "reader")
	followed := testutil.CreateUser(t, db, "writer")
	testutil.CreateUser(t, db, "stranger")
	require.NoError(t, db.Create(&entities.Follow{UserID: reader.ID, AuthorID: followed.ID}).Error)

	profile, err := svc.GetUser(ctx, domain.Viewer{UserID: reader.ID}, followed.ID.String())
	require.NoError(t, err)
	require.True(t, profile.IsSubscribed)

	profile, err = svc.GetUser(ctx, domain.Anonymous(), followed.ID.String())
	require.NoError(t, err)
	require.False(t, profile.IsSubscribed)

	page, err := svc.GetUsers(ctx, domain.Viewer{UserID: reader.ID}, 1)
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Count)
	subscribed := map[string]bool{}
	for _, p := range page.Results {
		subscribed[p.Username] = p.IsSubscribed
	}
	require.Equal(t, map[string]bool{"reader": false, "writer": true, "stranger": false}, subscribed)

	_, err = svc.GetUser(ctx, domain.Anonymous(), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	me, err := svc.Me(ctx, domain.Viewer{UserID: reader.ID})
	require.NoError(t, err)
	require.Equal(t, "reader", me.Username)
}

func TestGetUsersPagination(t *testing.T) {
	ctx := context.Background()
	db, svc, _, _ := newUserService(t)
	for _, name := range []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7"} {
		testutil.CreateUser(t, db, name)
	}

	first, err := svc.GetUsers(ctx, domain.Anonymous(), 1)
	require.NoError(t, err)
	require.Len(t, first.Results, domain.PageSize)
	require.EqualValues(t, 2, first.TotalPages)

	second, err := svc.GetUsers(ctx, domain.Anonymous(), 2)
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	require.Equal(t, "u7", second.Results[0].Username)

	empty, err := svc.GetUsers(ctx, domain.Anonymous(), 5)
	require.NoError(t, err)
	require.NotNil(t, empty.Results)
	require.Empty(t, empty.Results)
}

func TestParseRecipesLimit(t *testing.T) {
	for raw, want := range map[string]int{"": 0, "3": 3, " 1 ": 1} {
		got, err := ParseRecipesLimit(raw)
		require.NoError(t, err, raw)
		require.Equal(t, want, got)
	}
	for _, raw := range []string{"0", "-2", "ten", "1.5"} {
		_, err := ParseRecipesLimit(raw)
		require.ErrorIs(t, err, domain.ErrInvalidRecipesLimit, raw)
	}
}
