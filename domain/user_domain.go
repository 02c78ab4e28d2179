package domain

import (
	"errors"
	"net/http"

	"Foodgram-Backend/internal/utils/apierr"
)

var (
	MessageSuccessRegister      = "user registered successfully"
	MessageSuccessLogin         = "login successful"
	MessageSuccessLogout        = "logout successful"
	MessageSuccessGetUser       = "success get user"
	MessageSuccessGetUsers      = "success get users"
	MessageSuccessSetPassword   = "password changed successfully"
	MessageSuccessSubscribe     = "subscribed successfully"
	MessageSuccessUnsubscribe   = "unsubscribed successfully"
	MessageSuccessSubscriptions = "success get subscriptions"

	MessageFailedRegister      = "failed to register user"
	MessageFailedLogin         = "failed to login"
	MessageFailedLogout        = "failed to logout"
	MessageFailedGetUser       = "failed to get user"
	MessageFailedGetUsers      = "failed to get users"
	MessageFailedSetPassword   = "failed to change password"
	MessageFailedSubscribe     = "failed to subscribe"
	MessageFailedUnsubscribe   = "failed to unsubscribe"
	MessageFailedSubscriptions = "failed to get subscriptions"

	ErrUserNotFound        = apierr.New(http.StatusNotFound, "user_not_found", errors.New("user not found"))
	ErrEmailTaken          = apierr.New(http.StatusBadRequest, "email_taken", errors.New("a user with this email already exists"))
	ErrUsernameTaken       = apierr.New(http.StatusBadRequest, "username_taken", errors.New("a user with this username already exists"))
	ErrInvalidCredentials  = apierr.New(http.StatusBadRequest, "invalid_credentials", errors.New("unable to log in with provided credentials"))
	ErrWrongPassword       = apierr.New(http.StatusBadRequest, "wrong_password", errors.New("current password is incorrect"))
	ErrAlreadySubscribed   = apierr.New(http.StatusBadRequest, "already_subscribed", errors.New("you are already subscribed to this author"))
	ErrNotSubscribed       = apierr.New(http.StatusBadRequest, "not_subscribed", errors.New("you are not subscribed to this author"))
	ErrSelfSubscription    = apierr.New(http.StatusBadRequest, "self_subscription", errors.New("you cannot subscribe to yourself"))
	ErrInvalidRecipesLimit = apierr.New(http.StatusBadRequest, "invalid_recipes_limit", errors.New("recipes_limit must be a positive integer"))
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150,username"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=128"`
	}

	RegisterResponse struct {
		Email     string `json:"email"`
		ID        string `json:"id"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		AuthToken string `json:"auth_token"`
	}

	SetPasswordRequest struct {
		NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
		CurrentPassword string `json:"current_password" validate:"required"`
	}

	UserProfile struct {
		Email        string `json:"email"`
		ID           string `json:"id"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	// Subscription is an author as seen from the subscriptions listing.
	Subscription struct {
		UserProfile
		Recipes      []RecipeShort `json:"recipes"`
		RecipesCount int64         `json:"recipes_count"`
	}
)
