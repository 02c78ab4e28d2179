package domain

import (
	"errors"
	"net/http"

	"Foodgram-Backend/internal/utils/apierr"

	"github.com/google/uuid"
)

const (
	RoleUser = "user"

	// PageSize is the fixed number of items on every paginated listing.
	PageSize = 6
)

var (
	MessageFailedBodyRequest  = "failed to parse request body"
	MessageFailedGetToken     = "failed to get token"
	MessageFailedTokenInvalid = "failed to token invalid"
	MessageFailedValidation   = "validation failed"
	MessageInternalError      = "internal server error"

	ErrParseUUID       = apierr.New(http.StatusBadRequest, "invalid_id", errors.New("failed to parse UUID"))
	ErrUnauthenticated = apierr.New(http.StatusUnauthorized, "not_authenticated", errors.New("authentication credentials were not provided"))
	ErrTokenExpired    = apierr.New(http.StatusUnauthorized, "token_expired", errors.New("token expired"))
	ErrTokenInvalid    = apierr.New(http.StatusUnauthorized, "token_invalid", errors.New("token invalid"))
	ErrTokenRevoked    = apierr.New(http.StatusUnauthorized, "token_revoked", errors.New("token revoked"))
)

type (
	// Viewer is the requester on whose behalf a read view is rendered.
	// The zero value is an anonymous visitor.
	Viewer struct {
		UserID uuid.UUID
	}

	Page[T any] struct {
		Count      int64 `json:"count"`
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalPages int64 `json:"total_pages"`
		Results    []T   `json:"results"`
	}
)

func Anonymous() Viewer { return Viewer{} }

func (v Viewer) Authenticated() bool { return v.UserID != uuid.Nil }

func NewPage[T any](results []T, count int64, page int) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{
		Count:      count,
		Page:       page,
		Limit:      PageSize,
		TotalPages: (count + PageSize - 1) / PageSize,
		Results:    results,
	}
}

// Offset converts a 1-based page number into a row offset.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}
