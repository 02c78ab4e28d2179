package domain

import (
	"errors"
	"net/http"

	"Foodgram-Backend/internal/utils/apierr"
)

var (
	MessageSuccessGetTags = "success get tags"
	MessageSuccessGetTag  = "success get tag"
	MessageFailedGetTags  = "failed to get tags"
	MessageFailedGetTag   = "failed to get tag"

	ErrTagNotFound = apierr.New(http.StatusNotFound, "tag_not_found", errors.New("tag not found"))
)

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// TagImport is one row of the tag bulk-load file.
type TagImport struct {
	Name  string `validate:"required,max=200"`
	Slug  string `validate:"required,max=200"`
	Color string `validate:"required,tagcolor"`
}
