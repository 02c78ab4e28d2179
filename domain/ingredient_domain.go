package domain

import (
	"errors"
	"net/http"

	"Foodgram-Backend/internal/utils/apierr"
)

var (
	MessageSuccessGetIngredients = "success get ingredients"
	MessageSuccessGetIngredient  = "success get ingredient"
	MessageFailedGetIngredients  = "failed to get ingredients"
	MessageFailedGetIngredient   = "failed to get ingredient"

	ErrIngredientNotFound = apierr.New(http.StatusNotFound, "ingredient_not_found", errors.New("ingredient not found"))
)

type Ingredient struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type IngredientImport struct {
	Name            string `validate:"required,max=200"`
	MeasurementUnit string `validate:"required,max=200"`
}
