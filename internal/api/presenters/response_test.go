package presenters

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/apierr"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, app *fiber.App, path string) (int, Response) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out Response
	if resp.StatusCode != fiber.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestErrorResponseStatusMapping(t *testing.T) {
	utils.InitValidator()
	app := fiber.New()
	app.Get("/not-found", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipeDetail, domain.ErrRecipeNotFound)
	})
	app.Get("/wrapped", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateRecipe, apierr.Wrap(domain.ErrUnknownTag, "id %s", "x"))
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipes, errors.New("connection refused"))
	})
	app.Get("/validation", func(c *fiber.Ctx) error {
		err := utils.Validate.Struct(domain.CreateRecipeRequest{
			Ingredients: []domain.RecipeIngredientRequest{{ID: "not-a-uuid", Amount: 0}},
		})
		return ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	})
	app.Get("/ok", func(c *fiber.Ctx) error {
		return SuccessResponse(c, fiber.Map{"id": 1}, fiber.StatusCreated, "created")
	})
	app.Get("/empty", func(c *fiber.Ctx) error {
		return SuccessResponse(c, nil, fiber.StatusNoContent, "deleted")
	})

	status, body := decode(t, app, "/not-found")
	require.Equal(t, fiber.StatusNotFound, status)
	require.False(t, body.Status)
	require.Equal(t, "recipe not found", body.Error)

	status, body = decode(t, app, "/wrapped")
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "tag does not exist: id x", body.Error)

	status, body = decode(t, app, "/internal")
	require.Equal(t, fiber.StatusInternalServerError, status)
	require.Equal(t, domain.MessageInternalError, body.Error)

	status, body = decode(t, app, "/validation")
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, domain.MessageFailedValidation, body.Message)
	require.Contains(t, body.Errors, "tags")
	require.Contains(t, body.Errors, "name")
	require.Contains(t, body.Errors, "ingredients[0].id")
	require.Contains(t, body.Errors, "ingredients[0].amount")

	status, body = decode(t, app, "/ok")
	require.Equal(t, fiber.StatusCreated, status)
	require.True(t, body.Status)

	status, _ = decode(t, app, "/empty")
	require.Equal(t, fiber.StatusNoContent, status)
}
