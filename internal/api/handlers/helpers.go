package handlers

import (
	"strconv"

	"Foodgram-Backend/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// viewer returns the requester set by the auth middlewares, anonymous if none.
func viewer(c *fiber.Ctx) domain.Viewer {
	id, ok := c.Locals("user_id").(string)
	if !ok {
		return domain.Anonymous()
	}
	userID, err := uuid.Parse(id)
	if err != nil {
		return domain.Anonymous()
	}
	return domain.Viewer{UserID: userID}
}

func pageParam(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func flagParam(c *fiber.Ctx, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	default:
		return false
	}
}
