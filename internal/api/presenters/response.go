package presenters

import (
	"errors"
	"fmt"
	"strings"

	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/utils/apierr"
	"Foodgram-Backend/internal/utils/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

var log = logger.Nop()

// SetLogger sets the logger used to report server errors.
func SetLogger(l *logger.Logger) {
	if l != nil {
		log = l
	}
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	if statusCode == fiber.StatusNoContent {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse renders err. The status carried by an apierr wins over
// statusCode; validation failures are listed per field.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	statusCode = apierr.Status(err, statusCode)

	res := Response{
		Status:  false,
		Message: message,
	}

	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		statusCode = fiber.StatusBadRequest
		res.Message = domain.MessageFailedValidation
		res.Error = message
		res.Errors = FieldErrors(verrs)
	case statusCode >= fiber.StatusInternalServerError:
		log.Error(message,
			"error", err,
			"method", c.Method(),
			"path", c.Path(),
		)
		res.Error = domain.MessageInternalError
	case err != nil:
		res.Error = err.Error()
	}

	return c.Status(statusCode).JSON(res)
}

func FieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe)] = fieldMessage(fe)
	}
	return out
}

// fieldPath drops the struct name from the namespace, leaving
// "ingredients[0].amount".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("must contain at least %s item(s) or characters", fe.Param())
	case "max":
		return fmt.Sprintf("must contain at most %s item(s) or characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	case "tagcolor":
		return "must be a hex colour such as #E26C2D"
	case "username":
		return "may contain only letters, digits and @/./+/-/_"
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}
