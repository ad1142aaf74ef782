package serverutils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and maps the first failure to
// a 400 ApiError.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var invalid validator.ValidationErrors
		if ok := errors.As(err, &invalid); ok && len(invalid) > 0 {
			field := invalid[0]
			return NewApiError(fiber.StatusBadRequest,
				fmt.Sprintf("Field '%s' failed validation '%s'", field.Field(), field.Tag()))
		}
		return NewApiError(fiber.StatusBadRequest, "Invalid request payload")
	}
	return nil
}
