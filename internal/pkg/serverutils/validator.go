package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"amplified-be/internal/apperror"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and folds all failures into a
// single Validation error so the handler can return them in one response.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.Validation(err.Error())
	}

	var parts []string
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return apperror.Validation(strings.Join(parts, "; "))
}
