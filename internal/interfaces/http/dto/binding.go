package dto

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Norwegian plates: two letters followed by four or five digits. Input is
// normalized before persistence, so the check is case-insensitive.
var regnrPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{4,5}$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("regnr", validRegistrationNumber)
	}
}

func validRegistrationNumber(fl validator.FieldLevel) bool {
	value := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	return regnrPattern.MatchString(value)
}
