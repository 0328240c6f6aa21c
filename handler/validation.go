package handler

import (
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// strongPassword requires at least one letter, one digit, and one symbol.
var strongPassword validator.Func = func(fl validator.FieldLevel) bool {
	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasLetter && hasDigit && hasSymbol
}

// RegisterValidations installs custom binding validators on gin's engine.
// Call once before routes are served.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strongpwd", strongPassword)
	}
}
