package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var (
	slugRegex  = regexp.MustCompile(`^[a-z][a-z0-9-]{0,62}$`)
	cpfRegex   = regexp.MustCompile(`^\d{11}$`)
	cnpjRegex  = regexp.MustCompile(`^\d{14}$`)
	cepRegex   = regexp.MustCompile(`^\d{8}$`)
	stateRegex = regexp.MustCompile(`^[A-Z]{2}$`)
)

func init() {
	for tag, re := range map[string]*regexp.Regexp{
		"slug":  slugRegex,
		"cpf":   cpfRegex,
		"cnpj":  cnpjRegex,
		"cep":   cepRegex,
		"state": stateRegex,
	} {
		re := re
		validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
}

// Decode reads a JSON body into v, rejecting unknown fields, and validates
// it.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return Validate(v)
}

// Validate runs the struct validation tags of v.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

func RequireID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required ID")
	}
	return s, nil
}
