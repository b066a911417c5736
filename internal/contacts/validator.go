package contacts

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"gitlab.com/dirk.krummacker/mycontacts/internal/apperror"
	"gitlab.com/dirk.krummacker/mycontacts/internal/config"
	"gitlab.com/dirk.krummacker/mycontacts/internal/validation"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()./-]{2,24}$`)

// The max limits of both policies never exceed the column sizes in scripts/database.sql
// (name 255, email 254 as the longest valid address, phone 64).

// strictContact is checked under the strict policy.
type strictContact struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required,max=254,email"`
	Phone string `json:"phone" validate:"required,max=64,phone"`
}

// lenientContact is checked under the lenient policy.
type lenientContact struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"required,max=254,loose_email"`
	Phone string `json:"phone" validate:"required,max=64,has_digit"`
}

// Validator checks contact fields under one validation policy.
type Validator struct {
	policy   string
	validate *validator.Validate
}

// NewValidator creates a validator for the given policy, config.PolicyStrict or
// config.PolicyLenient.
func NewValidator(policy string) (*Validator, error) {
	if policy != config.PolicyStrict && policy != config.PolicyLenient {
		return nil, fmt.Errorf("unknown validation policy %q", policy)
	}
	v := validation.New()
	if err := v.RegisterValidation("phone", validPhone); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("loose_email", looseEmail); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("has_digit", hasDigit); err != nil {
		return nil, err
	}
	return &Validator{policy: policy, validate: v}, nil
}

// Policy returns the name of the active policy.
func (v *Validator) Policy() string {
	return v.policy
}

// Check validates the complete set of contact fields. Values must already be trimmed.
func (v *Validator) Check(name, email, phone string) error {
	var err error
	if v.policy == config.PolicyLenient {
		err = v.validate.Struct(lenientContact{Name: name, Email: email, Phone: phone})
	} else {
		err = v.validate.Struct(strictContact{Name: name, Email: email, Phone: phone})
	}
	if err == nil {
		return nil
	}
	fields := validation.Fields(err)
	if fields == nil {
		return apperror.Internal(err)
	}
	return apperror.Validation(validation.Summary(fields, "name", "email", "phone"), fields)
}

func validPhone(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return phonePattern.MatchString(s) && countDigits(s) >= 3
}

func looseEmail(fl validator.FieldLevel) bool {
	local, domain, found := strings.Cut(fl.Field().String(), "@")
	return found && local != "" && domain != "" && !strings.Contains(domain, "@")
}

func hasDigit(fl validator.FieldLevel) bool {
	return countDigits(fl.Field().String()) > 0
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
