package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/otpgate/internal/pkg/strcase"
)

// rePhone accepts an optional leading + followed by 8 to 20 digits.
var rePhone = regexp.MustCompile(`^\+?[0-9]{8,20}$`)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError is a field-to-message map returned when validation fails.
//
// Keys are field names in snake_case to match typical JSON conventions.
type V10ValidationError map[string]string

// Error implements the error interface.
func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations and custom rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerPhone(validate); err != nil {
		return nil, err
	}

	if err := registerMessages(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{
		validate:   validate,
		translator: enTrans,
	}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	errV10 := make(V10ValidationError, len(validateErrs))
	for _, fe := range validateErrs {
		errV10[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}

	return errV10
}

// Var validates a single value. Failures are keyed under "value".
func (v *V10Validator) Var(value any, tag string) error {
	err := v.validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	errV10 := make(V10ValidationError, 1)
	for _, fe := range validateErrs {
		errV10["value"] = fe.Translate(v.translator)
	}

	return errV10
}

func registerPhone(validate *validator.Validate) error {
	return validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		p, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		return rePhone.MatchString(p)
	})
}

// fieldMessages override the library defaults for the rules used by the API.
// {0} is the field label, {1} the rule parameter.
var fieldMessages = map[string]string{
	"required": "The {0} field is required.",
	"max":      "The {0} field may not be greater than {1} characters.",
	"min":      "The {0} field must be at least {1} characters.",
	"oneof":    "The {0} field must be one of {1}.",
	"email":    "The {0} field must be a valid email address.",
	"phone":    "The {0} field must be a valid phone number.",
}

func registerMessages(validate *validator.Validate, enTrans ut.Translator) error {
	for tag, msg := range fieldMessages {
		err := validate.RegisterTranslation(tag, enTrans,
			func(ut ut.Translator) error {
				return ut.Add(tag, msg, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				param := strings.Join(strings.Fields(fe.Param()), ", ")
				t, err := ut.T(fe.Tag(), fieldLabel(fe.Field()), param)
				if err != nil {
					return fe.Error()
				}
				return t
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// fieldLabel turns a Go field name into the words used in messages: DeviceInfo -> "device info".
func fieldLabel(field string) string {
	if field == "" {
		return "value"
	}
	return strcase.ToLowerWords(field)
}
