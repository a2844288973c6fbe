// Package validation configures go-playground/validator with English messages
// and JSON field names, and converts failures into field level app errors.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

// DateLayout is the accepted calendar date format.
const DateLayout = "2006-01-02"

// GlobalField names errors that do not belong to a single field.
const GlobalField = "global"

var contactNoPattern = regexp.MustCompile(`^09\d{9}$`)

// Validator validates request structs.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator with the custom tags registered.
func New() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	_ = enTranslations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("contactno", func(fl validator.FieldLevel) bool {
		return contactNoPattern.MatchString(fl.Field().String())
	})
	registerTranslation(validate, translator, "contactno", "{0} must be a valid contact number starting with 09 followed by 9 digits")

	_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	registerTranslation(validate, translator, "isodate", "{0} must be a date formatted as YYYY-MM-DD")

	return &Validator{validate: validate, translator: translator}
}

// Engine exposes the underlying validator for callers that need raw access.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Struct validates s and returns an *errors.Error listing every violated field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.WithFields(appErrors.ErrValidation, err, []appErrors.FieldError{{Field: GlobalField, Message: err.Error()}})
	}

	fields := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if field == "" {
			field = GlobalField
		}
		fields = append(fields, appErrors.FieldError{Field: field, Message: fe.Translate(v.translator)})
	}
	return appErrors.WithFields(appErrors.ErrValidation, err, fields)
}

// Invalid builds a validation error for a single field outside struct tags.
func Invalid(field, message string) error {
	return appErrors.WithFields(appErrors.ErrValidation, nil, []appErrors.FieldError{{Field: field, Message: message}})
}

// Malformed reports an undecodable request body.
func Malformed(err error) error {
	return appErrors.WithFields(appErrors.ErrValidation, err, []appErrors.FieldError{{Field: GlobalField, Message: "request body is not valid JSON for this endpoint"}})
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}
