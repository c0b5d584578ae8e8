package studylog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator checks caller input for NewEntry. The store itself never validates.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() (*Validator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// The zero civil.Date is invalid; surface it as an empty value so "required" applies.
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		d, ok := v.Interface().(civil.Date)
		if !ok || !d.IsValid() {
			return ""
		}
		return d.String()
	}, civil.Date{})

	return &Validator{validate: validate, translator: trans}, nil
}

// Validate trims text fields and checks ranges. It returns the entry to insert
// or a *ValidationError listing every offending field.
func (v *Validator) Validate(entry NewEntry) (NewEntry, error) {
	entry = entry.normalized()
	if err := v.check(v.validate.Struct(entry)); err != nil {
		return NewEntry{}, err
	}
	return entry, nil
}

// ValidateStored is Validate for entries that already existed, such as imported
// records. A blank topic is allowed there, while ranges are still checked.
func (v *Validator) ValidateStored(entry NewEntry) (NewEntry, error) {
	entry = entry.normalized()
	if err := v.check(v.validate.StructExcept(entry, "Topic")); err != nil {
		return NewEntry{}, err
	}
	return entry, nil
}

func (v *Validator) check(err error) error {
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate.Struct() > %w", err)
	}
	fields := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, FieldError{
			Field:   e.Field(),
			Message: e.Translate(v.translator),
		})
	}
	return &ValidationError{Fields: fields}
}
