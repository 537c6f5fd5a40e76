package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate = validator.New()
	trans    ut.Translator
	initOnce sync.Once
	initErr  error
)

// Init registers english translations and json field names on the shared
// validator. It is safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		uni := ut.New(en.New(), en.New())
		trans, _ = uni.GetTranslator("en")

		if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
			initErr = err
			return
		}

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})

	return initErr
}

// Struct validates v and returns the first failing rule as a readable error
func Struct(v interface{}) error {
	if err := Init(); err != nil {
		return err
	}

	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return errors.New(ve[0].Translate(trans))
		}
		return err
	}
	return nil
}

// Var validates a single value against tag, e.g. Var(addr, "required,email")
func Var(field interface{}, tag string) error {
	if err := Init(); err != nil {
		return err
	}

	if err := validate.Var(field, tag); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return errors.New(strings.TrimSpace(ve[0].Translate(trans)))
		}
		return err
	}
	return nil
}
