package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// DefaultValidator replaces gin's binding validator so field errors can be
// rendered as English sentences keyed by JSON field name.
type DefaultValidator struct {
	once       sync.Once
	validate   *validator.Validate
	translator ut.Translator
}

var _ binding.StructValidator = &DefaultValidator{}

func (v *DefaultValidator) ValidateStruct(obj any) error {
	if kindOfData(obj) == reflect.Struct {
		v.lazyinit()
		if err := v.validate.Struct(obj); err != nil {
			return err
		}
	}
	return nil
}

func (v *DefaultValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *DefaultValidator) Translator() ut.Translator {
	v.lazyinit()
	return v.translator
}

func (v *DefaultValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New(validator.WithRequiredStructEnabled())
		v.validate.SetTagName("binding")
		v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		v.translator, _ = uni.GetTranslator("en")

		_ = en_translations.RegisterDefaultTranslations(v.validate, v.translator)
		v.registerCustomTranslations()
	})
}

func (v *DefaultValidator) registerCustomTranslations() {
	_ = v.validate.RegisterTranslation("required", v.translator, func(ut ut.Translator) error {
		return ut.Add("required", "{0} is required", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})

	_ = v.validate.RegisterTranslation("email", v.translator, func(ut ut.Translator) error {
		return ut.Add("email", "{0} must be a valid email address", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("email", fe.Field())
		return t
	})

	_ = v.validate.RegisterTranslation("datetime", v.translator, func(ut ut.Translator) error {
		return ut.Add("datetime", "{0} must be a time in HH:MM format", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("datetime", fe.Field())
		return t
	})
}

// TranslateValidationErrors renders validator errors as messages. Errors of
// any other kind (malformed JSON, type mismatches) yield nil.
func TranslateValidationErrors(err error) []string {
	var messages []string

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		if v, ok := binding.Validator.(*DefaultValidator); ok {
			trans := v.Translator()
			for _, e := range validationErrs {
				messages = append(messages, e.Translate(trans))
			}
		} else {
			for _, e := range validationErrs {
				messages = append(messages, e.Error())
			}
		}
	}

	return messages
}

func kindOfData(data any) reflect.Kind {
	value := reflect.ValueOf(data)
	valueType := value.Kind()

	if valueType == reflect.Pointer {
		valueType = value.Elem().Kind()
	}

	return valueType
}
