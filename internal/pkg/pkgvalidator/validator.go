package pkgvalidator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stepski011/DevStore/internal/pkg/pkgerror"
)

var (
	webURLPattern   = regexp.MustCompile(`https?:\/\/(www\.)?[-a-zA-Z0-9@:%._\+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_\+.~#?&//=]*)`)
	mailAddrPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
)

// Messenger supplies human-readable messages for violated constraints.
type Messenger interface {
	ValidationMessages() map[string]string
}

// Enum is implemented by closed sets of values.
type Enum interface {
	Valid() bool
}

// Validator is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the custom tags registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(Enum)
		return ok && e.Valid()
	})
	_ = v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
		return webURLPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("mailaddr", func(fl validator.FieldLevel) bool {
		return mailAddrPattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Struct validates s. It returns nil, a *pkgerror.ValidationError, or a server
// error when s cannot be validated at all.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return pkgerror.NewServer(err)
	}

	var messages map[string]string
	if m, ok := s.(Messenger); ok {
		messages = m.ValidationMessages()
	}

	seen := make(map[string]struct{}, len(fieldErrs))
	violations := make([]pkgerror.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := baseName(fe.StructField())
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}

		violations = append(violations, pkgerror.FieldViolation{
			Field:   baseName(fe.Field()),
			Message: message(messages, field, fe),
		})
	}

	return pkgerror.NewValidation(violations...)
}

func message(messages map[string]string, field string, fe validator.FieldError) string {
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[field]; ok {
		return msg
	}
	if fe.Tag() == "required" || strings.HasPrefix(fe.Tag(), "required_") {
		return fmt.Sprintf("Path `%s` is required.", baseName(fe.Field()))
	}
	return fmt.Sprintf("Path `%s` is invalid.", baseName(fe.Field()))
}

// baseName strips slice/map indexes so every element of one field maps to
// the same violation.
func baseName(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}
	return name
}
