// Package validation checks form input before it is sent to the backend and
// renders failures as human-readable messages.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/Vishhh2125/CollabNotes-frontend/internal/client/models"
)

type RegisterForm struct {
	Username string `label:"Username" validate:"notblank"`
	Email    string `label:"Email" validate:"notblank,email"`
	Password string `label:"Password" validate:"notblank,min=6"`
}

// LoginForm accepts an email or a username in Email.
type LoginForm struct {
	Email    string `label:"Email or username" validate:"notblank"`
	Password string `label:"Password" validate:"notblank"`
}

type NoteForm struct {
	Title   string `label:"Title" validate:"notblank"`
	Content string `label:"Content" validate:"notblank"`
}

type WorkspaceForm struct {
	Name string      `label:"Workspace name" validate:"notblank,trimmed_min=3"`
	Plan models.Plan `label:"Plan" validate:"omitempty,oneof=free pro"`
}

type AddMemberForm struct {
	EmailOrUserID string      `label:"Email or User ID" validate:"notblank"`
	Role          models.Role `label:"Role" validate:"oneof=admin member"`
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Errors lists every failed rule of a form in field order.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// For returns the message for field, or "".
func (e Errors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Validator wraps a configured validator and its English translator.
type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func New() (*Validator, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("trimmed_min", trimmedMin); err != nil {
		return nil, err
	}

	trans, _ := ut.New(en.New()).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, err
	}

	messages := map[string]string{
		"notblank":    "{0} is required",
		"required":    "{0} is required",
		"min":         "{0} must be at least {1} characters",
		"trimmed_min": "{0} must be at least {1} characters",
		"email":       "{0} must be a valid email address",
		"oneof":       "{0} must be one of: {1}",
	}
	for tag, msg := range messages {
		if err := v.RegisterTranslation(tag, trans, register(tag, msg), translate(tag)); err != nil {
			return nil, err
		}
	}
	return &Validator{v: v, trans: trans}, nil
}

// Struct validates form. It returns Errors when a rule fails.
func (v *Validator) Struct(form any) error {
	err := v.v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.StructField(), Message: fe.Translate(v.trans)})
	}
	return out
}

func register(tag, msg string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error {
		return t.Add(tag, msg, true)
	}
}

func translate(tag string) validator.TranslationFunc {
	return func(t ut.Translator, fe validator.FieldError) string {
		msg, err := t.T(tag, fe.Field(), fe.Param())
		if err != nil {
			return fe.Error()
		}
		return msg
	}
}

func trimmedMin(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len([]rune(strings.TrimSpace(fl.Field().String()))) >= n
}
