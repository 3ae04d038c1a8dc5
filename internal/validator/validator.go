package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/it"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	it_translations "github.com/go-playground/validator/v10/translations/it"
	"github.com/mitchellh/mapstructure"

	"github.com/SAP-F-2025/school-admin-service/internal/models"
)

// DefaultLocale is the language of every validation message.
const DefaultLocale = "it"

var decodeFieldRegex = regexp.MustCompile(`^'([^']*)'`)

// Validator runs the request schemas and turns failures into Italian field messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
	messages   fieldMessages
}

// New creates a validator with the Italian translator and the field message table.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	locale := it.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator(DefaultLocale)
	_ = it_translations.RegisterDefaultTranslations(validate, trans)

	return &Validator{
		validate:   validate,
		translator: trans,
		messages:   defaultFieldMessages(),
	}
}

// Validate checks a struct against its validate tags.
// All failing fields are reported in a single ValidationErrors value.
func (v *Validator) Validate(s interface{}) error {
	if errs := v.ValidateStruct(s); len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateStruct is Validate returning the concrete error list (nil when valid).
func (v *Validator) ValidateStruct(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return ValidationErrors{{Field: "", Message: err.Error(), Rule: "invalid"}}
	}

	result := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		result = append(result, ValidationError{
			Field:   fe.Field(),
			Message: v.message(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return result
}

// Message returns the message configured for a field/rule pair.
func (v *Validator) Message(field, rule string) string {
	if msg, ok := v.messages.lookup(field, rule); ok {
		return msg
	}
	return ""
}

func (v *Validator) message(fe validator.FieldError) string {
	if msg, ok := v.messages.lookup(fe.Field(), fe.Tag()); ok {
		return msg
	}
	return fe.Translate(v.translator)
}

// ===== UNTYPED INPUT =====

// ParseCreateTeacher decodes untyped input with the createTeacherSchema.
// Unknown keys are dropped and defaults are applied before validation.
func (v *Validator) ParseCreateTeacher(input map[string]interface{}) (*CreateTeacherRequest, error) {
	req := NewCreateTeacherRequest()
	if err := v.decode(input, req); err != nil {
		return nil, err
	}
	if err := v.CheckCreateTeacher(req); err != nil {
		return nil, err
	}
	return req, nil
}

// CheckCreateTeacher normalizes and validates an already typed create request.
func (v *Validator) CheckCreateTeacher(req *CreateTeacherRequest) error {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Role == "" {
		req.Role = models.RoleTeacher
	}
	return v.Validate(req)
}

// ParseUpdateTeacher decodes untyped input with the updateTeacherSchema.
func (v *Validator) ParseUpdateTeacher(input map[string]interface{}) (*UpdateTeacherRequest, error) {
	req := &UpdateTeacherRequest{}
	if err := v.decode(input, req); err != nil {
		return nil, err
	}
	if err := v.CheckUpdateTeacher(req); err != nil {
		return nil, err
	}
	return req, nil
}

// CheckUpdateTeacher normalizes and validates an already typed update request.
func (v *Validator) CheckUpdateTeacher(req *UpdateTeacherRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	return v.Validate(req)
}

// ParseReviewWork decodes untyped input with the reviewWorkSchema.
func (v *Validator) ParseReviewWork(input map[string]interface{}) (*ReviewWorkRequest, error) {
	req := &ReviewWorkRequest{}
	if err := v.decode(input, req); err != nil {
		return nil, err
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if err := v.Validate(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (v *Validator) decode(input map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return v.decodeErrors(err)
	}
	return nil
}

// decodeErrors reports type mismatches per field, the same way schema failures are reported.
func (v *Validator) decodeErrors(err error) ValidationErrors {
	var decodeErr *mapstructure.Error
	if !errors.As(err, &decodeErr) {
		return ValidationErrors{{Message: v.messages.typeMismatch(), Rule: "type"}}
	}

	result := make(ValidationErrors, 0, len(decodeErr.Errors))
	for _, msg := range decodeErr.Errors {
		field := ""
		if m := decodeFieldRegex.FindStringSubmatch(msg); len(m) == 2 {
			field = m[1]
		}
		result = append(result, ValidationError{
			Field:   field,
			Message: v.messages.typeMismatch(),
			Rule:    "type",
		})
	}
	return result
}
