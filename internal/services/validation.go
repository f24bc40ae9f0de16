package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/adanyl0v/go-task-tracker/internal/models"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Messages keyed by the struct namespace of the failing field.
var fieldMessages = map[string]string{
	"SignupParams.Name":            "name must be in range of 1-255 characters length",
	"SignupParams.Username":        "username must be in range of 3-20 characters length and contain only letters, digits and underscores",
	"SignupParams.Email":           "valid email address is required",
	"SignupParams.Password":        "password must be in range of 6-255 characters length",
	"LoginParams.Login":            "username or email is required",
	"LoginParams.Password":         "password is required",
	"CreateProjectParams.Name":     "project name must be in range of 1-60 characters length",
	"RenameProjectParams.Name":     "project name must be in range of 1-60 characters length",
	"AddMembersParams.MemberIDs":   "at least one member is required",
	"CreateTaskParams.Title":       "title must be in range of 3-60 characters length",
	"UpdateTaskParams.Title":       "title must be in range of 3-60 characters length",
	"CreateTaskParams.Description": "description field must not be empty",
	"UpdateTaskParams.Description": "description field must not be empty",
	"CreateTaskParams.Priority":    "priority can only be - low, medium or high",
	"UpdateTaskParams.Priority":    "priority can only be - low, medium or high",
	"CreateNoteParams.Body":        "note body must be in range of 1-1000 characters length",
	"UpdateNoteParams.Body":        "note body must be in range of 1-1000 characters length",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(err)
	}
	err = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
	return v
}

// validateParams checks the `validate` tags of params and converts the
// first failure into a *ValidationError.
func validateParams(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	fieldErr := validationErrs[0]
	message, ok := fieldMessages[fieldErr.StructNamespace()]
	if !ok {
		message = fmt.Sprintf("%s is invalid", strings.ToLower(fieldErr.StructField()))
	}
	return &ValidationError{
		Field:   fieldErr.StructField(),
		Message: message,
	}
}

// normalizeUserIDs drops duplicates, keeping the first occurrence order,
// and rejects ids that are not UUIDs.
func normalizeUserIDs(ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	normalized := make([]string, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(strings.TrimSpace(id))
		if err != nil {
			return nil, ErrInvalidUserID
		}
		id = parsed.String()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		normalized = append(normalized, id)
	}
	return normalized, nil
}
