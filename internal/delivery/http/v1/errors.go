package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

const (
	msgInvalidRequestBody = "Invalid request body."
	msgMissingToken       = "Authentication token is required."
	msgInvalidToken       = "Invalid authentication token."
)

type apiError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"message": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// sentence turns a service error text into the message shown to clients.
func sentence(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToUpper(s[:1]) + s[1:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

// newServiceError maps a service error to its response. Unknown errors
// become 500 with the status text.
func newServiceError(err error) apiError {
	var (
		validationErr *services.ValidationError
		takenErr      *services.TakenError
	)

	switch {
	case errors.As(err, &validationErr):
		return newBadRequestError(sentence(validationErr.Message))
	case errors.As(err, &takenErr):
		return newConflictError(sentence(takenErr.Error()))
	case errors.Is(err, services.ErrUserAlreadyExists):
		return newConflictError(sentence(err.Error()))
	case errors.Is(err, services.ErrAccessDenied),
		errors.Is(err, services.ErrUserPasswordMismatch),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrSessionExpired):
		return newUnauthorizedError(sentence(err.Error()))
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrNoteNotFound),
		errors.Is(err, services.ErrMemberNotFound):
		return newNotFoundError(sentence(err.Error()))
	case errors.Is(err, services.ErrTaskAlreadyClosed),
		errors.Is(err, services.ErrTaskAlreadyOpened),
		errors.Is(err, services.ErrInvalidUserID),
		errors.Is(err, services.ErrCannotRemoveOwner):
		return newBadRequestError(sentence(err.Error()))
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}

func newUserNotFoundError(login string) apiError {
	return newUnauthorizedError(fmt.Sprintf("User: '%s' not found.", login))
}

// abortWithServiceError logs the failure and writes the mapped response.
func (h *handlerImpl) abortWithServiceError(c *gin.Context, err error, msg string) {
	apiErr := newServiceError(err)
	event := h.logger.Info()
	if apiErr.Code >= http.StatusInternalServerError {
		event = h.logger.Error()
	}
	event.
		Err(err).
		Int("status", apiErr.Code).
		Msg(msg)
	abort(c, apiErr)
}
