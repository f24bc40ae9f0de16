package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type signupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlerImpl) HandleSignup(c *gin.Context) {
	var req signupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Signup(c, services.SignupParams{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to sign up")
		return
	}

	c.JSON(http.StatusCreated, newAuthResponse(result))
}

type loginRequest struct {
	// Username matches either the username or the email.
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Login:    req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			h.logger.Info().
				Err(err).
				Msg("failed to login")
			abort(c, newUserNotFoundError(req.Username))
			return
		}
		h.abortWithServiceError(c, err, "failed to login")
		return
	}

	c.JSON(http.StatusCreated, newAuthResponse(result))
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	var req refreshRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.auth.Refresh(c, req.RefreshToken)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to refresh session")
		return
	}

	c.JSON(http.StatusCreated, newAuthResponse(result))
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	err := h.auth.Logout(c, userID)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to logout")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleMe(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	user, err := h.users.GetUserByID(c, userID)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to get current user")
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlerImpl) HandleGetUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, users)
}
