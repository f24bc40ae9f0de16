package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/adanyl0v/go-task-tracker/internal/config"
	"github.com/adanyl0v/go-task-tracker/internal/delivery/http/v1"
)

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newRouter(config.EnvLocal, v1.New(zerolog.Nop(), v1.Services{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "project routes require a token")
}
