package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type Handler interface {
	HandleSignup(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleMe(c *gin.Context)
	HandleGetUsers(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandleRequestLogger(c *gin.Context)
	HandleRecovery(c *gin.Context)
	HandleHealth(c *gin.Context)

	HandleGetProjects(c *gin.Context)
	HandleCreateProject(c *gin.Context)
	HandleGetProject(c *gin.Context)
	HandleRenameProject(c *gin.Context)
	HandleDeleteProject(c *gin.Context)
	HandleAddMembers(c *gin.Context)
	HandleRemoveMember(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleGetTasksDone(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleCloseTask(c *gin.Context)
	HandleReopenTask(c *gin.Context)

	HandleCreateNote(c *gin.Context)
	HandleUpdateNote(c *gin.Context)
	HandleDeleteNote(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	users    services.UserService
	projects services.ProjectService
	tasks    services.TaskService
	notes    services.NoteService
}

type Services struct {
	Auth     services.AuthService
	Sessions services.SessionService
	Users    services.UserService
	Projects services.ProjectService
	Tasks    services.TaskService
	Notes    services.NoteService
}

func New(logger zerolog.Logger, s Services) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     s.Auth,
		sessions: s.Sessions,
		users:    s.Users,
		projects: s.Projects,
		tasks:    s.Tasks,
		notes:    s.Notes,
	}
}

// RegisterRoutes mounts every endpoint on router. The static
// /projects/tasks/done route coexists with /projects/:projectId.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/healthz", h.HandleHealth)

	router.POST("/signup", h.HandleSignup)
	router.POST("/login", h.HandleLogin)
	router.POST("/refresh", h.HandleRefresh)
	router.GET("/projects/tasks/done", h.HandleGetTasksDone)

	authorized := router.Group("/", h.HandleAuthMiddleware)
	authorized.POST("/logout", h.HandleLogout)
	authorized.GET("/me", h.HandleMe)
	authorized.GET("/users", h.HandleGetUsers)

	projects := authorized.Group("/projects")
	projects.GET("", h.HandleGetProjects)
	projects.POST("", h.HandleCreateProject)
	projects.GET("/:projectId", h.HandleGetProject)
	projects.PUT("/:projectId", h.HandleRenameProject)
	projects.DELETE("/:projectId", h.HandleDeleteProject)
	projects.POST("/:projectId/members", h.HandleAddMembers)
	projects.DELETE("/:projectId/members/:userId", h.HandleRemoveMember)

	projects.GET("/:projectId/tasks", h.HandleGetTasks)
	projects.POST("/:projectId/tasks", h.HandleCreateTask)
	projects.PUT("/:projectId/tasks/:taskId", h.HandleUpdateTask)
	projects.DELETE("/:projectId/tasks/:taskId", h.HandleDeleteTask)
	projects.POST("/:projectId/tasks/:taskId/close", h.HandleCloseTask)
	projects.POST("/:projectId/tasks/:taskId/reopen", h.HandleReopenTask)

	projects.POST("/:projectId/tasks/:taskId/notes", h.HandleCreateNote)
	projects.PUT("/:projectId/notes/:noteId", h.HandleUpdateNote)
	projects.DELETE("/:projectId/notes/:noteId", h.HandleDeleteNote)
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getStringFromContext(c *gin.Context, key string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// uuidParam reads a uuid path parameter. Malformed ids abort with 404
// since no such record can exist.
func (h *handlerImpl) uuidParam(c *gin.Context, name string, notFound error) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Info().
			Str(name, raw).
			Msg("malformed path id")
		abort(c, newServiceError(notFound))
		return "", false
	}
	return id.String(), true
}

func (h *handlerImpl) noteIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("noteId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.logger.Info().
			Str("noteId", raw).
			Msg("malformed note id")
		abort(c, newServiceError(services.ErrNoteNotFound))
		return 0, false
	}
	return id, true
}

func (h *handlerImpl) bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err != nil {
		h.logger.Info().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return false
	}
	return true
}
