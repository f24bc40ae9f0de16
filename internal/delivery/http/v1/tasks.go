package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/models"
	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type taskRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Priority      models.Priority `json:"priority"`
	AssignedUsers []string        `json:"assignedUsers"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	projectID, ok := h.uuidParam(c, "projectId", services.ErrProjectNotFound)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c, userID, projectID)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

func (h *handlerImpl) HandleGetTasksDone(c *gin.Context) {
	tasks, err := h.tasks.ListAllTasks(c)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to list all tasks")
		return
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	projectID, ok := h.uuidParam(c, "projectId", services.ErrProjectNotFound)
	if !ok {
		return
	}

	var req taskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:      userID,
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeIDs: req.AssignedUsers,
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	params, ok := h.taskParams(c)
	if !ok {
		return
	}

	var req taskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		UserID:      params.UserID,
		ProjectID:   params.ProjectID,
		TaskID:      params.TaskID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		AssigneeIDs: req.AssignedUsers,
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to update task")
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	params, ok := h.taskParams(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, params)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleCloseTask(c *gin.Context) {
	params, ok := h.taskParams(c)
	if !ok {
		return
	}

	task, err := h.tasks.CloseTask(c, params)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to close task")
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleReopenTask(c *gin.Context) {
	params, ok := h.taskParams(c)
	if !ok {
		return
	}

	task, err := h.tasks.ReopenTask(c, params)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to reopen task")
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) taskParams(c *gin.Context) (services.TaskParams, bool) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	projectID, ok := h.uuidParam(c, "projectId", services.ErrProjectNotFound)
	if !ok {
		return services.TaskParams{}, false
	}
	taskID, ok := h.uuidParam(c, "taskId", services.ErrTaskNotFound)
	if !ok {
		return services.TaskParams{}, false
	}

	return services.TaskParams{
		UserID:    userID,
		ProjectID: projectID,
		TaskID:    taskID,
	}, true
}
