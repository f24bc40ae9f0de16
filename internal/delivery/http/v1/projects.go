package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type createProjectRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type renameProjectRequest struct {
	Name string `json:"name"`
}

type addMembersRequest struct {
	Members []string `json:"members"`
}

func (h *handlerImpl) HandleGetProjects(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	projects, err := h.projects.ListProjects(c, userID)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to list projects")
		return
	}

	resp := make([]projectResponse, 0, len(projects))
	for _, project := range projects {
		resp = append(resp, newProjectResponse(project))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlerImpl) HandleCreateProject(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req createProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	project, err := h.projects.CreateProject(c, services.CreateProjectParams{
		UserID:    userID,
		Name:      req.Name,
		MemberIDs: req.Members,
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to create project")
		return
	}

	c.JSON(http.StatusCreated, newProjectResponse(project))
}

func (h *handlerImpl) HandleGetProject(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	projectID, ok := h.uuidParam(c, "projectId", services.ErrProjectNotFound)
	if !ok {
		return
	}

	project, err := h.projects.GetProject(c, userID, projectID)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to get project")
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(project))
}

func (h *handlerImpl) HandleRenameProject(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	projectID, ok := h.uuidParam(c, "projectId", services.ErrProjectNotFound)
	if !ok {
		return
	}

	var req renameProjectRequest
	if !h.bindJSON(c, &req) {
		return
	}

	project, err := h.projects.RenameProject(c, services.RenameProjectParams{
		UserID:    userID,
		ProjectID: projectID,
		Name:      req.Name,
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to rename project")
		return
	}

	c.JSON(http.StatusOK, newProjectResponse(project))
}

func (h *handlerImpl) HandleDeleteProject(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	projectID, ok := h.uuidParam(c, "projectId", services.ErrProjectNotFound)
	if !ok {
		return
	}

	err := h.projects.DeleteProject(c, userID, projectID)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to delete project")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleAddMembers(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	projectID, ok := h.uuidParam(c, "projectId", services.ErrProjectNotFound)
	if !ok {
		return
	}

	var req addMembersRequest
	if !h.bindJSON(c, &req) {
		return
	}

	members, err := h.projects.AddMembers(c, services.AddMembersParams{
		UserID:    userID,
		ProjectID: projectID,
		MemberIDs: req.Members,
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to add members")
		return
	}

	c.JSON(http.StatusCreated, newMemberResponses(members))
}

func (h *handlerImpl) HandleRemoveMember(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	projectID, ok := h.uuidParam(c, "projectId", services.ErrProjectNotFound)
	if !ok {
		return
	}
	memberID, ok := h.uuidParam(c, "userId", services.ErrMemberNotFound)
	if !ok {
		return
	}

	err := h.projects.RemoveMember(c, userID, projectID, memberID)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to remove member")
		return
	}

	c.Status(http.StatusNoContent)
}
