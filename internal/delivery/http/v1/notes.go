package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-tracker/internal/services"
)

type noteRequest struct {
	Body string `json:"body"`
}

func (h *handlerImpl) HandleCreateNote(c *gin.Context) {
	params, ok := h.taskParams(c)
	if !ok {
		return
	}

	var req noteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.notes.CreateNote(c, services.CreateNoteParams{
		UserID:    params.UserID,
		ProjectID: params.ProjectID,
		TaskID:    params.TaskID,
		Body:      req.Body,
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to create note")
		return
	}

	c.JSON(http.StatusCreated, newNoteResponse(note))
}

func (h *handlerImpl) HandleUpdateNote(c *gin.Context) {
	params, ok := h.noteParams(c)
	if !ok {
		return
	}

	var req noteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.notes.UpdateNote(c, services.UpdateNoteParams{
		UserID:    params.UserID,
		ProjectID: params.ProjectID,
		NoteID:    params.NoteID,
		Body:      req.Body,
	})
	if err != nil {
		h.abortWithServiceError(c, err, "failed to update note")
		return
	}

	c.JSON(http.StatusOK, newNoteResponse(note))
}

func (h *handlerImpl) HandleDeleteNote(c *gin.Context) {
	params, ok := h.noteParams(c)
	if !ok {
		return
	}

	err := h.notes.DeleteNote(c, params)
	if err != nil {
		h.abortWithServiceError(c, err, "failed to delete note")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) noteParams(c *gin.Context) (services.NoteParams, bool) {
	userID, _ := getStringFromContext(c, userIDCtxKey)
	projectID, ok := h.uuidParam(c, "projectId", services.ErrProjectNotFound)
	if !ok {
		return services.NoteParams{}, false
	}
	noteID, ok := h.noteIDParam(c)
	if !ok {
		return services.NoteParams{}, false
	}

	return services.NoteParams{
		UserID:    userID,
		ProjectID: projectID,
		NoteID:    noteID,
	}, true
}
