package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chatdocs/internal/app"
	"chatdocs/internal/transport/http/response"
)

type HistoryHandler struct {
	historyService *app.HistoryService
}

func NewHistoryHandler(historyService *app.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// List returns the user's Q&A records for one document, most recent first.
func (h *HistoryHandler) List(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	document := strings.TrimSpace(c.Query("document"))
	records, err := h.historyService.List(c.Request.Context(), userID, document)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing document name")
		case errors.Is(err, app.ErrStorageFailure):
			response.Error(c, http.StatusInternalServerError, response.CodeStorageFailure, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list history failed")
		}
		return
	}

	response.OK(c, records)
}

// ListDocuments returns the document names the user has history under.
func (h *HistoryHandler) ListDocuments(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	names, err := h.historyService.ListDocuments(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, app.ErrStorageFailure) {
			response.Error(c, http.StatusInternalServerError, response.CodeStorageFailure, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		}
		return
	}

	response.OK(c, names)
}

// Delete removes the user's history for one document. Idempotent.
func (h *HistoryHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	document := strings.TrimSpace(c.Query("document"))
	if err := h.historyService.Delete(c.Request.Context(), userID, document); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing document name")
		case errors.Is(err, app.ErrStorageFailure):
			response.Error(c, http.StatusInternalServerError, response.CodeStorageFailure, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete history failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_document": document})
}

// DeleteAll removes every record owned by the user. Idempotent.
func (h *HistoryHandler) DeleteAll(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	if err := h.historyService.DeleteAll(c.Request.Context(), userID); err != nil {
		if errors.Is(err, app.ErrStorageFailure) {
			response.Error(c, http.StatusInternalServerError, response.CodeStorageFailure, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete history failed")
		}
		return
	}

	response.OK(c, gin.H{"deleted_all": true})
}
