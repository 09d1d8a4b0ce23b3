package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatdocs/internal/app"
	"chatdocs/internal/transport/http/middleware"
	"chatdocs/internal/transport/http/response"
)

type DocumentHandler struct {
	qaService   *app.QAService
	maxUploadMB int
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

func NewDocumentHandler(qaService *app.QAService, maxUploadMB int) *DocumentHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &DocumentHandler{qaService: qaService, maxUploadMB: maxUploadMB}
}

// Upload accepts a multipart form with "file", extracts and indexes it as the
// user's active document, replacing whatever was active before.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > int64(h.maxUploadMB)<<20 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	result, err := h.qaService.Upload(c.Request.Context(), app.UploadInput{
		UserID:      userID,
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		File:        f,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrUnsupportedFormat):
			response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFormat, err.Error())
		case errors.Is(err, app.ErrExtractionFailure):
			response.Error(c, http.StatusUnprocessableEntity, response.CodeExtractionFailure, err.Error())
		case errors.Is(err, app.ErrProviderUnavailable):
			response.Error(c, http.StatusServiceUnavailable, response.CodeProviderUnavailable, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload failed")
		}
		return
	}

	response.OK(c, result)
}

// Ask answers one question against the active document.
func (h *DocumentHandler) Ask(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.qaService.Ask(c.Request.Context(), app.AskInput{
		UserID:   userID,
		Question: req.Question,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNoActiveDocument):
			response.Error(c, http.StatusNotFound, response.CodeNoActiveDocument, err.Error())
		case errors.Is(err, app.ErrProviderUnavailable):
			response.Error(c, http.StatusServiceUnavailable, response.CodeProviderUnavailable, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ask failed")
		}
		return
	}

	response.OK(c, result)
}

// Status reports the pipeline state of the user's session.
func (h *DocumentHandler) Status(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	response.OK(c, h.qaService.Status(userID))
}

// EndSession drops the user's in-memory session and index.
func (h *DocumentHandler) EndSession(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}
	h.qaService.EndSession(userID)
	response.OK(c, gin.H{"ended": true})
}

func getUserIDFromContext(c *gin.Context) (uint, bool) {
	raw, exists := c.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := raw.(uint)
	if !ok || userID == 0 {
		return 0, false
	}
	return userID, true
}
