package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatdocs/internal/model"
	"chatdocs/internal/platform/rabbitmq"
	"chatdocs/internal/transport/http/response"
)

// AdminHandler exposes the account-cascade hook: when the auth system deletes
// a user it calls this endpoint (or publishes the same payload directly) and
// the purge worker removes the user's history asynchronously.
type AdminHandler struct {
	publisher  *rabbitmq.PurgePublisher
	adminToken string
}

type PurgeRequest struct {
	UserID   uint   `json:"user_id" binding:"required"`
	Document string `json:"document"`
}

func NewAdminHandler(publisher *rabbitmq.PurgePublisher, adminToken string) *AdminHandler {
	return &AdminHandler{publisher: publisher, adminToken: adminToken}
}

func (h *AdminHandler) EnqueuePurge(c *gin.Context) {
	if h.adminToken == "" || c.GetHeader("X-Admin-Token") != h.adminToken {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid admin token")
		return
	}

	var req PurgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	job := model.PurgeJob{UserID: req.UserID, PDFName: req.Document}
	if err := h.publisher.Publish(c.Request.Context(), job); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "enqueue purge failed")
		return
	}

	response.OK(c, gin.H{"enqueued": true})
}
