package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refertrack/backend/internal/services"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

func (h *ResumeHandler) Improve(c *gin.Context) {
	revision, err := h.svc.Improve(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, revision)
}
