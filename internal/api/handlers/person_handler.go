package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/services"
	"github.com/refertrack/backend/internal/utils"
)

type PersonHandler struct {
	svc      services.PersonService
	outreach services.OutreachService
}

func NewPersonHandler(svc services.PersonService, outreach services.OutreachService) *PersonHandler {
	return &PersonHandler{svc: svc, outreach: outreach}
}

type createPersonRequest struct {
	ProfileText string `json:"profile_text"`
}

// Create runs pasted profile text through the extraction model and stores
// the result under the job.
func (h *PersonHandler) Create(c *gin.Context) {
	var req createPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PersonHandler.Create", "invalid request body", err))
		return
	}

	person, err := h.outreach.CreatePersonFromProfile(c.Request.Context(), c.Param("job_id"), req.ProfileText)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, person)
}

func (h *PersonHandler) Get(c *gin.Context) {
	person, err := h.svc.Get(c.Request.Context(), c.Param("person_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, person)
}

func (h *PersonHandler) ListByJob(c *gin.Context) {
	people, err := h.svc.ListByJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, people)
}

func (h *PersonHandler) ListConnections(c *gin.Context) {
	people, err := h.svc.ListConnections(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, people)
}

func (h *PersonHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "PersonHandler.UpdateStatus", "invalid request body", err))
		return
	}

	if err := h.svc.UpdateStatus(c.Request.Context(), c.Param("person_id"), req.Status); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "person status updated"})
}

// Connect marks the person as connected, the shortcut the dashboard uses.
func (h *PersonHandler) Connect(c *gin.Context) {
	if err := h.svc.UpdateStatus(c.Request.Context(), c.Param("person_id"), models.PersonStatusConnected); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "person connected"})
}

func (h *PersonHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("person_id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "person deleted"})
}
