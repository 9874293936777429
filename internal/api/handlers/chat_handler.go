package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refertrack/backend/internal/services"
	"github.com/refertrack/backend/internal/utils"
)

type ChatHandler struct {
	convos   services.ConversationService
	outreach services.OutreachService
}

func NewChatHandler(convos services.ConversationService, outreach services.OutreachService) *ChatHandler {
	return &ChatHandler{convos: convos, outreach: outreach}
}

func (h *ChatHandler) History(c *gin.Context) {
	key, ok := conversationKey(c)
	if !ok {
		return
	}

	turns, err := h.convos.History(c.Request.Context(), key)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"turns": turns})
}

type followUpRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) SendFollowUp(c *gin.Context) {
	key, ok := conversationKey(c)
	if !ok {
		return
	}

	var req followUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ChatHandler.SendFollowUp", "invalid request body", err))
		return
	}

	reply, err := h.outreach.Continue(c.Request.Context(), key, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *ChatHandler) Clear(c *gin.Context) {
	key, ok := conversationKey(c)
	if !ok {
		return
	}

	if err := h.convos.Clear(c.Request.Context(), key); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "chat history cleared"})
}

func (h *ChatHandler) ColdMessage(c *gin.Context) {
	message, err := h.outreach.ColdMessage(c.Request.Context(), c.Param("person_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}
