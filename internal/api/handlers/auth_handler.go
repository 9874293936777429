package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refertrack/backend/internal/services"
	"github.com/refertrack/backend/internal/utils"
)

type AuthHandler struct {
	svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type tokenRequest struct {
	AccessKey string `json:"access_key"`
}

func (h *AuthHandler) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "AuthHandler.Token", "invalid request body", err))
		return
	}

	token, err := h.svc.Token(c.Request.Context(), req.AccessKey)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
