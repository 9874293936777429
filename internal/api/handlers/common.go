package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/refertrack/backend/internal/models"
	"github.com/refertrack/backend/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

// conversationKey resolves the :kind/:id route params into a typed key.
func conversationKey(c *gin.Context) (models.ConversationKey, bool) {
	id := c.Param("id")
	switch c.Param("kind") {
	case string(models.OwnerJob):
		return models.JobKey(id), true
	case string(models.OwnerPerson):
		return models.PersonKey(id), true
	default:
		writeError(c, utils.E(utils.CodeInvalidArgument, "Chat", "kind must be \"job\" or \"person\"", nil))
		return models.ConversationKey{}, false
	}
}
