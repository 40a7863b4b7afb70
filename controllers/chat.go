// controllers/chat.go
package controllers

import (
	"net/http"

	"eataliano-backend/services"
	"eataliano-backend/utils"

	"github.com/gin-gonic/gin"
)

type ChatInput struct {
	Message      interface{} `json:"message"`
	SessionToken string      `json:"session_token"`
}

type ChatController struct {
	Chat *services.ChatService
}

func (cc *ChatController) SendMessage(c *gin.Context) {
	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// A non-string message is rejected the same way as an empty one.
	message, _ := input.Message.(string)

	reply, err := cc.Chat.Turn(c.Request.Context(), message, input.SessionToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}
