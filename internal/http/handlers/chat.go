package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/plancast-backend/internal/http/response"
	"github.com/yungbote/plancast-backend/internal/services"
)

type ChatHandler struct {
	assistant services.AssistantService
}

func NewChatHandler(assistant services.AssistantService) *ChatHandler {
	return &ChatHandler{assistant: assistant}
}

func (ch *ChatHandler) Ask(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	answer, err := ch.assistant.Ask(c.Request.Context(), userID, req.Question)
	if err != nil {
		response.RespondError(c, http.StatusBadGateway, "assistant_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"answer": answer})
}
