package handler

import (
	"net/http"

	"flightclaim/backend/internal/chathub"
	"flightclaim/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func (h *Handler) upgrader() *websocket.Upgrader {
	origin := h.CORSOrigin
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return origin == "" || origin == "*" || r.Header.Get("Origin") == origin
		},
	}
}

// ServeChatWebSocket upgrades to a WebSocket answered by the chat hub.
func (h *Handler) ServeChatWebSocket(c *gin.Context) {
	if h.Hub == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "chat unavailable"})
		return
	}

	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		h.Log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, conn, h.Log)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	client.Run()
}

// ListChatSessions is the admin conversation log.
func (h *Handler) ListChatSessions(c *gin.Context) {
	page, limit := pagination(c)
	sessions, total, err := h.Storage.ListChatSessions(c.Request.Context(), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if sessions == nil {
		sessions = []models.ChatSession{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": total, "page": page, "limit": limit})
}

// GetChatSession returns one conversation with its messages, oldest first.
func (h *Handler) GetChatSession(c *gin.Context) {
	session, err := h.Storage.GetChatSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "session_id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, session)
}
