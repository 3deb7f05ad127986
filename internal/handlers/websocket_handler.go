package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"trivia-service/config"
	"trivia-service/internal/dto"
	"trivia-service/internal/middleware"
	ws "trivia-service/internal/websocket"
	"trivia-service/pkg/jwt"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	config   *config.Config
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, cfg *config.Config, log *zap.Logger) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:    hub,
		config: cfg,
		log:    log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin allows any origin when none are configured, or "*" is listed.
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	allowed := h.config.Server.AllowedOrigins
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(allowed, origin)
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	var userID string
	token := middleware.BearerToken(c)
	if token != "" {
		claims, err := jwt.ValidateAccessToken(token, h.config.Auth.JWTSecret)
		if err != nil {
			dto.JsonError(c, http.StatusUnauthorized, "Failed to validate token")
			return
		}
		userID = claims.UserID
	} else if !h.config.Auth.AllowGuests {
		dto.JsonError(c, http.StatusUnauthorized, "Authorization token is required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("failed to upgrade connection", zap.Error(err))
		return
	}

	limiter := rate.NewLimiter(rate.Limit(h.config.WS.MessagesPerSecond), h.config.WS.Burst)
	client := ws.NewClient(h.hub, conn, uuid.NewString(), userID, limiter)

	if !h.hub.Attach(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
