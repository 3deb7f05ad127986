package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"trivia-service/config"
	"trivia-service/internal/dto"
	"trivia-service/internal/game"
	ws "trivia-service/internal/websocket"
)

const (
	hubTimeout = 2 * time.Second
	qrSize     = 256
)

type RoomHandler struct {
	hub    *ws.Hub
	config *config.Config
	log    *zap.Logger
}

func NewRoomHandler(hub *ws.Hub, cfg *config.Config, log *zap.Logger) *RoomHandler {
	return &RoomHandler{
		hub:    hub,
		config: cfg,
		log:    log,
	}
}

func (h *RoomHandler) do(c *gin.Context, fn func(*game.Engine)) bool {
	ctx, cancel := context.WithTimeout(c.Request.Context(), hubTimeout)
	defer cancel()

	if err := h.hub.Do(ctx, fn); err != nil {
		dto.ServiceError(c, err)
		return false
	}
	return true
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	code := game.NormalizeCode(c.Param("code"))

	var (
		summary game.RoomSummary
		found   bool
	)
	if !h.do(c, func(e *game.Engine) { summary, found = e.Summary(code) }) {
		return
	}
	if !found {
		dto.JsonError(c, http.StatusNotFound, "Room not found")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetRoomQR renders a PNG QR code pointing at the join link of the room.
func (h *RoomHandler) GetRoomQR(c *gin.Context) {
	code := game.NormalizeCode(c.Param("code"))

	var found bool
	if !h.do(c, func(e *game.Engine) { _, found = e.Summary(code) }) {
		return
	}
	if !found {
		dto.JsonError(c, http.StatusNotFound, "Room not found")
		return
	}

	png, err := qrcode.Encode(JoinURL(h.config.Server.PublicURL, code), qrcode.Medium, qrSize)
	if err != nil {
		h.log.Error("failed to encode qr code", zap.String("code", code), zap.Error(err))
		dto.JsonError(c, http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *RoomHandler) GetThemes(c *gin.Context) {
	var themes []string
	if !h.do(c, func(e *game.Engine) { themes = e.Themes() }) {
		return
	}
	c.JSON(http.StatusOK, dto.ThemesResponse{Themes: themes})
}

func (h *RoomHandler) GetModes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ModesResponse{Modes: game.Modes()})
}

func (h *RoomHandler) GetStats(c *gin.Context) {
	var stats game.Stats
	if !h.do(c, func(e *game.Engine) { stats = e.Stats() }) {
		return
	}
	c.JSON(http.StatusOK, stats)
}

func JoinURL(publicURL, code string) string {
	return strings.TrimRight(publicURL, "/") + "/?room=" + url.QueryEscape(code)
}
