package dto

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trivia-service/internal/repository"
	ws "trivia-service/internal/websocket"
)

// ErrorResponse is the body of every non-2xx reply. Code is a stable
// snake_case key clients can switch on.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func JsonError(c *gin.Context, status int, message ...string) {
	msg := ""
	if len(message) > 0 {
		msg = message[0]
	}

	c.JSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    statusCode(status),
		Message: msg,
	})
}

// ServiceError replies with the status matching a game engine or storage
// error. Unknown errors become a bare 500.
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ws.ErrHubStopped):
		JsonError(c, http.StatusServiceUnavailable, "Game engine is not running")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		JsonError(c, http.StatusGatewayTimeout, "Game engine did not respond")
	case errors.Is(err, repository.ErrQuestionNotFound):
		JsonError(c, http.StatusNotFound, "Question not found")
	case errors.Is(err, repository.ErrUserNotFound):
		JsonError(c, http.StatusNotFound, "Player not found")
	default:
		JsonError(c, http.StatusInternalServerError)
	}
}

func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ToLower(strings.ReplaceAll(text, " ", "_"))
}
