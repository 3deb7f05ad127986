package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trivia-service/internal/constants"
	"trivia-service/internal/dto"
	"trivia-service/internal/middleware"
	"trivia-service/internal/models"
	"trivia-service/internal/repository"
)

const defaultHistoryLimit = 10

type QuestionStore interface {
	Submit(ctx context.Context, userID string, q models.Question) (int64, error)
	Vote(ctx context.Context, questionID int64, up bool) (bool, error)
}

type PlayerStore interface {
	GetPlayerStats(ctx context.Context, userID string) (*repository.PlayerStats, error)
	RecentGames(ctx context.Context, userID string, limit int) ([]repository.HistoryEntry, error)
}

// PlayerHandler serves the signed-in player's persisted data and community
// question submissions. Every route requires an authenticated user.
type PlayerHandler struct {
	questions QuestionStore
	players   PlayerStore
	log       *zap.Logger
}

func NewPlayerHandler(questions QuestionStore, players PlayerStore, log *zap.Logger) *PlayerHandler {
	return &PlayerHandler{
		questions: questions,
		players:   players,
		log:       log,
	}
}

func userID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.ContextUserID)
	if id == "" {
		dto.JsonError(c, http.StatusUnauthorized, "Sign in required")
		return "", false
	}
	return id, true
}

func (h *PlayerHandler) SubmitQuestion(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req dto.SubmitQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = constants.DifficultyMedium
	}

	id, err := h.questions.Submit(c.Request.Context(), uid, models.Question{
		Text:         req.Question,
		Options:      req.Options,
		CorrectIndex: *req.CorrectIndex,
		Theme:        req.Theme,
		Difficulty:   req.Difficulty,
	})
	if err != nil {
		h.log.Error("failed to submit question", zap.String("user_id", uid), zap.Error(err))
		dto.JsonError(c, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitQuestionResponse{ID: id})
}

func (h *PlayerHandler) VoteQuestion(c *gin.Context) {
	if _, ok := userID(c); !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid question id")
		return
	}

	var req dto.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	approved, err := h.questions.Vote(c.Request.Context(), id, req.Up)
	if err != nil {
		if !errors.Is(err, repository.ErrQuestionNotFound) {
			h.log.Error("failed to vote on question", zap.Int64("question_id", id), zap.Error(err))
		}
		dto.ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.VoteResponse{Approved: approved})
}

func (h *PlayerHandler) GetStats(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	stats, err := h.players.GetPlayerStats(c.Request.Context(), uid)
	if errors.Is(err, repository.ErrUserNotFound) {
		c.JSON(http.StatusOK, repository.PlayerStats{UserID: uid, Level: 1})
		return
	}
	if err != nil {
		h.log.Error("failed to get player stats", zap.String("user_id", uid), zap.Error(err))
		dto.JsonError(c, http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *PlayerHandler) GetHistory(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			dto.JsonError(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	history, err := h.players.RecentGames(c.Request.Context(), uid, limit)
	if err != nil {
		h.log.Error("failed to get game history", zap.String("user_id", uid), zap.Error(err))
		dto.JsonError(c, http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []repository.HistoryEntry{}
	}

	c.JSON(http.StatusOK, history)
}
