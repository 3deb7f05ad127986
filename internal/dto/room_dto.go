package dto

import "trivia-service/internal/game"

type ThemesResponse struct {
	Themes []string `json:"themes"`
}

type ModesResponse struct {
	Modes []game.ModePolicy `json:"modes"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type SubmitQuestionRequest struct {
	Question     string   `json:"question" binding:"required"`
	Options      []string `json:"options" binding:"required,len=4,dive,required"`
	CorrectIndex *int     `json:"correctIndex" binding:"required,min=0,max=3"`
	Theme        string   `json:"theme" binding:"required"`
	Difficulty   string   `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

type SubmitQuestionResponse struct {
	ID int64 `json:"id"`
}

type VoteRequest struct {
	Up bool `json:"up"`
}

type VoteResponse struct {
	Approved bool `json:"approved"`
}
