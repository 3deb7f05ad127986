package models

import "time"

type Question struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Difficulty   string   `json:"difficulty"`
	Type         string   `json:"type"`
	Theme        string   `json:"theme,omitempty"`
}

// GameResult is what the results collaborator stores for one human player.
type GameResult struct {
	UserID         string `json:"user_id"`
	RoomCode       string `json:"room_code"`
	Mode           string `json:"mode"`
	Theme          string `json:"theme"`
	FinalScore     int    `json:"final_score"`
	CorrectCount   int    `json:"correct_count"`
	TotalQuestions int    `json:"total_questions"`
	Rank           int    `json:"rank"`
	PlayerCount    int    `json:"player_count"`
	BestStreak     int    `json:"best_streak"`
}

type Reward struct {
	XPAwarded    int `json:"xp_awarded"`
	CoinsAwarded int `json:"coins_awarded"`
	GamesPlayed  int `json:"games_played"`
	GamesWon     int `json:"games_won"`
}

type AchievementCheck struct {
	UserID      string
	GamesPlayed int
	GamesWon    int
	BestStreak  int
}

type Achievement struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XPReward    int    `json:"xp_reward"`
}

// GameReport is the whole-room summary published once per finished game.
type GameReport struct {
	RoomCode       string         `json:"room_code"`
	Mode           string         `json:"mode"`
	Theme          string         `json:"theme"`
	TotalQuestions int            `json:"total_questions"`
	Players        []PlayerReport `json:"players"`
	TeamScores     map[string]int `json:"team_scores,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
	EndedAt        time.Time      `json:"ended_at"`
}

type PlayerReport struct {
	UserID       string `json:"user_id,omitempty"`
	Name         string `json:"name"`
	Score        int    `json:"score"`
	CorrectCount int    `json:"correct_count"`
	BestStreak   int    `json:"best_streak"`
	Rank         int    `json:"rank"`
	Team         string `json:"team,omitempty"`
	IsBot        bool   `json:"is_bot"`
}
