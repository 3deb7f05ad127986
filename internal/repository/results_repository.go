package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"trivia-service/internal/models"
)

type ResultsRepository struct {
	db *sql.DB
}

func NewResultsRepository(db *sql.DB) *ResultsRepository {
	return &ResultsRepository{db: db}
}

// SaveResult stores one player's game and folds it into their totals in a
// single transaction. The returned reward carries the updated counters.
func (r *ResultsRepository) SaveResult(ctx context.Context, result models.GameResult, xp, coins int) (models.Reward, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Reward{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, result.UserID); err != nil {
		return models.Reward{}, fmt.Errorf("failed to ensure user: %w", err)
	}

	won := 0
	if result.Rank == 1 {
		won = 1
	}

	updateUser := `
		UPDATE users
		SET xp = xp + $2,
			level = FLOOR(SQRT(GREATEST(xp + $2, 0) / 100.0))::int + 1,
			coins = coins + $3,
			total_games = total_games + 1,
			total_wins = total_wins + $4,
			total_correct = total_correct + $5,
			total_questions = total_questions + $6,
			best_streak = GREATEST(best_streak, $7)
		WHERE id = $1
		RETURNING total_games, total_wins
	`
	reward := models.Reward{XPAwarded: xp, CoinsAwarded: coins}
	err = tx.QueryRowContext(ctx, updateUser,
		result.UserID,
		xp,
		coins,
		won,
		result.CorrectCount,
		result.TotalQuestions,
		result.BestStreak,
	).Scan(&reward.GamesPlayed, &reward.GamesWon)
	if err != nil {
		return models.Reward{}, fmt.Errorf("failed to update user totals: %w", err)
	}

	insertHistory := `
		INSERT INTO game_history (user_id, room_code, game_mode, theme, score, correct_answers, total_questions, rank, players_count, xp_earned, coins_earned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, insertHistory,
		result.UserID,
		result.RoomCode,
		result.Mode,
		result.Theme,
		result.FinalScore,
		result.CorrectCount,
		result.TotalQuestions,
		result.Rank,
		result.PlayerCount,
		xp,
		coins,
	)
	if err != nil {
		return models.Reward{}, fmt.Errorf("failed to insert game history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Reward{}, fmt.Errorf("failed to commit result: %w", err)
	}
	return reward, nil
}

// UnlockAchievements grants every achievement whose threshold the check
// meets and the user does not hold yet, crediting their XP rewards.
func (r *ResultsRepository) UnlockAchievements(ctx context.Context, check models.AchievementCheck) ([]models.Achievement, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT a.id, a.name, a.description, a.icon, a.xp_reward
		FROM achievements a
		LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = $1
		WHERE ua.achievement_id IS NULL AND (
			(a.condition_type = 'games_played' AND a.condition_value <= $2) OR
			(a.condition_type = 'games_won' AND a.condition_value <= $3) OR
			(a.condition_type = 'streak' AND a.condition_value <= $4)
		)
		ORDER BY a.id
	`
	rows, err := tx.QueryContext(ctx, query, check.UserID, check.GamesPlayed, check.GamesWon, check.BestStreak)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}

	var unlocked []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.XPReward); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		unlocked = append(unlocked, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", err)
	}

	bonus := 0
	for _, a := range unlocked {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_achievements (user_id, achievement_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			check.UserID, a.ID,
		); err != nil {
			return nil, fmt.Errorf("failed to unlock achievement %d: %w", a.ID, err)
		}
		bonus += a.XPReward
	}

	if bonus > 0 {
		_, err := tx.ExecContext(ctx, `
			UPDATE users
			SET xp = xp + $2, level = FLOOR(SQRT(GREATEST(xp + $2, 0) / 100.0))::int + 1
			WHERE id = $1
		`, check.UserID, bonus)
		if err != nil {
			return nil, fmt.Errorf("failed to credit achievement xp: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit achievements: %w", err)
	}
	return unlocked, nil
}

type PlayerStats struct {
	UserID         string `json:"user_id"`
	XP             int    `json:"xp"`
	Level          int    `json:"level"`
	Coins          int    `json:"coins"`
	TotalGames     int    `json:"total_games"`
	TotalWins      int    `json:"total_wins"`
	TotalCorrect   int    `json:"total_correct"`
	TotalQuestions int    `json:"total_questions"`
	BestStreak     int    `json:"best_streak"`
}

func (r *ResultsRepository) GetPlayerStats(ctx context.Context, userID string) (*PlayerStats, error) {
	query := `
		SELECT id, xp, level, coins, total_games, total_wins, total_correct, total_questions, best_streak
		FROM users
		WHERE id = $1
	`
	stats := &PlayerStats{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.XP,
		&stats.Level,
		&stats.Coins,
		&stats.TotalGames,
		&stats.TotalWins,
		&stats.TotalCorrect,
		&stats.TotalQuestions,
		&stats.BestStreak,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %w", err)
	}
	return stats, nil
}

type HistoryEntry struct {
	RoomCode       string    `json:"room_code"`
	Mode           string    `json:"mode"`
	Theme          string    `json:"theme"`
	Score          int       `json:"score"`
	CorrectAnswers int       `json:"correct_answers"`
	TotalQuestions int       `json:"total_questions"`
	Rank           int       `json:"rank"`
	PlayersCount   int       `json:"players_count"`
	XPEarned       int       `json:"xp_earned"`
	CoinsEarned    int       `json:"coins_earned"`
	PlayedAt       time.Time `json:"played_at"`
}

func (r *ResultsRepository) RecentGames(ctx context.Context, userID string, limit int) ([]HistoryEntry, error) {
	query := `
		SELECT room_code, game_mode, theme, score, correct_answers, total_questions, rank, players_count, xp_earned, coins_earned, played_at
		FROM game_history
		WHERE user_id = $1
		ORDER BY played_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(
			&h.RoomCode,
			&h.Mode,
			&h.Theme,
			&h.Score,
			&h.CorrectAnswers,
			&h.TotalQuestions,
			&h.Rank,
			&h.PlayersCount,
			&h.XPEarned,
			&h.CoinsEarned,
			&h.PlayedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game history: %w", err)
		}
		entries = append(entries, h)
	}
	return entries, rows.Err()
}
