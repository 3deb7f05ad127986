package repository

import (
	"context"
	"database/sql"
	"fmt"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
)

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// FetchApproved returns the community questions approved for theme. The
// Random theme draws from every theme.
func (r *QuestionRepository) FetchApproved(ctx context.Context, theme string) ([]models.Question, error) {
	query := `
		SELECT question, option_a, option_b, option_c, option_d, correct_answer, COALESCE(theme, ''), difficulty
		FROM custom_questions
		WHERE approved AND ($1 = '' OR LOWER(theme) = LOWER($1))
		ORDER BY id
	`
	if theme == constants.RandomTheme {
		theme = ""
	}

	rows, err := r.db.QueryContext(ctx, query, theme)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		q := models.Question{
			Options: make([]string, 4),
			Type:    constants.QuestionTypeMultiple,
		}
		if err := rows.Scan(
			&q.Text,
			&q.Options[0],
			&q.Options[1],
			&q.Options[2],
			&q.Options[3],
			&q.CorrectIndex,
			&q.Theme,
			&q.Difficulty,
		); err != nil {
			return nil, fmt.Errorf("failed to scan approved question: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func (r *QuestionRepository) Submit(ctx context.Context, userID string, q models.Question) (int64, error) {
	query := `
		INSERT INTO custom_questions (user_id, question, option_a, option_b, option_c, option_d, correct_answer, theme, difficulty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	if len(q.Options) != 4 {
		return 0, fmt.Errorf("question needs 4 options, got %d", len(q.Options))
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		userID,
		q.Text,
		q.Options[0],
		q.Options[1],
		q.Options[2],
		q.Options[3],
		q.CorrectIndex,
		q.Theme,
		q.Difficulty,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert question: %w", err)
	}
	return id, nil
}

// Vote records a vote and approves the question once it has at least ten
// upvotes and leads by five.
func (r *QuestionRepository) Vote(ctx context.Context, questionID int64, up bool) (bool, error) {
	query := `
		UPDATE custom_questions
		SET votes_up = votes_up + $2,
			votes_down = votes_down + $3,
			approved = approved OR (votes_up + $2 >= 10 AND (votes_up + $2) - (votes_down + $3) >= 5)
		WHERE id = $1
		RETURNING approved
	`
	upInc, downInc := 0, 1
	if up {
		upInc, downInc = 1, 0
	}

	var approved bool
	err := r.db.QueryRowContext(ctx, query, questionID, upInc, downInc).Scan(&approved)
	if err == sql.ErrNoRows {
		return false, ErrQuestionNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to vote on question: %w", err)
	}
	return approved, nil
}
