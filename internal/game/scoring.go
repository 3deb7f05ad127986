package game

import (
	"math"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
)

const (
	BasePoints     = 100
	StreakStep     = 10
	StreakCap      = 50
	ShieldFallback = 50

	// floorSlack absorbs float error so 100 * 1.15 floors to 115.
	floorSlack = 1e-9
)

// SpeedBonus is ten points per second left on the clock.
func SpeedBonus(timeLimitSec int, elapsedSeconds float64) int {
	left := float64(timeLimitSec) - elapsedSeconds
	if left <= 0 {
		return 0
	}
	return int(math.Floor(left * 10))
}

func DifficultyMultiplier(difficulty string) float64 {
	switch difficulty {
	case constants.DifficultyEasy:
		return 1.0
	case constants.DifficultyHard:
		return 1.5
	default:
		return 1.25
	}
}

func StreakBonus(streak int) int {
	return min(streak*StreakStep, StreakCap)
}

// Outcome is the resolved effect of one player's answer at reveal.
type Outcome struct {
	Answered  bool
	Correct   bool
	Shielded  bool
	Frozen    bool
	Points    int
	Streak    int
	LivesLost int
}

// ScoreInput gathers the player state the scoring rules read.
type ScoreInput struct {
	Policy         ModePolicy
	RoomMultiplier float64
	Question       models.Question
	Streak         int
	Lives          int
	ShieldActive   bool
	Bet            int
	Frozen         bool
	Answer         *PendingAnswer
}

func Score(in ScoreInput) Outcome {
	out := Outcome{Answered: in.Answer != nil, Streak: in.Streak}
	shield := in.ShieldActive
	bet := in.Bet
	if in.Answer != nil {
		shield = shield || in.Answer.ShieldWasActive
		bet = in.Answer.Bet
	}

	if in.Answer != nil && in.Answer.ChoiceIndex == in.Question.CorrectIndex {
		out.Correct = true
		mult := in.RoomMultiplier * in.Answer.PointMultiplier * DifficultyMultiplier(in.Question.Difficulty)
		out.Points = int(math.Floor(float64(BasePoints+in.Answer.SpeedBonus)*mult + floorSlack))
		if in.Policy.Betting {
			out.Points += bet
		} else {
			out.Points += StreakBonus(in.Streak)
		}
		out.Streak = in.Streak + 1
		return out
	}

	// A player frozen during the question without answering is left as is.
	if in.Answer == nil && in.Frozen {
		out.Frozen = true
		return out
	}

	if shield {
		out.Shielded = true
		if !in.Policy.Betting {
			out.Points = ShieldFallback
		}
		return out
	}

	out.Streak = 0
	if in.Policy.Betting {
		out.Points = -bet
	}
	switch in.Policy.MissRule {
	case MissCostsLife:
		out.LivesLost = min(1, in.Lives)
	case MissCostsAllLives:
		out.LivesLost = in.Lives
	}
	return out
}
