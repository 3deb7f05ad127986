package game

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
)

func TestSpeedBonus(t *testing.T) {
	assert.Equal(t, 100, SpeedBonus(10, 0))
	assert.Equal(t, 45, SpeedBonus(10, 5.5))
	assert.Equal(t, 0, SpeedBonus(10, 10))
	assert.Equal(t, 0, SpeedBonus(10, 12))
}

func TestStreakBonus_Capped(t *testing.T) {
	assert.Equal(t, 0, StreakBonus(0))
	assert.Equal(t, 30, StreakBonus(3))
	assert.Equal(t, StreakCap, StreakBonus(9))
}

func TestScore(t *testing.T) {
	classic, _ := LookupMode("classic")
	survival, _ := LookupMode("survival")
	blitz, _ := LookupMode("blitz")
	betting, _ := LookupMode("betting")
	hard := models.Question{Options: []string{"a", "b", "c", "d"}, CorrectIndex: 0, Difficulty: constants.DifficultyHard}
	medium := models.Question{Options: []string{"a", "b", "c", "d"}, CorrectIndex: 0, Difficulty: constants.DifficultyMedium}
	right := &PendingAnswer{ChoiceIndex: 0, SpeedBonus: 50, PointMultiplier: 1}
	wrong := &PendingAnswer{ChoiceIndex: 3, SpeedBonus: 90, PointMultiplier: 1}

	tests := []struct {
		name string
		in   ScoreInput
		want Outcome
	}{
		{
			name: "correct with difficulty and streak",
			in:   ScoreInput{Policy: classic, RoomMultiplier: 1, Question: hard, Streak: 2, Answer: right},
			want: Outcome{Answered: true, Correct: true, Points: 225 + 20, Streak: 3},
		},
		{
			name: "room multiplier and double points",
			in:   ScoreInput{Policy: classic, RoomMultiplier: 1.5, Question: medium, Answer: &PendingAnswer{ChoiceIndex: 0, SpeedBonus: 20, PointMultiplier: 2}},
			want: Outcome{Answered: true, Correct: true, Points: 450, Streak: 1},
		},
		{
			name: "miss resets streak",
			in:   ScoreInput{Policy: classic, RoomMultiplier: 1, Question: hard, Streak: 4, Answer: wrong},
			want: Outcome{Answered: true, Streak: 0},
		},
		{
			name: "silence is a miss",
			in:   ScoreInput{Policy: survival, RoomMultiplier: 1, Question: hard, Streak: 1, Lives: 2},
			want: Outcome{Streak: 0, LivesLost: 1},
		},
		{
			name: "no lives left to lose",
			in:   ScoreInput{Policy: survival, RoomMultiplier: 1, Question: hard, Lives: 0, Answer: wrong},
			want: Outcome{Answered: true},
		},
		{
			name: "blitz miss takes every life",
			in:   ScoreInput{Policy: blitz, RoomMultiplier: 1, Question: hard, Lives: 3, Answer: wrong},
			want: Outcome{Answered: true, LivesLost: 3},
		},
		{
			name: "shield covers survival miss",
			in:   ScoreInput{Policy: survival, RoomMultiplier: 1, Question: hard, Streak: 2, Lives: 3, Answer: &PendingAnswer{ChoiceIndex: 1, ShieldWasActive: true}},
			want: Outcome{Answered: true, Shielded: true, Points: ShieldFallback, Streak: 2},
		},
		{
			name: "betting win returns wager without streak",
			in:   ScoreInput{Policy: betting, RoomMultiplier: 1, Question: hard, Streak: 5, Answer: &PendingAnswer{ChoiceIndex: 0, PointMultiplier: 1, Bet: 40}},
			want: Outcome{Answered: true, Correct: true, Points: 150 + 40, Streak: 6},
		},
		{
			name: "betting loss forfeits wager",
			in:   ScoreInput{Policy: betting, RoomMultiplier: 1, Question: hard, Bet: 70, Answer: &PendingAnswer{ChoiceIndex: 2, Bet: 70}},
			want: Outcome{Answered: true, Points: -70},
		},
		{
			name: "betting silence forfeits wager",
			in:   ScoreInput{Policy: betting, RoomMultiplier: 1, Question: hard, Bet: 25},
			want: Outcome{Points: -25},
		},
		{
			name: "fractional room multiplier floors the exact product",
			in:   ScoreInput{Policy: classic, RoomMultiplier: 1.15, Question: models.Question{Options: []string{"a", "b", "c", "d"}, Difficulty: constants.DifficultyEasy}, Answer: &PendingAnswer{ChoiceIndex: 0, PointMultiplier: 1}},
			want: Outcome{Answered: true, Correct: true, Points: 115, Streak: 1},
		},
		{
			name: "frozen silence costs nothing in blitz",
			in:   ScoreInput{Policy: blitz, RoomMultiplier: 1, Question: hard, Streak: 3, Lives: 3, Frozen: true},
			want: Outcome{Frozen: true, Streak: 3},
		},
		{
			name: "frozen silence keeps the wager",
			in:   ScoreInput{Policy: betting, RoomMultiplier: 1, Question: hard, Bet: 60, Frozen: true},
			want: Outcome{Frozen: true},
		},
		{
			name: "frozen player who answered is scored normally",
			in:   ScoreInput{Policy: survival, RoomMultiplier: 1, Question: hard, Lives: 3, Frozen: true, Answer: wrong},
			want: Outcome{Answered: true, LivesLost: 1},
		},
		{
			name: "betting shield keeps wager",
			in:   ScoreInput{Policy: betting, RoomMultiplier: 1, Question: hard, Bet: 25, ShieldActive: true},
			want: Outcome{Shielded: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.in))
		})
	}
}
