package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trivia-service/internal/models"
)

type mockQuestionSource struct {
	mock.Mock
}

func (m *mockQuestionSource) FetchApproved(ctx context.Context, theme string) ([]models.Question, error) {
	args := m.Called(ctx, theme)
	qs, _ := args.Get(0).([]models.Question)
	return qs, args.Error(1)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) RecordGameResult(ctx context.Context, result models.GameResult) (models.Reward, error) {
	args := m.Called(ctx, result)
	return args.Get(0).(models.Reward), args.Error(1)
}

func (m *mockRecorder) CheckAchievements(ctx context.Context, check models.AchievementCheck) ([]models.Achievement, error) {
	args := m.Called(ctx, check)
	a, _ := args.Get(0).([]models.Achievement)
	return a, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishGameReport(ctx context.Context, report models.GameReport) error {
	return m.Called(ctx, report).Error(0)
}

func TestEngine_CreateRoom_MergesApprovedQuestions(t *testing.T) {
	src := &mockQuestionSource{}
	approved := []models.Question{{Text: "community", Options: []string{"w", "x", "y", "z"}, CorrectIndex: 3, Difficulty: "easy"}}
	src.On("FetchApproved", mock.Anything, "Science").Return(approved, nil).Once()

	h := newHarness(t, func(d *Dependencies) { d.Approved = src })
	h.connect("a")
	code := h.createRoom("a", "classic", SettingsRequest{QuestionCount: ptr(50)})

	room := h.room(code)
	assert.Len(t, room.Questions, 6)
	texts := make([]string, 0, len(room.Questions))
	for _, q := range room.Questions {
		texts = append(texts, q.Text)
	}
	assert.Contains(t, texts, "community")
	src.AssertExpectations(t)
}

func TestEngine_CreateRoom_FallsBackWhenSourceFails(t *testing.T) {
	src := &mockQuestionSource{}
	src.On("FetchApproved", mock.Anything, "Science").Return(nil, errors.New("connection refused")).Once()

	h := newHarness(t, func(d *Dependencies) { d.Approved = src })
	h.connect("a")
	code := h.createRoom("a", "classic", SettingsRequest{QuestionCount: ptr(50)})

	assert.Len(t, h.room(code).Questions, 5)
	src.AssertExpectations(t)
}

func TestEngine_GameOver_RecordsHumanResultsAndSendsRewards(t *testing.T) {
	rec := &mockRecorder{}
	pub := &mockPublisher{}
	h := newHarness(t, func(d *Dependencies) {
		d.Results = rec
		d.Reports = pub
	})
	h.eng.Connect("a", "user-a")
	h.eng.Connect("b", "")
	code := h.createRoom("a", "classic", SettingsRequest{QuestionCount: ptr(1), Practice: ptr(true), Bots: ptr(1)})
	h.join(code, "b")

	rec.On("RecordGameResult", mock.Anything, mock.MatchedBy(func(r models.GameResult) bool {
		return r.UserID == "user-a" && r.RoomCode == code && r.Rank == 1 && r.PlayerCount == 3 && r.TotalQuestions == 1
	})).Return(models.Reward{XPAwarded: 80, CoinsAwarded: 22, GamesPlayed: 1, GamesWon: 1}, nil).Once()
	rec.On("CheckAchievements", mock.Anything, models.AchievementCheck{UserID: "user-a", GamesPlayed: 1, GamesWon: 1, BestStreak: 1}).
		Return([]models.Achievement{{ID: 1, Name: "First Game"}}, nil).Once()
	pub.On("PublishGameReport", mock.Anything, mock.MatchedBy(func(r models.GameReport) bool {
		return r.RoomCode == code && len(r.Players) == 3 && r.Players[0].UserID == "user-a"
	})).Return(nil).Once()

	h.start(code, "a")
	require.NoError(t, h.eng.SubmitAnswer("a", 1))
	h.sched.Advance(10 * time.Second)
	h.sched.Advance(20 * time.Second)
	require.Equal(t, PhaseReveal, h.room(code).Phase)
	require.NoError(t, h.eng.NextQuestion("a"))

	rec.AssertExpectations(t)
	pub.AssertExpectations(t)
	p, ok := h.out.last("a", EventRewards)
	require.True(t, ok)
	rewards := p.(RewardsPayload)
	assert.Equal(t, 80, rewards.XP)
	assert.Equal(t, 22, rewards.Coins)
	require.Len(t, rewards.Achievements, 1)
	assert.Zero(t, h.out.count("b", EventRewards))
}

func TestEngine_GameOver_PersistenceFailureStillEndsGame(t *testing.T) {
	rec := &mockRecorder{}
	h := newHarness(t, func(d *Dependencies) { d.Results = rec })
	h.eng.Connect("a", "user-a")
	h.eng.Connect("b", "user-b")
	code := h.createRoom("a", "classic", SettingsRequest{QuestionCount: ptr(1)})
	h.join(code, "b")
	rec.On("RecordGameResult", mock.Anything, mock.Anything).Return(models.Reward{}, errors.New("db down")).Twice()

	h.start(code, "a")
	h.sched.Advance(20 * time.Second)
	require.NoError(t, h.eng.NextQuestion("a"))

	assert.Equal(t, 1, h.out.count("a", EventGameOver))
	assert.Equal(t, 1, h.out.count("b", EventGameOver))
	assert.Zero(t, h.out.count("a", EventRewards))
	rec.AssertExpectations(t)
	rec.AssertNotCalled(t, "CheckAchievements", mock.Anything, mock.Anything)
}
