package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"trivia-service/internal/models"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchApproved(ctx context.Context, theme string) ([]models.Question, error) {
	args := m.Called(ctx, theme)
	qs, _ := args.Get(0).([]models.Question)
	return qs, args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SaveResult(ctx context.Context, result models.GameResult, xp, coins int) (models.Reward, error) {
	args := m.Called(ctx, result, xp, coins)
	return args.Get(0).(models.Reward), args.Error(1)
}

func (m *mockStore) UnlockAchievements(ctx context.Context, check models.AchievementCheck) ([]models.Achievement, error) {
	args := m.Called(ctx, check)
	a, _ := args.Get(0).([]models.Achievement)
	return a, args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, queueName string, body []byte) error {
	return m.Called(ctx, queueName, body).Error(0)
}

type mockArchive struct {
	mock.Mock
}

func (m *mockArchive) PutJSON(ctx context.Context, objectName string, body []byte) error {
	return m.Called(ctx, objectName, body).Error(0)
}
