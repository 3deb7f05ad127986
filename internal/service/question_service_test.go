package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trivia-service/internal/models"
	"trivia-service/pkg/cache"
)

var sampleQuestions = []models.Question{{
	Text:         "Largest planet?",
	Options:      []string{"Mars", "Jupiter", "Venus", "Earth"},
	CorrectIndex: 1,
	Difficulty:   "easy",
	Type:         "multiple",
	Theme:        "Science",
}}

func TestQuestionService_CacheHit(t *testing.T) {
	src := &mockSource{}
	c := &mockCache{}
	data, err := json.Marshal(sampleQuestions)
	require.NoError(t, err)
	c.On("Get", mock.Anything, "questions:approved:science").Return(data, nil).Once()

	svc := NewQuestionService(src, c, time.Minute, zap.NewNop())
	qs, err := svc.FetchApproved(context.Background(), "Science")

	require.NoError(t, err)
	assert.Equal(t, sampleQuestions, qs)
	src.AssertNotCalled(t, "FetchApproved", mock.Anything, mock.Anything)
	c.AssertExpectations(t)
}

func TestQuestionService_CacheMissFillsCache(t *testing.T) {
	src := &mockSource{}
	c := &mockCache{}
	c.On("Get", mock.Anything, "questions:approved:random").Return(nil, cache.ErrCacheMiss).Once()
	src.On("FetchApproved", mock.Anything, "Random").Return(sampleQuestions, nil).Once()
	c.On("Set", mock.Anything, "questions:approved:random", mock.AnythingOfType("[]uint8"), 5*time.Minute).Return(nil).Once()

	svc := NewQuestionService(src, c, 5*time.Minute, zap.NewNop())
	qs, err := svc.FetchApproved(context.Background(), "Random")

	require.NoError(t, err)
	assert.Equal(t, sampleQuestions, qs)
	src.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestQuestionService_CacheErrorsFallThrough(t *testing.T) {
	src := &mockSource{}
	c := &mockCache{}
	c.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()
	src.On("FetchApproved", mock.Anything, "History").Return(sampleQuestions, nil).Once()
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	svc := NewQuestionService(src, c, time.Minute, zap.NewNop())
	qs, err := svc.FetchApproved(context.Background(), "History")

	require.NoError(t, err)
	assert.Len(t, qs, 1)
}

func TestQuestionService_CorruptCacheEntry(t *testing.T) {
	src := &mockSource{}
	c := &mockCache{}
	c.On("Get", mock.Anything, mock.Anything).Return([]byte("{not json"), nil).Once()
	src.On("FetchApproved", mock.Anything, "Science").Return(sampleQuestions, nil).Once()
	c.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	svc := NewQuestionService(src, c, time.Minute, zap.NewNop())
	qs, err := svc.FetchApproved(context.Background(), "Science")

	require.NoError(t, err)
	assert.Equal(t, sampleQuestions, qs)
	src.AssertExpectations(t)
}

func TestQuestionService_SourceError(t *testing.T) {
	src := &mockSource{}
	src.On("FetchApproved", mock.Anything, "Science").Return(nil, errors.New("db down")).Once()

	svc := NewQuestionService(src, nil, time.Minute, zap.NewNop())
	_, err := svc.FetchApproved(context.Background(), "Science")

	require.EqualError(t, err, "db down")
}
