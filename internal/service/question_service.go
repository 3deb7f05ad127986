package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"trivia-service/internal/models"
	"trivia-service/pkg/cache"
)

const approvedKeyPrefix = "questions:approved:"

type QuestionSource interface {
	FetchApproved(ctx context.Context, theme string) ([]models.Question, error)
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// QuestionService puts a Redis read-through cache in front of the approved
// question source. Cache failures fall through to the source.
type QuestionService struct {
	source QuestionSource
	cache  Cache
	ttl    time.Duration
	log    *zap.Logger
}

func NewQuestionService(source QuestionSource, cache Cache, ttl time.Duration, log *zap.Logger) *QuestionService {
	return &QuestionService{
		source: source,
		cache:  cache,
		ttl:    ttl,
		log:    log,
	}
}

func approvedKey(theme string) string {
	return approvedKeyPrefix + strings.ToLower(theme)
}

func (s *QuestionService) FetchApproved(ctx context.Context, theme string) ([]models.Question, error) {
	key := approvedKey(theme)

	if s.cache != nil {
		data, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var questions []models.Question
			if err := json.Unmarshal(data, &questions); err == nil {
				return questions, nil
			}
			s.log.Warn("discarding corrupt cached questions", zap.String("key", key))
		case !errors.Is(err, cache.ErrCacheMiss):
			s.log.Warn("question cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	questions, err := s.source.FetchApproved(ctx, theme)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		data, err := json.Marshal(questions)
		if err == nil {
			err = s.cache.Set(ctx, key, data, s.ttl)
		}
		if err != nil {
			s.log.Warn("question cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return questions, nil
}
