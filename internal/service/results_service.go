package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
)

const (
	baseXP       = 20
	xpPerCorrect = 10
	coinDivisor  = 100
	winnerCoins  = 20
)

var podiumXP = map[int]int{1: 50, 2: 25, 3: 10}

type ResultsStore interface {
	SaveResult(ctx context.Context, result models.GameResult, xp, coins int) (models.Reward, error)
	UnlockAchievements(ctx context.Context, check models.AchievementCheck) ([]models.Achievement, error)
}

type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

type Archive interface {
	PutJSON(ctx context.Context, objectName string, body []byte) error
}

// ResultsService turns finished games into rewards and fans the game report
// out to the message queue and the object store. Either sink may be nil.
type ResultsService struct {
	store     ResultsStore
	publisher Publisher
	archive   Archive
	log       *zap.Logger
}

func NewResultsService(store ResultsStore, publisher Publisher, archive Archive, log *zap.Logger) *ResultsService {
	return &ResultsService{
		store:     store,
		publisher: publisher,
		archive:   archive,
		log:       log,
	}
}

// Rewards computes the XP and coins a result earns.
func Rewards(result models.GameResult) (xp, coins int) {
	xp = baseXP + xpPerCorrect*result.CorrectCount + podiumXP[result.Rank]
	coins = max(result.FinalScore, 0) / coinDivisor
	if result.Rank == 1 {
		coins += winnerCoins
	}
	return xp, coins
}

func (s *ResultsService) RecordGameResult(ctx context.Context, result models.GameResult) (models.Reward, error) {
	if result.UserID == "" {
		return models.Reward{}, errors.New("result has no user")
	}

	xp, coins := Rewards(result)
	reward, err := s.store.SaveResult(ctx, result, xp, coins)
	if err != nil {
		return models.Reward{}, fmt.Errorf("failed to save result: %w", err)
	}

	s.log.Info("game result recorded",
		zap.String("user_id", result.UserID),
		zap.String("room", result.RoomCode),
		zap.Int("rank", result.Rank),
		zap.Int("xp", xp),
		zap.Int("coins", coins),
	)
	return reward, nil
}

func (s *ResultsService) CheckAchievements(ctx context.Context, check models.AchievementCheck) ([]models.Achievement, error) {
	unlocked, err := s.store.UnlockAchievements(ctx, check)
	if err != nil {
		return nil, fmt.Errorf("failed to check achievements: %w", err)
	}
	for _, a := range unlocked {
		s.log.Info("achievement unlocked", zap.String("user_id", check.UserID), zap.String("achievement", a.Name))
	}
	return unlocked, nil
}

func ReportObjectName(report models.GameReport) string {
	return fmt.Sprintf("games/%s/%d.json", report.RoomCode, report.EndedAt.Unix())
}

// PublishGameReport sends the report to every configured sink and joins
// their errors.
func (s *ResultsService) PublishGameReport(ctx context.Context, report models.GameReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode game report: %w", err)
	}

	var errs []error
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, constants.QueueGameResults, body); err != nil {
			errs = append(errs, fmt.Errorf("failed to publish game report: %w", err))
		}
	}
	if s.archive != nil {
		if err := s.archive.PutJSON(ctx, ReportObjectName(report), body); err != nil {
			errs = append(errs, fmt.Errorf("failed to archive game report: %w", err))
		}
	}
	return errors.Join(errs...)
}
