package game

import (
	"cmp"
	"context"
	"slices"

	"go.uber.org/zap"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
)

const tieTeam = "tie"

func (e *Engine) finish(room *Room) {
	e.transition(room, PhaseEnded)
	room.EndedAt = e.now()
	e.gamesFinished++

	rankings := rank(room.players)
	teamScores := room.teamScores()
	e.broadcast(room, EventGameOver, GameOverPayload{
		Rankings:       rankings,
		TeamScores:     teamScores,
		WinningTeam:    winningTeam(teamScores),
		TotalQuestions: len(room.Questions),
	})
	e.log.Info("game over",
		zap.String("room", room.Code),
		zap.Int("players", len(rankings)),
		zap.Duration("duration", room.EndedAt.Sub(room.StartedAt)),
	)

	e.persist(room, rankings)
	room.phaseTimer = e.after(room, e.cfg.RematchWindow, func() { e.deleteRoom(room) })
}

// rank orders by score, then correct answers, then name.
func rank(players []*PlayerSession) []Ranking {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b *PlayerSession) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.CorrectCount, a.CorrectCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	out := make([]Ranking, 0, len(sorted))
	for i, p := range sorted {
		out = append(out, Ranking{
			Rank:         i + 1,
			PlayerID:     p.ConnID,
			Name:         p.Name,
			Avatar:       p.Avatar,
			Color:        p.Color,
			Score:        p.Score,
			CorrectCount: p.CorrectCount,
			BestStreak:   p.BestStreak,
			Team:         p.Team,
			IsBot:        p.IsBot,
		})
	}
	return out
}

func winningTeam(scores map[string]int) string {
	if scores == nil {
		return ""
	}
	red, blue := scores[constants.TeamRed], scores[constants.TeamBlue]
	switch {
	case red > blue:
		return constants.TeamRed
	case blue > red:
		return constants.TeamBlue
	default:
		return tieTeam
	}
}

// persist hands results to the collaborators off the engine goroutine.
// Failures are logged and never retried.
func (e *Engine) persist(room *Room, rankings []Ranking) {
	if e.reports != nil {
		report := e.report(room, rankings)
		e.sched.Go(func() {
			ctx, cancel := context.WithTimeout(context.Background(), e.cfg.PersistTimeout)
			defer cancel()
			if err := e.reports.PublishGameReport(ctx, report); err != nil {
				e.log.Error("publish game report failed", zap.String("room", report.RoomCode), zap.Error(err))
			}
		})
	}
	if e.results == nil {
		return
	}
	for _, r := range rankings {
		p := room.Player(r.PlayerID)
		if p == nil || p.IsBot || p.UserID == "" {
			continue
		}
		result := models.GameResult{
			UserID:         p.UserID,
			RoomCode:       room.Code,
			Mode:           string(room.Policy.Mode),
			Theme:          room.Theme,
			FinalScore:     p.Score,
			CorrectCount:   p.CorrectCount,
			TotalQuestions: len(room.Questions),
			Rank:           r.Rank,
			PlayerCount:    len(rankings),
			BestStreak:     p.BestStreak,
		}
		connID, bestStreak := p.ConnID, p.BestStreak
		e.sched.Go(func() { e.recordResult(connID, result, bestStreak) })
	}
}

func (e *Engine) recordResult(connID string, result models.GameResult, bestStreak int) {
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.PersistTimeout)
	defer cancel()

	reward, err := e.results.RecordGameResult(ctx, result)
	if err != nil {
		e.log.Error("record game result failed",
			zap.String("user_id", result.UserID),
			zap.String("room", result.RoomCode),
			zap.Error(err),
		)
		return
	}
	unlocked, err := e.results.CheckAchievements(ctx, models.AchievementCheck{
		UserID:      result.UserID,
		GamesPlayed: reward.GamesPlayed,
		GamesWon:    reward.GamesWon,
		BestStreak:  bestStreak,
	})
	if err != nil {
		e.log.Warn("check achievements failed", zap.String("user_id", result.UserID), zap.Error(err))
	}

	e.sched.Post(func() {
		s, ok := e.sessions[connID]
		if !ok || s.UserID != result.UserID {
			return
		}
		e.emit.Send(connID, EventRewards, RewardsPayload{
			XP:           reward.XPAwarded,
			Coins:        reward.CoinsAwarded,
			Achievements: unlocked,
		})
	})
}

func (e *Engine) report(room *Room, rankings []Ranking) models.GameReport {
	report := models.GameReport{
		RoomCode:       room.Code,
		Mode:           string(room.Policy.Mode),
		Theme:          room.Theme,
		TotalQuestions: len(room.Questions),
		TeamScores:     room.teamScores(),
		StartedAt:      room.StartedAt,
		EndedAt:        room.EndedAt,
	}
	for _, r := range rankings {
		p := room.Player(r.PlayerID)
		report.Players = append(report.Players, models.PlayerReport{
			UserID:       p.UserID,
			Name:         r.Name,
			Score:        r.Score,
			CorrectCount: r.CorrectCount,
			BestStreak:   r.BestStreak,
			Rank:         r.Rank,
			Team:         r.Team,
			IsBot:        r.IsBot,
		})
	}
	return report
}
