package game

import (
	"cmp"
	"slices"
	"time"

	"go.uber.org/zap"

	"trivia-service/internal/constants"
)

func (e *Engine) StartGame(connID string) error {
	room, err := e.hostRoom(connID)
	if err != nil {
		return err
	}
	if room.Started || room.Phase != PhaseLobby {
		return ErrGameStarted
	}
	need := e.cfg.MinPlayers
	if room.Settings.Practice {
		need = 1
	}
	if len(room.players) < need {
		return ErrNotEnoughPlayers
	}

	room.Started = true
	room.StartedAt = e.now()
	for _, p := range room.players {
		p.resetForGame(room.Policy)
	}
	var teams map[string][]string
	if room.Policy.Teams {
		room.assignTeams()
		teams = teamRoster(room)
	}

	e.log.Info("game started",
		zap.String("room", room.Code),
		zap.String("mode", string(room.Policy.Mode)),
		zap.Int("players", len(room.players)),
	)
	e.broadcast(room, EventGameStarted, GameStartedPayload{
		TotalQuestions: len(room.Questions),
		TimeLimit:      room.Settings.TimeLimitSec,
		Mode:           room.Policy.Mode,
		Teams:          teams,
		Players:        room.views(e.now()),
	})
	room.phaseTimer = e.after(room, e.cfg.LobbyDelay, func() { e.beginRound(room) })
	return nil
}

func teamRoster(room *Room) map[string][]string {
	teams := map[string][]string{constants.TeamRed: {}, constants.TeamBlue: {}}
	for _, p := range room.players {
		teams[p.Team] = append(teams[p.Team], p.ConnID)
	}
	return teams
}

func (e *Engine) beginRound(room *Room) {
	if room.Policy.Betting {
		e.openBetting(room)
		return
	}
	e.openQuestion(room)
}

func (e *Engine) openBetting(room *Room) {
	e.transition(room, PhaseBetting)
	seconds := int(e.cfg.BettingWindow / time.Second)
	for _, p := range room.players {
		p.Bet = 0
		p.BetPlaced = false
		if p.IsBot {
			p.Bet = e.rng.IntN(max(p.Score, 0)/2 + 1)
			p.BetPlaced = true
			continue
		}
		e.send(p.ConnID, EventBettingPhase, BettingPhasePayload{
			QuestionIndex:  room.CurrentQuestionIndex,
			TotalQuestions: len(room.Questions),
			Seconds:        seconds,
			MaxBet:         max(p.Score, 0),
		})
	}
	room.phaseTimer = e.after(room, e.cfg.BettingWindow, func() { e.openQuestion(room) })
}

// PlaceBet records a wager clamped to [0, score]. A player may change it
// until bets close.
func (e *Engine) PlaceBet(connID string, amount int) error {
	s, room, err := e.sessionRoom(connID)
	if err != nil {
		return err
	}
	if room.Phase != PhaseBetting {
		return ErrNotBettingRound
	}
	s.Bet = clamp(amount, 0, max(s.Score, 0))
	s.BetPlaced = true

	placed := 0
	for _, p := range room.players {
		if p.BetPlaced {
			placed++
		}
	}
	for _, p := range room.humans() {
		payload := BetPlacedPayload{PlayerID: connID, Placed: placed, Total: len(room.players)}
		if p == s {
			payload.Amount = s.Bet
		}
		e.send(p.ConnID, EventBetPlaced, payload)
	}
	e.maybeCloseBets(room)
	return nil
}

// AllBetsPlaced lets the host close betting early.
func (e *Engine) AllBetsPlaced(connID string) error {
	room, err := e.hostRoom(connID)
	if err != nil {
		return err
	}
	if room.Phase != PhaseBetting {
		return ErrNotBettingRound
	}
	e.openQuestion(room)
	return nil
}

func (e *Engine) maybeCloseBets(room *Room) {
	if room.Phase != PhaseBetting {
		return
	}
	for _, p := range room.players {
		if !p.BetPlaced {
			return
		}
	}
	e.openQuestion(room)
}

func (e *Engine) openQuestion(room *Room) {
	e.transition(room, PhaseQuestion)
	now := e.now()
	room.PendingAnswers = make(map[string]*PendingAnswer)
	room.bannedOptions = nil
	room.finalReveal = false
	for _, p := range room.players {
		p.clearQuestionState()
		if p.Frozen(now) {
			p.FrozenInRound = true
		} else {
			p.FrozenUntil = time.Time{}
		}
	}

	limit := time.Duration(room.Settings.TimeLimitSec) * time.Second
	room.openedAt = now
	room.deadline = now.Add(limit)

	eligible := room.eligible(now)
	ids := make([]string, 0, len(eligible))
	for _, p := range eligible {
		ids = append(ids, p.ConnID)
	}
	e.broadcast(room, EventQuestion, questionPayload(
		room.CurrentQuestion(),
		room.CurrentQuestionIndex,
		len(room.Questions),
		room.Settings.TimeLimitSec,
		room.deadline.UnixMilli(),
		ids,
	))
	room.phaseTimer = e.after(room, limit, func() { e.reveal(room) })
	e.scheduleBots(room)
}

func (e *Engine) SubmitAnswer(connID string, choice int) error {
	s, room, err := e.sessionRoom(connID)
	if err != nil {
		return err
	}
	if room.Phase != PhaseQuestion {
		return ErrNoOpenQuestion
	}
	return e.submit(room, s, choice)
}

func (e *Engine) submit(room *Room, s *PlayerSession, choice int) error {
	now := e.now()
	q := room.CurrentQuestion()
	switch {
	case !s.Alive(room.Policy):
		return ErrEliminated
	case s.Frozen(now):
		return ErrFrozen
	case choice < 0 || choice >= len(q.Options) || room.optionBanned(choice):
		return ErrInvalidChoice
	case now.After(room.deadline):
		return ErrTimeUp
	case s.Answered && !s.AwaitingRetry:
		return ErrAlreadyAnswered
	}

	elapsed := now.Sub(room.openedAt).Seconds()
	mult := 1.0
	if s.DoublePoints {
		mult = 2
	}
	room.PendingAnswers[s.ConnID] = &PendingAnswer{
		ChoiceIndex:     choice,
		ElapsedSeconds:  elapsed,
		SpeedBonus:      SpeedBonus(room.Settings.TimeLimitSec, elapsed),
		PointMultiplier: mult,
		ShieldWasActive: s.ShieldActive,
		Bet:             s.Bet,
	}

	retrying := s.AwaitingRetry
	s.Answered = true
	s.AwaitingRetry = false
	e.send(s.ConnID, EventAnswerAccepted, AnswerAcceptedPayload{ChoiceIndex: choice, Elapsed: elapsed})

	if !retrying && s.SecondChance && choice != q.CorrectIndex {
		s.SecondChance = false
		s.AwaitingRetry = true
		e.send(s.ConnID, EventSecondChance, AnswerAcceptedPayload{ChoiceIndex: choice, Elapsed: elapsed})
	}

	e.broadcast(room, EventAnswerProgress, AnswerProgressPayload{
		Answered: room.answeredCount(),
		Eligible: len(room.eligible(now)),
	})
	e.maybeRevealEarly(room)
	return nil
}

// maybeRevealEarly schedules the reveal after a short grace once every
// eligible player has a final answer.
func (e *Engine) maybeRevealEarly(room *Room) {
	if room.Phase != PhaseQuestion || room.revealScheduled {
		return
	}
	if !room.allEligibleDone(e.now()) {
		return
	}
	room.revealScheduled = true
	if room.phaseTimer != nil {
		room.phaseTimer.Stop()
	}
	room.phaseTimer = e.after(room, e.cfg.RevealGrace, func() { e.reveal(room) })
}

func (e *Engine) reveal(room *Room) {
	if room.Phase != PhaseQuestion {
		return
	}
	e.transition(room, PhaseReveal)
	q := room.CurrentQuestion()

	results := make([]AnswerResult, 0, len(room.players))
	var eliminated []string
	var granted []*PlayerSession
	for _, p := range room.players {
		if !p.Alive(room.Policy) {
			continue
		}
		pa := room.PendingAnswers[p.ConnID]
		out := Score(ScoreInput{
			Policy:         room.Policy,
			RoomMultiplier: room.Settings.PointMultiplier,
			Question:       q,
			Streak:         p.Streak,
			Lives:          p.Lives,
			ShieldActive:   p.ShieldActive,
			Bet:            p.Bet,
			Frozen:         p.FrozenInRound,
			Answer:         pa,
		})

		p.Score += out.Points
		p.recordStreak(out.Streak)
		p.Lives -= out.LivesLost
		if out.Shielded {
			p.ShieldActive = false
		}
		if out.Correct {
			p.CorrectCount++
			if e.grant(room, p) {
				granted = append(granted, p)
			}
		}
		if out.LivesLost > 0 && p.Lives == 0 {
			eliminated = append(eliminated, p.ConnID)
		}
		p.DoublePoints = false
		p.Bet = 0
		p.BetPlaced = false

		r := AnswerResult{
			PlayerID:    p.ConnID,
			Name:        p.Name,
			ChoiceIndex: -1,
			Answered:    out.Answered,
			Correct:     out.Correct,
			Shielded:    out.Shielded,
			Frozen:      out.Frozen,
			Points:      out.Points,
			LivesLost:   out.LivesLost,
		}
		if pa != nil {
			r.ChoiceIndex = pa.ChoiceIndex
			r.Elapsed = pa.ElapsedSeconds
			r.SpeedBonus = pa.SpeedBonus
			r.Bet = pa.Bet
		}
		results = append(results, r)
	}
	slices.SortStableFunc(results, compareResults)

	room.finalReveal = room.isLastQuestion() || room.eliminationReached()
	e.broadcast(room, EventAnswerReveal, AnswerRevealPayload{
		QuestionIndex:  room.CurrentQuestionIndex,
		CorrectIndex:   q.CorrectIndex,
		CorrectAnswer:  q.Options[q.CorrectIndex],
		Results:        results,
		Players:        room.views(e.now()),
		Eliminated:     eliminated,
		TeamScores:     room.teamScores(),
		IsLastQuestion: room.finalReveal,
	})
	for _, p := range granted {
		pu := p.PowerUps[len(p.PowerUps)-1]
		e.send(p.ConnID, EventPowerUpGranted, PowerUpGrantedPayload{PowerUp: pu, PowerUps: slices.Clone(p.PowerUps)})
	}
	e.log.Debug("question revealed",
		zap.String("room", room.Code),
		zap.Int("index", room.CurrentQuestionIndex),
		zap.Int("answers", len(room.PendingAnswers)),
	)
}

// compareResults orders correct answers first, then answered before silent,
// then faster before slower.
func compareResults(a, b AnswerResult) int {
	if a.Correct != b.Correct {
		if a.Correct {
			return -1
		}
		return 1
	}
	if a.Answered != b.Answered {
		if a.Answered {
			return -1
		}
		return 1
	}
	return cmp.Compare(a.Elapsed, b.Elapsed)
}

func (e *Engine) grant(room *Room, p *PlayerSession) bool {
	if !room.Settings.PowerUps || p.IsBot {
		return false
	}
	if e.rng.Float64() >= room.Policy.GrantOdds {
		return false
	}
	return p.grantPowerUp(e.resolver.Random())
}

func (e *Engine) NextQuestion(connID string) error {
	room, err := e.hostRoom(connID)
	if err != nil {
		return err
	}
	if room.Phase != PhaseReveal {
		return ErrBadPhase
	}
	if room.isLastQuestion() || room.eliminationReached() {
		e.finish(room)
		return nil
	}
	room.CurrentQuestionIndex++
	e.beginRound(room)
	return nil
}
