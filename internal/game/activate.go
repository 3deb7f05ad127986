package game

import (
	"slices"
	"time"

	"go.uber.org/zap"
)

// UsePowerUp consumes a held power-up and applies its effect immediately.
func (e *Engine) UsePowerUp(connID, name string) error {
	s, room, err := e.sessionRoom(connID)
	if err != nil {
		return err
	}
	if room.Phase != PhaseQuestion {
		return ErrNoOpenQuestion
	}
	if !room.Settings.PowerUps {
		return ErrPowerUpsDisabled
	}
	p, ok := ParsePowerUp(name)
	if !ok {
		return ErrUnknownPowerUp
	}
	now := e.now()
	switch {
	case !s.HasPowerUp(p):
		return ErrPowerUpNotHeld
	case !s.Alive(room.Policy):
		return ErrEliminated
	case s.Frozen(now):
		return ErrFrozen
	case s.Answered:
		return ErrAlreadyAnswered
	}

	effect, err := e.resolver.Resolve(p, e.resolveInput(room, s, now))
	if err != nil {
		return err
	}
	s.takePowerUp(p)
	e.apply(room, s, effect)

	e.log.Debug("power-up used", zap.String("room", room.Code), zap.String("conn_id", connID), zap.String("power_up", string(p)))
	e.send(connID, EventPowerUps, PowerUpsPayload{PowerUps: slices.Clone(s.PowerUps)})
	e.maybeRevealEarly(room)
	return nil
}

func (e *Engine) resolveInput(room *Room, s *PlayerSession, now time.Time) ResolveInput {
	in := ResolveInput{
		Self:     contestant(s),
		Question: room.CurrentQuestion(),
		Hidden:   append(slices.Clone(room.bannedOptions), s.HiddenOptions...),
	}
	for _, p := range room.players {
		if p == s {
			continue
		}
		in.Others = append(in.Others, contestant(p))
		if p.Alive(room.Policy) && !p.Frozen(now) {
			in.Rivals = append(in.Rivals, contestant(p))
		}
	}
	for _, pa := range room.PendingAnswers {
		in.Choices = append(in.Choices, pa.ChoiceIndex)
	}
	return in
}

func contestant(p *PlayerSession) Contestant {
	return Contestant{ConnID: p.ConnID, Name: p.Name, Score: p.Score}
}

func (e *Engine) apply(room *Room, s *PlayerSession, effect Effect) {
	now := e.now()
	scoresChanged := len(effect.ScoreChanges) > 0

	for _, c := range effect.ScoreChanges {
		if p := room.Player(c.ConnID); p != nil {
			p.Score += c.Delta
		}
	}
	if effect.SwapWith != "" {
		if p := room.Player(effect.SwapWith); p != nil {
			s.Score, p.Score = p.Score, s.Score
			scoresChanged = true
		}
	}
	if effect.FreezeTarget != "" {
		if p := room.Player(effect.FreezeTarget); p != nil {
			p.FrozenUntil = now.Add(effect.FreezeFor)
			p.FrozenInRound = true
		}
	}
	if effect.ExtendDeadline > 0 {
		room.deadline = room.deadline.Add(effect.ExtendDeadline)
		if room.phaseTimer != nil {
			room.phaseTimer.Stop()
		}
		room.revealScheduled = false
		room.phaseTimer = e.after(room, room.deadline.Sub(now), func() { e.reveal(room) })
	}
	s.HiddenOptions = append(s.HiddenOptions, effect.HideOptions...)
	if effect.BanOption >= 0 {
		room.bannedOptions = append(room.bannedOptions, effect.BanOption)
	}
	s.DoublePoints = s.DoublePoints || effect.SetDoublePoints
	s.ShieldActive = s.ShieldActive || effect.SetShield
	s.SecondChance = s.SecondChance || effect.SetSecondChance

	for _, n := range effect.Notices {
		payload := n.Payload
		if tf, ok := payload.(TimeFreezePayload); ok {
			tf.DeadlineMs = room.deadline.UnixMilli()
			payload = tf
		}
		if n.ConnID == "" {
			e.broadcast(room, n.Event, payload)
		} else {
			e.send(n.ConnID, n.Event, payload)
		}
	}
	if scoresChanged {
		e.broadcastPlayers(room, "", "")
	}
}
