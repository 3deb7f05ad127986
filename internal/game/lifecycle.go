package game

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
	"trivia-service/internal/questions"
)

type CreateRoomRequest struct {
	Name     string          `json:"name"`
	Avatar   string          `json:"avatar"`
	Color    string          `json:"color"`
	Theme    string          `json:"theme"`
	Mode     string          `json:"mode"`
	Settings SettingsRequest `json:"settings"`
}

type JoinRoomRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Color  string `json:"color"`
}

// CreateRoom validates the request and starts room creation. Approved
// questions are fetched off the engine goroutine; the room is registered
// once they arrive, or without them if the fetch fails.
func (e *Engine) CreateRoom(connID string, req CreateRoomRequest) error {
	s, ok := e.sessions[connID]
	if !ok {
		return ErrNotConnected
	}
	if s.creating {
		return ErrCreateInProgress
	}
	policy, err := LookupMode(req.Mode)
	if err != nil {
		return err
	}
	theme, err := e.bank.Canonical(req.Theme)
	if err != nil {
		return err
	}
	settings := ResolveSettings(policy, req.Settings, e.cfg)

	if room, ok := e.roomOf(s); ok {
		e.leave(room, s)
	}
	s.SetIdentity(req.Name, req.Avatar, req.Color)
	s.creating = true

	if e.approved == nil {
		e.finishCreate(s, policy, theme, settings, nil)
		return nil
	}
	e.sched.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.FetchTimeout)
		defer cancel()
		approved, err := e.approved.FetchApproved(ctx, theme)
		if err != nil {
			e.log.Warn("fetch approved questions failed", zap.String("theme", theme), zap.Error(err))
			approved = nil
		}
		e.sched.Post(func() {
			if current, ok := e.sessions[connID]; ok && current == s {
				e.finishCreate(s, policy, theme, settings, approved)
			}
		})
	})
	return nil
}

func (e *Engine) finishCreate(s *PlayerSession, policy ModePolicy, theme string, settings Settings, approved []models.Question) {
	s.creating = false

	pool, err := e.bank.Pool(theme, approved)
	if err != nil {
		e.send(s.ConnID, EventError, ErrorPayload{Message: err.Error()})
		return
	}
	qs := e.drawQuestions(pool, policy, settings)
	if len(qs) == 0 {
		e.send(s.ConnID, EventError, ErrorPayload{Message: ErrNoQuestions.Error()})
		return
	}
	code, err := e.registry.Allocate()
	if err != nil {
		e.log.Error("room code allocation failed", zap.Int("rooms", e.registry.Len()), zap.Error(err))
		e.send(s.ConnID, EventError, ErrorPayload{Message: err.Error()})
		return
	}

	room := newRoom(code, policy, theme, settings, pool, qs, e.now())
	e.registry.Put(room)
	s.resetForGame(policy)
	room.addPlayer(s)
	if settings.Practice {
		e.addBots(room, settings.Bots)
	}

	e.log.Info("room created",
		zap.String("room", code),
		zap.String("mode", string(policy.Mode)),
		zap.String("theme", theme),
		zap.Int("questions", len(qs)),
	)
	e.send(s.ConnID, EventRoomCreated, e.roomPayload(room, s))
	e.broadcastPlayers(room, constants.ActionJoined, s.ConnID)
}

func (e *Engine) drawQuestions(pool []models.Question, policy ModePolicy, settings Settings) []models.Question {
	qs := questions.Draw(pool, settings.QuestionCount, settings.Difficulty, e.rng)
	if policy.HardestFirst {
		slices.SortStableFunc(qs, func(a, b models.Question) int {
			return questions.DifficultyRank(b.Difficulty) - questions.DifficultyRank(a.Difficulty)
		})
	}
	return qs
}

func (e *Engine) roomPayload(room *Room, s *PlayerSession) RoomPayload {
	return RoomPayload{
		Code:     room.Code,
		IsHost:   room.HostConnID == s.ConnID,
		HostID:   room.HostConnID,
		Mode:     room.Policy.Mode,
		Theme:    room.Theme,
		Settings: room.Settings,
		Players:  room.views(e.now()),
	}
}

func (e *Engine) JoinRoom(connID string, req JoinRoomRequest) error {
	s, ok := e.sessions[connID]
	if !ok {
		return ErrNotConnected
	}
	if s.creating {
		return ErrCreateInProgress
	}
	room, ok := e.registry.Get(req.Code)
	if !ok {
		return ErrRoomNotFound
	}
	if room.Player(connID) != nil {
		return ErrAlreadyInRoom
	}
	if room.Started || room.Phase != PhaseLobby {
		return ErrGameStarted
	}
	if len(room.players) >= room.Settings.MaxPlayers {
		return ErrRoomFull
	}

	if current, ok := e.roomOf(s); ok {
		e.leave(current, s)
	}
	s.SetIdentity(req.Name, req.Avatar, req.Color)
	s.resetForGame(room.Policy)
	room.addPlayer(s)

	e.log.Info("player joined", zap.String("room", room.Code), zap.String("conn_id", connID))
	e.send(connID, EventRoomJoined, e.roomPayload(room, s))
	e.broadcastPlayers(room, constants.ActionJoined, connID)
	return nil
}

func (e *Engine) LeaveRoom(connID string) error {
	s, room, err := e.sessionRoom(connID)
	if err != nil {
		return err
	}
	e.leave(room, s)
	e.send(connID, EventRoomLeft, RoomPayload{Code: room.Code})
	return nil
}

// leave removes s from room, migrating the host or deleting the room when
// no human is left.
func (e *Engine) leave(room *Room, s *PlayerSession) {
	room.removePlayer(s.ConnID)
	s.RoomCode = ""

	if len(room.humans()) == 0 {
		e.deleteRoom(room)
		return
	}
	if room.migrateHost() {
		host := room.Player(room.HostConnID)
		e.log.Info("host migrated", zap.String("room", room.Code), zap.String("host", room.HostConnID))
		e.broadcast(room, EventHostChanged, HostChangedPayload{HostID: host.ConnID, Name: host.Name})
	}
	e.broadcastPlayers(room, constants.ActionLeft, s.ConnID)

	switch room.Phase {
	case PhaseQuestion:
		e.maybeRevealEarly(room)
	case PhaseBetting:
		e.maybeCloseBets(room)
	}
}

func (e *Engine) deleteRoom(room *Room) {
	room.cancelTimers()
	for _, p := range room.players {
		if p.RoomCode == room.Code {
			p.RoomCode = ""
		}
	}
	e.registry.Delete(room)
	e.log.Info("room deleted", zap.String("room", room.Code))
}

// Rematch replaces an ended room with a fresh lobby under the same code,
// keeping players, settings and the question pool.
func (e *Engine) Rematch(connID string) error {
	room, err := e.hostRoom(connID)
	if err != nil {
		return err
	}
	if room.Phase != PhaseEnded {
		return ErrBadPhase
	}
	qs := e.drawQuestions(room.pool, room.Policy, room.Settings)
	if len(qs) == 0 {
		return ErrNoQuestions
	}

	next := newRoom(room.Code, room.Policy, room.Theme, room.Settings, room.pool, qs, e.now())
	next.HostConnID = room.HostConnID
	for _, p := range room.players {
		p.resetForGame(room.Policy)
		next.addPlayer(p)
	}
	room.cancelTimers()
	e.registry.Put(next)

	e.log.Info("rematch started", zap.String("room", next.Code), zap.Int("players", len(next.players)))
	for _, p := range next.humans() {
		e.send(p.ConnID, EventRematchStarted, e.roomPayload(next, p))
	}
	e.broadcastPlayers(next, "", "")
	return nil
}
