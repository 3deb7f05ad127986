package game

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trivia-service/internal/models"
	"trivia-service/internal/questions"
)

type Config struct {
	LobbyDelay     time.Duration
	RevealGrace    time.Duration
	BettingWindow  time.Duration
	RematchWindow  time.Duration
	MinPlayers     int
	MaxPlayers     int
	MaxBots        int
	FetchTimeout   time.Duration
	PersistTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		LobbyDelay:     2 * time.Second,
		RevealGrace:    500 * time.Millisecond,
		BettingWindow:  10 * time.Second,
		RematchWindow:  60 * time.Second,
		MinPlayers:     2,
		MaxPlayers:     12,
		MaxBots:        5,
		FetchTimeout:   3 * time.Second,
		PersistTimeout: 10 * time.Second,
	}
}

// QuestionSource supplies approved community questions for a theme.
type QuestionSource interface {
	FetchApproved(ctx context.Context, theme string) ([]models.Question, error)
}

// ResultRecorder persists per-player results once a game ends.
type ResultRecorder interface {
	RecordGameResult(ctx context.Context, result models.GameResult) (models.Reward, error)
	CheckAchievements(ctx context.Context, check models.AchievementCheck) ([]models.Achievement, error)
}

// ReportPublisher receives the whole-game report once a game ends.
type ReportPublisher interface {
	PublishGameReport(ctx context.Context, report models.GameReport) error
}

type Dependencies struct {
	Scheduler Scheduler
	Emitter   Emitter
	Bank      *questions.Bank
	Approved  QuestionSource
	Results   ResultRecorder
	Reports   ReportPublisher
	Random    Random
	Now       func() time.Time
	NewID     func() string
	Logger    *zap.Logger
}

// Engine owns every room and session. All methods must be called from the
// scheduler's goroutine.
type Engine struct {
	cfg      Config
	sched    Scheduler
	emit     Emitter
	bank     *questions.Bank
	approved QuestionSource
	results  ResultRecorder
	reports  ReportPublisher
	rng      Random
	now      func() time.Time
	newID    func() string
	log      *zap.Logger

	registry *Registry
	resolver *Resolver
	sessions map[string]*PlayerSession
	users    map[string]string

	gamesFinished int
}

func NewEngine(cfg Config, deps Dependencies) *Engine {
	if deps.Random == nil {
		deps.Random = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Bank == nil {
		deps.Bank = questions.NewBank()
	}
	return &Engine{
		cfg:      cfg,
		sched:    deps.Scheduler,
		emit:     deps.Emitter,
		bank:     deps.Bank,
		approved: deps.Approved,
		results:  deps.Results,
		reports:  deps.Reports,
		rng:      deps.Random,
		now:      deps.Now,
		newID:    deps.NewID,
		log:      deps.Logger,
		registry: NewRegistry(deps.Random),
		resolver: NewResolver(deps.Random),
		sessions: make(map[string]*PlayerSession),
		users:    make(map[string]string),
	}
}

// Connect registers a session for a new connection. When the user already
// has a live connection, its id is returned so the caller can close it.
func (e *Engine) Connect(connID, userID string) (replaced string) {
	if userID != "" {
		if prev, ok := e.users[userID]; ok && prev != connID {
			replaced = prev
			e.Disconnect(prev)
		}
		e.users[userID] = connID
	}
	e.sessions[connID] = NewPlayerSession(connID, userID)
	e.emit.Send(connID, EventConnected, ConnectedPayload{ID: connID, Themes: e.bank.Themes(), Modes: Modes()})
	return replaced
}

// Disconnect tears down a session. Unknown ids are ignored.
func (e *Engine) Disconnect(connID string) {
	s, ok := e.sessions[connID]
	if !ok {
		return
	}
	if room, ok := e.roomOf(s); ok {
		e.leave(room, s)
	}
	delete(e.sessions, connID)
	if s.UserID != "" && e.users[s.UserID] == connID {
		delete(e.users, s.UserID)
	}
	e.log.Debug("session closed", zap.String("conn_id", connID))
}

func (e *Engine) Themes() []string {
	return e.bank.Themes()
}

func (e *Engine) Session(connID string) (*PlayerSession, bool) {
	s, ok := e.sessions[connID]
	return s, ok
}

func (e *Engine) roomOf(s *PlayerSession) (*Room, bool) {
	if s.RoomCode == "" {
		return nil, false
	}
	room, ok := e.registry.Get(s.RoomCode)
	if !ok || room.Player(s.ConnID) == nil {
		s.RoomCode = ""
		return nil, false
	}
	return room, true
}

func (e *Engine) sessionRoom(connID string) (*PlayerSession, *Room, error) {
	s, ok := e.sessions[connID]
	if !ok {
		return nil, nil, ErrNotConnected
	}
	room, ok := e.roomOf(s)
	if !ok {
		return s, nil, ErrNotInRoom
	}
	return s, room, nil
}

func (e *Engine) hostRoom(connID string) (*Room, error) {
	_, room, err := e.sessionRoom(connID)
	if err != nil {
		return nil, err
	}
	if room.HostConnID != connID {
		return nil, ErrNotHost
	}
	return room, nil
}

// live reports whether room is still the one registered under its code.
func (e *Engine) live(room *Room) bool {
	current, ok := e.registry.Get(room.Code)
	return ok && current == room
}

func (e *Engine) broadcast(room *Room, event string, payload any) {
	for _, p := range room.players {
		if !p.IsBot {
			e.emit.Send(p.ConnID, event, payload)
		}
	}
}

func (e *Engine) send(connID, event string, payload any) {
	if s, ok := e.sessions[connID]; ok && !s.IsBot {
		e.emit.Send(connID, event, payload)
	}
}

func (e *Engine) broadcastPlayers(room *Room, action, playerID string) {
	e.broadcast(room, EventPlayersUpdate, PlayersUpdatePayload{
		Action:   action,
		PlayerID: playerID,
		HostID:   room.HostConnID,
		Players:  room.views(e.now()),
	})
}

// transition is the only way a room changes phase. It cancels every timer
// the room holds so nothing scheduled for the old phase can fire into the new one.
func (e *Engine) transition(room *Room, phase Phase) {
	room.cancelTimers()
	room.Phase = phase
	room.revealScheduled = false
}

// after schedules fn for room and drops it if the room was replaced,
// deleted or moved on from the given phase and question in the meantime.
func (e *Engine) after(room *Room, d time.Duration, fn func()) Timer {
	phase, idx := room.Phase, room.CurrentQuestionIndex
	return e.sched.AfterFunc(d, func() {
		if !e.live(room) || room.Phase != phase || room.CurrentQuestionIndex != idx {
			return
		}
		fn()
	})
}

type RoomSummary struct {
	Code      string       `json:"code"`
	Mode      Mode         `json:"mode"`
	Theme     string       `json:"theme"`
	Phase     Phase        `json:"phase"`
	Settings  Settings     `json:"settings"`
	HostID    string       `json:"hostId"`
	Players   []PlayerView `json:"players"`
	Question  int          `json:"questionIndex"`
	Total     int          `json:"totalQuestions"`
	Joinable  bool         `json:"joinable"`
	CreatedAt time.Time    `json:"createdAt"`
}

func (e *Engine) Summary(code string) (RoomSummary, bool) {
	room, ok := e.registry.Get(code)
	if !ok {
		return RoomSummary{}, false
	}
	return RoomSummary{
		Code:      room.Code,
		Mode:      room.Policy.Mode,
		Theme:     room.Theme,
		Phase:     room.Phase,
		Settings:  room.Settings,
		HostID:    room.HostConnID,
		Players:   room.views(e.now()),
		Question:  room.CurrentQuestionIndex,
		Total:     len(room.Questions),
		Joinable:  room.Phase == PhaseLobby && len(room.players) < room.Settings.MaxPlayers,
		CreatedAt: room.CreatedAt,
	}, true
}

type Stats struct {
	Rooms         int           `json:"rooms"`
	Sessions      int           `json:"sessions"`
	Players       int           `json:"players"`
	RoomsByPhase  map[Phase]int `json:"roomsByPhase"`
	GamesFinished int           `json:"gamesFinished"`
}

func (e *Engine) Stats() Stats {
	st := Stats{
		Rooms:         e.registry.Len(),
		Sessions:      len(e.sessions),
		RoomsByPhase:  make(map[Phase]int),
		GamesFinished: e.gamesFinished,
	}
	for _, room := range e.registry.Rooms() {
		st.RoomsByPhase[room.Phase]++
		st.Players += len(room.players)
	}
	return st
}
