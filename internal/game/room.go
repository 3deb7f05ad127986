package game

import (
	"slices"
	"time"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
)

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhaseBetting  Phase = "betting"
	PhaseQuestion Phase = "question"
	PhaseReveal   Phase = "reveal"
	PhaseEnded    Phase = "ended"
)

// PendingAnswer is what a player submitted for the open question, captured
// together with the modifiers in force at submission time.
type PendingAnswer struct {
	ChoiceIndex     int
	ElapsedSeconds  float64
	SpeedBonus      int
	PointMultiplier float64
	ShieldWasActive bool
	Bet             int
}

type Room struct {
	Code       string
	HostConnID string
	Policy     ModePolicy
	Theme      string
	Settings   Settings
	Questions  []models.Question

	CurrentQuestionIndex int
	Phase                Phase
	Started              bool
	PendingAnswers       map[string]*PendingAnswer

	CreatedAt time.Time
	StartedAt time.Time
	EndedAt   time.Time

	players []*PlayerSession
	pool    []models.Question
	joinSeq int

	openedAt        time.Time
	deadline        time.Time
	bannedOptions   []int
	revealScheduled bool
	finalReveal     bool

	phaseTimer Timer
	botTimers  []Timer
}

func newRoom(code string, policy ModePolicy, theme string, settings Settings, pool, qs []models.Question, now time.Time) *Room {
	return &Room{
		Code:           code,
		Policy:         policy,
		Theme:          theme,
		Settings:       settings,
		Questions:      qs,
		Phase:          PhaseLobby,
		PendingAnswers: make(map[string]*PendingAnswer),
		CreatedAt:      now,
		pool:           pool,
	}
}

func (r *Room) Players() []*PlayerSession {
	return r.players
}

func (r *Room) Player(connID string) *PlayerSession {
	for _, p := range r.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (r *Room) addPlayer(s *PlayerSession) {
	r.joinSeq++
	s.joinSeq = r.joinSeq
	s.RoomCode = r.Code
	r.players = append(r.players, s)
	if r.HostConnID == "" && !s.IsBot {
		r.HostConnID = s.ConnID
	}
}

func (r *Room) removePlayer(connID string) bool {
	i := slices.IndexFunc(r.players, func(p *PlayerSession) bool { return p.ConnID == connID })
	if i < 0 {
		return false
	}
	r.players = slices.Delete(r.players, i, i+1)
	delete(r.PendingAnswers, connID)
	return true
}

func (r *Room) humans() []*PlayerSession {
	out := make([]*PlayerSession, 0, len(r.players))
	for _, p := range r.players {
		if !p.IsBot {
			out = append(out, p)
		}
	}
	return out
}

// migrateHost hands the room to the longest-present human and reports
// whether the host changed.
func (r *Room) migrateHost() bool {
	if r.Player(r.HostConnID) != nil {
		return false
	}
	r.HostConnID = ""
	var next *PlayerSession
	for _, p := range r.players {
		if p.IsBot {
			continue
		}
		if next == nil || p.joinSeq < next.joinSeq {
			next = p
		}
	}
	if next != nil {
		r.HostConnID = next.ConnID
	}
	return true
}

func (r *Room) CurrentQuestion() models.Question {
	return r.Questions[r.CurrentQuestionIndex]
}

func (r *Room) isLastQuestion() bool {
	return r.CurrentQuestionIndex >= len(r.Questions)-1
}

func (r *Room) alive() []*PlayerSession {
	out := make([]*PlayerSession, 0, len(r.players))
	for _, p := range r.players {
		if p.Alive(r.Policy) {
			out = append(out, p)
		}
	}
	return out
}

// eliminationReached reports whether a lives mode has run out of contestants.
func (r *Room) eliminationReached() bool {
	if !r.Policy.UsesLives() {
		return false
	}
	alive := len(r.alive())
	if len(r.players) > 1 {
		return alive <= 1
	}
	return alive == 0
}

// eligible lists the players expected to answer the open question.
func (r *Room) eligible(now time.Time) []*PlayerSession {
	out := make([]*PlayerSession, 0, len(r.players))
	for _, p := range r.players {
		if p.Alive(r.Policy) && !p.Frozen(now) {
			out = append(out, p)
		}
	}
	return out
}

func (r *Room) allEligibleDone(now time.Time) bool {
	eligible := r.eligible(now)
	if len(eligible) == 0 {
		return false
	}
	for _, p := range eligible {
		if !p.Done() {
			return false
		}
	}
	return true
}

func (r *Room) answeredCount() int {
	n := 0
	for _, p := range r.players {
		if p.Done() {
			n++
		}
	}
	return n
}

func (r *Room) optionBanned(idx int) bool {
	return slices.Contains(r.bannedOptions, idx)
}

func (r *Room) cancelTimers() {
	if r.phaseTimer != nil {
		r.phaseTimer.Stop()
		r.phaseTimer = nil
	}
	for _, t := range r.botTimers {
		t.Stop()
	}
	r.botTimers = nil
}

// assignTeams splits players alternately into red and blue in join order.
func (r *Room) assignTeams() {
	for i, p := range r.players {
		if i%2 == 0 {
			p.Team = constants.TeamRed
		} else {
			p.Team = constants.TeamBlue
		}
	}
}

func (r *Room) teamScores() map[string]int {
	if !r.Policy.Teams {
		return nil
	}
	scores := map[string]int{constants.TeamRed: 0, constants.TeamBlue: 0}
	for _, p := range r.players {
		if p.Team != "" {
			scores[p.Team] += p.Score
		}
	}
	return scores
}

func (r *Room) views(now time.Time) []PlayerView {
	out := make([]PlayerView, 0, len(r.players))
	for _, p := range r.players {
		out = append(out, p.view(r.Policy, r.HostConnID, now))
	}
	return out
}
