package game

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	defaultPlayerName = "Player"
	maxNameLength     = 20
	powerUpBagSize    = 3
)

// PlayerSession is the per-connection state of a player. Bots use the same
// structure without a connection behind it.
type PlayerSession struct {
	ConnID   string
	UserID   string
	Name     string
	Avatar   string
	Color    string
	IsBot    bool
	RoomCode string

	Score        int
	Streak       int
	BestStreak   int
	CorrectCount int
	Lives        int
	Team         string

	Bet       int
	BetPlaced bool

	Answered      bool
	AwaitingRetry bool

	FrozenUntil   time.Time
	FrozenInRound bool
	ShieldActive  bool
	SecondChance  bool
	DoublePoints  bool
	HiddenOptions []int
	PowerUps      []PowerUp

	creating bool
	joinSeq  int
}

func NewPlayerSession(connID, userID string) *PlayerSession {
	return &PlayerSession{ConnID: connID, UserID: userID, Name: defaultPlayerName}
}

func (s *PlayerSession) SetIdentity(name, avatar, color string) {
	s.Name = sanitizeName(name)
	s.Avatar = strings.TrimSpace(avatar)
	s.Color = strings.TrimSpace(color)
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultPlayerName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}
	return name
}

func (s *PlayerSession) resetForGame(policy ModePolicy) {
	s.Score = 0
	s.Streak = 0
	s.BestStreak = 0
	s.CorrectCount = 0
	s.Lives = policy.Lives
	s.Team = ""
	s.Bet = 0
	s.BetPlaced = false
	s.PowerUps = nil
	s.FrozenUntil = time.Time{}
	s.clearQuestionState()
}

func (s *PlayerSession) clearQuestionState() {
	s.Answered = false
	s.AwaitingRetry = false
	s.FrozenInRound = false
	s.ShieldActive = false
	s.SecondChance = false
	s.DoublePoints = false
	s.HiddenOptions = nil
}

func (s *PlayerSession) Frozen(now time.Time) bool {
	return now.Before(s.FrozenUntil)
}

func (s *PlayerSession) Alive(policy ModePolicy) bool {
	return !policy.UsesLives() || s.Lives > 0
}

// Done reports whether the player has a final answer for the open question.
func (s *PlayerSession) Done() bool {
	return s.Answered && !s.AwaitingRetry
}

func (s *PlayerSession) HasPowerUp(p PowerUp) bool {
	for _, held := range s.PowerUps {
		if held == p {
			return true
		}
	}
	return false
}

func (s *PlayerSession) takePowerUp(p PowerUp) bool {
	for i, held := range s.PowerUps {
		if held == p {
			s.PowerUps = append(s.PowerUps[:i:i], s.PowerUps[i+1:]...)
			return true
		}
	}
	return false
}

func (s *PlayerSession) grantPowerUp(p PowerUp) bool {
	if len(s.PowerUps) >= powerUpBagSize {
		return false
	}
	s.PowerUps = append(s.PowerUps, p)
	return true
}

func (s *PlayerSession) recordStreak(streak int) {
	s.Streak = streak
	if streak > s.BestStreak {
		s.BestStreak = streak
	}
}

type PlayerView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar,omitempty"`
	Color        string `json:"color,omitempty"`
	IsHost       bool   `json:"isHost"`
	IsBot        bool   `json:"isBot,omitempty"`
	Score        int    `json:"score"`
	Streak       int    `json:"streak"`
	CorrectCount int    `json:"correctCount"`
	Lives        int    `json:"lives,omitempty"`
	Alive        bool   `json:"alive"`
	Team         string `json:"team,omitempty"`
	Frozen       bool   `json:"frozen,omitempty"`
	PowerUps     int    `json:"powerUps"`
}

func (s *PlayerSession) view(policy ModePolicy, hostID string, now time.Time) PlayerView {
	return PlayerView{
		ID:           s.ConnID,
		Name:         s.Name,
		Avatar:       s.Avatar,
		Color:        s.Color,
		IsHost:       s.ConnID == hostID,
		IsBot:        s.IsBot,
		Score:        s.Score,
		Streak:       s.Streak,
		CorrectCount: s.CorrectCount,
		Lives:        s.Lives,
		Alive:        s.Alive(policy),
		Team:         s.Team,
		Frozen:       s.Frozen(now),
		PowerUps:     len(s.PowerUps),
	}
}
