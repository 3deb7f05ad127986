package game

import (
	"strings"

	"trivia-service/internal/constants"
)

type Mode string

const (
	ModeClassic      Mode = "classic"
	ModeSpeed        Mode = "speed"
	ModeSurvival     Mode = "survival"
	ModeBetting      Mode = "betting"
	ModeLightning    Mode = "lightning"
	ModeTeam         Mode = "team"
	ModeBattleRoyale Mode = "battle_royale"
	ModeBlitz        Mode = "blitz"
	ModeReverse      Mode = "reverse"
)

// MissRule says what an uncovered miss costs in a lives mode.
type MissRule int

const (
	MissCostsNothing MissRule = iota
	MissCostsLife
	MissCostsAllLives
)

const (
	startingLives     = 3
	standardGrantOdds = 0.35
	survivalGrantOdds = 0.40
)

type ModePolicy struct {
	Mode          Mode     `json:"id"`
	Name          string   `json:"name"`
	QuestionCount int      `json:"questionCount"`
	TimeLimitSec  int      `json:"timeLimit"`
	Lives         int      `json:"lives,omitempty"`
	MissRule      MissRule `json:"-"`
	Betting       bool     `json:"betting,omitempty"`
	Teams         bool     `json:"teams,omitempty"`
	HardestFirst  bool     `json:"hardestFirst,omitempty"`
	GrantOdds     float64  `json:"-"`
}

var modeOrder = []Mode{
	ModeClassic, ModeSpeed, ModeSurvival, ModeBetting, ModeLightning,
	ModeTeam, ModeBattleRoyale, ModeBlitz, ModeReverse,
}

var modes = map[Mode]ModePolicy{
	ModeClassic:   {Mode: ModeClassic, Name: "Classic", QuestionCount: 10, TimeLimitSec: 15, GrantOdds: standardGrantOdds},
	ModeSpeed:     {Mode: ModeSpeed, Name: "Speed", QuestionCount: 10, TimeLimitSec: 8, GrantOdds: standardGrantOdds},
	ModeSurvival:  {Mode: ModeSurvival, Name: "Survival", QuestionCount: 15, TimeLimitSec: 15, Lives: startingLives, MissRule: MissCostsLife, GrantOdds: survivalGrantOdds},
	ModeBetting:   {Mode: ModeBetting, Name: "Betting", QuestionCount: 10, TimeLimitSec: 20, Betting: true, GrantOdds: standardGrantOdds},
	ModeLightning: {Mode: ModeLightning, Name: "Lightning", QuestionCount: 15, TimeLimitSec: 5, GrantOdds: standardGrantOdds},
	ModeTeam:      {Mode: ModeTeam, Name: "Team", QuestionCount: 10, TimeLimitSec: 15, Teams: true, GrantOdds: standardGrantOdds},
	ModeBattleRoyale: {
		Mode: ModeBattleRoyale, Name: "Battle Royale", QuestionCount: 20, TimeLimitSec: 12,
		Lives: startingLives, MissRule: MissCostsLife, GrantOdds: standardGrantOdds,
	},
	ModeBlitz: {
		Mode: ModeBlitz, Name: "Blitz", QuestionCount: 20, TimeLimitSec: 7,
		Lives: startingLives, MissRule: MissCostsAllLives, GrantOdds: standardGrantOdds,
	},
	ModeReverse: {Mode: ModeReverse, Name: "Reverse", QuestionCount: 10, TimeLimitSec: 15, HardestFirst: true, GrantOdds: standardGrantOdds},
}

// LookupMode accepts "battle_royale", "BattleRoyale" or "battle-royale".
func LookupMode(name string) (ModePolicy, error) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	if norm == "" {
		return modes[ModeClassic], nil
	}
	for _, m := range modeOrder {
		if strings.ReplaceAll(string(m), "_", "") == norm {
			return modes[m], nil
		}
	}
	return ModePolicy{}, ErrUnknownMode
}

func Modes() []ModePolicy {
	out := make([]ModePolicy, 0, len(modeOrder))
	for _, m := range modeOrder {
		out = append(out, modes[m])
	}
	return out
}

func (p ModePolicy) UsesLives() bool {
	return p.Lives > 0
}

// Settings are the effective parameters of one room.
type Settings struct {
	QuestionCount   int     `json:"questionCount"`
	TimeLimitSec    int     `json:"timeLimit"`
	Difficulty      string  `json:"difficulty,omitempty"`
	PowerUps        bool    `json:"powerUps"`
	PointMultiplier float64 `json:"pointMultiplier"`
	MaxPlayers      int     `json:"maxPlayers"`
	Practice        bool    `json:"practice"`
	Bots            int     `json:"bots"`
}

// SettingsRequest carries client overrides; nil fields keep the mode default.
type SettingsRequest struct {
	QuestionCount   *int     `json:"questionCount,omitempty"`
	TimeLimitSec    *int     `json:"timeLimit,omitempty"`
	Difficulty      *string  `json:"difficulty,omitempty"`
	PowerUps        *bool    `json:"powerUps,omitempty"`
	PointMultiplier *float64 `json:"pointMultiplier,omitempty"`
	MaxPlayers      *int     `json:"maxPlayers,omitempty"`
	Practice        *bool    `json:"practice,omitempty"`
	Bots            *int     `json:"bots,omitempty"`
}

const (
	minQuestionCount = 1
	maxQuestionCount = 50
	minTimeLimitSec  = 3
	maxTimeLimitSec  = 60
	minMultiplier    = 0.5
	maxMultiplier    = 3.0
	minRoomSize      = 2
	maxRoomSize      = 16
	minBots          = 1
)

func ResolveSettings(policy ModePolicy, req SettingsRequest, cfg Config) Settings {
	s := Settings{
		QuestionCount:   policy.QuestionCount,
		TimeLimitSec:    policy.TimeLimitSec,
		PowerUps:        true,
		PointMultiplier: 1,
		MaxPlayers:      cfg.MaxPlayers,
	}

	if req.QuestionCount != nil {
		s.QuestionCount = clamp(*req.QuestionCount, minQuestionCount, maxQuestionCount)
	}
	if req.TimeLimitSec != nil {
		s.TimeLimitSec = clamp(*req.TimeLimitSec, minTimeLimitSec, maxTimeLimitSec)
	}
	if req.Difficulty != nil {
		switch d := strings.ToLower(strings.TrimSpace(*req.Difficulty)); d {
		case constants.DifficultyEasy, constants.DifficultyMedium, constants.DifficultyHard:
			s.Difficulty = d
		}
	}
	if req.PowerUps != nil {
		s.PowerUps = *req.PowerUps
	}
	if req.PointMultiplier != nil {
		s.PointMultiplier = min(max(*req.PointMultiplier, minMultiplier), maxMultiplier)
	}
	if req.MaxPlayers != nil {
		s.MaxPlayers = clamp(*req.MaxPlayers, minRoomSize, maxRoomSize)
	}
	if req.Practice != nil && *req.Practice {
		s.Practice = true
		s.Bots = minBots
		if req.Bots != nil {
			s.Bots = clamp(*req.Bots, minBots, cfg.MaxBots)
		}
		s.MaxPlayers = max(s.MaxPlayers, s.Bots+1)
	}
	return s
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
