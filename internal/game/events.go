package game

import (
	"trivia-service/internal/models"
)

const (
	EventConnected      = "connected"
	EventRoomCreated    = "room-created"
	EventRoomJoined     = "room-joined"
	EventRoomLeft       = "room-left"
	EventPlayersUpdate  = "players-update"
	EventHostChanged    = "host-changed"
	EventGameStarted    = "game-started"
	EventBettingPhase   = "betting-phase"
	EventBetPlaced      = "bet-placed"
	EventQuestion       = "question"
	EventAnswerAccepted = "answer-accepted"
	EventAnswerProgress = "answer-progress"
	EventSecondChance   = "second-chance"
	EventAnswerReveal   = "answer-reveal"
	EventGameOver       = "game-over"
	EventRematchStarted = "rematch-started"
	EventRewards        = "rewards"
	EventPowerUps       = "power-ups"
	EventPowerUpGranted = "power-up-granted"
	EventError          = "error"
	EventPong           = "pong"

	EventFiftyFifty        = "fifty-fifty"
	EventTimeFreeze        = "time-freeze"
	EventDoublePoints      = "double-points"
	EventShield            = "shield"
	EventPeek              = "peek"
	EventSecondChanceReady = "second-chance-ready"
	EventStealResult       = "steal-result"
	EventStolen            = "stolen"
	EventFreezeResult      = "freeze-result"
	EventFrozen            = "frozen"
	EventImposterResult    = "imposter-result"
	EventSwapped           = "swapped"
	EventOracle            = "oracle"
	EventBomb              = "bomb"
	EventGambleResult      = "gamble-result"
	EventOptionBanned      = "option-banned"
)

type ConnectedPayload struct {
	ID     string       `json:"id"`
	Themes []string     `json:"themes"`
	Modes  []ModePolicy `json:"modes"`
}

type RoomPayload struct {
	Code     string       `json:"code"`
	IsHost   bool         `json:"isHost"`
	HostID   string       `json:"hostId"`
	Mode     Mode         `json:"mode"`
	Theme    string       `json:"theme"`
	Settings Settings     `json:"settings"`
	Players  []PlayerView `json:"players"`
}

type PlayersUpdatePayload struct {
	Action   string       `json:"action,omitempty"`
	PlayerID string       `json:"playerId,omitempty"`
	HostID   string       `json:"hostId"`
	Players  []PlayerView `json:"players"`
}

type HostChangedPayload struct {
	HostID string `json:"hostId"`
	Name   string `json:"name"`
}

type GameStartedPayload struct {
	TotalQuestions int                 `json:"totalQuestions"`
	TimeLimit      int                 `json:"timeLimit"`
	Mode           Mode                `json:"mode"`
	Teams          map[string][]string `json:"teams,omitempty"`
	Players        []PlayerView        `json:"players"`
}

type BettingPhasePayload struct {
	QuestionIndex  int `json:"questionIndex"`
	TotalQuestions int `json:"totalQuestions"`
	Seconds        int `json:"seconds"`
	MaxBet         int `json:"maxBet"`
}

type BetPlacedPayload struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount,omitempty"`
	Placed   int    `json:"placed"`
	Total    int    `json:"total"`
}

// QuestionPayload is the public view of a question. It never carries the
// correct index.
type QuestionPayload struct {
	Index      int      `json:"index"`
	Total      int      `json:"total"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	TimeLimit  int      `json:"timeLimit"`
	Difficulty string   `json:"difficulty"`
	Type       string   `json:"type"`
	Theme      string   `json:"theme,omitempty"`
	DeadlineMs int64    `json:"deadline"`
	Eligible   []string `json:"eligible"`
}

func questionPayload(q models.Question, index, total, timeLimit int, deadlineMs int64, eligible []string) QuestionPayload {
	return QuestionPayload{
		Index:      index,
		Total:      total,
		Text:       q.Text,
		Options:    append([]string(nil), q.Options...),
		TimeLimit:  timeLimit,
		Difficulty: q.Difficulty,
		Type:       q.Type,
		Theme:      q.Theme,
		DeadlineMs: deadlineMs,
		Eligible:   eligible,
	}
}

type AnswerAcceptedPayload struct {
	ChoiceIndex int     `json:"choiceIndex"`
	Elapsed     float64 `json:"elapsed"`
}

type AnswerProgressPayload struct {
	Answered int `json:"answered"`
	Eligible int `json:"eligible"`
}

type AnswerResult struct {
	PlayerID    string  `json:"playerId"`
	Name        string  `json:"name"`
	ChoiceIndex int     `json:"choiceIndex"`
	Answered    bool    `json:"answered"`
	Correct     bool    `json:"correct"`
	Shielded    bool    `json:"shielded,omitempty"`
	Frozen      bool    `json:"frozen,omitempty"`
	Points      int     `json:"points"`
	Elapsed     float64 `json:"elapsed"`
	SpeedBonus  int     `json:"speedBonus"`
	Bet         int     `json:"bet,omitempty"`
	LivesLost   int     `json:"livesLost,omitempty"`
}

type AnswerRevealPayload struct {
	QuestionIndex  int            `json:"questionIndex"`
	CorrectIndex   int            `json:"correctIndex"`
	CorrectAnswer  string         `json:"correctAnswer"`
	Results        []AnswerResult `json:"results"`
	Players        []PlayerView   `json:"players"`
	Eliminated     []string       `json:"eliminated,omitempty"`
	TeamScores     map[string]int `json:"teamScores,omitempty"`
	IsLastQuestion bool           `json:"isLastQuestion"`
}

type Ranking struct {
	Rank         int    `json:"rank"`
	PlayerID     string `json:"playerId"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar,omitempty"`
	Color        string `json:"color,omitempty"`
	Score        int    `json:"score"`
	CorrectCount int    `json:"correctCount"`
	BestStreak   int    `json:"bestStreak"`
	Team         string `json:"team,omitempty"`
	IsBot        bool   `json:"isBot,omitempty"`
}

type GameOverPayload struct {
	Rankings       []Ranking      `json:"rankings"`
	TeamScores     map[string]int `json:"teamScores,omitempty"`
	WinningTeam    string         `json:"winningTeam,omitempty"`
	TotalQuestions int            `json:"totalQuestions"`
}

type RewardsPayload struct {
	XP           int                  `json:"xp"`
	Coins        int                  `json:"coins"`
	Achievements []models.Achievement `json:"achievements,omitempty"`
}

type PowerUpsPayload struct {
	PowerUps []PowerUp `json:"powerUps"`
}

type PowerUpGrantedPayload struct {
	PowerUp  PowerUp   `json:"powerUp"`
	PowerUps []PowerUp `json:"powerUps"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type ActivePayload struct {
	Active bool `json:"active"`
}

type FiftyFiftyPayload struct {
	Remove []int `json:"remove"`
}

type TimeFreezePayload struct {
	PlayerID   string `json:"playerId"`
	Name       string `json:"name"`
	Seconds    int    `json:"seconds"`
	DeadlineMs int64  `json:"deadline,omitempty"`
}

type PeekPayload struct {
	Option int   `json:"option"`
	Counts []int `json:"counts"`
}

// StealPayload names the other party: the victim for the thief, the thief for the victim.
type StealPayload struct {
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name,omitempty"`
	Amount   int    `json:"amount"`
}

type FreezePayload struct {
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name,omitempty"`
	Seconds  int    `json:"seconds"`
}

type SwapPayload struct {
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name,omitempty"`
	Score    int    `json:"score"`
}

type OraclePayload struct {
	CorrectIndex int `json:"correctIndex"`
}

type BombPayload struct {
	PlayerID string   `json:"playerId"`
	Name     string   `json:"name"`
	Damage   int      `json:"damage"`
	Victims  []string `json:"victims"`
}

type GamblePayload struct {
	Roll  int `json:"roll"`
	Delta int `json:"delta"`
	Score int `json:"score"`
}

type BanPayload struct {
	Option   int    `json:"option"`
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name,omitempty"`
}
