package game

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
)

const (
	botMinDelay = 500 * time.Millisecond
	botIDPrefix = "bot-"
)

var botNames = []string{"Quizbot", "Brainiac", "Trivitron", "Factoid", "Know-it-all", "Sparky"}

var botColors = []string{"#e74c3c", "#3498db", "#2ecc71", "#9b59b6", "#f1c40f", "#1abc9c"}

func (e *Engine) addBots(room *Room, n int) {
	for i := range n {
		bot := NewPlayerSession(botIDPrefix+e.newID(), "")
		bot.IsBot = true
		bot.SetIdentity(botNames[i%len(botNames)], "🤖", botColors[i%len(botColors)])
		bot.resetForGame(room.Policy)
		room.addPlayer(bot)
	}
}

func botAccuracy(difficulty string) float64 {
	switch difficulty {
	case constants.DifficultyEasy:
		return 0.7
	case constants.DifficultyHard:
		return 0.3
	default:
		return 0.5
	}
}

// botChoice answers correctly with difficulty-dependent odds, otherwise
// picks uniformly among the wrong options.
func (e *Engine) botChoice(q models.Question, banned []int) int {
	if e.rng.Float64() < botAccuracy(q.Difficulty) {
		return q.CorrectIndex
	}
	wrong := make([]int, 0, len(q.Options)-1)
	for i := range q.Options {
		if i != q.CorrectIndex && !slices.Contains(banned, i) {
			wrong = append(wrong, i)
		}
	}
	if len(wrong) == 0 {
		return q.CorrectIndex
	}
	return wrong[e.rng.IntN(len(wrong))]
}

// scheduleBots gives each live bot one answer at a random point inside the
// question window.
func (e *Engine) scheduleBots(room *Room) {
	window := time.Duration(room.Settings.TimeLimitSec)*time.Second - botMinDelay
	for _, p := range room.players {
		if !p.IsBot || !p.Alive(room.Policy) {
			continue
		}
		delay := botMinDelay
		if span := window - botMinDelay; span > 0 {
			delay += time.Duration(e.rng.IntN(int(span/time.Millisecond))) * time.Millisecond
		}
		bot := p
		t := e.after(room, delay, func() {
			if room.Player(bot.ConnID) == nil {
				return
			}
			if err := e.submit(room, bot, e.botChoice(room.CurrentQuestion(), room.bannedOptions)); err != nil {
				e.log.Debug("bot answer rejected", zap.String("room", room.Code), zap.String("bot", bot.ConnID), zap.Error(err))
			}
		})
		room.botTimers = append(room.botTimers, t)
	}
}
