package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia-service/internal/models"
)

func resolverQuestion() models.Question {
	return models.Question{Text: "q", Options: []string{"A", "B", "C", "D"}, CorrectIndex: 2}
}

func TestParsePowerUp(t *testing.T) {
	for in, want := range map[string]PowerUp{
		"fifty_fifty":   PowerFiftyFifty,
		"fifty-fifty":   PowerFiftyFifty,
		"fiftyFifty":    PowerFiftyFifty,
		"50/50":         PowerFiftyFifty,
		"TIME_FREEZE":   PowerTimeFreeze,
		"second-chance": PowerSecondChance,
		"ban":           PowerBan,
	} {
		got, ok := ParsePowerUp(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParsePowerUp("teleport")
	assert.False(t, ok)
}

func TestResolver_FiftyFiftyHidesTwoWrongOptions(t *testing.T) {
	r := NewResolver(&countingRandom{})
	e, err := r.Resolve(PowerFiftyFifty, ResolveInput{Self: Contestant{ConnID: "a"}, Question: resolverQuestion()})
	require.NoError(t, err)

	require.Len(t, e.HideOptions, 2)
	assert.NotContains(t, e.HideOptions, 2)
	assert.NotEqual(t, e.HideOptions[0], e.HideOptions[1])
	require.Len(t, e.Notices, 1)
	assert.Equal(t, "a", e.Notices[0].ConnID)
}

func TestResolver_FiftyFiftySkipsBannedOptions(t *testing.T) {
	r := NewResolver(&countingRandom{})
	e, err := r.Resolve(PowerFiftyFifty, ResolveInput{Question: resolverQuestion(), Hidden: []int{0, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, e.HideOptions)
}

func TestResolver_StealTakesAtMostVictimScore(t *testing.T) {
	r := NewResolver(&countingRandom{})
	in := ResolveInput{
		Self:   Contestant{ConnID: "a", Score: 10},
		Rivals: []Contestant{{ConnID: "b", Score: 0}, {ConnID: "c", Score: 20}},
	}
	e, err := r.Resolve(PowerSteal, in)
	require.NoError(t, err)
	assert.Equal(t, []ScoreChange{{ConnID: "a", Delta: 20}, {ConnID: "c", Delta: -20}}, e.ScoreChanges)
	require.Len(t, e.Notices, 2)
	assert.Equal(t, EventStolen, e.Notices[1].Event)
}

func TestResolver_StealWithoutTargetIsNoOp(t *testing.T) {
	r := NewResolver(&countingRandom{})
	e, err := r.Resolve(PowerSteal, ResolveInput{Self: Contestant{ConnID: "a"}, Rivals: []Contestant{{ConnID: "b"}}})
	require.NoError(t, err)
	assert.Empty(t, e.ScoreChanges)
	require.Len(t, e.Notices, 1)
	assert.Equal(t, StealPayload{}, e.Notices[0].Payload)
}

func TestResolver_BombFloorsAtZero(t *testing.T) {
	r := NewResolver(&countingRandom{})
	in := ResolveInput{
		Self:   Contestant{ConnID: "a", Score: 500},
		Others: []Contestant{{ConnID: "b", Score: 100}, {ConnID: "c", Score: 12}, {ConnID: "d", Score: 0}},
	}
	e, err := r.Resolve(PowerBomb, in)
	require.NoError(t, err)
	assert.Equal(t, []ScoreChange{{ConnID: "b", Delta: -30}, {ConnID: "c", Delta: -12}}, e.ScoreChanges)
	assert.Equal(t, "", e.Notices[0].ConnID)
}

type scriptedRandom struct {
	ints []int
}

func (r *scriptedRandom) IntN(n int) int {
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *scriptedRandom) Float64() float64 { return 0 }

func TestResolver_Gamble(t *testing.T) {
	tests := []struct {
		name      string
		score     int
		roll      int
		wantDelta int
	}{
		{name: "max gain", score: 10, roll: 250, wantDelta: 200},
		{name: "loss within score", score: 100, roll: 0, wantDelta: -50},
		{name: "loss floored at zero", score: 20, roll: 0, wantDelta: -20},
		{name: "negative score never lowered", score: -40, roll: 10, wantDelta: 0},
		{name: "negative score may rise", score: -40, roll: 70, wantDelta: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&scriptedRandom{ints: []int{tt.roll}})
			e, err := r.Resolve(PowerGamble, ResolveInput{Self: Contestant{ConnID: "a", Score: tt.score}})
			require.NoError(t, err)
			assert.Equal(t, []ScoreChange{{ConnID: "a", Delta: tt.wantDelta}}, e.ScoreChanges)
		})
	}
}

func TestResolver_PeekReportsMostChosen(t *testing.T) {
	r := NewResolver(&countingRandom{})
	e, err := r.Resolve(PowerPeek, ResolveInput{Question: resolverQuestion(), Choices: []int{3, 1, 3}})
	require.NoError(t, err)
	assert.Equal(t, PeekPayload{Option: 3, Counts: []int{0, 1, 0, 2}}, e.Notices[0].Payload)

	e, err = r.Resolve(PowerPeek, ResolveInput{Question: resolverQuestion()})
	require.NoError(t, err)
	assert.Equal(t, -1, e.Notices[0].Payload.(PeekPayload).Option)
}

func TestResolver_BanPicksWrongOption(t *testing.T) {
	r := NewResolver(&countingRandom{})
	e, err := r.Resolve(PowerBan, ResolveInput{Question: resolverQuestion()})
	require.NoError(t, err)
	assert.NotEqual(t, 2, e.BanOption)
	assert.GreaterOrEqual(t, e.BanOption, 0)
}

func TestResolver_OracleRevealsOnlyToHolder(t *testing.T) {
	r := NewResolver(&countingRandom{})
	e, err := r.Resolve(PowerOracle, ResolveInput{Self: Contestant{ConnID: "a"}, Question: resolverQuestion()})
	require.NoError(t, err)
	require.Len(t, e.Notices, 1)
	assert.Equal(t, "a", e.Notices[0].ConnID)
	assert.Equal(t, OraclePayload{CorrectIndex: 2}, e.Notices[0].Payload)
}

func TestResolver_UnknownPowerUp(t *testing.T) {
	_, err := NewResolver(&countingRandom{}).Resolve("teleport", ResolveInput{})
	assert.ErrorIs(t, err, ErrUnknownPowerUp)
}

func startedClassic(t *testing.T, players ...string) (*harness, string) {
	t.Helper()
	return startedMode(t, "classic", players...)
}

func startedMode(t *testing.T, mode string, players ...string) (*harness, string) {
	t.Helper()
	h := newHarness(t)
	h.connect(players...)
	code := h.createRoom(players[0], mode, SettingsRequest{PowerUps: ptr(true), TimeLimitSec: ptr(10)})
	h.join(code, players[1:]...)
	h.start(code, players[0])
	return h, code
}

func TestEngine_UsePowerUp_ConsumesOnlyHoldersBag(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	a, b := h.player(code, "a"), h.player(code, "b")
	a.PowerUps = []PowerUp{PowerFiftyFifty, PowerFiftyFifty}
	b.PowerUps = []PowerUp{PowerFiftyFifty}

	require.NoError(t, h.eng.UsePowerUp("a", "fifty_fifty"))
	assert.Equal(t, []PowerUp{PowerFiftyFifty}, a.PowerUps)
	assert.Equal(t, []PowerUp{PowerFiftyFifty}, b.PowerUps)
	assert.Len(t, a.HiddenOptions, 2)
	assert.Empty(t, b.HiddenOptions)

	p, ok := h.out.last("a", EventFiftyFifty)
	require.True(t, ok)
	assert.NotContains(t, p.(FiftyFiftyPayload).Remove, 1)
	assert.Zero(t, h.out.count("b", EventFiftyFifty))
}

func TestEngine_UsePowerUp_Rejections(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	a := h.player(code, "a")

	assert.ErrorIs(t, h.eng.UsePowerUp("a", "shield"), ErrPowerUpNotHeld)
	assert.ErrorIs(t, h.eng.UsePowerUp("a", "teleport"), ErrUnknownPowerUp)

	a.PowerUps = []PowerUp{PowerShield}
	a.FrozenUntil = h.sched.Now().Add(time.Second)
	assert.ErrorIs(t, h.eng.UsePowerUp("a", "shield"), ErrFrozen)
	a.FrozenUntil = time.Time{}

	require.NoError(t, h.eng.SubmitAnswer("a", 1))
	assert.ErrorIs(t, h.eng.UsePowerUp("a", "shield"), ErrAlreadyAnswered)
	assert.Equal(t, []PowerUp{PowerShield}, a.PowerUps)
}

func TestEngine_UsePowerUp_DisabledInRoom(t *testing.T) {
	h := newHarness(t)
	h.connect("a", "b")
	code := h.createRoom("a", "classic", SettingsRequest{})
	h.join(code, "b")
	h.start(code, "a")
	h.player(code, "a").PowerUps = []PowerUp{PowerOracle}

	assert.ErrorIs(t, h.eng.UsePowerUp("a", "oracle"), ErrPowerUpsDisabled)
}

func TestEngine_Shield_MissScoresFallbackAndKeepsStreak(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	a := h.player(code, "a")
	a.Streak = 2
	a.PowerUps = []PowerUp{PowerShield}

	require.NoError(t, h.eng.UsePowerUp("a", "shield"))
	require.NoError(t, h.eng.SubmitAnswer("a", 0))
	require.NoError(t, h.eng.SubmitAnswer("b", 0))
	h.sched.Advance(h.eng.cfg.RevealGrace)

	assert.Equal(t, ShieldFallback, a.Score)
	assert.Equal(t, 2, a.Streak)
	assert.False(t, a.ShieldActive)
	assert.Zero(t, h.player(code, "b").Score)
}

func TestEngine_DoublePoints(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	a := h.player(code, "a")
	a.PowerUps = []PowerUp{PowerDoublePoints}

	require.NoError(t, h.eng.UsePowerUp("a", "double_points"))
	require.NoError(t, h.eng.SubmitAnswer("a", 1))
	require.NoError(t, h.eng.SubmitAnswer("b", 1))
	h.sched.Advance(h.eng.cfg.RevealGrace)

	assert.Equal(t, 400, a.Score)
	assert.Equal(t, 200, h.player(code, "b").Score)
	assert.False(t, a.DoublePoints)
}

func TestEngine_SecondChance_AllowsOneRetryAfterMiss(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	a := h.player(code, "a")
	a.PowerUps = []PowerUp{PowerSecondChance}

	require.NoError(t, h.eng.UsePowerUp("a", "second_chance"))
	require.NoError(t, h.eng.SubmitAnswer("b", 1))
	require.NoError(t, h.eng.SubmitAnswer("a", 0))
	assert.Equal(t, 1, h.out.count("a", EventSecondChance))

	h.sched.Advance(h.eng.cfg.RevealGrace)
	require.Equal(t, PhaseQuestion, h.room(code).Phase)

	h.sched.Advance(time.Second)
	require.NoError(t, h.eng.SubmitAnswer("a", 1))
	assert.ErrorIs(t, h.eng.SubmitAnswer("a", 2), ErrAlreadyAnswered)

	h.sched.Advance(h.eng.cfg.RevealGrace)
	require.Equal(t, PhaseReveal, h.room(code).Phase)
	assert.Equal(t, 185, a.Score)
}

func TestEngine_SecondChance_CorrectFirstAnswerNeedsNoRetry(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	a := h.player(code, "a")
	a.PowerUps = []PowerUp{PowerSecondChance}

	require.NoError(t, h.eng.UsePowerUp("a", "second_chance"))
	require.NoError(t, h.eng.SubmitAnswer("a", 1))
	assert.Zero(t, h.out.count("a", EventSecondChance))
	assert.ErrorIs(t, h.eng.SubmitAnswer("a", 1), ErrAlreadyAnswered)
}

func TestEngine_Freeze_FrozenRivalDoesNotBlockReveal(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	b := h.player(code, "b")
	h.player(code, "a").PowerUps = []PowerUp{PowerFreeze}

	require.NoError(t, h.eng.UsePowerUp("a", "freeze"))
	assert.True(t, b.Frozen(h.sched.Now()))
	assert.ErrorIs(t, h.eng.SubmitAnswer("b", 1), ErrFrozen)
	assert.Equal(t, 1, h.out.count("b", EventFrozen))

	require.NoError(t, h.eng.SubmitAnswer("a", 1))
	h.sched.Advance(h.eng.cfg.RevealGrace)
	assert.Equal(t, PhaseReveal, h.room(code).Phase)
}

func TestEngine_Freeze_VictimKeepsLivesAndStreak(t *testing.T) {
	for _, mode := range []string{"blitz", "survival"} {
		t.Run(mode, func(t *testing.T) {
			h, code := startedMode(t, mode, "a", "b")
			b := h.player(code, "b")
			b.Streak = 2
			h.player(code, "a").PowerUps = []PowerUp{PowerFreeze}

			require.NoError(t, h.eng.UsePowerUp("a", "freeze"))
			require.NoError(t, h.eng.SubmitAnswer("a", 1))
			h.sched.Advance(h.eng.cfg.RevealGrace)
			require.Equal(t, PhaseReveal, h.room(code).Phase)

			assert.Equal(t, 3, b.Lives)
			assert.Equal(t, 2, b.Streak)
			assert.Zero(t, b.Score)

			reveal := h.lastReveal("b")
			assert.Empty(t, reveal.Eliminated)
			for _, r := range reveal.Results {
				if r.PlayerID == "b" {
					assert.True(t, r.Frozen)
					assert.False(t, r.Answered)
					assert.Zero(t, r.LivesLost)
				}
			}
		})
	}
}

func TestEngine_Freeze_CarriedIntoNextQuestionIsExcused(t *testing.T) {
	h, code := startedMode(t, "survival", "a", "b")
	b := h.player(code, "b")

	require.NoError(t, h.eng.SubmitAnswer("a", 1))
	require.NoError(t, h.eng.SubmitAnswer("b", 1))
	h.sched.Advance(h.eng.cfg.RevealGrace)
	require.Equal(t, PhaseReveal, h.room(code).Phase)

	b.FrozenUntil = h.sched.Now().Add(time.Hour)
	require.NoError(t, h.eng.NextQuestion("a"))
	require.Equal(t, PhaseQuestion, h.room(code).Phase)
	assert.True(t, b.FrozenInRound)

	require.NoError(t, h.eng.SubmitAnswer("a", 1))
	h.sched.Advance(h.eng.cfg.RevealGrace)
	require.Equal(t, PhaseReveal, h.room(code).Phase)
	assert.Equal(t, 3, b.Lives)
	assert.Equal(t, 1, b.Streak)
}

func TestEngine_TimeFreeze_ExtendsDeadline(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	h.player(code, "a").PowerUps = []PowerUp{PowerTimeFreeze}

	require.NoError(t, h.eng.UsePowerUp("a", "time_freeze"))
	p, ok := h.out.last("b", EventTimeFreeze)
	require.True(t, ok)
	assert.Equal(t, h.room(code).deadline.UnixMilli(), p.(TimeFreezePayload).DeadlineMs)

	h.sched.Advance(12 * time.Second)
	assert.Equal(t, PhaseQuestion, h.room(code).Phase)
	require.NoError(t, h.eng.SubmitAnswer("b", 1))
	h.sched.Advance(3 * time.Second)
	assert.Equal(t, PhaseReveal, h.room(code).Phase)
	assert.Equal(t, 1, h.out.count("a", EventAnswerReveal))
}

func TestEngine_Imposter_SwapsScores(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	a, b := h.player(code, "a"), h.player(code, "b")
	a.Score, b.Score = 10, 300
	a.PowerUps = []PowerUp{PowerImposter}

	require.NoError(t, h.eng.UsePowerUp("a", "imposter"))
	assert.Equal(t, 300, a.Score)
	assert.Equal(t, 10, b.Score)
	p, ok := h.out.last("b", EventSwapped)
	require.True(t, ok)
	assert.Equal(t, 10, p.(SwapPayload).Score)
}

func TestEngine_Ban_RejectsBannedOptionForEveryone(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	h.player(code, "a").PowerUps = []PowerUp{PowerBan}

	require.NoError(t, h.eng.UsePowerUp("a", "ban"))
	p, ok := h.out.last("b", EventOptionBanned)
	require.True(t, ok)
	banned := p.(BanPayload).Option
	require.NotEqual(t, 1, banned)
	assert.ErrorIs(t, h.eng.SubmitAnswer("b", banned), ErrInvalidChoice)
}

func TestEngine_Grant_OnCorrectAnswer(t *testing.T) {
	h, code := startedClassic(t, "a", "b")
	h.rng.f = 0
	a := h.player(code, "a")
	a.PowerUps = []PowerUp{PowerBomb, PowerBomb, PowerBomb}

	require.NoError(t, h.eng.SubmitAnswer("a", 1))
	require.NoError(t, h.eng.SubmitAnswer("b", 1))
	h.sched.Advance(h.eng.cfg.RevealGrace)

	assert.Len(t, a.PowerUps, powerUpBagSize)
	assert.Len(t, h.player(code, "b").PowerUps, 1)
	assert.Equal(t, 1, h.out.count("b", EventPowerUpGranted))
	assert.Zero(t, h.out.count("a", EventPowerUpGranted))
}
