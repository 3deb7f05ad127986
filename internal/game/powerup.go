package game

import (
	"slices"
	"strings"
	"time"

	"trivia-service/internal/models"
)

type PowerUp string

const (
	PowerFiftyFifty   PowerUp = "fifty_fifty"
	PowerTimeFreeze   PowerUp = "time_freeze"
	PowerDoublePoints PowerUp = "double_points"
	PowerShield       PowerUp = "shield"
	PowerPeek         PowerUp = "peek"
	PowerSecondChance PowerUp = "second_chance"
	PowerSteal        PowerUp = "steal"
	PowerFreeze       PowerUp = "freeze"
	PowerImposter     PowerUp = "imposter"
	PowerOracle       PowerUp = "oracle"
	PowerBomb         PowerUp = "bomb"
	PowerGamble       PowerUp = "gamble"
	PowerBan          PowerUp = "ban"
)

const (
	TimeFreezeExtension = 5 * time.Second
	FreezeDuration      = 5 * time.Second
	StealAmount         = 50
	BombDamage          = 30
	GambleMin           = -50
	GambleMax           = 200
)

var powerUps = []PowerUp{
	PowerFiftyFifty, PowerTimeFreeze, PowerDoublePoints, PowerShield, PowerPeek,
	PowerSecondChance, PowerSteal, PowerFreeze, PowerImposter, PowerOracle,
	PowerBomb, PowerGamble, PowerBan,
}

// ParsePowerUp accepts the canonical id as well as hyphenated or camel-cased
// spellings ("fifty-fifty", "fiftyFifty", "50/50").
func ParsePowerUp(name string) (PowerUp, bool) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	if norm == "50/50" {
		return PowerFiftyFifty, true
	}
	for _, p := range powerUps {
		if strings.ReplaceAll(string(p), "_", "") == norm {
			return p, true
		}
	}
	return "", false
}

// Contestant is the resolver's read-only view of a player.
type Contestant struct {
	ConnID string
	Name   string
	Score  int
}

type ResolveInput struct {
	Self     Contestant
	Rivals   []Contestant // alive, unfrozen
	Others   []Contestant // every other player in the room
	Question models.Question
	Hidden   []int // options already hidden for the holder or banned room-wide
	Choices  []int // choices submitted so far
}

type ScoreChange struct {
	ConnID string
	Delta  int
}

// Notice is an event the engine emits on the resolver's behalf.
// An empty ConnID means the whole room.
type Notice struct {
	ConnID  string
	Event   string
	Payload any
}

// Effect describes every state change a power-up causes. The engine applies it.
type Effect struct {
	ScoreChanges    []ScoreChange
	SwapWith        string
	FreezeTarget    string
	FreezeFor       time.Duration
	ExtendDeadline  time.Duration
	HideOptions     []int
	BanOption       int
	SetDoublePoints bool
	SetShield       bool
	SetSecondChance bool
	Notices         []Notice
}

func newEffect() Effect {
	return Effect{BanOption: -1}
}

type Resolver struct {
	rng      Random
	handlers map[PowerUp]func(ResolveInput) Effect
}

func NewResolver(rng Random) *Resolver {
	r := &Resolver{rng: rng}
	r.handlers = map[PowerUp]func(ResolveInput) Effect{
		PowerFiftyFifty:   r.fiftyFifty,
		PowerTimeFreeze:   r.timeFreeze,
		PowerDoublePoints: r.doublePoints,
		PowerShield:       r.shield,
		PowerPeek:         r.peek,
		PowerSecondChance: r.secondChance,
		PowerSteal:        r.steal,
		PowerFreeze:       r.freeze,
		PowerImposter:     r.imposter,
		PowerOracle:       r.oracle,
		PowerBomb:         r.bomb,
		PowerGamble:       r.gamble,
		PowerBan:          r.ban,
	}
	return r
}

func (r *Resolver) Resolve(p PowerUp, in ResolveInput) (Effect, error) {
	h, ok := r.handlers[p]
	if !ok {
		return Effect{}, ErrUnknownPowerUp
	}
	return h(in), nil
}

// Random draws a power-up for a grant.
func (r *Resolver) Random() PowerUp {
	return powerUps[r.rng.IntN(len(powerUps))]
}

func (r *Resolver) wrongOptions(in ResolveInput) []int {
	out := make([]int, 0, len(in.Question.Options))
	for i := range in.Question.Options {
		if i == in.Question.CorrectIndex || slices.Contains(in.Hidden, i) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func (r *Resolver) pick(n int, from []int) []int {
	pool := append([]int(nil), from...)
	for i := len(pool) - 1; i > 0; i-- {
		j := r.rng.IntN(i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:min(n, len(pool))]
}

func (r *Resolver) target(candidates []Contestant) (Contestant, bool) {
	if len(candidates) == 0 {
		return Contestant{}, false
	}
	return candidates[r.rng.IntN(len(candidates))], true
}

func (r *Resolver) fiftyFifty(in ResolveInput) Effect {
	e := newEffect()
	e.HideOptions = r.pick(2, r.wrongOptions(in))
	e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventFiftyFifty, Payload: FiftyFiftyPayload{Remove: e.HideOptions}}}
	return e
}

func (r *Resolver) timeFreeze(in ResolveInput) Effect {
	e := newEffect()
	e.ExtendDeadline = TimeFreezeExtension
	e.Notices = []Notice{{Event: EventTimeFreeze, Payload: TimeFreezePayload{
		PlayerID: in.Self.ConnID, Name: in.Self.Name, Seconds: int(TimeFreezeExtension / time.Second),
	}}}
	return e
}

func (r *Resolver) doublePoints(in ResolveInput) Effect {
	e := newEffect()
	e.SetDoublePoints = true
	e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventDoublePoints, Payload: ActivePayload{Active: true}}}
	return e
}

func (r *Resolver) shield(in ResolveInput) Effect {
	e := newEffect()
	e.SetShield = true
	e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventShield, Payload: ActivePayload{Active: true}}}
	return e
}

func (r *Resolver) peek(in ResolveInput) Effect {
	e := newEffect()
	counts := make([]int, len(in.Question.Options))
	for _, c := range in.Choices {
		if c >= 0 && c < len(counts) {
			counts[c]++
		}
	}
	popular := -1
	for i, n := range counts {
		if n > 0 && (popular < 0 || n > counts[popular]) {
			popular = i
		}
	}
	e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventPeek, Payload: PeekPayload{Option: popular, Counts: counts}}}
	return e
}

func (r *Resolver) secondChance(in ResolveInput) Effect {
	e := newEffect()
	e.SetSecondChance = true
	e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventSecondChanceReady, Payload: ActivePayload{Active: true}}}
	return e
}

func (r *Resolver) steal(in ResolveInput) Effect {
	e := newEffect()
	scoring := make([]Contestant, 0, len(in.Rivals))
	for _, c := range in.Rivals {
		if c.Score > 0 {
			scoring = append(scoring, c)
		}
	}
	victim, ok := r.target(scoring)
	if !ok {
		e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventStealResult, Payload: StealPayload{}}}
		return e
	}
	amount := min(StealAmount, victim.Score)
	e.ScoreChanges = []ScoreChange{{ConnID: in.Self.ConnID, Delta: amount}, {ConnID: victim.ConnID, Delta: -amount}}
	e.Notices = []Notice{
		{ConnID: in.Self.ConnID, Event: EventStealResult, Payload: StealPayload{PlayerID: victim.ConnID, Name: victim.Name, Amount: amount}},
		{ConnID: victim.ConnID, Event: EventStolen, Payload: StealPayload{PlayerID: in.Self.ConnID, Name: in.Self.Name, Amount: amount}},
	}
	return e
}

func (r *Resolver) freeze(in ResolveInput) Effect {
	e := newEffect()
	victim, ok := r.target(in.Rivals)
	if !ok {
		e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventFreezeResult, Payload: FreezePayload{}}}
		return e
	}
	seconds := int(FreezeDuration / time.Second)
	e.FreezeTarget = victim.ConnID
	e.FreezeFor = FreezeDuration
	e.Notices = []Notice{
		{ConnID: in.Self.ConnID, Event: EventFreezeResult, Payload: FreezePayload{PlayerID: victim.ConnID, Name: victim.Name, Seconds: seconds}},
		{ConnID: victim.ConnID, Event: EventFrozen, Payload: FreezePayload{PlayerID: in.Self.ConnID, Name: in.Self.Name, Seconds: seconds}},
	}
	return e
}

func (r *Resolver) imposter(in ResolveInput) Effect {
	e := newEffect()
	victim, ok := r.target(in.Rivals)
	if !ok {
		e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventImposterResult, Payload: SwapPayload{Score: in.Self.Score}}}
		return e
	}
	e.SwapWith = victim.ConnID
	e.Notices = []Notice{
		{ConnID: in.Self.ConnID, Event: EventImposterResult, Payload: SwapPayload{PlayerID: victim.ConnID, Name: victim.Name, Score: victim.Score}},
		{ConnID: victim.ConnID, Event: EventSwapped, Payload: SwapPayload{PlayerID: in.Self.ConnID, Name: in.Self.Name, Score: in.Self.Score}},
	}
	return e
}

func (r *Resolver) oracle(in ResolveInput) Effect {
	e := newEffect()
	e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventOracle, Payload: OraclePayload{CorrectIndex: in.Question.CorrectIndex}}}
	return e
}

func (r *Resolver) bomb(in ResolveInput) Effect {
	e := newEffect()
	hit := make([]string, 0, len(in.Others))
	for _, c := range in.Others {
		if c.Score <= 0 {
			continue
		}
		e.ScoreChanges = append(e.ScoreChanges, ScoreChange{ConnID: c.ConnID, Delta: -min(BombDamage, c.Score)})
		hit = append(hit, c.ConnID)
	}
	e.Notices = []Notice{{Event: EventBomb, Payload: BombPayload{PlayerID: in.Self.ConnID, Name: in.Self.Name, Damage: BombDamage, Victims: hit}}}
	return e
}

// gamble never pushes a non-negative score below zero and never lowers an
// already negative one.
func (r *Resolver) gamble(in ResolveInput) Effect {
	e := newEffect()
	roll := GambleMin + r.rng.IntN(GambleMax-GambleMin+1)
	delta := roll
	if in.Self.Score+delta < 0 {
		if in.Self.Score >= 0 {
			delta = -in.Self.Score
		} else {
			delta = max(roll, 0)
		}
	}
	e.ScoreChanges = []ScoreChange{{ConnID: in.Self.ConnID, Delta: delta}}
	e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventGambleResult, Payload: GamblePayload{Roll: roll, Delta: delta, Score: in.Self.Score + delta}}}
	return e
}

func (r *Resolver) ban(in ResolveInput) Effect {
	e := newEffect()
	picked := r.pick(1, r.wrongOptions(in))
	if len(picked) == 0 {
		e.Notices = []Notice{{ConnID: in.Self.ConnID, Event: EventOptionBanned, Payload: BanPayload{Option: -1}}}
		return e
	}
	e.BanOption = picked[0]
	e.Notices = []Notice{{Event: EventOptionBanned, Payload: BanPayload{Option: e.BanOption, PlayerID: in.Self.ConnID, Name: in.Self.Name}}}
	return e
}
