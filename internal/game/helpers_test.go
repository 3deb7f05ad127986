package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trivia-service/internal/constants"
	"trivia-service/internal/models"
	"trivia-service/internal/questions"
)

type fakeTimer struct {
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler runs Go and Post inline and fires timers only when the
// test advances the clock.
type fakeScheduler struct {
	now    time.Time
	seq    int
	timers []*fakeTimer
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (s *fakeScheduler) Now() time.Time { return s.now }

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.seq++
	t := &fakeTimer{at: s.now.Add(d), seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Post(fn func()) { fn() }

func (s *fakeScheduler) Go(fn func()) { fn() }

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now.Add(d)
	for {
		var next *fakeTimer
		for _, t := range s.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
				next = t
			}
		}
		if next == nil {
			break
		}
		if next.at.After(s.now) {
			s.now = next.at
		}
		next.fired = true
		next.fn()
	}
	s.now = target
}

func (s *fakeScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type sentEvent struct {
	connID  string
	event   string
	payload any
}

type recordingEmitter struct {
	events []sentEvent
}

func (r *recordingEmitter) Send(connID, event string, payload any) {
	r.events = append(r.events, sentEvent{connID: connID, event: event, payload: payload})
}

func (r *recordingEmitter) count(connID, event string) int {
	n := 0
	for _, e := range r.events {
		if e.connID == connID && e.event == event {
			n++
		}
	}
	return n
}

func (r *recordingEmitter) last(connID, event string) (any, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if e := r.events[i]; e.connID == connID && e.event == event {
			return e.payload, true
		}
	}
	return nil, false
}

// countingRandom is deterministic: IntN walks a counter and Float64 is fixed.
type countingRandom struct {
	n int
	f float64
}

func (r *countingRandom) IntN(n int) int {
	r.n++
	return r.n % n
}

func (r *countingRandom) Float64() float64 { return r.f }

type harness struct {
	t     *testing.T
	eng   *Engine
	sched *fakeScheduler
	out   *recordingEmitter
	rng   *countingRandom
	ids   int
}

func testCatalog() map[string][]models.Question {
	mk := func(text, difficulty string) models.Question {
		return models.Question{
			Text:         text,
			Options:      []string{"A", "B", "C", "D"},
			CorrectIndex: 1,
			Difficulty:   difficulty,
			Type:         constants.QuestionTypeMultiple,
		}
	}
	return map[string][]models.Question{
		"Science": {
			mk("q1", constants.DifficultyEasy),
			mk("q2", constants.DifficultyEasy),
			mk("q3", constants.DifficultyEasy),
			mk("q4", constants.DifficultyEasy),
			mk("q5", constants.DifficultyEasy),
		},
		"History": {
			mk("h1", constants.DifficultyEasy),
			mk("h2", constants.DifficultyMedium),
			mk("h3", constants.DifficultyHard),
		},
	}
}

func newHarness(t *testing.T, deps ...func(*Dependencies)) *harness {
	t.Helper()
	h := &harness{t: t, sched: newFakeScheduler(), out: &recordingEmitter{}, rng: &countingRandom{f: 0.99}}
	d := Dependencies{
		Scheduler: h.sched,
		Emitter:   h.out,
		Bank:      questions.NewBankWithCatalog(testCatalog()),
		Random:    h.rng,
		Now:       h.sched.Now,
		NewID: func() string {
			h.ids++
			return string(rune('a' + h.ids))
		},
	}
	for _, fn := range deps {
		fn(&d)
	}
	h.eng = NewEngine(DefaultConfig(), d)
	return h
}

func ptr[T any](v T) *T { return &v }

func (h *harness) connect(ids ...string) {
	for _, id := range ids {
		h.eng.Connect(id, "")
	}
}

// createRoom opens a room hosted by host and returns its code.
func (h *harness) createRoom(host, mode string, settings SettingsRequest) string {
	h.t.Helper()
	if settings.PowerUps == nil {
		settings.PowerUps = ptr(false)
	}
	require.NoError(h.t, h.eng.CreateRoom(host, CreateRoomRequest{Name: host, Theme: "Science", Mode: mode, Settings: settings}))
	p, ok := h.out.last(host, EventRoomCreated)
	require.True(h.t, ok)
	return p.(RoomPayload).Code
}

func (h *harness) join(code string, ids ...string) {
	h.t.Helper()
	for _, id := range ids {
		require.NoError(h.t, h.eng.JoinRoom(id, JoinRoomRequest{Code: code, Name: id}))
	}
}

func (h *harness) room(code string) *Room {
	h.t.Helper()
	room, ok := h.eng.registry.Get(code)
	require.True(h.t, ok)
	return room
}

func (h *harness) player(code, id string) *PlayerSession {
	h.t.Helper()
	p := h.room(code).Player(id)
	require.NotNil(h.t, p)
	return p
}

// start begins the game and waits out the lobby delay.
func (h *harness) start(code, host string) {
	h.t.Helper()
	require.NoError(h.t, h.eng.StartGame(host))
	h.sched.Advance(h.eng.cfg.LobbyDelay)
}

func (h *harness) lastReveal(id string) AnswerRevealPayload {
	h.t.Helper()
	p, ok := h.out.last(id, EventAnswerReveal)
	require.True(h.t, ok)
	return p.(AnswerRevealPayload)
}

func (h *harness) lastQuestion(id string) QuestionPayload {
	h.t.Helper()
	p, ok := h.out.last(id, EventQuestion)
	require.True(h.t, ok)
	return p.(QuestionPayload)
}
