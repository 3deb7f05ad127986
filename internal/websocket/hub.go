package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"trivia-service/internal/game"
)

var (
	ErrHubStopped     = errors.New("hub stopped")
	errInvalidFormat  = errors.New("invalid message format")
	errInvalidPayload = errors.New("invalid payload")
	errRateLimited    = errors.New("slow down")
	errReplaced       = errors.New("signed in elsewhere")
)

const taskBuffer = 256

type ClientMessage struct {
	Client  *Client
	Data    []byte
	Limited bool
}

// Hub owns the engine and every connection. Run is the only goroutine that
// touches either; timers and background work re-enter through tasks.
type Hub struct {
	engine  *game.Engine
	log     *zap.Logger
	clients map[string]*Client
	orphans []string

	Register      chan *Client
	Unregister    chan *Client
	HandleMessage chan *ClientMessage
	tasks         chan func()
	done          chan struct{}
}

func NewHub(cfg game.Config, deps game.Dependencies, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		log:           log,
		clients:       make(map[string]*Client),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		HandleMessage: make(chan *ClientMessage),
		tasks:         make(chan func(), taskBuffer),
		done:          make(chan struct{}),
	}
	deps.Scheduler = h
	deps.Emitter = h
	deps.Logger = log
	h.engine = game.NewEngine(cfg, deps)
	return h
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case msg := <-h.HandleMessage:
			h.handleClientMessage(msg)

		case task := <-h.tasks:
			task()

		case <-ctx.Done():
			for _, c := range h.clients {
				close(c.Send)
			}
			h.clients = map[string]*Client{}
			h.log.Info("ws hub stopped")
			return
		}
		h.releaseOrphans()
	}
}

// Attach hands a freshly upgraded client to the hub. It reports false once
// the hub has stopped.
func (h *Hub) Attach(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) registerClient(c *Client) {
	h.clients[c.ID] = c
	h.log.Info("ws client registered", zap.String("conn_id", c.ID), zap.String("user_id", c.UserID))

	if replaced := h.engine.Connect(c.ID, c.UserID); replaced != "" {
		if old, ok := h.clients[replaced]; ok {
			h.sendError(old, errReplaced)
			h.detach(old)
		}
	}
}

func (h *Hub) unregisterClient(c *Client) {
	if h.clients[c.ID] != c {
		return
	}
	h.detach(c)
	h.engine.Disconnect(c.ID)
	h.log.Info("ws client unregistered", zap.String("conn_id", c.ID))
}

// detach closes the client's outbound queue. The engine session is left to
// the caller.
func (h *Hub) detach(c *Client) {
	delete(h.clients, c.ID)
	close(c.Send)
}

// releaseOrphans disconnects sessions whose clients were detached while the
// engine was mid-operation.
func (h *Hub) releaseOrphans() {
	for len(h.orphans) > 0 {
		id := h.orphans[0]
		h.orphans = h.orphans[1:]
		h.engine.Disconnect(id)
	}
}

func (h *Hub) handleClientMessage(cm *ClientMessage) {
	c := cm.Client
	if h.clients[c.ID] != c {
		return
	}
	if cm.Limited {
		h.sendError(c, errRateLimited)
		return
	}

	var msg Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		h.sendError(c, errInvalidFormat)
		return
	}
	if err := h.dispatch(c.ID, msg); err != nil {
		h.log.Debug("ws action rejected", zap.String("conn_id", c.ID), zap.String("type", string(msg.Type)), zap.Error(err))
		h.sendError(c, err)
	}
}

func (h *Hub) dispatch(connID string, msg Message) error {
	e := h.engine
	switch msg.Type {
	case MessageTypeCreateRoom:
		var req game.CreateRoomRequest
		if err := decode(msg.Payload, &req); err != nil {
			return err
		}
		return e.CreateRoom(connID, req)

	case MessageTypeJoinRoom:
		var req game.JoinRoomRequest
		if err := decode(msg.Payload, &req); err != nil {
			return err
		}
		return e.JoinRoom(connID, req)

	case MessageTypeLeaveRoom:
		return e.LeaveRoom(connID)

	case MessageTypeStartGame:
		return e.StartGame(connID)

	case MessageTypePlaceBet:
		var p PlaceBetPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		return e.PlaceBet(connID, p.Amount)

	case MessageTypeAllBetsPlaced:
		return e.AllBetsPlaced(connID)

	case MessageTypeSubmitAnswer:
		var p SubmitAnswerPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		if p.ChoiceIndex == nil {
			return errInvalidPayload
		}
		return e.SubmitAnswer(connID, *p.ChoiceIndex)

	case MessageTypeUseSuperpower:
		var p UseSuperpowerPayload
		if err := decode(msg.Payload, &p); err != nil {
			return err
		}
		return e.UsePowerUp(connID, p.PowerID)

	case MessageTypeNextQuestion:
		return e.NextQuestion(connID)

	case MessageTypeRematch:
		return e.Rematch(connID)

	case MessageTypePing:
		h.Send(connID, game.EventPong, nil)
		return nil

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func decode(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errInvalidPayload
	}
	return nil
}

// Send implements game.Emitter. A client whose queue is full is dropped.
func (h *Hub) Send(connID, event string, payload any) {
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	data, err := json.Marshal(Envelope{Type: event, Payload: payload})
	if err != nil {
		h.log.Error("ws marshal failed", zap.String("type", event), zap.Error(err))
		return
	}
	select {
	case c.Send <- data:
	default:
		h.log.Warn("ws send queue full, dropping client", zap.String("conn_id", connID))
		h.detach(c)
		h.orphans = append(h.orphans, connID)
	}
}

func (h *Hub) sendError(c *Client, err error) {
	h.Send(c.ID, game.EventError, game.ErrorPayload{Message: err.Error()})
}

type hubTimer struct {
	t *time.Timer
}

func (t hubTimer) Stop() bool { return t.t.Stop() }

// AfterFunc implements game.Scheduler; fn runs on the hub goroutine.
func (h *Hub) AfterFunc(d time.Duration, fn func()) game.Timer {
	return hubTimer{t: time.AfterFunc(d, func() { h.Post(fn) })}
}

// Post queues fn for the hub goroutine. It is dropped once the hub stops.
func (h *Hub) Post(fn func()) {
	select {
	case h.tasks <- fn:
	case <-h.done:
	}
}

func (h *Hub) Go(fn func()) {
	go fn()
}

// Do runs fn against the engine on the hub goroutine and waits for it.
func (h *Hub) Do(ctx context.Context, fn func(*game.Engine)) error {
	finished := make(chan struct{})
	task := func() {
		fn(h.engine)
		close(finished)
	}
	select {
	case h.tasks <- task:
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
