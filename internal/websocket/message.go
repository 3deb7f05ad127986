package websocket

import "encoding/json"

type MessageType string

const (
	MessageTypeCreateRoom    MessageType = "create-room"
	MessageTypeJoinRoom      MessageType = "join-room"
	MessageTypeLeaveRoom     MessageType = "leave-room"
	MessageTypeStartGame     MessageType = "start-game"
	MessageTypePlaceBet      MessageType = "place-bet"
	MessageTypeAllBetsPlaced MessageType = "all-bets-placed"
	MessageTypeSubmitAnswer  MessageType = "submit-answer"
	MessageTypeUseSuperpower MessageType = "use-superpower"
	MessageTypeNextQuestion  MessageType = "next-question"
	MessageTypeRematch       MessageType = "rematch"
	MessageTypePing          MessageType = "ping"
)

// Message is an inbound frame. Payload is decoded per type.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Envelope is an outbound frame.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type PlaceBetPayload struct {
	Amount int `json:"amount"`
}

type SubmitAnswerPayload struct {
	ChoiceIndex *int `json:"choiceIndex"`
}

type UseSuperpowerPayload struct {
	PowerID string `json:"powerId"`
}
