package game

import "strings"

const (
	codeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength      = 4
	maxCodeAttempts = 32
)

// Registry maps room codes to live rooms. It is owned by the engine goroutine.
type Registry struct {
	rooms map[string]*Room
	rng   Random
}

func NewRegistry(rng Random) *Registry {
	return &Registry{rooms: make(map[string]*Room), rng: rng}
}

func (r *Registry) Allocate() (string, error) {
	buf := make([]byte, codeLength)
	for range maxCodeAttempts {
		for i := range buf {
			buf[i] = codeAlphabet[r.rng.IntN(len(codeAlphabet))]
		}
		code := string(buf)
		if _, taken := r.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpace
}

func (r *Registry) Put(room *Room) {
	r.rooms[room.Code] = room
}

func (r *Registry) Get(code string) (*Room, bool) {
	room, ok := r.rooms[NormalizeCode(code)]
	return room, ok
}

// Delete removes the room only if it is still the one registered under its code.
func (r *Registry) Delete(room *Room) {
	if r.rooms[room.Code] == room {
		delete(r.rooms, room.Code)
	}
}

func (r *Registry) Len() int {
	return len(r.rooms)
}

func (r *Registry) Rooms() []*Room {
	out := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
