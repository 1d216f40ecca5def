package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/joe-loach/cambio/cambio"
)

// Seating guards the lobby-phase cambio.GameData against concurrent
// access: the acceptor seats new players from its own per-connection
// goroutines while the lobby loop reads and removes players from a
// single goroutine of its own.
type Seating struct {
	mu   sync.Mutex
	data cambio.GameData
}

func (s *Seating) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.PlayerCount()
}

func (s *Seating) Exists(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Exists(id)
}

func (s *Seating) TryAddPlayer(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.TryAddPlayer(id)
}

func (s *Seating) RemovePlayer(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.RemovePlayer(id)
}

func (s *Seating) SeatOf(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.SeatOf(id)
}

// Order returns a snapshot of currently seated ids, in seating order.
func (s *Seating) Order() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, len(s.data.Players))
	for i, p := range s.data.Players {
		ids[i] = p.ID
	}
	return ids
}
