package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/joe-loach/cambio/jsontypes"
)

// outboxCapacity bounds each player's outbound command queue.
const outboxCapacity = 32

// busBacklog bounds the inbound event bus and the connection-event bus.
const busBacklog = 128

// CommandKind discriminates a Command delivered to a connection worker.
type CommandKind int

const (
	CommandEvent CommandKind = iota
	CommandClose
)

// Command is something the driver asks a connection worker to do: emit
// a wire event, or tear the connection down.
type Command struct {
	Kind  CommandKind
	Event jsontypes.ServerEvent
}

// CloseReason explains why a connection worker stopped.
type CloseReason int

const (
	CloseRequest CloseReason = iota
	CloseExhausted
	CloseError
)

// InboundEvent pairs a decoded client message with the player it came
// from.
type InboundEvent struct {
	ID    uuid.UUID
	Event jsontypes.ClientEvent
}

// ConnEventKind discriminates a ConnEvent.
type ConnEventKind int

const (
	ConnConnected ConnEventKind = iota
	ConnDisconnected
)

// ConnEvent reports a connection lifecycle transition to anything
// watching the connection bus (the driver, for player-count bookkeeping).
type ConnEvent struct {
	Kind   ConnEventKind
	ID     uuid.UUID
	Reason CloseReason
}

// Hub is the sole point of contact between connection workers and the
// driver: a registry of per-player outbound queues plus two shared
// buses. Every mutation of the registry, and every broadcast fan-out,
// completes before the call that triggered it returns, so callers never
// observe a partially-applied broadcast.
type Hub struct {
	mu     sync.RWMutex
	outbox map[uuid.UUID]chan Command
	closed map[uuid.UUID]bool

	incoming   chan InboundEvent
	connEvents chan ConnEvent

	lobbyMu   sync.RWMutex
	lobbyInfo jsontypes.LobbyInfo
}

// NewHub builds an empty Hub ready to register players.
func NewHub() *Hub {
	return &Hub{
		outbox:     make(map[uuid.UUID]chan Command),
		closed:     make(map[uuid.UUID]bool),
		incoming:   make(chan InboundEvent, busBacklog),
		connEvents: make(chan ConnEvent, busBacklog),
	}
}

// Register creates an outbound queue for id and returns the receive
// side for its connection worker to drain.
func (h *Hub) Register(id uuid.UUID) <-chan Command {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan Command, outboxCapacity)
	h.outbox[id] = ch
	return ch
}

// Remove closes and forgets id's outbound queue. Safe to call more than
// once for the same id.
func (h *Hub) Remove(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.outbox[id]; ok && !h.closed[id] {
		close(ch)
		h.closed[id] = true
	}
	delete(h.outbox, id)
	delete(h.closed, id)
}

// Connections returns a snapshot of currently-registered player ids.
func (h *Hub) Connections() []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(h.outbox))
	for id := range h.outbox {
		ids = append(ids, id)
	}
	return ids
}

// Send delivers a single command to one player's outbound queue. It
// blocks if that queue is full, and returns ErrQueueClosed if the
// player has already been removed.
func (h *Hub) Send(id uuid.UUID, cmd Command) error {
	h.mu.RLock()
	ch, ok := h.outbox[id]
	h.mu.RUnlock()
	if !ok {
		return ErrQueueClosed
	}
	ch <- cmd
	return nil
}

// BroadcastCommand fans the same command out to every registered
// player and waits for every send to be queued before returning.
func (h *Hub) BroadcastCommand(cmd Command) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var wg sync.WaitGroup
	for _, ch := range h.outbox {
		wg.Add(1)
		go func(ch chan Command) {
			defer wg.Done()
			ch <- cmd
		}(ch)
	}
	wg.Wait()
}

// BroadcastEvent is shorthand for BroadcastCommand with a CommandEvent.
func (h *Hub) BroadcastEvent(e jsontypes.ServerEvent) {
	h.BroadcastCommand(Command{Kind: CommandEvent, Event: e})
}

// BroadcastMap fans out a per-player event, built by f for each
// registered id, and waits for every send before returning.
func (h *Hub) BroadcastMap(f func(id uuid.UUID) jsontypes.ServerEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var wg sync.WaitGroup
	for id, ch := range h.outbox {
		wg.Add(1)
		go func(id uuid.UUID, ch chan Command) {
			defer wg.Done()
			ch <- Command{Kind: CommandEvent, Event: f(id)}
		}(id, ch)
	}
	wg.Wait()
}

// SetLobbyInfo updates the snapshot served to GetLobbyInfo requests.
// Called by the lobby phase whenever seating changes.
func (h *Hub) SetLobbyInfo(info jsontypes.LobbyInfo) {
	h.lobbyMu.Lock()
	defer h.lobbyMu.Unlock()
	h.lobbyInfo = info
}

// LobbyInfo returns the most recently set seating snapshot. Connection
// workers answer GetLobbyInfo requests from this directly, without
// involving the driver.
func (h *Hub) LobbyInfo() jsontypes.LobbyInfo {
	h.lobbyMu.RLock()
	defer h.lobbyMu.RUnlock()
	return h.lobbyInfo
}

// PublishIncoming puts a decoded client event on the inbound bus. Called
// by connection workers; consumed by the driver.
func (h *Hub) PublishIncoming(ev InboundEvent) {
	h.incoming <- ev
}

// Incoming exposes the inbound event bus for the driver to range over.
func (h *Hub) Incoming() <-chan InboundEvent {
	return h.incoming
}

// PublishConn puts a connection lifecycle transition on the connection
// bus. Called by the acceptor and disconnector; consumed by the driver.
func (h *Hub) PublishConn(ev ConnEvent) {
	h.connEvents <- ev
}

// ConnEvents exposes the connection-event bus for the driver to range
// over.
func (h *Hub) ConnEvents() <-chan ConnEvent {
	return h.connEvents
}
