package server

import "github.com/pkg/errors"

// Error kinds a client or operator can usefully distinguish. Each is a
// sentinel; call sites wrap it with github.com/pkg/errors so the
// sentinel still matches through errors.Is while the wrap carries a
// stack and a human message.
var (
	// ErrProtocol covers frame decode failures: a length prefix over the
	// frame limit, or JSON that doesn't match any known message.
	ErrProtocol = errors.New("server: protocol error")

	// ErrIO covers a failed frame write or read at the transport level,
	// including EOF and a frame truncated mid-read.
	ErrIO = errors.New("server: io error")

	// ErrQueueFull names the full-outbound-queue case. No send in this
	// package returns it: Hub sends block until the queue has room.
	ErrQueueFull = errors.New("server: outbound queue full")

	// ErrQueueClosed is returned by a send to a player whose worker has
	// already torn down.
	ErrQueueClosed = errors.New("server: outbound queue closed")

	// ErrAcceptFailure covers a listener-level accept error that isn't
	// the expected close-on-shutdown case.
	ErrAcceptFailure = errors.New("server: accept failure")
)
