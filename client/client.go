// Package client is a thin, headless Cambio client: enough to dial the
// server, complete the join handshake, and pump decoded ServerEvents to
// a channel. It has no UI and makes no play decisions on its own; that
// logic belongs to whatever embeds this package (a terminal UI, a test,
// a bot).
package client

import (
	"net"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/joe-loach/cambio/jsontypes"
	"github.com/joe-loach/cambio/server"
)

// Client is one connection to a Cambio server.
type Client struct {
	conn   net.Conn
	reader *server.FrameReader
	writer *server.FrameWriter
	id     uuid.UUID
}

// Dial connects to addr and performs the Join handshake. A nil
// rejoinID requests a new player id; otherwise the server is asked to
// reattach the given id to this connection.
func Dial(addr string, rejoinID *uuid.UUID) (*Client, error) {
	conn, err := net.Dial("tcp4", addr)
	if err != nil {
		return nil, errors.Wrap(err, "client: dial")
	}
	c := &Client{
		conn:   conn,
		reader: server.NewFrameReader(conn),
		writer: server.NewFrameWriter(conn),
	}
	if err := c.send(jsontypes.Join{ID: rejoinID}); err != nil {
		conn.Close()
		return nil, err
	}
	event, err := c.Recv()
	if err != nil {
		conn.Close()
		return nil, err
	}
	assigned, ok := event.(jsontypes.AssignID)
	if !ok {
		conn.Close()
		return nil, errors.Errorf("client: expected assign_id, got %#v", event)
	}
	c.id = assigned.ID

	event, err = c.Recv()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, ok := event.(jsontypes.Enter); !ok {
		conn.Close()
		return nil, errors.Errorf("client: expected enter, got %#v", event)
	}
	return c, nil
}

// ID returns the id the server assigned (or confirmed) during the join
// handshake.
func (c *Client) ID() uuid.UUID {
	return c.id
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Send frames and writes one ClientEvent.
func (c *Client) Send(e jsontypes.ClientEvent) error {
	return c.send(e)
}

func (c *Client) send(e jsontypes.ClientEvent) error {
	payload, err := jsontypes.EncodeClientEvent(e)
	if err != nil {
		return errors.Wrap(err, "client: encode")
	}
	return c.writer.WriteFrame(payload)
}

// Recv blocks for the next ServerEvent.
func (c *Client) Recv() (jsontypes.ServerEvent, error) {
	raw, err := c.reader.ReadFrame()
	if err != nil {
		return nil, errors.Wrap(err, "client: read frame")
	}
	event, err := jsontypes.DecodeServerEvent(raw)
	if err != nil {
		return nil, errors.Wrap(err, "client: decode")
	}
	return event, nil
}
