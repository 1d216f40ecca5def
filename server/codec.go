package server

import (
	"encoding/binary"
	"io"
	"net"

	"github.com/pkg/errors"

	"github.com/joe-loach/cambio/jsontypes"
)

// maxFrameLen bounds a single frame so a corrupt or hostile length
// prefix can't make the reader allocate unbounded memory.
const maxFrameLen = 1 << 20

// FrameReader decodes length-prefixed JSON frames off a net.Conn: a
// 4-byte big-endian length followed by that many bytes of JSON,
// mirroring the original stream's length-delimited codec.
type FrameReader struct {
	conn net.Conn
}

func NewFrameReader(conn net.Conn) *FrameReader {
	return &FrameReader{conn: conn}
}

// ReadFrame blocks for exactly one frame's bytes and returns them
// undecoded.
func (r *FrameReader) ReadFrame() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.conn, lenBuf[:]); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameLen {
		return nil, errors.Wrapf(ErrProtocol, "frame length %d exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.conn, buf); err != nil {
		return nil, errors.Wrap(ErrIO, err.Error())
	}
	return buf, nil
}

// ReadClientEvent reads one frame and decodes it as a ClientEvent.
func (r *FrameReader) ReadClientEvent() (jsontypes.ClientEvent, error) {
	buf, err := r.ReadFrame()
	if err != nil {
		return nil, err
	}
	event, err := jsontypes.DecodeClientEvent(buf)
	if err != nil {
		return nil, errors.Wrap(ErrProtocol, err.Error())
	}
	return event, nil
}

// FrameWriter frames and writes JSON onto a net.Conn.
type FrameWriter struct {
	conn net.Conn
}

func NewFrameWriter(conn net.Conn) *FrameWriter {
	return &FrameWriter{conn: conn}
}

// WriteFrame writes one length-prefixed frame.
func (w *FrameWriter) WriteFrame(payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.conn.Write(lenBuf[:]); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	if _, err := w.conn.Write(payload); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// WriteServerEvent encodes and writes one ServerEvent frame.
func (w *FrameWriter) WriteServerEvent(e jsontypes.ServerEvent) error {
	payload, err := jsontypes.EncodeServerEvent(e)
	if err != nil {
		return errors.Wrap(ErrProtocol, err.Error())
	}
	return w.WriteFrame(payload)
}
