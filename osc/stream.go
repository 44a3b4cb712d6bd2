package osc

import (
	"errors"
	"io"
	"net"
	"runtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StreamConn is a reliable byte stream to a remote surface, typically TCP.
// It moves raw bytes only; framing is the caller's concern.
type StreamConn struct {
	id     uuid.UUID
	conn   io.ReadWriteCloser
	logger logrus.FieldLogger
}

// DialStream opens a TCP connection to addr.
func DialStream(addr string) (*StreamConn, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return NewStreamConn(conn, nil), nil
}

// NewStreamConn wraps an established connection. A nil logger uses the
// logrus standard logger.
func NewStreamConn(conn io.ReadWriteCloser, logger logrus.FieldLogger) *StreamConn {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	id := uuid.New()
	return &StreamConn{
		id:     id,
		conn:   conn,
		logger: logger.WithField("conn", id.String()),
	}
}

// ID identifies the connection in logs.
func (s *StreamConn) ID() uuid.UUID {
	return s.id
}

// Write writes b to the stream.
func (s *StreamConn) Write(b []byte) (int, error) {
	return s.conn.Write(b)
}

// Serve reads the stream until EOF or Close and passes every chunk to fn, in
// order. Chunk boundaries are whatever the transport delivered. The chunk is
// only valid for the duration of the call.
func (s *StreamConn) Serve(fn func(chunk []byte)) error {
	s.logger.Debug("osc: stream connected")
	defer s.logger.Debug("osc: stream closed")

	buf := make([]byte, 4096)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			s.handle(fn, buf[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
	}
}

func (s *StreamConn) handle(fn func([]byte), chunk []byte) {
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			s.logger.Errorf("osc: panic handling stream chunk: %v\n%s", err, buf)
		}
	}()
	fn(chunk)
}

// Close closes the underlying connection.
func (s *StreamConn) Close() error {
	return s.conn.Close()
}
