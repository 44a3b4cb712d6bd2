package osc

import (
	"errors"
	"net"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// HandlerFunc receives the raw bytes of one datagram and its sender.
type HandlerFunc func(data []byte, addr net.Addr)

// Server listens on Addr for incoming OSC datagrams and passes each one to
// Handler. Datagrams are handled one at a time, in arrival order.
type Server struct {
	Addr        string
	Handler     HandlerFunc
	ReadTimeout time.Duration
	Logger      logrus.FieldLogger
}

// ListenAndServe listens on Addr and serves datagrams until the connection
// fails or is closed.
func (s *Server) ListenAndServe() error {
	ln, err := net.ListenPacket("udp", s.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	return s.Serve(ln)
}

// Serve retrieves incoming datagrams from the given connection and hands them
// to Handler. It returns nil once c is closed.
func (s *Server) Serve(c net.PacketConn) error {
	var tempDelay time.Duration
	for {
		data, addr, err := s.ReceivePacket(c)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				tempDelay = 0
				continue
			}
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else {
				tempDelay *= 2
			}
			if max := 1 * time.Second; tempDelay > max {
				return err
			}
			s.logger().WithError(err).Warn("osc: read failed")
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0
		s.serve(data, addr)
	}
}

func (s *Server) serve(data []byte, a net.Addr) {
	defer func() {
		if err := recover(); err != nil {
			buf := make([]byte, 4096)
			buf = buf[:runtime.Stack(buf, false)]
			s.logger().WithField("peer", a).Errorf("osc: panic handling datagram: %v\n%s", err, buf)
		}
	}()
	if s.Handler != nil {
		s.Handler(data, a)
	}
}

func (s *Server) logger() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

// ReceivePacket reads one datagram from c. The returned slice is owned by the
// caller.
func (s *Server) ReceivePacket(c net.PacketConn) ([]byte, net.Addr, error) {
	if s.ReadTimeout != 0 {
		if err := c.SetReadDeadline(time.Now().Add(s.ReadTimeout)); err != nil {
			return nil, nil, err
		}
	}

	b := packetPool.Get().(*[]byte)
	defer packetPool.Put(b)

	n, a, err := c.ReadFrom(*b)
	if err != nil {
		return nil, a, err
	}
	data := make([]byte, n)
	copy(data, *b)

	return data, a, nil
}
