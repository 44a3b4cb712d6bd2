package touch

import (
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/from-vacuum/basic-touch/osc"
	"github.com/from-vacuum/basic-touch/slip"
)

// Mode selects the send path. It is fixed at startup.
type Mode string

const (
	// ModeUDP sends each message as one datagram.
	ModeUDP Mode = "udp"
	// ModeTCP sends SLIP framed messages over a stream.
	ModeTCP Mode = "tcp"
)

// ParseMode parses a transport mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case ModeUDP, ModeTCP:
		return m, nil
	default:
		return "", errors.Errorf("unknown transport mode %q", s)
	}
}

// Sender sends one OSC message to the surface.
type Sender interface {
	Send(addr string, args ...interface{}) error
}

// Transport encodes outbound messages for the configured path and decodes
// inbound datagrams and stream bytes into one dispatcher, so handlers
// cannot tell the two apart.
type Transport struct {
	mode       Mode
	dispatcher *osc.Dispatcher
	metrics    *Metrics
	log        logrus.FieldLogger

	wmu      sync.Mutex
	datagram io.Writer
	stream   io.Writer

	rmu     sync.Mutex
	decoder slip.Decoder
}

var _ Sender = (*Transport)(nil)

// NewTransport returns a transport for mode dispatching inbound messages to
// d. Writers are attached with SetDatagram and SetStream.
func NewTransport(mode Mode, d *osc.Dispatcher, metrics *Metrics, logger logrus.FieldLogger) *Transport {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Transport{
		mode:       mode,
		dispatcher: d,
		metrics:    metrics,
		log:        logger.WithField("transport", string(mode)),
	}
}

// Mode returns the send path.
func (t *Transport) Mode() Mode {
	return t.mode
}

// SetDatagram attaches the datagram writer, usually an *osc.Client.
func (t *Transport) SetDatagram(w io.Writer) {
	t.wmu.Lock()
	t.datagram = w
	t.wmu.Unlock()
}

// SetStream attaches the stream writer, usually an *osc.StreamConn. The
// inbound framer starts over.
func (t *Transport) SetStream(w io.Writer) {
	t.wmu.Lock()
	t.stream = w
	t.wmu.Unlock()

	t.rmu.Lock()
	t.decoder.Reset()
	t.rmu.Unlock()
}

// Send encodes a message and writes it on the configured path. It fails
// with osc.ErrInvalidAddress for a bad address and ErrTransportUnavailable
// when the path has no writer. Sends are not retried.
func (t *Transport) Send(addr string, args ...interface{}) error {
	data, err := osc.Encode(addr, args...)
	if err != nil {
		return errors.Wrap(err, "encode")
	}

	t.wmu.Lock()
	var w io.Writer
	if t.mode == ModeTCP {
		w = t.stream
		data = slip.Encode(data)
	} else {
		w = t.datagram
	}
	if w == nil {
		t.wmu.Unlock()
		t.metrics.SendErrors.WithLabelValues(string(t.mode)).Inc()
		return errors.Wrapf(ErrTransportUnavailable, "send %s over %s", addr, t.mode)
	}
	_, err = w.Write(data)
	t.wmu.Unlock()

	if err != nil {
		t.metrics.SendErrors.WithLabelValues(string(t.mode)).Inc()
		return errors.Wrapf(err, "send %s", addr)
	}
	t.metrics.MessagesSent.WithLabelValues(string(t.mode)).Inc()
	t.log.WithField("address", addr).Debugf("sent %v", args)
	return nil
}

// ReceiveDatagram decodes and dispatches one datagram.
func (t *Transport) ReceiveDatagram(data []byte) {
	t.dispatch(data, string(ModeUDP))
}

// ReceiveStream feeds stream bytes to the framer and dispatches every
// completed frame in order. Partial frames wait for the next chunk.
func (t *Transport) ReceiveStream(chunk []byte) {
	t.rmu.Lock()
	defer t.rmu.Unlock()

	for _, frame := range t.decoder.Feed(chunk) {
		t.dispatch(frame, string(ModeTCP))
	}
}

func (t *Transport) dispatch(data []byte, via string) {
	msg, err := osc.NewMessageFromData(data)
	if err != nil {
		t.metrics.DecodeErrors.WithLabelValues(via).Inc()
		t.log.WithError(err).WithField("bytes", len(data)).Warn("dropping malformed message")
		return
	}
	t.metrics.MessagesReceived.WithLabelValues(via).Inc()
	t.log.WithField("address", msg.Address).Debugf("received %v", msg.Arguments)

	if !t.dispatcher.Dispatch(msg) {
		t.metrics.UnresolvedAddresses.Inc()
		t.log.WithField("address", msg.Address).Debug("no handler")
	}
}
