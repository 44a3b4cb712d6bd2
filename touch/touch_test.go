package touch

import (
	"context"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/from-vacuum/basic-touch/layout"
	"github.com/from-vacuum/basic-touch/osc"
	"github.com/from-vacuum/basic-touch/param"
)

const testTable = `
parameters:
  - name: Gain
    style: float
    value: 0.5
  - name: Posx
    label: Pos
    style: xy
    size: 2
    value: 0.1
  - name: Posy
    label: Pos
    style: xy
    size: 2
    value: 0.2
  - name: Wave
    style: menu
    menu: [Sine, Square, Saw]
  - name: Bypass
    style: toggle
  - name: Reset
    style: pulse
  - name: Drive
    style: float
    mode: expression
    value: 0.3
  - name: Script
    style: python
presets:
  - name: Init
    values: {Gain: 0, Wave: 2}
  - name: Wide
    values: {Posx: 1, Posy: 1}
`

var testGeometry = layout.Geometry{
	DocWidth:         400,
	DocHeight:        800,
	Padding:          10,
	TabBarHeight:     50,
	MinControlHeight: 40,
}

type sentMessage struct {
	addr string
	args []interface{}
}

// recorder is a Sender that keeps every message.
type recorder struct {
	mu   sync.Mutex
	msgs []sentMessage
	err  error
}

func (r *recorder) Send(addr string, args ...interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, sentMessage{addr: addr, args: append([]interface{}(nil), args...)})
	return r.err
}

func (r *recorder) all() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentMessage(nil), r.msgs...)
}

func (r *recorder) to(addr string) []sentMessage {
	var out []sentMessage
	for _, m := range r.all() {
		if m.addr == addr {
			out = append(out, m)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.msgs = nil
	r.mu.Unlock()
}

type fixture struct {
	surface    *Surface
	store      *param.Memory
	table      *param.Table
	sent       *recorder
	dispatcher *osc.Dispatcher
	metrics    *Metrics
	presets    *param.Presets
}

func quietLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	table, err := param.ParseTable([]byte(testTable))
	require.NoError(t, err)
	store := param.NewMemory(table)
	presets := param.NewPresets(store, table.Presets, quietLogger())
	t.Cleanup(presets.Close)

	f := &fixture{
		store:      store,
		table:      table,
		sent:       &recorder{},
		dispatcher: &osc.Dispatcher{},
		metrics:    NewMetrics(nil),
		presets:    presets,
	}
	f.surface = New(store, f.sent, Options{
		Geometry:     testGeometry,
		Color:        [3]float64{1, 0.5, 0},
		EchoDelay:    100 * time.Millisecond,
		RandomAmount: 0.5,
		Presets:      presets,
		Rand:         rand.New(rand.NewSource(1)),
		Logger:       quietLogger(),
		Metrics:      f.metrics,
	})
	require.NoError(t, f.surface.Register(f.dispatcher))
	store.OnChange(f.surface.OnValueChange)
	store.OnModeChange(f.surface.OnModeChange)
	return f
}

// start publishes the fixture table and clears the recorder.
func (f *fixture) start(t *testing.T) {
	t.Helper()
	require.NoError(t, f.surface.Start(context.Background(), f.table.Params()))
	f.sent.reset()
}

func (f *fixture) dispatch(addr string, args ...interface{}) bool {
	return f.dispatcher.Dispatch(osc.NewMessage(addr, args...))
}

func (f *fixture) waitForGuard(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return !f.surface.guard.active() }, time.Second, 5*time.Millisecond)
}
