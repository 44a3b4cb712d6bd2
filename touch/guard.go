package touch

import (
	"sync"
	"time"
)

// echoGuard suppresses outbound value messages while an inbound update is
// being applied. The lock is released after a delay rather than on
// return, because hosts may report the write a few frames later.
type echoGuard struct {
	delay time.Duration

	mu     sync.Mutex
	gen    uint64
	locked bool
}

// hold locks the guard. The returned func schedules the release, which
// only clears the lock taken by this hold.
func (g *echoGuard) hold() (release func()) {
	g.mu.Lock()
	g.gen++
	gen := g.gen
	g.locked = true
	g.mu.Unlock()

	return func() {
		time.AfterFunc(g.delay, func() {
			g.mu.Lock()
			if g.gen == gen {
				g.locked = false
			}
			g.mu.Unlock()
		})
	}
}

func (g *echoGuard) active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.locked
}
