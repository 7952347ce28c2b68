package player

import "sync"

// ControlSignal is the stop/go word shared between the consumer, which
// writes it, and the producer, which waits on it.
type ControlSignal int

const (
	SignalGo ControlSignal = iota
	SignalStop
)

func (s ControlSignal) String() string {
	if s == SignalStop {
		return "stop"
	}
	return "go"
}

// Gate is the backpressure controller: the control signal guarded by a
// mutex, paired with a condition variable the producer parks on while
// the signal is Stop.
type Gate struct {
	mu     sync.Mutex
	cond   *sync.Cond
	signal ControlSignal
}

// NewGate returns a gate in the Go state.
func NewGate() *Gate {
	g := &Gate{signal: SignalGo}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Set writes the desired signal and wakes the producer. A Go written
// while the signal is already Go is skipped: the producer is not parked,
// so there is nobody to notify. Every Stop, and every write while
// stopped, goes through.
func (g *Gate) Set(desired ControlSignal) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if desired == SignalStop || g.signal == SignalStop {
		g.signal = desired
		g.cond.Signal()
	}
}

// WaitWhileStopped parks the caller until the signal reads Go.
func (g *Gate) WaitWhileStopped() {
	g.mu.Lock()
	for g.signal == SignalStop {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

// Signal reports the current state.
func (g *Gate) Signal() ControlSignal {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.signal
}
