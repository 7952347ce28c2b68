package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGateStartsGo(t *testing.T) {
	g := NewGate()
	assert.Equal(t, SignalGo, g.Signal())

	done := make(chan struct{})
	go func() {
		g.WaitWhileStopped()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitWhileStopped blocked while signal was Go")
	}
}

func TestGateStopParksAndGoReleases(t *testing.T) {
	g := NewGate()
	g.Set(SignalStop)
	assert.Equal(t, SignalStop, g.Signal())

	released := make(chan struct{})
	go func() {
		g.WaitWhileStopped()
		close(released)
	}()

	select {
	case <-released:
		t.Fatal("waiter released while signal was Stop")
	case <-time.After(50 * time.Millisecond):
	}

	g.Set(SignalGo)
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("waiter not released after Go")
	}
	assert.Equal(t, SignalGo, g.Signal())
}

func TestGateGoWhileGoIsNoop(t *testing.T) {
	g := NewGate()
	g.Set(SignalGo)
	assert.Equal(t, SignalGo, g.Signal())

	// A Stop always takes effect, even back to back.
	g.Set(SignalStop)
	g.Set(SignalStop)
	assert.Equal(t, SignalStop, g.Signal())
}

func TestControlSignalString(t *testing.T) {
	assert.Equal(t, "go", SignalGo.String())
	assert.Equal(t, "stop", SignalStop.String())
}
