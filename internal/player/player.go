package player

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/boriwo/termart/internal/config"
)

const (
	// queueCapacity is ~10 seconds of buffered frames at 30fps.
	queueCapacity = 300
	lowWatermark  = 10
)

// Source is the decode capability the producer drains. Next blocks
// until a frame is ready and returns io.EOF on clean exhaustion. The
// producer goroutine owns it exclusively for the session.
type Source interface {
	Next() ([]byte, error)
}

// Sink renders one finished text frame. Called only from the consumer
// goroutine.
type Sink interface {
	Render(frame string) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(frame string) error

func (f SinkFunc) Render(frame string) error { return f(frame) }

// EncodeFunc turns one raw RGB24 buffer into a text frame. Must be
// pure; it runs on the producer goroutine.
type EncodeFunc func(pix []byte) string

// Player runs one playback session: a producer goroutine decodes and
// encodes ahead, the consumer loop paces rendering to the source frame
// rate and throttles the producer through the gate when the frame queue
// fills up.
type Player struct {
	cfg    *config.Playback
	src    Source
	encode EncodeFunc
	sink   Sink

	gate    *Gate
	frames  chan string // closed by the producer on exhaustion or failure
	failure chan error  // one slot, filled before close on fatal decode error

	queue      []string // consumer-local working deque, FIFO
	reachedMax bool
	lastAction ControlSignal

	rendered int
	log      *logrus.Entry
}

// New wires a session together. The frame channel is deliberately
// small: capacity lives in the consumer-side queue accounting, not in
// the transport.
func New(cfg *config.Playback, src Source, encode EncodeFunc, sink Sink) *Player {
	return &Player{
		cfg:     cfg,
		src:     src,
		encode:  encode,
		sink:    sink,
		gate:    NewGate(),
		frames:  make(chan string, 1),
		failure: make(chan error, 1),
		queue:   make([]string, 0, queueCapacity),
		log:     logrus.WithField("component", "player"),
	}
}

// Play runs the session until the stream is exhausted and every
// buffered frame has been rendered. A fatal decode failure surfaces as
// the returned error once the queue has drained.
func (p *Player) Play() error {
	go p.produce()

	start := time.Now()
	prev := start.Add(-p.cfg.FrameInterval) // first frame renders immediately
	statMark := start
	statFrames := 0
	exhausted := false

	for {
		action := p.evaluate()

		if !exhausted && action != SignalStop {
			frame, ok := <-p.frames
			if !ok {
				exhausted = true
			} else {
				p.queue = append(p.queue, frame)
			}
		}

		// Pacing: until a frame is due, keep the backpressure
		// bookkeeping running without rendering.
		if time.Since(prev) < p.cfg.FrameInterval {
			continue
		}

		if len(p.queue) == 0 {
			if exhausted {
				break
			}
			continue // producer has not caught up yet
		}
		frame := p.queue[0]
		p.queue = p.queue[1:]

		if err := p.sink.Render(frame); err != nil {
			return errors.Wrap(err, "render frame")
		}
		prev = time.Now()
		p.rendered++
		statFrames++

		if time.Since(statMark) >= time.Second {
			p.log.WithField("fps", statFrames).Debug("playback rate")
			statMark = time.Now()
			statFrames = 0
		}
	}

	select {
	case err := <-p.failure:
		return err
	default:
	}
	p.log.WithFields(logrus.Fields{
		"frames":  p.rendered,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Info("stream finished")
	return nil
}

// evaluate recomputes the backpressure decision from the queue fill
// level and pushes it through the gate. Stop is asserted at the low
// watermark and, once asserted, held until the queue has drained to
// half capacity so the producer does not thrash at the edge.
func (p *Player) evaluate() ControlSignal {
	remaining := queueCapacity - len(p.queue)
	action := SignalGo
	switch {
	case remaining <= lowWatermark:
		action = SignalStop
		p.reachedMax = true
	case p.reachedMax && remaining < queueCapacity/2:
		action = SignalStop
	case p.reachedMax:
		p.reachedMax = false
	}
	if action != p.lastAction {
		p.log.WithFields(logrus.Fields{
			"signal":   action.String(),
			"buffered": len(p.queue),
		}).Debug("backpressure")
		p.lastAction = action
	}
	p.gate.Set(action)
	return action
}

// produce is the single decode goroutine: pull, gate, encode, send.
// The frame channel is closed on the way out; a fatal decode error is
// parked in the failure slot for Play to pick up after draining.
func (p *Player) produce() {
	defer close(p.frames)
	for {
		pix, err := p.src.Next()
		if errors.Is(err, io.EOF) {
			p.log.Debug("stream exhausted")
			return
		}
		if err != nil {
			p.failure <- err
			return
		}
		p.gate.WaitWhileStopped()
		p.frames <- p.encode(pix)
	}
}
