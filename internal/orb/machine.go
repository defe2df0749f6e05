// Package orb is the timed phase sequence the oracle plays before revealing an
// answer: idle, shake, glow, smoke, explosion and back to idle.
//
// The phase table is the only source of timing. Callers reveal the answer
// when the machine reports completion rather than keeping their own timer.
package orb

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrBusy = errors.New("orb sequence already running")

type Phase string

const (
	Idle      Phase = "idle"
	Shake     Phase = "shake"
	Glow      Phase = "glow"
	Smoke     Phase = "smoke"
	Explosion Phase = "explosion"
)

// Step is one phase and how long the machine dwells in it.
type Step struct {
	Phase Phase
	Dwell time.Duration
}

// Sequence is an ordered list of steps played after Start.
type Sequence []Step

// DefaultSequence lasts 3.8s in total.
var DefaultSequence = Sequence{
	{Phase: Shake, Dwell: 500 * time.Millisecond},
	{Phase: Glow, Dwell: 1000 * time.Millisecond},
	{Phase: Smoke, Dwell: 1500 * time.Millisecond},
	{Phase: Explosion, Dwell: 800 * time.Millisecond},
}

// Total is the sum of all dwell times.
func (s Sequence) Total() time.Duration {
	var d time.Duration
	for _, st := range s {
		d += st.Dwell
	}
	return d
}

// Scaled returns a copy with every dwell multiplied by f.
func (s Sequence) Scaled(f float64) Sequence {
	out := make(Sequence, len(s))
	for i, st := range s {
		out[i] = Step{Phase: st.Phase, Dwell: time.Duration(float64(st.Dwell) * f)}
	}
	return out
}

// Machine tracks the current phase. It is safe for concurrent use.
type Machine struct {
	mu  sync.Mutex
	seq Sequence
	idx int // -1 when idle
}

func NewMachine(seq Sequence) *Machine {
	return &Machine{seq: seq, idx: -1}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.idx < 0 {
		return Idle
	}
	return m.seq[m.idx].Phase
}

// Busy reports whether a sequence is running.
func (m *Machine) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.idx >= 0
}

// Start enters the first step. A running sequence cannot be restarted.
// With an empty sequence Start reports done immediately.
func (m *Machine) Start() (step Step, done bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.idx >= 0 {
		return Step{}, false, ErrBusy
	}
	if len(m.seq) == 0 {
		return Step{Phase: Idle}, true, nil
	}
	m.idx = 0
	return m.seq[0], false, nil
}

// Advance leaves the current step. It returns the next step, or done=true
// once the last step has ended and the machine is idle again.
// Advancing an idle machine is a no-op that reports done.
func (m *Machine) Advance() (step Step, done bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.idx < 0 {
		return Step{Phase: Idle}, true
	}
	m.idx++
	if m.idx >= len(m.seq) {
		m.idx = -1
		return Step{Phase: Idle}, true
	}
	return m.seq[m.idx], false
}

// Run starts the sequence and blocks until it completes, calling onPhase on
// every transition including the final return to Idle. The context only cuts
// the wait short at shutdown; the machine is then reset to Idle.
func (m *Machine) Run(ctx context.Context, onPhase func(Phase)) error {
	step, done, err := m.Start()
	if err != nil {
		return err
	}
	notify := func(p Phase) {
		if onPhase != nil {
			onPhase(p)
		}
	}

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for !done {
		notify(step.Phase)
		timer.Reset(step.Dwell)
		select {
		case <-ctx.Done():
			m.reset()
			return ctx.Err()
		case <-timer.C:
		}
		step, done = m.Advance()
	}
	notify(Idle)
	return nil
}

func (m *Machine) reset() {
	m.mu.Lock()
	m.idx = -1
	m.mu.Unlock()
}
