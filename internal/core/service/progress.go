package service

import (
	"sync"
	"time"
)

// Phase is the coarse-grained loading state derived from the set of
// in-flight operations.
type Phase string

const (
	PhaseIdle Phase = "Idle"
	// PhaseBegin is entered the moment the first operation starts.
	PhaseBegin Phase = "Begin"
	// PhaseStarting follows Begin after a minimal scheduling delay, so
	// near-instant operations never flicker the indicator.
	PhaseStarting Phase = "Starting"
)

const defaultStartDelay = time.Millisecond

// Progress aggregates how many operations are outstanding and derives the
// loading phase. It tracks a pending count, not a single flag, so
// overlapping operations compose: one settling never clears another's
// indicator.
type Progress struct {
	mu         sync.Mutex
	pending    int
	phase      Phase
	startDelay time.Duration
	timer      *time.Timer
	onChange   func(Phase)
}

// NewProgress constructs an idle aggregator. onChange, if non-nil, observes
// every phase transition.
func NewProgress(onChange func(Phase)) *Progress {
	return &Progress{
		phase:      PhaseIdle,
		startDelay: defaultStartDelay,
		onChange:   onChange,
	}
}

// Phase returns the current derived phase.
func (p *Progress) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// Start manually registers an in-flight operation; it must be paired with
// Stop.
func (p *Progress) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending++
	if p.pending > 1 {
		return
	}

	p.setPhaseLocked(PhaseBegin)
	p.timer = time.AfterFunc(p.startDelay, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.pending > 0 && p.phase == PhaseBegin {
			p.setPhaseLocked(PhaseStarting)
		}
	})
}

// Stop settles one operation registered with Start.
func (p *Progress) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending == 0 {
		return
	}
	p.pending--
	if p.pending > 0 {
		return
	}

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.setPhaseLocked(PhaseIdle)
}

// Submit runs fn as a tracked operation and passes its result through
// unchanged.
func (p *Progress) Submit(fn func() error) error {
	p.Start()
	defer p.Stop()
	return fn()
}

// Track registers an operation that settles when done is closed.
func (p *Progress) Track(done <-chan struct{}) {
	p.Start()
	go func() {
		<-done
		p.Stop()
	}()
}

func (p *Progress) setPhaseLocked(phase Phase) {
	if p.phase == phase {
		return
	}
	p.phase = phase
	if p.onChange != nil {
		p.onChange(phase)
	}
}
