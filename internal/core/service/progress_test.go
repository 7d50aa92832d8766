package service

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// phaseRecorder collects phase transitions for assertions.
type phaseRecorder struct {
	mu     sync.Mutex
	phases []Phase
}

func (r *phaseRecorder) record(phase Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, phase)
}

func (r *phaseRecorder) seen() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	phases := make([]Phase, len(r.phases))
	copy(phases, r.phases)
	return phases
}

func waitForPhase(t *testing.T, p *Progress, want Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.Phase() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("phase never reached %q, still %q", want, p.Phase())
}

func TestProgress_StartsIdle(t *testing.T) {
	p := NewProgress(nil)
	if got := p.Phase(); got != PhaseIdle {
		t.Errorf("Phase() = %q, want %q", got, PhaseIdle)
	}
}

func TestProgress_SingleOperationLifecycle(t *testing.T) {
	recorder := &phaseRecorder{}
	p := NewProgress(recorder.record)

	p.Start()
	if got := p.Phase(); got != PhaseBegin {
		t.Errorf("after Start: Phase() = %q, want %q", got, PhaseBegin)
	}

	waitForPhase(t, p, PhaseStarting)

	p.Stop()
	if got := p.Phase(); got != PhaseIdle {
		t.Errorf("after Stop: Phase() = %q, want %q", got, PhaseIdle)
	}

	want := []Phase{PhaseBegin, PhaseStarting, PhaseIdle}
	got := recorder.seen()
	if len(got) != len(want) {
		t.Fatalf("transitions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", got, want)
		}
	}
}

func TestProgress_OverlappingOperationsCompose(t *testing.T) {
	p := NewProgress(nil)

	p.Start()
	p.Start()
	p.Stop()
	if got := p.Phase(); got == PhaseIdle {
		t.Error("one settled operation must not clear another's indicator")
	}

	p.Stop()
	if got := p.Phase(); got != PhaseIdle {
		t.Errorf("after final Stop: Phase() = %q, want %q", got, PhaseIdle)
	}
}

func TestProgress_FastOperationSkipsStarting(t *testing.T) {
	recorder := &phaseRecorder{}
	p := NewProgress(recorder.record)
	p.startDelay = time.Hour

	p.Start()
	p.Stop()

	for _, phase := range recorder.seen() {
		if phase == PhaseStarting {
			t.Error("operation settled before the start delay, Starting must not fire")
		}
	}
	if got := p.Phase(); got != PhaseIdle {
		t.Errorf("Phase() = %q, want %q", got, PhaseIdle)
	}
}

func TestProgress_SubmitPassesResultThrough(t *testing.T) {
	p := NewProgress(nil)

	wantErr := fmt.Errorf("boom")
	if err := p.Submit(func() error { return wantErr }); err != wantErr {
		t.Errorf("Submit returned %v, want %v", err, wantErr)
	}
	if err := p.Submit(func() error { return nil }); err != nil {
		t.Errorf("Submit returned %v, want nil", err)
	}
	if got := p.Phase(); got != PhaseIdle {
		t.Errorf("Phase() = %q, want %q after Submit settles", got, PhaseIdle)
	}
}

func TestProgress_TrackSettlesOnClose(t *testing.T) {
	p := NewProgress(nil)

	done := make(chan struct{})
	p.Track(done)
	if got := p.Phase(); got == PhaseIdle {
		t.Error("tracked operation is in flight, phase must not be Idle")
	}

	close(done)
	waitForPhase(t, p, PhaseIdle)
}

func TestProgress_StopWithoutStartIsHarmless(t *testing.T) {
	p := NewProgress(nil)
	p.Stop()
	if got := p.Phase(); got != PhaseIdle {
		t.Errorf("Phase() = %q, want %q", got, PhaseIdle)
	}
}
