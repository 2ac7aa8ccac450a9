package flow

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Step is one stage of the enrollment sequence.
type Step int

const (
	StepData Step = iota
	StepPDF
	StepSubmit
	StepPhoto
)

var stepNames = map[Step]string{
	StepData:   "data",
	StepPDF:    "pdf",
	StepSubmit: "submit",
	StepPhoto:  "photo",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// ErrStepLocked is returned when a step is invoked before its prerequisite.
var ErrStepLocked = errors.New("step locked")

// LockedError carries the user-facing warning for an out-of-order action.
type LockedError struct {
	Step    Step
	Message string
}

func (e *LockedError) Error() string { return e.Message }

func (e *LockedError) Is(target error) bool { return target == ErrStepLocked }

var lockedMessages = map[Step]string{
	StepPDF:    "Please fill all required fields correctly",
	StepSubmit: "Please download PDF first!",
	StepPhoto:  "Please submit the form first!",
}

// State holds the four monotonic flags.
// Each flag implies the one before it.
type State struct {
	DataComplete  bool `json:"dataComplete"`
	PDFDownloaded bool `json:"pdfDownloaded"`
	Submitted     bool `json:"submitted"`
	PhotoCaptured bool `json:"photoCaptured"`
}

// Consistent reports whether s respects the ordering of the flags.
func (s State) Consistent() bool {
	if s.PhotoCaptured && !s.Submitted {
		return false
	}
	if s.Submitted && !s.PDFDownloaded {
		return false
	}
	if s.PDFDownloaded && !s.DataComplete {
		return false
	}
	return true
}

// ClickLog is captured when a gated action is invoked. Latitude and
// Longitude are "N/A" when no fix was available.
type ClickLog struct {
	Time      string    `json:"time"`
	Latitude  string    `json:"latitude"`
	Longitude string    `json:"longitude"`
	At        time.Time `json:"-"`
}

// ClickLogs holds at most one log per gated action; a later log replaces the earlier one.
type ClickLogs struct {
	PDF     *ClickLog `json:"pdf,omitempty"`
	Submit  *ClickLog `json:"submit,omitempty"`
	Capture *ClickLog `json:"capture,omitempty"`
}

// Gate enforces the step ordering for one session.
type Gate struct {
	mu    sync.RWMutex
	state State
	ready bool
	logs  ClickLogs
}

func NewGate() *Gate {
	return &Gate{}
}

// SetReady records whether the form currently validates. The first time it
// does, DataComplete latches; the live value still gates the PDF step.
func (g *Gate) SetReady(ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ready = ok
	if ok {
		g.state.DataComplete = true
	}
}

func (g *Gate) Ready() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ready
}

// Permit returns a *LockedError when the prerequisite of step is not met.
func (g *Gate) Permit(step Step) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.permitLocked(step)
}

func (g *Gate) permitLocked(step Step) error {
	ok := false
	switch step {
	case StepPDF:
		ok = g.ready
	case StepSubmit:
		ok = g.state.PDFDownloaded
	case StepPhoto:
		ok = g.state.Submitted
	default:
		return fmt.Errorf("%s is not a gated action", step)
	}
	if !ok {
		return &LockedError{Step: step, Message: lockedMessages[step]}
	}
	return nil
}

// Record stores the click log for a permitted step.
func (g *Gate) Record(step Step, log ClickLog) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.permitLocked(step); err != nil {
		return err
	}
	l := log
	switch step {
	case StepPDF:
		g.logs.PDF = &l
	case StepSubmit:
		g.logs.Submit = &l
	case StepPhoto:
		g.logs.Capture = &l
	}
	return nil
}

// Complete sets the flag for step after its action succeeded.
func (g *Gate) Complete(step Step) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.permitLocked(step); err != nil {
		return err
	}
	switch step {
	case StepPDF:
		g.state.PDFDownloaded = true
	case StepSubmit:
		g.state.Submitted = true
	case StepPhoto:
		g.state.PhotoCaptured = true
	}
	return nil
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gate) Logs() ClickLogs {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.logs
}
