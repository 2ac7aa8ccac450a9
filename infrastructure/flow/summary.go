package flow

import (
	"fmt"
	"time"
)

// Status is the display state of a step indicator.
type Status string

const (
	StatusDone   Status = "done"
	StatusActive Status = "active"
	StatusLocked Status = "locked"
)

// StepStatus is one entry of the step indicator.
type StepStatus struct {
	Step   Step   `json:"-"`
	Name   string `json:"name"`
	Status Status `json:"status"`
}

// Summary derives the indicator for all four steps. The data step follows the
// live validation result, so it can turn locked again after being done.
func (g *Gate) Summary() []StepStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stage := func(step Step, done, prereq bool) StepStatus {
		st := StatusLocked
		switch {
		case done:
			st = StatusDone
		case prereq:
			st = StatusActive
		}
		return StepStatus{Step: step, Name: step.String(), Status: st}
	}

	data := StatusLocked
	if g.ready {
		data = StatusDone
	}
	return []StepStatus{
		{Step: StepData, Name: StepData.String(), Status: data},
		stage(StepPDF, g.state.PDFDownloaded, g.ready),
		stage(StepSubmit, g.state.Submitted, g.state.PDFDownloaded),
		stage(StepPhoto, g.state.PhotoCaptured, g.state.Submitted),
	}
}

const (
	clickTimeLayout = "02/01/06, 3:04:05 pm"
	notAvailable    = "N/A"
)

// NewClickLog formats the click time in loc and the coordinates to six
// decimals. A nil coordinate pair becomes "N/A".
func NewClickLog(at time.Time, loc *time.Location, lat, lon *float64) ClickLog {
	if loc == nil {
		loc = time.UTC
	}
	l := ClickLog{
		Time:      at.In(loc).Format(clickTimeLayout),
		Latitude:  notAvailable,
		Longitude: notAvailable,
		At:        at,
	}
	if lat != nil && lon != nil {
		l.Latitude = fmt.Sprintf("%.6f", *lat)
		l.Longitude = fmt.Sprintf("%.6f", *lon)
	}
	return l
}
