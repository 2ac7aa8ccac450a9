package enrollment

import (
	"errors"
	"fmt"

	"retailenroll/infrastructure/flow"
)

// Kind classifies an action failure.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindLocked            Kind = "locked"
	KindSensorUnavailable Kind = "sensor_unavailable"
	KindTransport         Kind = "transport"
	KindAssetRead         Kind = "asset_read"
	KindRender            Kind = "render"
)

// ActionError is returned by the gated actions. Message is safe to show to the user.
type ActionError struct {
	Kind    Kind
	Step    flow.Step
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Step, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Step, e.Kind, e.Message)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Toast is the notification style the page shows for this failure.
func (e *ActionError) Toast() string {
	switch e.Kind {
	case KindLocked, KindValidation:
		return "warning"
	case KindSensorUnavailable:
		return "info"
	default:
		return "error"
	}
}

// AsActionError unwraps err into an *ActionError.
func AsActionError(err error) (*ActionError, bool) {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func lockedError(err error) *ActionError {
	var le *flow.LockedError
	if errors.As(err, &le) {
		return &ActionError{Kind: KindLocked, Step: le.Step, Message: le.Message, Err: err}
	}
	return &ActionError{Kind: KindLocked, Message: "This step is not available yet", Err: err}
}
