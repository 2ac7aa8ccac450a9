package enrollment

import (
	"encoding/json"

	enrollinfra "retailenroll/infrastructure/enrollment"
	"retailenroll/infrastructure/validation"
)

// Toast is the notification the page shows after an action.
type Toast struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// StateResponse is returned by every JSON endpoint.
type StateResponse struct {
	OK     bool                      `json:"ok"`
	Toast  *Toast                    `json:"toast,omitempty"`
	Notice *Toast                    `json:"notice,omitempty"`
	Field  *enrollinfra.FieldUpdate  `json:"field,omitempty"`
	Bridge *enrollinfra.LocationView `json:"bridge,omitempty"`
	State  enrollinfra.View          `json:"state"`
}

// BridgeFix is the body a host app posts when it has a position.
type BridgeFix struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Accuracy  *float64 `json:"accuracy"`
}

// PageData feeds the enrollment page.
type PageData struct {
	Period string
	State  enrollinfra.View
	Fields []validation.FieldSpec
}

// HistoryEntry is one audit line of the caller's session.
type HistoryEntry struct {
	Action   string          `json:"action"`
	Entity   string          `json:"entity"`
	EntityID string          `json:"entityId"`
	At       string          `json:"at"`
	Details  json.RawMessage `json:"details,omitempty"`
}
