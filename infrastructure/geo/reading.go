package geo

import (
	"fmt"
	"math"
)

// Source is where a reading came from.
type Source string

const (
	SourceNone          Source = "none"
	SourceLiveSensor    Source = "liveSensor"
	SourceHostBridge    Source = "hostBridge"
	SourceImageMetadata Source = "imageMetadata"
)

// Label is the human-readable source written into the submission record.
func (s Source) Label() string {
	switch s {
	case SourceLiveSensor:
		return "Device GPS"
	case SourceHostBridge:
		return "Swift Real GPS"
	case SourceImageMetadata:
		return "EXIF"
	default:
		return ""
	}
}

// Reading is a resolved position. Accuracy is nil when the source did not report one.
type Reading struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Source    Source   `json:"source"`
}

func (r *Reading) LatitudeString() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", r.Latitude)
}

func (r *Reading) LongitudeString() string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", r.Longitude)
}

// AccuracyString is the rounded accuracy in metres, e.g. "12m".
func (r *Reading) AccuracyString() string {
	if r == nil || r.Accuracy == nil {
		return ""
	}
	return fmt.Sprintf("%dm", int64(math.Floor(*r.Accuracy+0.5)))
}

// Display is the "lat, lon" pair shown on screen and in the preview stamp.
func (r *Reading) Display() string {
	if r == nil {
		return ""
	}
	return r.LatitudeString() + ", " + r.LongitudeString()
}

// Valid reports whether the coordinates are finite and within range.
func (r *Reading) Valid() bool {
	if r == nil {
		return false
	}
	if math.IsNaN(r.Latitude) || math.IsNaN(r.Longitude) || math.IsInf(r.Latitude, 0) || math.IsInf(r.Longitude, 0) {
		return false
	}
	return r.Latitude >= -90 && r.Latitude <= 90 && r.Longitude >= -180 && r.Longitude <= 180
}

func floatPtr(v float64) *float64 { return &v }
