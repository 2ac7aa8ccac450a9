package enrollment

import (
	"sync"
	"time"

	"retailenroll/infrastructure/flow"
	"retailenroll/infrastructure/geo"
	"retailenroll/infrastructure/incentive"
	"retailenroll/infrastructure/photo"
	"retailenroll/infrastructure/validation"
	"retailenroll/models"
)

// Session is one user's enrollment in progress.
type Session struct {
	mu     sync.Mutex
	action sync.Mutex // held for the whole of a gated action

	ID        string
	CreatedAt time.Time
	UserAgent string
	Device    geo.DeviceInfo

	fields   models.FormFields
	tier     models.Tier
	geo      *geo.Reading
	photo    *photo.Captured
	lastSeen time.Time

	Gate   *flow.Gate
	Bridge *geo.Bridge
}

func NewSession(id, userAgent string, now time.Time) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: now,
		UserAgent: userAgent,
		Device:    geo.DetectDevice(userAgent),
		Gate:      flow.NewGate(),
		Bridge:    geo.NewBridge(),
		lastSeen:  now,
	}
	s.refreshLocked()
	return s
}

// FieldUpdate is the result of a single field edit.
type FieldUpdate struct {
	Key    models.FieldKey   `json:"key"`
	Value  string            `json:"value"`
	Result validation.Result `json:"result"`
}

// UpdateField shapes and stores one value, then re-evaluates form readiness.
func (s *Session) UpdateField(key models.FieldKey, raw string) (FieldUpdate, error) {
	value := raw
	if models.IsTextField(key) {
		value = validation.Shape(key, raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fields.Set(key, value); err != nil {
		return FieldUpdate{}, &ActionError{Kind: KindValidation, Step: flow.StepData, Message: "Unknown field", Err: err}
	}
	s.refreshLocked()

	return FieldUpdate{Key: key, Value: value, Result: validation.Validate(key, value)}, nil
}

// SetTier changes the selected tier and re-evaluates readiness.
func (s *Session) SetTier(t models.Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tier = t
	s.refreshLocked()
}

// SetLocation replaces the current position; nil clears it.
func (s *Session) SetLocation(r *geo.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geo = r
}

func (s *Session) Fields() models.FormFields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

func (s *Session) Tier() models.Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tier
}

func (s *Session) Location() *geo.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.geo == nil {
		return nil
	}
	r := *s.geo
	return &r
}

func (s *Session) Photo() *photo.Captured {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.photo == nil {
		return nil
	}
	c := *s.photo
	return &c
}

func (s *Session) setPhoto(c photo.Captured, r *geo.Reading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.photo = &c
	s.geo = r
}

// Touch marks the session as used at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) refreshLocked() {
	s.Gate.SetReady(validation.ValidateAll(s.fields, s.tier).Valid)
}

// View is everything the page renders for the current state.
type View struct {
	Fields      map[models.FieldKey]string `json:"fields"`
	Tier        models.Tier                `json:"tier"`
	Amounts     incentive.Amounts          `json:"amounts"`
	Amount      map[string]string          `json:"amountText"`
	Total       string                     `json:"total"`
	Slab        SlabView                   `json:"slab"`
	DeviceShare incentive.DeviceShare      `json:"deviceShare"`
	Validation  validation.Summary         `json:"validation"`
	Flow        flow.State                 `json:"flow"`
	Steps       []flow.StepStatus          `json:"steps"`
	Location    *LocationView              `json:"location,omitempty"`
	HasPhoto    bool                       `json:"hasPhoto"`
	Signatory   string                     `json:"signatory"`
	Device      geo.DeviceInfo             `json:"device"`
}

// SlabView carries the slab texts shown under the gross row.
type SlabView struct {
	Badge        string              `json:"badge"`
	Summary      string              `json:"summary"`
	ProgressText string              `json:"progressText"`
	Progress     float64             `json:"progress"`
	Rows         []incentive.SlabRow `json:"rows"`
}

// LocationView is the formatted position panel.
type LocationView struct {
	Coordinates string `json:"coordinates"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Accuracy    string `json:"accuracy,omitempty"`
	Source      string `json:"source"`
}

// NewLocationView formats r, or returns nil for no reading.
func NewLocationView(r *geo.Reading) *LocationView {
	if r == nil {
		return nil
	}
	return &LocationView{
		Coordinates: r.Display(),
		Latitude:    r.LatitudeString(),
		Longitude:   r.LongitudeString(),
		Accuracy:    r.AccuracyString(),
		Source:      r.Source.Label(),
	}
}

// Snapshot derives the full view from the current values.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	f, tier, loc, hasPhoto := s.fields, s.tier, s.geo, s.photo != nil
	s.mu.Unlock()

	a := incentive.Compute(f)
	v := View{
		Fields:      make(map[models.FieldKey]string, len(models.TextFields)+len(models.CountFields)),
		Tier:        tier,
		Amounts:     a,
		Total:       a.TotalText(),
		DeviceShare: incentive.ComputeDeviceShare(f),
		Validation:  validation.ValidateAll(f, tier),
		Flow:        s.Gate.State(),
		Steps:       s.Gate.Summary(),
		Location:    NewLocationView(loc),
		HasPhoto:    hasPhoto,
		Signatory:   tier.Signatory(),
		Device:      s.Device,
		Slab: SlabView{
			Badge:        a.Slab.Badge(),
			Summary:      a.Slab.Summary(f.MNPCount),
			ProgressText: a.Slab.ProgressText(),
			Progress:     a.Slab.Progress(),
			Rows:         a.Slab.Rows(),
		},
		Amount: map[string]string{
			"dsrAmount":      incentive.FormatINR(int64(a.DSR)),
			"mnpAmount":      incentive.FormatINR(int64(a.MNP)),
			"grossCount":     itoa(a.GrossCount),
			"grossAmount":    incentive.FormatINR(int64(a.GrossCommitment)),
			"tertiaryAmount": incentive.FormatINRDecimal(a.Tertiary),
			"mnpDaysAmount":  incentive.FormatINRDecimal(a.MNPDays),
			"wifiDaysAmount": incentive.FormatINRDecimal(a.WiFiDays),
			"wifiAmount":     incentive.FormatINR(int64(a.WiFi)),
			"apbAmount":      incentive.FormatINR(int64(a.APBSBA)),
			"simexAmount":    incentive.FormatINR(int64(a.Simex)),
		},
	}
	for _, k := range models.TextFields {
		v.Fields[k], _ = f.Text(k)
	}
	for _, k := range models.CountFields {
		n, _ := f.Count(k)
		v.Fields[k] = itoa(n)
	}
	return v
}
