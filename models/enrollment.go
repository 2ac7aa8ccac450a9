package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier is the enrollment category picked on the form.
type Tier string

const (
	TierNone      Tier = ""
	TierPlatinum  Tier = "platinum"
	TierGold      Tier = "gold"
	TierExecutive Tier = "executive"
)

// ParseTier accepts the radio values used by the form. An empty value clears the tier.
func ParseTier(v string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(v))); t {
	case TierNone, TierPlatinum, TierGold, TierExecutive:
		return t, nil
	default:
		return TierNone, fmt.Errorf("unknown tier %q", v)
	}
}

// Selected reports whether a tier has been chosen.
func (t Tier) Selected() bool {
	return t != TierNone
}

// Signatory is the role that counter-signs the enrollment document.
func (t Tier) Signatory() string {
	switch t {
	case TierPlatinum:
		return "ZBM"
	case TierGold:
		return "ZSM"
	case TierExecutive:
		return "TSM"
	default:
		return "FSE"
	}
}

// FieldKey names a form input.
type FieldKey string

const (
	FieldOutletName   FieldKey = "outletName"
	FieldLapuNo       FieldKey = "lapuNo"
	FieldFSEContact   FieldKey = "fseContact"
	FieldTSMContact   FieldKey = "tsmContact"
	FieldDSRCount     FieldKey = "dsrCount"
	FieldMNPCount     FieldKey = "mnpCount"
	FieldWiFiCount    FieldKey = "wifiCount"
	FieldAPBCount     FieldKey = "apbCount"
	FieldSimexCount   FieldKey = "simexCount"
	FieldLapuTertiary FieldKey = "lapuTertiary"
	FieldMNPDays      FieldKey = "mnpDays"
	FieldWiFiDays     FieldKey = "wifiDays"
	FieldVIMnp        FieldKey = "viMnp"
	FieldVIDsr        FieldKey = "viDsr"
	FieldJioMnp       FieldKey = "jioMnp"
	FieldJioDsr       FieldKey = "jioDsr"
	FieldAirtelGross  FieldKey = "airtelGross"
)

// TextFields lists the free-text inputs in declaration order.
var TextFields = []FieldKey{FieldOutletName, FieldLapuNo, FieldFSEContact, FieldTSMContact}

// CountFields lists the numeric inputs in declaration order.
var CountFields = []FieldKey{
	FieldDSRCount, FieldMNPCount, FieldWiFiCount, FieldAPBCount, FieldSimexCount,
	FieldLapuTertiary, FieldMNPDays, FieldWiFiDays,
	FieldVIMnp, FieldVIDsr, FieldJioMnp, FieldJioDsr, FieldAirtelGross,
}

// FormFields holds the current form values for one enrollment session.
type FormFields struct {
	OutletName string
	LapuNo     string
	FSEContact string
	TSMContact string

	DSRCount     int
	MNPCount     int
	WiFiCount    int
	APBCount     int
	SimexCount   int
	LapuTertiary int
	MNPDays      int
	WiFiDays     int

	VIMnp       int
	VIDsr       int
	JioMnp      int
	JioDsr      int
	AirtelGross int
}

// Text returns the value of a text field.
func (f *FormFields) Text(key FieldKey) (string, bool) {
	switch key {
	case FieldOutletName:
		return f.OutletName, true
	case FieldLapuNo:
		return f.LapuNo, true
	case FieldFSEContact:
		return f.FSEContact, true
	case FieldTSMContact:
		return f.TSMContact, true
	}
	return "", false
}

func (f *FormFields) count(key FieldKey) *int {
	switch key {
	case FieldDSRCount:
		return &f.DSRCount
	case FieldMNPCount:
		return &f.MNPCount
	case FieldWiFiCount:
		return &f.WiFiCount
	case FieldAPBCount:
		return &f.APBCount
	case FieldSimexCount:
		return &f.SimexCount
	case FieldLapuTertiary:
		return &f.LapuTertiary
	case FieldMNPDays:
		return &f.MNPDays
	case FieldWiFiDays:
		return &f.WiFiDays
	case FieldVIMnp:
		return &f.VIMnp
	case FieldVIDsr:
		return &f.VIDsr
	case FieldJioMnp:
		return &f.JioMnp
	case FieldJioDsr:
		return &f.JioDsr
	case FieldAirtelGross:
		return &f.AirtelGross
	}
	return nil
}

// Count returns the value of a numeric field.
func (f *FormFields) Count(key FieldKey) (int, bool) {
	if p := f.count(key); p != nil {
		return *p, true
	}
	return 0, false
}

// Set stores a raw value. Text values are stored as given (callers shape them
// first); numeric values are parsed leniently with ParseCount.
func (f *FormFields) Set(key FieldKey, raw string) error {
	switch key {
	case FieldOutletName:
		f.OutletName = raw
	case FieldLapuNo:
		f.LapuNo = raw
	case FieldFSEContact:
		f.FSEContact = raw
	case FieldTSMContact:
		f.TSMContact = raw
	default:
		p := f.count(key)
		if p == nil {
			return fmt.Errorf("unknown field %q", key)
		}
		*p = ParseCount(raw)
	}
	return nil
}

// IsTextField reports whether key is one of the free-text inputs.
func IsTextField(key FieldKey) bool {
	for _, k := range TextFields {
		if k == key {
			return true
		}
	}
	return false
}

// ParseCount reads an optional sign followed by leading digits and ignores
// anything after them. Input with no leading digits is 0.
func ParseCount(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
