package validation

import (
	"fmt"
	"regexp"

	"retailenroll/models"
)

const TierRequiredMessage = "Please select a Tier (Platinum/Gold/Executive)"

// Summary is the result of validating the whole form.
type Summary struct {
	Valid  bool                       `json:"valid"`
	Errors []string                   `json:"errors"`
	Fields map[models.FieldKey]Result `json:"fields"`
}

// ValidateAll checks every validated field and the tier, and returns one
// message per failing field plus one for a missing tier.
func ValidateAll(f models.FormFields, tier models.Tier) Summary {
	s := Summary{Errors: []string{}, Fields: make(map[models.FieldKey]Result, len(Fields))}
	for _, spec := range Fields {
		value, _ := f.Text(spec.Key)
		r := Check(spec, value)
		s.Fields[spec.Key] = r
		if r.Valid {
			continue
		}
		if r.Message == requiredMessage {
			s.Errors = append(s.Errors, fmt.Sprintf("%s is required", spec.Label))
		} else {
			s.Errors = append(s.Errors, fmt.Sprintf("%s: %s", spec.Label, r.Message))
		}
	}
	if !tier.Selected() {
		s.Errors = append(s.Errors, TierRequiredMessage)
	}
	s.Valid = len(s.Errors) == 0
	return s
}

var (
	nonDigits  = regexp.MustCompile(`[^0-9]`)
	nonLetters = regexp.MustCompile(`[^A-Za-z\s]`)
)

const maxDigitInput = 10

// Shape applies the input restriction for key as the user types:
// number inputs keep digits only and at most ten of them, name inputs keep letters and spaces.
func Shape(key models.FieldKey, raw string) string {
	spec, ok := SpecFor(key)
	if !ok {
		return raw
	}
	switch spec.Kind {
	case KindPhone, KindLapu:
		v := nonDigits.ReplaceAllString(raw, "")
		if len(v) > maxDigitInput {
			v = v[:maxDigitInput]
		}
		return v
	case KindName:
		return nonLetters.ReplaceAllString(raw, "")
	default:
		return raw
	}
}
