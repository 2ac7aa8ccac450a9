package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"retailenroll/models"
)

// Kind selects the rule set applied to a field.
type Kind string

const (
	KindName         Kind = "name"
	KindPhone        Kind = "phone"
	KindLapu         Kind = "lapu"
	KindAlphanumeric Kind = "alphanumeric"
)

// Rule is the set of checks for one Kind. Zero lengths are not checked.
type Rule struct {
	Pattern     *regexp.Regexp
	Message     string
	MinLength   int
	MaxLength   int
	ExactLength int
}

var rules = map[Kind]Rule{
	KindName: {
		Pattern:   regexp.MustCompile(`^[A-Za-z\s]+$`),
		Message:   "Only alphabets and spaces allowed",
		MinLength: 2,
		MaxLength: 100,
	},
	KindPhone: {
		Pattern:     regexp.MustCompile(`^[6-9][0-9]{9}$`),
		Message:     "Enter valid 10-digit mobile number (starting with 6-9)",
		ExactLength: 10,
	},
	KindLapu: {
		Pattern:     regexp.MustCompile(`^[0-9]+$`),
		Message:     "Enter valid 10-digit Lapu number",
		ExactLength: 10,
	},
	KindAlphanumeric: {
		Pattern:   regexp.MustCompile(`^[A-Za-z0-9\s\-]+$`),
		Message:   "Only alphanumeric characters allowed",
		MinLength: 1,
	},
}

// FieldSpec binds a form field to its label and rule.
type FieldSpec struct {
	Key      models.FieldKey
	Label    string
	Kind     Kind
	Required bool
}

// Fields are the validated inputs, in the order errors are reported.
var Fields = []FieldSpec{
	{Key: models.FieldOutletName, Label: "Outlet Name", Kind: KindName, Required: true},
	{Key: models.FieldLapuNo, Label: "Outlet Lapu No", Kind: KindLapu, Required: true},
	{Key: models.FieldFSEContact, Label: "FSE Contact No", Kind: KindPhone, Required: true},
	{Key: models.FieldTSMContact, Label: "TSM/SE Contact No", Kind: KindPhone, Required: true},
}

// SpecFor looks up the validated field for key.
func SpecFor(key models.FieldKey) (FieldSpec, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Result is the outcome of validating one value. Message is empty when Valid.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

const requiredMessage = "This field is required"

// Check validates value against a field spec. Later failing checks replace
// earlier messages, so a short invalid phone number reports the length error.
func Check(spec FieldSpec, value string) Result {
	v := strings.TrimSpace(value)
	if v == "" {
		if spec.Required {
			return Result{Message: requiredMessage}
		}
		return Result{Valid: true}
	}

	rule, ok := rules[spec.Kind]
	if !ok {
		return Result{Valid: true}
	}

	msg := ""
	n := utf8.RuneCountInString(v)
	if rule.Pattern != nil && !rule.Pattern.MatchString(v) {
		msg = rule.Message
	}
	if rule.ExactLength > 0 && n != rule.ExactLength {
		msg = fmt.Sprintf("Must be exactly %d digits", rule.ExactLength)
	}
	if rule.MinLength > 0 && n < rule.MinLength {
		msg = fmt.Sprintf("Minimum %d characters required", rule.MinLength)
	}
	if rule.MaxLength > 0 && n > rule.MaxLength {
		msg = fmt.Sprintf("Maximum %d characters allowed", rule.MaxLength)
	}
	if msg != "" {
		return Result{Message: msg}
	}
	return Result{Valid: true}
}

// Validate checks a single field by key. Fields without a rule are always valid.
func Validate(key models.FieldKey, value string) Result {
	spec, ok := SpecFor(key)
	if !ok {
		return Result{Valid: true}
	}
	return Check(spec, value)
}
