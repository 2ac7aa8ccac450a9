package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"retailenroll/models"
)

var (
	symbolReplacer = strings.NewReplacer(
		"₹", "Rs.",
		"🎯", ">>",
		"🏆", "**",
		"→", "->",
		"×", "x",
		"✓", "(OK)",
	)
	whitespace   = regexp.MustCompile(`\s+`)
	nonFileChars = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// CleanText maps the symbols the core fonts cannot draw to ASCII and drops
// any other non-ASCII character.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = symbolReplacer.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(b.String(), " "))
}

// Filename is Enrollment_<outlet>[_<TIER>]_<YYYY-MM-DD>.pdf, with the date in UTC.
func Filename(outlet string, tier models.Tier, at time.Time) string {
	if outlet == "" {
		outlet = "Retailer"
	}
	suffix := ""
	if tier.Selected() {
		suffix = "_" + strings.ToUpper(string(tier))
	}
	return fmt.Sprintf("Enrollment_%s%s_%s.pdf", nonFileChars.ReplaceAllString(outlet, "_"), suffix, at.UTC().Format("2006-01-02"))
}

// DocumentID is ENR- followed by the upper-case base-36 millisecond timestamp.
func DocumentID(at time.Time) string {
	return "ENR-" + strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36))
}

func declaration(period string) string {
	return "I hereby confirm that all information provided above is accurate and complete. " +
		"I agree to comply with the terms and conditions of the retailer enrollment program for the " +
		period + " period. I understand that any false information may result in disqualification from the program."
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
