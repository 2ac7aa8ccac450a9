package report

import (
	"bytes"
	"testing"
	"time"

	"retailenroll/models"
)

func TestRender_GeneratesTwoPagePDF(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 12, 5, 9, 31, 0, 0, time.UTC)
	out, err := NewRenderer("December 2025", time.UTC).Render(Document{
		Fields: models.FormFields{
			OutletName:  "Sri Ram Stores",
			LapuNo:      "9123456780",
			FSEContact:  "9876543210",
			TSMContact:  "8765432109",
			DSRCount:    5,
			MNPCount:    25,
			AirtelGross: 4,
		},
		Tier:        models.TierGold,
		GeneratedAt: at,
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !bytes.HasPrefix(out.Bytes, []byte("%PDF-")) {
		t.Fatalf("expected pdf header, got %q", out.Bytes[:8])
	}
	if got := bytes.Count(out.Bytes, []byte("/Type /Page\n")); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
	if out.Filename != "Enrollment_Sri_Ram_Stores_GOLD_2025-12-05.pdf" {
		t.Fatalf("unexpected filename %q", out.Filename)
	}
	if out.DocID != DocumentID(at) {
		t.Fatalf("expected doc id %q, got %q", DocumentID(at), out.DocID)
	}
}

func TestRender_WithoutTierUsesDefaultPalette(t *testing.T) {
	t.Parallel()

	out, err := NewRenderer("December 2025", nil).Render(Document{GeneratedAt: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(out.Bytes) == 0 {
		t.Fatalf("expected non-empty pdf bytes")
	}
	if out.Filename != "Enrollment_Retailer_2025-12-01.pdf" {
		t.Fatalf("unexpected filename %q", out.Filename)
	}
	if PaletteFor(models.TierNone) != defaultPalette {
		t.Fatalf("expected default palette for no tier")
	}
}

func TestFilename(t *testing.T) {
	t.Parallel()

	ist := time.FixedZone("IST", 5*3600+1800)
	// 01:00 IST on the 6th is still the 5th in UTC
	at := time.Date(2025, 12, 6, 1, 0, 0, 0, ist)
	if got := Filename("A&B Mobile's", models.TierExecutive, at); got != "Enrollment_A_B_Mobile_s_EXECUTIVE_2025-12-05.pdf" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{in: "Slab 30 → ₹150 × 25 MNP", want: "Slab 30 -> Rs.150 x 25 MNP"},
		{in: "🎯 5 more for ₹175/MNP slab", want: ">> 5 more for Rs.175/MNP slab"},
		{in: "✓ done", want: "(OK) done"},
		{in: "∞ (No JIO)", want: "(No JIO)"},
		{in: "  spaced    out  ", want: "spaced out"},
		{in: "", want: ""},
	}
	for _, tc := range cases {
		if got := CleanText(tc.in); got != tc.want {
			t.Fatalf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDocumentID(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(1733390000000)
	if got := DocumentID(at); got != "ENR-M4B3NFY8" {
		t.Fatalf("unexpected doc id %q", got)
	}
}

func TestSignatory(t *testing.T) {
	t.Parallel()

	want := map[models.Tier]string{
		models.TierPlatinum:  "ZBM",
		models.TierGold:      "ZSM",
		models.TierExecutive: "TSM",
		models.TierNone:      "FSE",
	}
	for tier, role := range want {
		if got := tier.Signatory(); got != role {
			t.Fatalf("%q signatory = %q, want %q", tier, got, role)
		}
	}
}
