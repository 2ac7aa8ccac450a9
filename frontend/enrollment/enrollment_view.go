package enrollment

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "retailenroll/frontend/shared/html"
	"retailenroll/infrastructure/flow"
	"retailenroll/infrastructure/incentive"
	"retailenroll/models"
)

type countInput struct {
	Key    models.FieldKey
	Label  string
	Amount string // key into View.Amount, empty for inputs with no payout
	Rate   string
}

var commissionInputs = []countInput{
	{Key: models.FieldDSRCount, Label: "DSR", Amount: "dsrAmount", Rate: fmt.Sprintf("₹%d each", incentive.RateDSR)},
	{Key: models.FieldMNPCount, Label: "MNP", Amount: "mnpAmount", Rate: fmt.Sprintf("₹%d each", incentive.RateMNP)},
}

var marginInputs = []countInput{
	{Key: models.FieldLapuTertiary, Label: "LAPU Tertiary (₹)", Amount: "tertiaryAmount", Rate: "3.9%"},
	{Key: models.FieldMNPDays, Label: "MNP Days", Amount: "mnpDaysAmount", Rate: "1.4% per day"},
	{Key: models.FieldWiFiDays, Label: "WiFi Days", Amount: "wifiDaysAmount", Rate: "1.5% per day"},
}

var additionalInputs = []countInput{
	{Key: models.FieldWiFiCount, Label: "WiFi", Amount: "wifiAmount", Rate: fmt.Sprintf("₹%d each", incentive.RateWiFi)},
	{Key: models.FieldAPBCount, Label: "APB/SBA", Amount: "apbAmount", Rate: fmt.Sprintf("₹%d each", incentive.RateAPBSBA)},
	{Key: models.FieldSimexCount, Label: "SIMEX", Amount: "simexAmount", Rate: fmt.Sprintf("₹%d each", incentive.RateSimex)},
}

var competitorInputs = []countInput{
	{Key: models.FieldVIMnp, Label: "VI MNP"},
	{Key: models.FieldVIDsr, Label: "VI DSR"},
	{Key: models.FieldJioMnp, Label: "JIO MNP"},
	{Key: models.FieldJioDsr, Label: "JIO DSR"},
	{Key: models.FieldAirtelGross, Label: "Airtel Gross"},
}

var tierOptions = []struct {
	Tier  models.Tier
	Label string
}{
	{models.TierPlatinum, "Platinum"},
	{models.TierGold, "Gold"},
	{models.TierExecutive, "Executive"},
}

var textInputModes = map[models.FieldKey]string{
	models.FieldOutletName: `type="text" autocomplete="off" maxlength="100"`,
	models.FieldLapuNo:     `type="tel" inputmode="numeric" maxlength="10"`,
	models.FieldFSEContact: `type="tel" inputmode="numeric" maxlength="10"`,
	models.FieldTSMContact: `type="tel" inputmode="numeric" maxlength="10"`,
}

// EnrollmentPage renders the whole form. The page script keeps it in sync
// with /api/enrollment/state after load.
func EnrollmentPage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		v := data.State

		b.WriteString(`<main class="enroll" id="enrollment">`)
		fmt.Fprintf(&b, `<header class="enroll-header"><h1>Retailer Enrollment Sheet</h1><p class="period">%s</p></header>`, esc(data.Period))
		writeSteps(&b, v.Steps)

		b.WriteString(`<section class="card"><h2>Retailer Information</h2>`)
		for _, f := range data.Fields {
			res := v.Validation.Fields[f.Key]
			cls := ""
			if v.Fields[f.Key] != "" {
				cls = " valid"
				if !res.Valid {
					cls = " invalid"
				}
			}
			fmt.Fprintf(&b, `<label class="field%s" data-field="%s"><span>%s *</span><input name="%s" %s value="%s" required><small class="field-error">%s</small></label>`,
				cls, f.Key, esc(f.Label), f.Key, textInputModes[f.Key], esc(v.Fields[f.Key]), esc(res.Message))
		}
		b.WriteString(`</section>`)

		b.WriteString(`<section class="card"><h2>Enrollment Tier</h2><div class="tiers" role="radiogroup">`)
		for _, t := range tierOptions {
			checked := ""
			if v.Tier == t.Tier {
				checked = " checked"
			}
			fmt.Fprintf(&b, `<label class="tier tier-%s"><input type="radio" name="tier" value="%s"%s><span>%s</span></label>`, t.Tier, t.Tier, checked, t.Label)
		}
		fmt.Fprintf(&b, `</div><p class="signatory">Signatory: <strong data-bind="signatory">%s</strong></p></section>`, esc(v.Signatory))

		writeCountSection(&b, "Commission", commissionInputs, v.Fields, v.Amount)
		fmt.Fprintf(&b, `<div class="gross-row"><span>Gross</span><strong data-bind="grossCount">%s</strong><span class="slab-badge" data-bind="slabBadge">%s</span><strong data-bind="grossAmount">₹%s</strong></div>`,
			esc(v.Amount["grossCount"]), esc(v.Slab.Badge), esc(v.Amount["grossAmount"]))
		writeSlabPanel(&b, v.Slab.Summary, v.Slab.ProgressText, v.Slab.Progress, v.Slab.Rows)

		writeCountSection(&b, "Margin Calculations", marginInputs, v.Fields, v.Amount)
		writeCountSection(&b, "Additional Items", additionalInputs, v.Fields, v.Amount)
		writeCountSection(&b, "Competitor Data", competitorInputs, v.Fields, v.Amount)
		fmt.Fprintf(&b, `<p class="device-share share-%s">Device share: <strong data-bind="deviceShare">%s</strong></p>`, v.DeviceShare.Status, esc(v.DeviceShare.Display))

		fmt.Fprintf(&b, `<section class="total-box"><strong data-bind="total">%s</strong></section>`, esc(v.Total))

		b.WriteString(`<section class="card location"><h2>Location</h2>`)
		coords, source := "Not captured", ""
		if v.Location != nil {
			coords, source = v.Location.Coordinates, v.Location.Source
			if v.Location.Accuracy != "" {
				source += " ±" + v.Location.Accuracy
			}
		}
		fmt.Fprintf(&b, `<p data-bind="coords">%s</p><p class="muted" data-bind="geoSource">%s</p></section>`, esc(coords), esc(source))

		capture := ""
		if v.Device.IsMobile {
			capture = ` capture="environment"`
		}
		b.WriteString(`<section class="actions">`)
		fmt.Fprintf(&b, `<button type="button" id="btn-pdf" data-step="pdf"%s>Download PDF</button>`, disabledUnless(v.Steps, flow.StepPDF))
		fmt.Fprintf(&b, `<button type="button" id="btn-submit" data-step="submit"%s>Submit</button>`, disabledUnless(v.Steps, flow.StepSubmit))
		fmt.Fprintf(&b, `<label class="button" id="btn-photo" data-step="photo"%s>Capture Photo<input type="file" id="photo-input" accept="image/*"%s hidden></label>`,
			disabledUnless(v.Steps, flow.StepPhoto), capture)
		b.WriteString(`</section><figure class="photo-preview" id="photo-preview" hidden><img alt="Captured outlet photo"></figure>`)
		b.WriteString(`<div id="toasts" class="toasts" aria-live="polite"></div>`)

		state, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal initial state: %w", err)
		}
		fmt.Fprintf(&b, `<script id="initial-state" type="application/json">%s</script></main>`, state)

		_, err = io.WriteString(w, b.String())
		return err
	})
	return sharedhtml.Layout("Retailer Enrollment", body, "/assets/enrollment.js")
}

func writeSteps(b *strings.Builder, steps []flow.StepStatus) {
	labels := map[flow.Step]string{flow.StepData: "Fill Data", flow.StepPDF: "Download PDF", flow.StepSubmit: "Submit", flow.StepPhoto: "Photo"}
	b.WriteString(`<ol class="steps" id="steps">`)
	for i, st := range steps {
		fmt.Fprintf(b, `<li class="step %s" data-step="%s"><span class="num">%d</span>%s</li>`, st.Status, st.Name, i+1, labels[st.Step])
	}
	b.WriteString(`</ol>`)
}

func writeCountSection(b *strings.Builder, title string, inputs []countInput, values map[models.FieldKey]string, amounts map[string]string) {
	fmt.Fprintf(b, `<section class="card"><h2>%s</h2><div class="grid">`, esc(title))
	for _, in := range inputs {
		fmt.Fprintf(b, `<label class="count" data-field="%s"><span>%s</span><input name="%s" type="number" inputmode="numeric" min="0" value="%s">`,
			in.Key, esc(in.Label), in.Key, esc(values[in.Key]))
		if in.Rate != "" {
			fmt.Fprintf(b, `<small class="rate">%s</small>`, esc(in.Rate))
		}
		if in.Amount != "" {
			fmt.Fprintf(b, `<strong class="amount" data-bind="%s">₹%s</strong>`, in.Amount, esc(amounts[in.Amount]))
		}
		b.WriteString(`</label>`)
	}
	b.WriteString(`</div></section>`)
}

func writeSlabPanel(b *strings.Builder, summary, progressText string, progress float64, rows []incentive.SlabRow) {
	fmt.Fprintf(b, `<section class="slabs"><p data-bind="slabSummary">%s</p><div class="progress"><div class="bar" style="width:%.0f%%"></div></div><p class="muted" data-bind="slabProgress">%s</p><table class="slab-table"><tbody>`,
		esc(summary), progress, esc(progressText))
	for _, r := range rows {
		fmt.Fprintf(b, `<tr class="%s" data-slab="%s"><td>%s</td><td>₹%d/MNP</td></tr>`, r.Status, r.Slab.ID, esc(r.Slab.Label), r.Slab.Rate)
	}
	b.WriteString(`</tbody></table></section>`)
}

func disabledUnless(steps []flow.StepStatus, step flow.Step) string {
	for _, st := range steps {
		if st.Step == step && st.Status != flow.StatusLocked {
			return ""
		}
	}
	return ` disabled aria-disabled="true"`
}

func esc(s string) string { return html.EscapeString(s) }
