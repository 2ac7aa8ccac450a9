package incentive

import (
	"fmt"
	"math"

	"retailenroll/models"
)

// Fixed unit rates in rupees.
const (
	RateDSR    = 135
	RateMNP    = 235
	RateWiFi   = 150
	RateAPBSBA = 45
	RateSimex  = 50
)

// Margin percentages applied to the LAPU tertiary value.
const (
	TertiaryMargin = 0.039
	MNPDayMargin   = 0.014
	WiFiDayMargin  = 0.015
	periodDays     = 30
)

// Amounts is derived from FormFields on every change and never stored on its own.
type Amounts struct {
	DSR    int `json:"dsrAmount"`
	MNP    int `json:"mnpAmount"`
	WiFi   int `json:"wifiAmount"`
	APBSBA int `json:"apbAmount"`
	Simex  int `json:"simexAmount"`

	GrossCount      int      `json:"grossCount"`
	GrossCommitment int      `json:"grossAmount"`
	Slab            SlabInfo `json:"slab"`

	Tertiary float64 `json:"tertiaryAmount"`
	MNPDays  float64 `json:"mnpDaysAmount"`
	WiFiDays float64 `json:"wifiDaysAmount"`

	Total float64 `json:"total"`
}

// Compute maps the current form values to every calculated amount.
func Compute(f models.FormFields) Amounts {
	gross := f.DSRCount + f.MNPCount
	slab := ClassifySlab(gross)

	a := Amounts{
		DSR:             f.DSRCount * RateDSR,
		MNP:             f.MNPCount * RateMNP,
		WiFi:            f.WiFiCount * RateWiFi,
		APBSBA:          f.APBCount * RateAPBSBA,
		Simex:           f.SimexCount * RateSimex,
		GrossCount:      gross,
		GrossCommitment: f.MNPCount * slab.Rate,
		Slab:            slab,
	}

	tertiary := float64(f.LapuTertiary)
	a.Tertiary = tertiary * TertiaryMargin
	a.MNPDays = (tertiary / periodDays * MNPDayMargin) * float64(f.MNPDays)
	a.WiFiDays = (tertiary / periodDays * WiFiDayMargin) * float64(f.WiFiDays)

	a.Total = float64(a.GrossCommitment) +
		float64(a.WiFi) +
		float64(a.APBSBA) +
		float64(a.Simex) +
		a.Tertiary +
		a.MNPDays +
		a.WiFiDays
	return a
}

// RoundedTotal rounds half up, matching the on-screen total.
func (a Amounts) RoundedTotal() int64 {
	return int64(math.Floor(a.Total + 0.5))
}

// TotalText is the label rendered in the total box.
func (a Amounts) TotalText() string {
	return fmt.Sprintf("Total Amount Rs. %s", FormatINR(a.RoundedTotal()))
}

// ShareStatus grades the own-carrier device share.
type ShareStatus string

const (
	ShareEmpty    ShareStatus = ""
	ShareInfinite ShareStatus = "infinite"
	ShareGood     ShareStatus = "good"
	ShareCaution  ShareStatus = "caution"
	SharePoor     ShareStatus = "poor"
)

// DeviceShare compares own-carrier gross against the opposing carrier's adds.
// It is advisory only.
type DeviceShare struct {
	Ratio   float64     `json:"ratio"`
	Status  ShareStatus `json:"status"`
	Display string      `json:"display"`
}

// ComputeDeviceShare uses JIO MNP + JIO DSR as the opposing count.
func ComputeDeviceShare(f models.FormFields) DeviceShare {
	own := float64(f.AirtelGross)
	opposing := float64(f.JioMnp + f.JioDsr)

	if opposing == 0 {
		if own > 0 {
			return DeviceShare{Status: ShareInfinite, Display: "∞ (No JIO)"}
		}
		return DeviceShare{Status: ShareEmpty}
	}

	ratio := own / opposing
	status := SharePoor
	switch {
	case ratio >= 1:
		status = ShareGood
	case ratio >= 0.5:
		status = ShareCaution
	}
	return DeviceShare{Ratio: ratio, Status: status, Display: fmt.Sprintf("%.2f", ratio)}
}
