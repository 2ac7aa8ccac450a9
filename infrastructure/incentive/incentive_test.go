package incentive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailenroll/models"
)

func TestClassifySlabBoundaries(t *testing.T) {
	cases := []struct {
		gross       int
		rate        int
		label       string
		unitsToNext int
		top         bool
	}{
		{gross: 0, rate: 0, label: "Below 10", unitsToNext: 10},
		{gross: 9, rate: 0, label: "Below 10", unitsToNext: 1},
		{gross: 10, rate: 75, label: "10", unitsToNext: 10},
		{gross: 19, rate: 75, label: "10", unitsToNext: 1},
		{gross: 20, rate: 125, label: "20", unitsToNext: 10},
		{gross: 29, rate: 125, label: "20", unitsToNext: 1},
		{gross: 30, rate: 150, label: "30", unitsToNext: 10},
		{gross: 40, rate: 175, label: "40", unitsToNext: 10},
		{gross: 50, rate: 200, label: "50+", top: true},
		{gross: 500, rate: 200, label: "50+", top: true},
	}
	for _, tc := range cases {
		got := ClassifySlab(tc.gross)
		assert.Equal(t, tc.rate, got.Rate, "gross=%d", tc.gross)
		assert.Equal(t, tc.label, got.Label, "gross=%d", tc.gross)
		assert.Equal(t, tc.unitsToNext, got.UnitsToNext, "gross=%d", tc.gross)
		assert.Equal(t, tc.top, got.IsTopSlab, "gross=%d", tc.gross)
		if tc.top {
			assert.Nil(t, got.Next)
		} else {
			require.NotNil(t, got.Next)
		}
	}
}

func TestClassifySlabMonotonic(t *testing.T) {
	prev := ClassifySlab(0).Rate
	for g := 1; g <= 120; g++ {
		rate := ClassifySlab(g).Rate
		assert.GreaterOrEqual(t, rate, prev, "gross=%d", g)
		prev = rate
	}
}

func TestSlabProgressAndText(t *testing.T) {
	below := ClassifySlab(5)
	assert.InDelta(t, 50.0, below.Progress(), 0.001)
	assert.Equal(t, "No Slab", below.Badge())
	assert.Equal(t, "Need minimum 10 Gross to unlock slab incentive", below.Summary(5))
	assert.Equal(t, "🎯 5 more for ₹75/MNP slab", below.ProgressText())

	mid := ClassifySlab(35)
	assert.InDelta(t, 50.0, mid.Progress(), 0.001)
	assert.Equal(t, "₹150/MNP", mid.Badge())
	assert.Equal(t, "🎯 5 more for ₹175/MNP slab", mid.ProgressText())

	top := ClassifySlab(60)
	assert.Equal(t, 100.0, top.Progress())
	assert.Equal(t, "🏆 Maximum slab achieved!", top.ProgressText())
}

func TestSlabRows(t *testing.T) {
	rows := ClassifySlab(25).Rows()
	require.Len(t, rows, len(Slabs))

	byID := map[string]RowStatus{}
	for _, r := range rows {
		byID[r.Slab.ID] = r.Status
	}
	assert.Equal(t, RowActive, byID["slab-20"])
	assert.Equal(t, RowNext, byID["slab-30"])
	assert.Equal(t, RowInactive, byID["slab-40"])
	assert.Equal(t, RowInactive, byID["slab-50"])
	assert.Equal(t, RowIdle, byID["slab-10"])
}

func TestComputeGoldScenario(t *testing.T) {
	f := models.FormFields{DSRCount: 5, MNPCount: 25}
	a := Compute(f)

	assert.Equal(t, 30, a.GrossCount)
	assert.Equal(t, 150, a.Slab.Rate)
	assert.Equal(t, 3750, a.GrossCommitment)
	assert.Equal(t, int64(3750), a.RoundedTotal())
	assert.Equal(t, "Total Amount Rs. 3,750", a.TotalText())
	assert.Equal(t, 675, a.DSR)
	assert.Equal(t, 5875, a.MNP)
}

func TestComputeBelowSlabOnlyAddOns(t *testing.T) {
	f := models.FormFields{DSRCount: 3, MNPCount: 6, WiFiCount: 2, APBCount: 1, SimexCount: 1}
	a := Compute(f)

	assert.Equal(t, 0, a.GrossCommitment)
	assert.Equal(t, int64(2*150+45+50), a.RoundedTotal())
}

func TestComputeMargins(t *testing.T) {
	f := models.FormFields{LapuTertiary: 30000, MNPDays: 10, WiFiDays: 5}
	a := Compute(f)

	assert.InDelta(t, 1170.0, a.Tertiary, 0.0001)
	assert.InDelta(t, 140.0, a.MNPDays, 0.0001)
	assert.InDelta(t, 75.0, a.WiFiDays, 0.0001)
	assert.Equal(t, int64(1385), a.RoundedTotal())
}

func TestComputeDeterministic(t *testing.T) {
	f := models.FormFields{DSRCount: 12, MNPCount: 33, LapuTertiary: 12345, MNPDays: 7, WiFiDays: 3, WiFiCount: 4}
	assert.Equal(t, Compute(f), Compute(f))
}

func TestDeviceShare(t *testing.T) {
	assert.Equal(t, DeviceShare{Status: ShareEmpty}, ComputeDeviceShare(models.FormFields{}))

	inf := ComputeDeviceShare(models.FormFields{AirtelGross: 4})
	assert.Equal(t, ShareInfinite, inf.Status)
	assert.Equal(t, "∞ (No JIO)", inf.Display)

	good := ComputeDeviceShare(models.FormFields{AirtelGross: 10, JioMnp: 4, JioDsr: 4})
	assert.Equal(t, ShareGood, good.Status)
	assert.Equal(t, "1.25", good.Display)

	caution := ComputeDeviceShare(models.FormFields{AirtelGross: 3, JioMnp: 6})
	assert.Equal(t, ShareCaution, caution.Status)
	assert.Equal(t, "0.50", caution.Display)

	poor := ComputeDeviceShare(models.FormFields{AirtelGross: 1, JioDsr: 3})
	assert.Equal(t, SharePoor, poor.Status)
	assert.Equal(t, "0.33", poor.Display)
}

func TestFormatINR(t *testing.T) {
	cases := map[int64]string{
		0:          "0",
		999:        "999",
		1000:       "1,000",
		3750:       "3,750",
		123456:     "1,23,456",
		12345678:   "1,23,45,678",
		-1234567:   "-12,34,567",
		1000000000: "1,00,00,00,000",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatINR(in), "in=%d", in)
	}
}

func TestFormatINRDecimal(t *testing.T) {
	assert.Equal(t, "0", FormatINRDecimal(0))
	assert.Equal(t, "39", FormatINRDecimal(39))
	assert.Equal(t, "3.9", FormatINRDecimal(3.9))
	assert.Equal(t, "1,234.57", FormatINRDecimal(1234.567))
	assert.Equal(t, "1,17,000.5", FormatINRDecimal(117000.5))
}
