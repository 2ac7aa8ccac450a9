package submission

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailenroll/infrastructure/flow"
	"retailenroll/infrastructure/geo"
	"retailenroll/models"
)

func goldInput() Input {
	return Input{
		Fields: models.FormFields{
			OutletName: "Sri Ram Stores",
			LapuNo:     "9123456780",
			FSEContact: "9876543210",
			TSMContact: "8765432109",
			DSRCount:   5,
			MNPCount:   25,
		},
		Tier: models.TierGold,
		Logs: flow.ClickLogs{
			PDF:    &flow.ClickLog{Time: "05/12/25, 3:00:15 pm", Latitude: "19.076000", Longitude: "72.877700"},
			Submit: &flow.ClickLog{Time: "05/12/25, 3:01:00 pm", Latitude: "N/A", Longitude: "N/A"},
		},
		UserAgent: "test-agent",
		Now:       time.Date(2025, 12, 5, 9, 31, 0, 0, time.UTC),
	}
}

func TestAssembleInterimGoldScenario(t *testing.T) {
	r := AssembleInterim(goldInput())

	assert.Equal(t, UpdateSubmitData, r.UpdateType)
	assert.Equal(t, "30", r.GrossCount)
	assert.Equal(t, "3,750", r.GrossAmount)
	assert.Equal(t, "3,750", r.TotalAmount)
	assert.Equal(t, "675", r.DSRAmount)
	assert.Equal(t, "5,875", r.MNPAmount)
	assert.Equal(t, "gold", r.Tier)
	assert.Equal(t, "N/A", r.DeviceShare)
	assert.Equal(t, "2025-12-05T09:31:00.000Z", r.SubmissionTime)
	assert.Equal(t, "N/A", r.SubmitClickLat)
	assert.Nil(t, r.CaptureClickTime)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "captureClickTime")
	assert.Contains(t, m, "pdfClickTime")
	assert.Equal(t, "SUBMIT_DATA", m["updateType"])

	require.NoError(t, Validate(r))
}

func TestAssembleFinalCarriesAllLogs(t *testing.T) {
	in := goldInput()
	in.Logs.Capture = &flow.ClickLog{Time: "05/12/25, 3:02:00 pm", Latitude: "19.076100", Longitude: "72.877800"}
	acc := 8.0
	in.Geo = &geo.Reading{Latitude: 19.0761, Longitude: 72.8778, Accuracy: &acc, Source: geo.SourceLiveSensor}
	in.Photo = &Photo{DataURL: "data:image/jpeg;base64,AAAA", Timestamp: "5/12/2025, 3:02:03 pm"}

	r := AssembleFinal(in)
	assert.Equal(t, UpdateFinalWithPhoto, r.UpdateType)
	require.NotNil(t, r.CaptureClickTime)
	assert.Equal(t, "05/12/25, 3:02:00 pm", *r.CaptureClickTime)
	assert.Equal(t, "19.076100", r.Latitude)
	assert.Equal(t, "72.877800", r.Longitude)
	assert.Equal(t, "19.076100, 72.877800", r.GeoLocation)
	assert.Equal(t, "Device GPS", r.GeoSource)
	assert.Equal(t, "8m", r.GeoAccuracy)
	assert.Equal(t, "data:image/jpeg;base64,AAAA", r.PhotoBase64)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, k := range []string{"pdfClickTime", "pdfClickLat", "pdfClickLong", "submitClickTime", "submitClickLat", "submitClickLong", "captureClickTime", "captureClickLat", "captureClickLong"} {
		assert.Contains(t, m, k)
	}

	require.NoError(t, Validate(r))
}

func TestAssembleWithoutLocation(t *testing.T) {
	in := goldInput()
	in.Photo = &Photo{DataURL: "data:image/jpeg;base64,AAAA", Timestamp: "now"}
	r := AssembleFinal(in)

	assert.Equal(t, "", r.Latitude)
	assert.Equal(t, "", r.Longitude)
	assert.Equal(t, "", r.GeoLocation)
	assert.Equal(t, "", r.GeoSource)
	require.NotNil(t, r.CaptureClickTime)
	assert.Equal(t, "", *r.CaptureClickTime)
}

func TestRecordRoundTrip(t *testing.T) {
	in := goldInput()
	in.Logs.Capture = &flow.ClickLog{Time: "t", Latitude: "N/A", Longitude: "N/A"}
	in.Photo = &Photo{DataURL: "data:image/png;base64,AA==", Timestamp: "ts"}
	r := AssembleFinal(in)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var back Record
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r, back)
}

func TestValidateRejectsFinalWithoutPhoto(t *testing.T) {
	r := AssembleFinal(goldInput())
	assert.Error(t, Validate(r))
}

func TestValidateAcceptsValuesEditedAfterLatch(t *testing.T) {
	in := goldInput()
	in.Tier = models.TierNone
	in.Fields.OutletName = "R"
	in.Fields.LapuNo = ""
	require.NoError(t, Validate(AssembleInterim(in)))
}

func TestValidateRejectsMalformedPhoto(t *testing.T) {
	in := goldInput()
	in.Logs.Capture = &flow.ClickLog{Time: "t", Latitude: "N/A", Longitude: "N/A"}
	in.Photo = &Photo{DataURL: "not-a-data-url", Timestamp: "ts"}
	assert.Error(t, Validate(AssembleFinal(in)))
}

func TestValidateRejectsUnknownUpdateType(t *testing.T) {
	r := AssembleInterim(goldInput())
	r.UpdateType = "PARTIAL"
	assert.Error(t, Validate(r))
}
