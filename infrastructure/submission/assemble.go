package submission

import (
	"strconv"
	"time"

	"retailenroll/infrastructure/flow"
	"retailenroll/infrastructure/geo"
	"retailenroll/infrastructure/incentive"
	"retailenroll/models"
)

const submissionTimeLayout = "2006-01-02T15:04:05.000Z"

// Photo is the captured image as it goes on the wire.
type Photo struct {
	DataURL   string
	Timestamp string
}

// Input is everything a record is built from.
type Input struct {
	Fields    models.FormFields
	Tier      models.Tier
	Logs      flow.ClickLogs
	Geo       *geo.Reading
	Photo     *Photo
	UserAgent string
	Now       time.Time
}

// Assemble builds the record for the given stage. Amounts are recomputed
// from the fields so the record always matches what was shown.
func Assemble(kind UpdateType, in Input) Record {
	f := in.Fields
	a := incentive.Compute(f)
	share := incentive.ComputeDeviceShare(f)

	deviceShare := share.Display
	if deviceShare == "" {
		deviceShare = "N/A"
	}

	r := Record{
		OutletName: f.OutletName,
		LapuNo:     f.LapuNo,
		FSEContact: f.FSEContact,
		TSMContact: f.TSMContact,

		DSRCount:       strconv.Itoa(f.DSRCount),
		DSRAmount:      incentive.FormatINR(int64(a.DSR)),
		MNPCount:       strconv.Itoa(f.MNPCount),
		MNPAmount:      incentive.FormatINR(int64(a.MNP)),
		GrossCount:     strconv.Itoa(a.GrossCount),
		GrossAmount:    incentive.FormatINR(int64(a.GrossCommitment)),
		LapuTertiary:   strconv.Itoa(f.LapuTertiary),
		TertiaryAmount: incentive.FormatINRDecimal(a.Tertiary),
		MNPDays:        strconv.Itoa(f.MNPDays),
		MNPDaysAmount:  incentive.FormatINRDecimal(a.MNPDays),
		WiFiDays:       strconv.Itoa(f.WiFiDays),
		WiFiDaysAmount: incentive.FormatINRDecimal(a.WiFiDays),
		WiFiCount:      strconv.Itoa(f.WiFiCount),
		WiFiAmount:     incentive.FormatINR(int64(a.WiFi)),
		APBCount:       strconv.Itoa(f.APBCount),
		APBAmount:      incentive.FormatINR(int64(a.APBSBA)),
		SimexCount:     strconv.Itoa(f.SimexCount),
		SimexAmount:    incentive.FormatINR(int64(a.Simex)),
		TotalAmount:    incentive.FormatINR(a.RoundedTotal()),
		Tier:           string(in.Tier),

		VIMnp:       strconv.Itoa(f.VIMnp),
		VIDsr:       strconv.Itoa(f.VIDsr),
		JioMnp:      strconv.Itoa(f.JioMnp),
		JioDsr:      strconv.Itoa(f.JioDsr),
		AirtelGross: strconv.Itoa(f.AirtelGross),
		DeviceShare: deviceShare,

		UserAgent:      in.UserAgent,
		SubmissionTime: in.Now.UTC().Format(submissionTimeLayout),
		UpdateType:     kind,
	}

	if in.Geo != nil {
		r.Latitude = in.Geo.LatitudeString()
		r.Longitude = in.Geo.LongitudeString()
		r.GeoLocation = in.Geo.Display()
		r.GeoSource = in.Geo.Source.Label()
		r.GeoAccuracy = in.Geo.AccuracyString()
	}
	if in.Photo != nil {
		r.PhotoTimestamp = in.Photo.Timestamp
		r.PhotoBase64 = in.Photo.DataURL
	}

	if l := in.Logs.PDF; l != nil {
		r.PDFClickTime, r.PDFClickLat, r.PDFClickLong = l.Time, l.Latitude, l.Longitude
	}
	if l := in.Logs.Submit; l != nil {
		r.SubmitClickTime, r.SubmitClickLat, r.SubmitClickLong = l.Time, l.Latitude, l.Longitude
	}
	if kind == UpdateFinalWithPhoto {
		var t, lat, lon string
		if l := in.Logs.Capture; l != nil {
			t, lat, lon = l.Time, l.Latitude, l.Longitude
		}
		r.CaptureClickTime, r.CaptureClickLat, r.CaptureClickLong = &t, &lat, &lon
	}
	return r
}

// AssembleInterim builds the record sent when the form is submitted.
func AssembleInterim(in Input) Record {
	return Assemble(UpdateSubmitData, in)
}

// AssembleFinal builds the record sent after the photo is captured.
func AssembleFinal(in Input) Record {
	return Assemble(UpdateFinalWithPhoto, in)
}
