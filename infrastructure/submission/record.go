package submission

// UpdateType tells the sheet endpoint which stage produced a record.
type UpdateType string

const (
	UpdateSubmitData     UpdateType = "SUBMIT_DATA"
	UpdateFinalWithPhoto UpdateType = "FINAL_WITH_PHOTO"
)

// Record is the flat payload posted to the sheet endpoint. Every value is a
// string; the capture log keys are only present on the final record.
type Record struct {
	OutletName string `json:"outletName"`
	LapuNo     string `json:"lapuNo"`
	FSEContact string `json:"fseContact"`
	TSMContact string `json:"tsmContact"`

	DSRCount       string `json:"dsrCount"`
	DSRAmount      string `json:"dsrAmount"`
	MNPCount       string `json:"mnpCount"`
	MNPAmount      string `json:"mnpAmount"`
	GrossCount     string `json:"grossCount"`
	GrossAmount    string `json:"grossAmount"`
	LapuTertiary   string `json:"lapuTertiary"`
	TertiaryAmount string `json:"tertiaryAmount"`
	MNPDays        string `json:"mnpDays"`
	MNPDaysAmount  string `json:"mnpDaysAmount"`
	WiFiDays       string `json:"wifiDays"`
	WiFiDaysAmount string `json:"wifiDaysAmount"`
	WiFiCount      string `json:"wifiCount"`
	WiFiAmount     string `json:"wifiAmount"`
	APBCount       string `json:"apbCount"`
	APBAmount      string `json:"apbAmount"`
	SimexCount     string `json:"simexCount"`
	SimexAmount    string `json:"simexAmount"`
	TotalAmount    string `json:"totalAmount"`
	Tier           string `json:"tier"`

	VIMnp       string `json:"viMnp"`
	VIDsr       string `json:"viDsr"`
	JioMnp      string `json:"jioMnp"`
	JioDsr      string `json:"jioDsr"`
	AirtelGross string `json:"airtelGross"`
	DeviceShare string `json:"deviceShare"`

	Latitude       string `json:"latitude"`
	Longitude      string `json:"longitude"`
	GeoLocation    string `json:"geoLocation"`
	GeoSource      string `json:"geoSource"`
	GeoAccuracy    string `json:"geoAccuracy"`
	PhotoTimestamp string `json:"photoTimestamp"`
	PhotoBase64    string `json:"photoBase64"`
	UserAgent      string `json:"userAgent"`
	SubmissionTime string `json:"submissionTime"`

	PDFClickTime     string  `json:"pdfClickTime"`
	PDFClickLat      string  `json:"pdfClickLat"`
	PDFClickLong     string  `json:"pdfClickLong"`
	SubmitClickTime  string  `json:"submitClickTime"`
	SubmitClickLat   string  `json:"submitClickLat"`
	SubmitClickLong  string  `json:"submitClickLong"`
	CaptureClickTime *string `json:"captureClickTime,omitempty"`
	CaptureClickLat  *string `json:"captureClickLat,omitempty"`
	CaptureClickLong *string `json:"captureClickLong,omitempty"`

	UpdateType UpdateType `json:"updateType"`
}
