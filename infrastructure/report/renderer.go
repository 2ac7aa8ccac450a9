package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strconv"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"retailenroll/infrastructure/incentive"
	"retailenroll/models"
)

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	margin       = 12.0
	contentWidth = pageWidth - 2*margin
	totalPages   = 2

	generatedLayout = "2/1/2006, 3:04:05 pm"
)

// Document is the data drawn on the enrollment sheet.
type Document struct {
	Fields      models.FormFields
	Tier        models.Tier
	GeneratedAt time.Time
}

// Output is a rendered sheet and the name it should be saved under.
type Output struct {
	Bytes    []byte
	Filename string
	DocID    string
}

// Renderer draws the two-page enrollment sheet.
type Renderer struct {
	Period   string
	Location *time.Location
}

func NewRenderer(period string, loc *time.Location) Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return Renderer{Period: period, Location: loc}
}

type sheet struct {
	pdf     *gofpdf.Fpdf
	palette Palette
	tier    models.Tier
	footer  string
	docID   string
}

// Render produces the PDF bytes. The same document id is printed on both pages.
func (r Renderer) Render(doc Document) (Output, error) {
	at := doc.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Retailer Enrollment Sheet", false)
	pdf.SetCreationDate(at)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(margin, margin, margin)

	s := &sheet{
		pdf:     pdf,
		palette: PaletteFor(doc.Tier),
		tier:    doc.Tier,
		footer:  "Generated: " + at.In(loc).Format(generatedLayout),
		docID:   DocumentID(at),
	}

	f := doc.Fields
	a := incentive.Compute(f)
	share := incentive.ComputeDeviceShare(f)

	pdf.AddPage()
	y := s.header("RETAILER ENROLLMENT SHEET", CleanText(r.Period))

	y = s.sectionTitle("RETAILER INFORMATION", y)
	y = s.tableRow("Outlet Name", orDash(f.OutletName), y)
	y = s.tableRow("Lapu No", orDash(f.LapuNo), y)
	y = s.tableRow("FSE Contact No", orDash(f.FSEContact), y)
	y = s.tableRow("TSM/SE Contact No", orDash(f.TSMContact), y)
	y += 2

	y = s.sectionTitle("COMPETITOR DATA", y)
	y = s.columns([]string{"VI MNP", "VI DSR", "JIO MNP", "JIO DSR", "AIRTEL GROSS"}, y, true)
	y = s.columns([]string{
		strconv.Itoa(f.VIMnp), strconv.Itoa(f.VIDsr), strconv.Itoa(f.JioMnp), strconv.Itoa(f.JioDsr), strconv.Itoa(f.AirtelGross),
	}, y, false)
	deviceShare := share.Display
	if deviceShare == "" {
		deviceShare = "N/A"
	}
	y = s.tableRow("Device Share", deviceShare, y)
	y += 2

	y = s.sectionTitle("MARGIN CALCULATIONS", y)
	y = s.columns([]string{"Item", "Value", "Amount (Rs.)"}, y, true)
	y = s.columns([]string{"Lapu Tertiary (3.9%)", strconv.Itoa(f.LapuTertiary), incentive.FormatINRDecimal(a.Tertiary)}, y, false)
	y = s.columns([]string{"MNP Days (1.4%)", strconv.Itoa(f.MNPDays), incentive.FormatINRDecimal(a.MNPDays)}, y, false)
	y = s.columns([]string{"WiFi Days (1.5%)", strconv.Itoa(f.WiFiDays), incentive.FormatINRDecimal(a.WiFiDays)}, y, false)
	y += 2

	y = s.sectionTitle("ADDITIONAL ITEMS", y)
	y = s.columns([]string{"Item", "Count", "Amount (Rs.)"}, y, true)
	y = s.columns([]string{"WIFI (Rs.150)", strconv.Itoa(f.WiFiCount), incentive.FormatINR(int64(a.WiFi))}, y, false)
	y = s.columns([]string{"APB SBA (Rs.45)", strconv.Itoa(f.APBCount), incentive.FormatINR(int64(a.APBSBA))}, y, false)
	y = s.columns([]string{"SIMEX (Rs.50)", strconv.Itoa(f.SimexCount), incentive.FormatINR(int64(a.Simex))}, y, false)
	y += 2

	y = s.columns([]string{"Item", "Count", "Amount (Rs.)"}, y, true)
	y = s.columns([]string{"DSR OTF (Rs.135)", strconv.Itoa(f.DSRCount), incentive.FormatINR(int64(a.DSR))}, y, false)
	y = s.columns([]string{"MNP OTF (Rs.235)", strconv.Itoa(f.MNPCount), incentive.FormatINR(int64(a.MNP))}, y, false)
	y = s.highlightRow("GROSS COMMITMENT", strconv.Itoa(a.GrossCount), incentive.FormatINR(int64(a.GrossCommitment)), y)
	y = s.slabRow(a.Slab, f.MNPCount, y)
	y += 2

	s.totalBox(a.TotalText(), y)
	if err := s.barcode(); err != nil {
		return Output{}, err
	}
	s.pageFooter(1)

	pdf.AddPage()
	y = s.miniHeader("DECLARATION & AUTHORIZATION")
	y += 5
	y = s.sectionTitle("DECLARATION", y)
	y = s.declaration(declaration(CleanText(r.Period)), y)
	y += 8
	y = s.sectionTitle("SIGNATURES", y)
	y = s.signatures(y)
	if doc.Tier.Selected() {
		s.setText(s.palette.DarkText)
		pdf.SetFont("Helvetica", "B", 7)
		s.text(strings.ToUpper(string(doc.Tier))+" TIER ENROLLMENT", pageWidth-margin, y, "R")
	}
	y += 8
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.25)
	pdf.SetDashPattern([]float64{2, 2}, 0)
	pdf.Line(margin, y, pageWidth-margin, y)
	pdf.SetDashPattern([]float64{}, 0)
	s.pageFooter(2)

	if err := pdf.Error(); err != nil {
		return Output{}, fmt.Errorf("render enrollment pdf: %w", err)
	}
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return Output{}, fmt.Errorf("write enrollment pdf: %w", err)
	}
	return Output{
		Bytes:    out.Bytes(),
		Filename: Filename(f.OutletName, doc.Tier, at),
		DocID:    s.docID,
	}, nil
}

func (s *sheet) setFill(c rgb) { s.pdf.SetFillColor(c[0], c[1], c[2]) }
func (s *sheet) setDraw(c rgb) { s.pdf.SetDrawColor(c[0], c[1], c[2]) }
func (s *sheet) setText(c rgb) { s.pdf.SetTextColor(c[0], c[1], c[2]) }

// text draws at a baseline, aligned "L", "C" or "R" relative to x.
func (s *sheet) text(str string, x, y float64, align string) {
	str = CleanText(str)
	w := s.pdf.GetStringWidth(str)
	switch align {
	case "C":
		x -= w / 2
	case "R":
		x -= w
	}
	s.pdf.Text(x, y, str)
}

func (s *sheet) header(title, subtitle string) float64 {
	s.setFill(s.palette.HeaderBg)
	s.pdf.Rect(0, 0, pageWidth, 20, "F")
	s.setFill(s.palette.Accent)
	s.pdf.Rect(0, 20, pageWidth, 1.2, "F")

	s.setText(s.palette.Text)
	s.pdf.SetFont("Helvetica", "B", 14)
	s.text(title, pageWidth/2, 9, "C")
	s.pdf.SetFont("Helvetica", "", 9)
	s.text(subtitle, pageWidth/2, 15, "C")

	if s.tier.Selected() {
		badgeW := 26.0
		s.setFill(s.palette.Badge)
		s.pdf.RoundedRect(pageWidth-margin-badgeW, 4, badgeW, 7, 1.5, "1234", "F")
		s.setText(s.palette.Text)
		s.pdf.SetFont("Helvetica", "B", 6)
		s.text(strings.ToUpper(string(s.tier)), pageWidth-margin-badgeW/2, 9, "C")
	}
	return 25
}

func (s *sheet) miniHeader(title string) float64 {
	s.setFill(s.palette.HeaderBg)
	s.pdf.Rect(0, 0, pageWidth, 12, "F")
	s.setFill(s.palette.Accent)
	s.pdf.Rect(0, 12, pageWidth, 0.8, "F")

	s.setText(s.palette.Text)
	s.pdf.SetFont("Helvetica", "B", 10)
	s.text(title, pageWidth/2, 8, "C")
	return 16
}

func (s *sheet) sectionTitle(title string, y float64) float64 {
	const h = 6.0
	s.setFill(s.palette.Primary)
	s.pdf.Rect(margin, y, contentWidth, h, "F")
	s.setFill(s.palette.Accent)
	s.pdf.Rect(margin, y, 2.5, h, "F")

	s.setText(s.palette.Text)
	s.pdf.SetFont("Helvetica", "B", 8)
	s.text(title, margin+6, y+4.2, "L")
	return y + h + 0.5
}

func (s *sheet) tableRow(label, value string, y float64) float64 {
	const h = 6.0
	labelW := contentWidth * 0.55

	s.pdf.SetFillColor(255, 255, 255)
	s.pdf.Rect(margin, y, contentWidth, h, "F")
	s.setDraw(s.palette.Border)
	s.pdf.SetLineWidth(0.15)
	s.pdf.Rect(margin, y, contentWidth, h, "D")
	s.pdf.Line(margin+labelW, y, margin+labelW, y+h)

	s.setText(s.palette.DarkText)
	s.pdf.SetFont("Helvetica", "", 7)
	s.text(label, margin+2, y+4, "L")
	size := fitFontSizeForWidth(s.pdf, "Helvetica", "B", 7, 5, CleanText(value), contentWidth-labelW-4)
	s.pdf.SetFont("Helvetica", "B", size)
	s.text(value, margin+labelW+2, y+4, "L")
	return y + h
}

// columns draws an evenly split row. Header rows use the secondary colour.
func (s *sheet) columns(cols []string, y float64, header bool) float64 {
	const h = 6.0
	colW := contentWidth / float64(len(cols))

	if header {
		s.setFill(s.palette.Secondary)
		s.setText(s.palette.Text)
	} else {
		s.pdf.SetFillColor(255, 255, 255)
		s.setText(s.palette.DarkText)
	}
	s.pdf.Rect(margin, y, contentWidth, h, "F")
	s.setDraw(s.palette.Border)
	s.pdf.SetLineWidth(0.15)
	s.pdf.Rect(margin, y, contentWidth, h, "D")
	for i := 1; i < len(cols); i++ {
		x := margin + colW*float64(i)
		s.pdf.Line(x, y, x, y+h)
	}

	size := 7.0
	if len(cols) > 3 {
		size = 6
	}
	style := ""
	if header {
		style = "B"
	}
	s.pdf.SetFont("Helvetica", style, size)
	for i, c := range cols {
		s.text(c, margin+colW*(float64(i)+0.5), y+4, "C")
	}
	return y + h
}

func (s *sheet) highlightRow(label, count, amount string, y float64) float64 {
	const h = 7.0
	colW := contentWidth / 3

	s.pdf.SetFillColor(245, 245, 245)
	s.pdf.Rect(margin, y, contentWidth, h, "F")
	s.setDraw(s.palette.Border)
	s.pdf.SetLineWidth(0.2)
	s.pdf.Rect(margin, y, contentWidth, h, "D")
	s.pdf.Line(margin+colW, y, margin+colW, y+h)
	s.pdf.Line(margin+colW*2, y, margin+colW*2, y+h)

	s.setText(s.palette.DarkText)
	s.pdf.SetFont("Helvetica", "B", 7)
	s.text(label, margin+colW*0.5, y+4.8, "C")
	s.text(count, margin+colW*1.5, y+4.8, "C")
	s.text("Rs. "+amount, margin+colW*2.5, y+4.8, "C")
	return y + h
}

func (s *sheet) slabRow(slab incentive.SlabInfo, mnpCount int, y float64) float64 {
	progress := CleanText(slab.ProgressText())
	h := 7.0
	if progress != "" {
		h = 11
	}
	s.pdf.SetFillColor(248, 250, 252)
	s.pdf.Rect(margin, y, contentWidth, h, "F")
	s.setDraw(s.palette.Border)
	s.pdf.SetLineWidth(0.15)
	s.pdf.Rect(margin, y, contentWidth, h, "D")

	s.setText(s.palette.DarkText)
	s.pdf.SetFont("Helvetica", "B", 7)
	s.text(slab.Badge()+"  |  "+slab.Summary(mnpCount), margin+3, y+4.5, "L")
	if progress != "" {
		s.pdf.SetFont("Helvetica", "", 6.5)
		s.pdf.SetTextColor(200, 120, 0)
		s.text(progress, margin+3, y+9, "L")
	}
	return y + h
}

func (s *sheet) totalBox(label string, y float64) float64 {
	const h = 10.0
	s.setFill(s.palette.Primary)
	s.pdf.RoundedRect(margin, y, contentWidth, h, 2, "1234", "F")

	s.setText(s.palette.Text)
	s.pdf.SetFont("Helvetica", "B", 11)
	s.text(strings.ToUpper(CleanText(label)), pageWidth/2, y+6.5, "C")
	return y + h + 2
}

func (s *sheet) declaration(body string, y float64) float64 {
	const (
		h        = 18.0
		boxSize  = 3.5
		boxInset = 3.0
	)
	s.pdf.SetFillColor(255, 255, 255)
	s.setDraw(s.palette.Border)
	s.pdf.SetLineWidth(0.2)
	s.pdf.Rect(margin, y, contentWidth, h, "FD")

	bx, by := margin+boxInset, y+4
	s.setDraw(s.palette.Primary)
	s.pdf.SetLineWidth(0.4)
	s.pdf.Rect(bx, by, boxSize, boxSize, "D")
	s.pdf.SetLineWidth(0.6)
	s.pdf.Line(bx+0.7, by+1.8, bx+1.4, by+2.8)
	s.pdf.Line(bx+1.4, by+2.8, bx+2.8, by+0.8)

	s.setText(s.palette.DarkText)
	s.pdf.SetFont("Helvetica", "", 6.5)
	textX := bx + boxSize + 3
	maxW := contentWidth - (boxSize + 10)
	lineY := y + 6
	for _, line := range s.pdf.SplitLines([]byte(CleanText(body)), maxW) {
		s.pdf.Text(textX, lineY, string(line))
		lineY += 3
	}
	return y + h + 2
}

func (s *sheet) signatures(y float64) float64 {
	const boxH = 40.0
	boxW := (contentWidth - 8) / 2

	box := func(x float64, title string) {
		s.pdf.SetFillColor(255, 255, 255)
		s.setDraw(s.palette.Border)
		s.pdf.SetLineWidth(0.2)
		s.pdf.Rect(x, y, boxW, boxH, "FD")

		s.setText(s.palette.DarkText)
		s.pdf.SetFont("Helvetica", "B", 7)
		s.text(title, x+4, y+6, "L")

		s.pdf.SetLineWidth(0.15)
		s.pdf.Line(x+4, y+boxH-12, x+boxW-4, y+boxH-12)

		s.pdf.SetFont("Helvetica", "", 6)
		s.pdf.SetTextColor(130, 130, 130)
		s.text("Name:", x+4, y+boxH-7, "L")
		s.text("Date:", x+4, y+boxH-3, "L")
	}
	box(margin, "RETAILER SIGNATURE")
	box(margin+boxW+8, s.tier.Signatory()+" SIGNATURE")
	return y + boxH + 10
}

func (s *sheet) barcode() error {
	barcodePNG, err := renderCode128PNG(s.docID, 900, 160)
	if err != nil {
		return fmt.Errorf("render document barcode: %w", err)
	}
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	name := "doc-barcode-" + s.docID
	s.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(barcodePNG))
	const w, h = 44.0, 8.0
	s.pdf.ImageOptions(name, pageWidth-margin-w, pageHeight-24, w, h, false, opt, 0, "")
	return nil
}

func (s *sheet) pageFooter(page int) {
	footerY := pageHeight - 10
	s.setDraw(s.palette.Border)
	s.pdf.SetLineWidth(0.2)
	s.pdf.Line(margin, footerY-3, pageWidth-margin, footerY-3)

	s.pdf.SetFont("Helvetica", "", 6)
	s.pdf.SetTextColor(130, 130, 130)
	s.text(fmt.Sprintf("Page %d of %d", page, totalPages), margin, footerY, "L")
	s.text(s.footer, pageWidth/2, footerY, "C")
	s.text(s.docID, pageWidth-margin, footerY, "R")
}

func fitFontSizeForWidth(pdf *gofpdf.Fpdf, family, style string, base, min float64, text string, maxWidth float64) float64 {
	if maxWidth <= 0 {
		return min
	}
	size := base
	pdf.SetFont(family, style, size)
	for size > min && pdf.GetStringWidth(text) > maxWidth {
		size -= 0.5
		pdf.SetFont(family, style, size)
	}
	return size
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
