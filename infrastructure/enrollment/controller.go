package enrollment

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"strconv"
	"time"

	"retailenroll/infrastructure/flow"
	"retailenroll/infrastructure/geo"
	"retailenroll/infrastructure/photo"
	"retailenroll/infrastructure/report"
	"retailenroll/infrastructure/submission"
)

// Renderer produces the enrollment sheet.
type Renderer interface {
	Render(doc report.Document) (report.Output, error)
}

// Sender delivers a record to the sheet endpoint.
type Sender interface {
	Send(ctx context.Context, rec submission.Record) error
}

// Ledger keeps a local history of actions and deliveries.
type Ledger interface {
	RecordAction(ctx context.Context, sessionID string, step flow.Step, log flow.ClickLog) error
	RecordSubmission(ctx context.Context, sessionID string, rec submission.Record, photoBytes int, sendErr error) error
}

// Config holds the controller timings.
type Config struct {
	ClickTimeout  time.Duration
	PhotoTimeout  time.Duration
	MaxPhotoBytes int64
	Location      *time.Location
}

// Controller runs the gated actions against a session.
type Controller struct {
	renderer Renderer
	sender   Sender
	ledger   Ledger
	photos   geo.PhotoResolver
	cfg      Config
	now      func() time.Time
}

func NewController(renderer Renderer, sender Sender, ledger Ledger, metadata geo.MetadataExtractor, cfg Config) *Controller {
	if cfg.ClickTimeout <= 0 {
		cfg.ClickTimeout = 5 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Controller{
		renderer: renderer,
		sender:   sender,
		ledger:   ledger,
		photos:   geo.NewPhotoResolver(metadata, cfg.PhotoTimeout),
		cfg:      cfg,
		now:      time.Now,
	}
}

// SensorFor combines the client's own fix with the host bridge once the host has pushed one.
func SensorFor(s *Session, client geo.Sensor) geo.Sensor {
	if _, ok := s.Bridge.Last(); !ok {
		return client
	}
	if client == nil {
		return s.Bridge
	}
	return geo.FirstOf{client, s.Bridge}
}

// begin checks the gate and captures the click log for step.
func (c *Controller) begin(ctx context.Context, s *Session, step flow.Step, sensor geo.Sensor) error {
	if err := s.Gate.Permit(step); err != nil {
		return lockedError(err)
	}

	at := c.now()
	var lat, lon *float64
	if r := geo.NewResolver(SensorFor(s, sensor)).Resolve(ctx, c.cfg.ClickTimeout); r != nil {
		lat, lon = &r.Latitude, &r.Longitude
	}
	log := flow.NewClickLog(at, c.cfg.Location, lat, lon)
	if err := s.Gate.Record(step, log); err != nil {
		return lockedError(err)
	}
	if c.ledger != nil {
		if err := c.ledger.RecordAction(ctx, s.ID, step, log); err != nil {
			slog.Error("record action failed", slog.String("session", s.ID), slog.String("step", step.String()), slog.Any("err", err))
		}
	}
	return nil
}

// DownloadPDF renders the sheet. It requires the form to currently validate.
func (c *Controller) DownloadPDF(ctx context.Context, s *Session, sensor geo.Sensor) (report.Output, error) {
	s.action.Lock()
	defer s.action.Unlock()

	if err := c.begin(ctx, s, flow.StepPDF, sensor); err != nil {
		return report.Output{}, err
	}

	out, err := c.renderer.Render(report.Document{
		Fields:      s.Fields(),
		Tier:        s.Tier(),
		GeneratedAt: c.now(),
	})
	if err != nil {
		return report.Output{}, &ActionError{Kind: KindRender, Step: flow.StepPDF, Message: "Could not generate PDF", Err: err}
	}
	if err := s.Gate.Complete(flow.StepPDF); err != nil {
		return report.Output{}, lockedError(err)
	}
	slog.Info("enrollment pdf generated", slog.String("session", s.ID), slog.String("doc_id", out.DocID), slog.Int("bytes", len(out.Bytes)))
	return out, nil
}

// Submit sends the interim record. It requires the PDF step.
func (c *Controller) Submit(ctx context.Context, s *Session, sensor geo.Sensor) (submission.Record, error) {
	s.action.Lock()
	defer s.action.Unlock()

	if err := c.begin(ctx, s, flow.StepSubmit, sensor); err != nil {
		return submission.Record{}, err
	}

	rec := submission.AssembleInterim(c.input(s))
	if err := c.deliver(ctx, s, flow.StepSubmit, rec, 0); err != nil {
		return rec, err
	}
	if err := s.Gate.Complete(flow.StepSubmit); err != nil {
		return rec, lockedError(err)
	}
	return rec, nil
}

// Upload is a photo part taken from the request.
type Upload struct {
	File   io.Reader
	Header *multipart.FileHeader
}

// PhotoResult is what the page shows after a capture.
type PhotoResult struct {
	Record   submission.Record
	Location *LocationView
	Source   geo.Source
	// Notice is set when no position could be attached to the photo.
	Notice *ActionError
}

// CapturePhoto stores the photo, resolves its position and sends the final
// record. The photo flag is only set once the final record is delivered.
func (c *Controller) CapturePhoto(ctx context.Context, s *Session, sensor geo.Sensor, up Upload) (PhotoResult, error) {
	s.action.Lock()
	defer s.action.Unlock()

	if err := c.begin(ctx, s, flow.StepPhoto, sensor); err != nil {
		return PhotoResult{}, err
	}

	captured, err := photo.Read(up.File, up.Header, c.cfg.MaxPhotoBytes, c.now(), c.cfg.Location)
	if err != nil {
		return PhotoResult{}, &ActionError{Kind: KindAssetRead, Step: flow.StepPhoto, Message: "Error reading image file", Err: err}
	}

	fix := c.photos.Resolve(ctx, SensorFor(s, sensor), captured.Data, s.Device)
	reading := fix.Reading
	s.setPhoto(captured, reading)

	res := PhotoResult{Location: NewLocationView(reading), Source: fix.Source}
	slog.Info("photo position resolved", slog.String("session", s.ID), slog.String("source", string(fix.Source)))
	if reading == nil {
		res.Notice = &ActionError{Kind: KindSensorUnavailable, Step: flow.StepPhoto, Message: "GPS not available"}
	}

	res.Record = submission.AssembleFinal(c.input(s))
	if err := c.deliver(ctx, s, flow.StepPhoto, res.Record, len(captured.Data)); err != nil {
		return res, err
	}
	if err := s.Gate.Complete(flow.StepPhoto); err != nil {
		return res, lockedError(err)
	}
	return res, nil
}

func (c *Controller) input(s *Session) submission.Input {
	in := submission.Input{
		Fields:    s.Fields(),
		Tier:      s.Tier(),
		Logs:      s.Gate.Logs(),
		Geo:       s.Location(),
		UserAgent: s.UserAgent,
		Now:       c.now(),
	}
	if p := s.Photo(); p != nil {
		in.Photo = &submission.Photo{DataURL: p.DataURL(), Timestamp: p.Timestamp}
	}
	return in
}

func (c *Controller) deliver(ctx context.Context, s *Session, step flow.Step, rec submission.Record, photoBytes int) error {
	if err := submission.Validate(rec); err != nil {
		return &ActionError{Kind: KindValidation, Step: step, Message: "Submission data is incomplete", Err: err}
	}

	sendErr := c.sender.Send(ctx, rec)
	if c.ledger != nil {
		if err := c.ledger.RecordSubmission(ctx, s.ID, rec, photoBytes, sendErr); err != nil {
			slog.Error("record submission failed", slog.String("session", s.ID), slog.Any("err", err))
		}
	}
	if sendErr != nil {
		slog.Error("sheet delivery failed", slog.String("session", s.ID), slog.String("update_type", string(rec.UpdateType)), slog.Any("err", sendErr))
		return &ActionError{Kind: KindTransport, Step: step, Message: "Error submitting. Please try again.", Err: sendErr}
	}
	return nil
}

func itoa(n int) string { return strconv.Itoa(n) }
