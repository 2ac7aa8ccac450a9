package http

import (
	"github.com/go-chi/chi/v5"

	enrollmentpage "retailenroll/frontend/enrollment"
	exportspage "retailenroll/frontend/exports"
)

// RegisterEnrollmentRoutes registers the form page and its JSON actions.
// Every route here runs behind SessionMiddleware.
func (s *Server) RegisterEnrollmentRoutes(r chi.Router) {
	r.Get("/", enrollmentpage.PageQueryHandler(s.Period))

	r.Route("/api/enrollment", func(r chi.Router) {
		r.Get("/state", enrollmentpage.StateQueryHandler())
		r.Post("/fields", enrollmentpage.UpdateFieldCommandHandler())
		r.Post("/pdf", enrollmentpage.DownloadPDFCommandHandler(s.Controller))
		r.Post("/submit", enrollmentpage.SubmitCommandHandler(s.Controller))
		r.Post("/photo", enrollmentpage.CapturePhotoCommandHandler(s.Controller, s.MaxPhotoBytes))
		r.Get("/photo/preview", enrollmentpage.PhotoPreviewQueryHandler())
		r.Get("/history", enrollmentpage.HistoryQueryHandler(s.DB, s.Audit))
	})

	r.Post("/api/bridge/location", enrollmentpage.BridgeLocationCommandHandler(s.BridgeKey))
}

// RegisterExportRoutes registers operator downloads; they do not need a session.
func (s *Server) RegisterExportRoutes(r chi.Router) {
	r.Get("/exports/submissions.xlsx", exportspage.SubmissionsXLSXHandler(s.DB, s.Audit, s.OperatorKey, s.Location))
}
