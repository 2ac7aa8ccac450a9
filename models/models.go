package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SubmissionRun records one outbound POST to the sheet endpoint. The photo
// payload is never stored; only its size is kept.
type SubmissionRun struct {
	bun.BaseModel `bun:"table:submission_runs,alias:sr"`

	ID          string    `bun:"id,pk"`
	SessionID   string    `bun:"session_id,notnull"`
	UpdateType  string    `bun:"update_type,notnull"`
	OutletName  string    `bun:"outlet_name,notnull"`
	LapuNo      string    `bun:"lapu_no,notnull"`
	Tier        string    `bun:"tier,notnull"`
	TotalAmount string    `bun:"total_amount,notnull"`
	Latitude    string    `bun:"latitude"`
	Longitude   string    `bun:"longitude"`
	GeoSource   string    `bun:"geo_source"`
	PhotoBytes  int64     `bun:"photo_bytes,notnull,default:0"`
	Status      string    `bun:"status,notnull"`
	Error       string    `bun:"error"`
	SubmittedAt time.Time `bun:"submitted_at,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

const (
	SubmissionStatusOK     = "ok"
	SubmissionStatusFailed = "failed"
)

// AuditLog captures immutable history for gated enrollment actions.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	SessionID  string    `bun:"session_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
