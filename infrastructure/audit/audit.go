package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"retailenroll/models"
)

// Entry is one immutable history line for an enrollment session.
type Entry struct {
	SessionID  string
	Action     string
	EntityType string
	EntityID   string
	Before     any
	After      any
}

// Service writes audit records inside the caller transaction.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Write(ctx context.Context, tx bun.Tx, e Entry) error {
	beforeJSON, err := marshal(e.Before)
	if err != nil {
		return fmt.Errorf("marshal before: %w", err)
	}
	afterJSON, err := marshal(e.After)
	if err != nil {
		return fmt.Errorf("marshal after: %w", err)
	}
	row := &models.AuditLog{
		SessionID:  e.SessionID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = tx.NewInsert().Model(row).Exec(ctx)
	return err
}

// ForSession lists a session's history, oldest first.
func (s *Service) ForSession(ctx context.Context, tx bun.Tx, sessionID string) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := tx.NewSelect().Model(&rows).Where("session_id = ?", sessionID).OrderExpr("id ASC").Scan(ctx)
	return rows, err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
