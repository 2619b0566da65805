package database

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditRepo appends audit-trail events. Writes are best effort: an audit
// failure is logged and swallowed, never surfaced to the caller's request.
type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) LogEvent(ctx context.Context, eventType string, details map[string]any, userID string) {
	payload, err := json.Marshal(details)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode audit details", "event_type", eventType, "error", err)
		return
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO audit_log (event_type, details, user_id)
		VALUES ($1, $2, $3)
	`, eventType, payload, userID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to write audit event", "event_type", eventType, "error", err)
	}
}
