package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus is the lifecycle state of a user-submitted report.
// A report is created pending and leaves that state exactly once, via a
// successful classification.
type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusVerified VerificationStatus = "verified"
	StatusRejected VerificationStatus = "rejected"
)

// Report is a user-submitted incident report owned by the durable store.
type Report struct {
	ID                 uuid.UUID          `json:"id"`
	DisasterID         uuid.UUID          `json:"disaster_id"`
	UserID             string             `json:"user_id"`
	Content            string             `json:"content"`
	ImageURL           string             `json:"image_url"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
}

// ClassificationResult is the structured answer extracted from the
// classifier's free-text reply. It is discarded after driving one
// report transition.
type ClassificationResult struct {
	IsDisaster bool   `json:"is_disaster"`
	Analysis   string `json:"analysis"`
}

// ImagePayload carries an uploaded image through the verification pipeline.
type ImagePayload struct {
	Filename string
	MimeType string
	Data     []byte
}

// ReportRepository is the durable report store contract. CommitVerification
// must update verification_status and image_url together in one write.
type ReportRepository interface {
	GetReport(ctx context.Context, id uuid.UUID) (*Report, error)
	CommitVerification(ctx context.Context, id uuid.UUID, status VerificationStatus, imageURL string) (*Report, error)
}

// Classifier is the external classification collaborator. GenerateText runs
// a text-only prompt; ClassifyImage submits a prompt plus an inline image.
// Both return the model's raw free-text reply.
type Classifier interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	ClassifyImage(ctx context.Context, prompt string, image ImagePayload) (string, error)
}

// AuditLogger records best-effort audit-trail events. Implementations must
// never propagate failures to callers.
type AuditLogger interface {
	LogEvent(ctx context.Context, eventType string, details map[string]any, userID string)
}
