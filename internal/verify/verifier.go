package verify

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
	"github.com/saurabhbakolia/disaster-response-platform/internal/errors"
	"github.com/saurabhbakolia/disaster-response-platform/internal/metrics"
)

// verificationPrompt is the fixed instruction sent with every image.
const verificationPrompt = `Analyze this image. Is it a real photo of a disaster (fire, flood, etc.)?
Respond in JSON with "is_disaster" (boolean) and "analysis" (string).`

// Result is the outcome of one successful verification attempt.
type Result struct {
	Report   *domain.Report `json:"report"`
	Analysis string         `json:"verification_analysis"`
}

// Service runs verification attempts against the external classifier.
type Service struct {
	classifier domain.Classifier
	reports    domain.ReportRepository
	audit      domain.AuditLogger
}

// NewService creates a verification service. audit may be nil.
func NewService(classifier domain.Classifier, reports domain.ReportRepository, audit domain.AuditLogger) *Service {
	return &Service{classifier: classifier, reports: reports, audit: audit}
}

// VerifyReport drives one classification attempt for a pending report.
// The report transitions only on an explicit, parsed classification:
// validation, classifier, parse, and store failures all leave it pending.
func (s *Service) VerifyReport(ctx context.Context, reportID uuid.UUID, image *domain.ImagePayload) (*Result, error) {
	if image == nil || len(image.Data) == 0 {
		metrics.VerificationsTotal.WithLabelValues("validation_error").Inc()
		return nil, errors.ValidationError("no image file uploaded")
	}

	report, err := s.reports.GetReport(ctx, reportID)
	if err != nil {
		if stderrors.Is(err, domain.ErrReportNotFound) {
			metrics.VerificationsTotal.WithLabelValues("not_found").Inc()
			return nil, errors.NotFoundError(fmt.Sprintf("report %s not found", reportID))
		}
		metrics.VerificationsTotal.WithLabelValues("store_error").Inc()
		return nil, errors.InternalError("failed to load report", err)
	}
	if report.VerificationStatus != domain.StatusPending {
		metrics.VerificationsTotal.WithLabelValues("conflict").Inc()
		return nil, errors.ConflictError(fmt.Sprintf("report is already %s", report.VerificationStatus))
	}

	raw, err := s.classifier.ClassifyImage(ctx, verificationPrompt, *image)
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("classifier_error").Inc()
		if _, ok := errors.AsError(err); ok {
			return nil, err
		}
		return nil, errors.ExternalError("classification call failed", err)
	}

	classification, err := ParseClassification(raw)
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("malformed_response").Inc()
		slog.WarnContext(ctx, "Classifier reply had no parseable classification",
			"report_id", reportID.String(), "reply_length", len(raw))
		return nil, err
	}

	status := domain.StatusRejected
	if classification.IsDisaster {
		status = domain.StatusVerified
	}

	// Image reference and status commit together in one write.
	imageURL := fmt.Sprintf("processed://%s", image.Filename)
	updated, err := s.reports.CommitVerification(ctx, reportID, status, imageURL)
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues("store_error").Inc()
		return nil, errors.InternalError("failed to commit verification", err)
	}

	metrics.VerificationsTotal.WithLabelValues(string(status)).Inc()
	slog.InfoContext(ctx, "Report verification committed",
		"report_id", reportID.String(), "status", string(status))

	if s.audit != nil {
		eventType := "REPORT_REJECTED"
		if status == domain.StatusVerified {
			eventType = "REPORT_VERIFIED"
		}
		s.audit.LogEvent(ctx, eventType, map[string]any{
			"report_id": reportID.String(),
			"analysis":  classification.Analysis,
		}, report.UserID)
	}

	return &Result{Report: updated, Analysis: classification.Analysis}, nil
}
