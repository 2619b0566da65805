package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saurabhbakolia/disaster-response-platform/internal/domain"
)

// ReportRepo is the PostgreSQL implementation of domain.ReportRepository.
type ReportRepo struct {
	pool *pgxpool.Pool
}

func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

const reportColumns = `id, disaster_id, user_id, content, image_url, verification_status, created_at`

func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	err := row.Scan(
		&report.ID, &report.DisasterID, &report.UserID, &report.Content,
		&report.ImageURL, &report.VerificationStatus, &report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepo) GetReport(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE id = $1
	`, id)

	report, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

// CreateReport inserts a new pending report and returns the stored row.
func (r *ReportRepo) CreateReport(ctx context.Context, disasterID uuid.UUID, userID, content string) (*domain.Report, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reports (disaster_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING `+reportColumns+`
	`, disasterID, userID, content)

	report, err := scanReport(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

// CommitVerification writes the terminal status and image reference in a
// single UPDATE, so readers never see one without the other.
func (r *ReportRepo) CommitVerification(ctx context.Context, id uuid.UUID, status domain.VerificationStatus, imageURL string) (*domain.Report, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE reports
		SET verification_status = $1, image_url = $2
		WHERE id = $3
		RETURNING `+reportColumns+`
	`, status, imageURL, id)

	report, err := scanReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to commit verification: %w", err)
	}
	return report, nil
}

// ListReportsByDisaster returns reports for a disaster, newest first.
func (r *ReportRepo) ListReportsByDisaster(ctx context.Context, disasterID uuid.UUID) ([]*domain.Report, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE disaster_id = $1
		ORDER BY created_at DESC
	`, disasterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []*domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
