package store

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/hospital-store/internal/domain"
	"github.com/tbourn/hospital-store/internal/repo"
)

// CreateReport issues a report to username. Content is always
// "Please rest for {days} days. Reason: {title}".
func (s *HospitalStore) CreateReport(ctx context.Context, username, title string, days int) (id int64, err error) {
	ctx, op := s.begin(ctx, "CreateReport",
		attribute.String("report.username", username),
		attribute.Int("report.days", days),
	)
	defer op.end(&err)

	f := domain.ReportFields{Title: title, Days: days}
	if err = s.check(f); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	id, err = repo.CreateReport(ctx, s.DB, username, f)
	if err != nil {
		return 0, op.wrap(err)
	}
	return id, nil
}

// GetReport returns report id, or ErrReportNotFound.
func (s *HospitalStore) GetReport(ctx context.Context, id int64) (r *domain.Report, err error) {
	ctx, op := s.begin(ctx, "GetReport", attribute.Int64("report.id", id))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return nil, err
	}
	r, err = repo.GetReport(ctx, s.DB, id)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrReportNotFound
	case err != nil:
		return nil, op.wrap(err)
	}
	return r, nil
}

// UpdateReport rewrites title and content of report id and returns rows
// affected. Content is derived exactly as in CreateReport.
func (s *HospitalStore) UpdateReport(ctx context.Context, id int64, title string, days int) (n int64, err error) {
	ctx, op := s.begin(ctx, "UpdateReport",
		attribute.Int64("report.id", id),
		attribute.Int("report.days", days),
	)
	defer op.end(&err)

	f := domain.ReportFields{Title: title, Days: days}
	if err = s.check(f); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	n, err = repo.UpdateReport(ctx, s.DB, id, f)
	if err != nil {
		return 0, op.wrap(err)
	}
	return op.affected(n), nil
}

// DeleteReport removes report id and returns rows affected.
func (s *HospitalStore) DeleteReport(ctx context.Context, id int64) (n int64, err error) {
	ctx, op := s.begin(ctx, "DeleteReport", attribute.Int64("report.id", id))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	n, err = repo.DeleteReport(ctx, s.DB, id)
	if err != nil {
		return 0, op.wrap(err)
	}
	return op.affected(n), nil
}

// ListReportsByUsername returns the reports issued to username.
func (s *HospitalStore) ListReportsByUsername(ctx context.Context, username string) (out []domain.Report, err error) {
	ctx, op := s.begin(ctx, "ListReportsByUsername", attribute.String("report.username", username))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return nil, err
	}
	out, err = repo.ListReportsByUsername(ctx, s.DB, username)
	if err != nil {
		return nil, op.wrap(err)
	}
	return out, nil
}

// ListAllReports returns every report in insertion order.
func (s *HospitalStore) ListAllReports(ctx context.Context) (out []domain.Report, err error) {
	ctx, op := s.begin(ctx, "ListAllReports")
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return nil, err
	}
	out, err = repo.ListReports(ctx, s.DB)
	if err != nil {
		return nil, op.wrap(err)
	}
	return out, nil
}
