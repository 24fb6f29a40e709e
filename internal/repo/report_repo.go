package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/hospital-store/internal/domain"
)

// CreateReport inserts a report for username. Content is derived from the
// title and day count.
func CreateReport(ctx context.Context, db *gorm.DB, username string, f domain.ReportFields) (int64, error) {
	r := &domain.Report{
		Title:    f.Title,
		Content:  domain.ReportContent(f.Title, f.Days),
		Username: username,
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return 0, err
	}
	return r.ID, nil
}

// GetReport fetches one report by id, or ErrNotFound.
func GetReport(ctx context.Context, db *gorm.DB, id int64) (*domain.Report, error) {
	var r domain.Report
	if err := db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateReport rewrites title and derived content. The owner is unchanged.
func UpdateReport(ctx context.Context, db *gorm.DB, id int64, f domain.ReportFields) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Report{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":   f.Title,
			"content": domain.ReportContent(f.Title, f.Days),
		})
	return res.RowsAffected, res.Error
}

// DeleteReport removes the report with the given id.
func DeleteReport(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Report{}, id)
	return res.RowsAffected, res.Error
}

// ListReportsByUsername returns the reports issued to username in insertion
// order.
func ListReportsByUsername(ctx context.Context, db *gorm.DB, username string) ([]domain.Report, error) {
	var out []domain.Report
	err := db.WithContext(ctx).
		Where("username = ?", username).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// ListReports returns every report in insertion order.
func ListReports(ctx context.Context, db *gorm.DB) ([]domain.Report, error) {
	var out []domain.Report
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}
