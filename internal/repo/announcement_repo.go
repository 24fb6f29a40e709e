package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/hospital-store/internal/domain"
)

// CreateAnnouncement inserts an announcement stamped with now (milliseconds
// since the Unix epoch).
func CreateAnnouncement(ctx context.Context, db *gorm.DB, f domain.AnnouncementFields, now time.Time) (int64, error) {
	a := &domain.Announcement{
		Title:     f.Title,
		Content:   f.Content,
		Timestamp: now.UnixMilli(),
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

// UpdateAnnouncement rewrites title and content. The timestamp keeps its
// creation value.
func UpdateAnnouncement(ctx context.Context, db *gorm.DB, id int64, f domain.AnnouncementFields) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Announcement{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":   f.Title,
			"content": f.Content,
		})
	return res.RowsAffected, res.Error
}

// DeleteAnnouncement removes the announcement with the given id.
func DeleteAnnouncement(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Announcement{}, id)
	return res.RowsAffected, res.Error
}

// ListAnnouncements returns every announcement in insertion order.
func ListAnnouncements(ctx context.Context, db *gorm.DB) ([]domain.Announcement, error) {
	var out []domain.Announcement
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}
