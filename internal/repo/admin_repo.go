package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/hospital-store/internal/domain"
)

// CreateAdmin inserts an admin account. A taken username yields ErrDuplicate.
func CreateAdmin(ctx context.Context, db *gorm.DB, username, password string) (int64, error) {
	a := &domain.Admin{Username: username, Password: password}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return 0, mapWriteErr(err)
	}
	return a.ID, nil
}

// AdminExists reports whether an admin with this username exists.
func AdminExists(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Admin{}).
		Where("adminusername = ?", username).
		Count(&n).Error
	return n > 0, err
}

// AdminCredentialsMatch reports whether an admin row matches both fields
// exactly.
func AdminCredentialsMatch(ctx context.Context, db *gorm.DB, username, password string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Admin{}).
		Where("adminusername = ? AND adminpassword = ?", username, password).
		Count(&n).Error
	return n > 0, err
}
