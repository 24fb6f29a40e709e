// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only CRUD persistence and query composition.
//
// Error semantics:
//   - Lookups of a missing user return ErrNotFound.
//   - Inserts or updates that hit the username UNIQUE index return ErrDuplicate.
//   - Updates and deletes report rows affected; 0 means no such id.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/hospital-store/internal/domain"
)

// CreateUser inserts a user and returns its new id.
func CreateUser(ctx context.Context, db *gorm.DB, f domain.UserFields) (int64, error) {
	u := &domain.User{
		Name:       f.Name,
		Surname:    f.Surname,
		Username:   f.Username,
		Password:   f.Password,
		BloodGroup: f.BloodGroup,
		Address:    f.Address,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return 0, mapWriteErr(err)
	}
	return u.ID, nil
}

// UserCredentialsMatch reports whether a user with exactly this username and
// password exists. Comparison is plain equality.
func UserCredentialsMatch(ctx context.Context, db *gorm.DB, username, password string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("username = ? AND password = ?", username, password).
		Count(&n).Error
	return n > 0, err
}

// GetUserByUsername fetches one user, or ErrNotFound.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser overwrites every mutable column of the user with the given id,
// including setting optional fields to NULL when they are nil.
func UpdateUser(ctx context.Context, db *gorm.DB, id int64, f domain.UserFields) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        f.Name,
			"surname":     f.Surname,
			"username":    f.Username,
			"password":    f.Password,
			"blood_group": f.BloodGroup,
			"address":     f.Address,
		})
	if res.Error != nil {
		return 0, mapWriteErr(res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteUser removes the user with the given id.
func DeleteUser(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.User{}, id)
	return res.RowsAffected, res.Error
}

// ListUsers returns every user in insertion order.
func ListUsers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}
