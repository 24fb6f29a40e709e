package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/hospital-store/internal/domain"
)

// CreateDoctor inserts a doctor. Duplicates by (name, department) are
// allowed; see DoctorExists.
func CreateDoctor(ctx context.Context, db *gorm.DB, f domain.DoctorFields) (int64, error) {
	d := &domain.Doctor{Name: f.Name, Department: f.Department}
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		return 0, err
	}
	return d.ID, nil
}

// DoctorExists reports whether a doctor with this exact (name, department)
// pair is stored.
func DoctorExists(ctx context.Context, db *gorm.DB, name, department string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Doctor{}).
		Where("name = ? AND department = ?", name, department).
		Count(&n).Error
	return n > 0, err
}

// UpdateDoctor overwrites the doctor with the given id.
func UpdateDoctor(ctx context.Context, db *gorm.DB, id int64, f domain.DoctorFields) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Doctor{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":       f.Name,
			"department": f.Department,
		})
	return res.RowsAffected, res.Error
}

// DeleteDoctor removes the doctor with the given id.
func DeleteDoctor(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Doctor{}, id)
	return res.RowsAffected, res.Error
}

// ListDoctors returns every doctor in insertion order.
func ListDoctors(ctx context.Context, db *gorm.DB) ([]domain.Doctor, error) {
	var out []domain.Doctor
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// ListDoctorsByDepartment returns the doctors of one department in
// insertion order.
func ListDoctorsByDepartment(ctx context.Context, db *gorm.DB, department string) ([]domain.Doctor, error) {
	var out []domain.Doctor
	err := db.WithContext(ctx).
		Where("department = ?", department).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// DoctorDepartments returns the distinct departments that have at least one
// doctor, in no particular order.
func DoctorDepartments(ctx context.Context, db *gorm.DB) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Doctor{}).
		Distinct("department").
		Pluck("department", &out).Error
	return out, err
}
