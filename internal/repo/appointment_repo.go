package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/hospital-store/internal/domain"
)

// CreateAppointment inserts an appointment without checking its slot.
// Callers that need the slot free must check it in the same transaction.
func CreateAppointment(ctx context.Context, db *gorm.DB, f domain.AppointmentFields) (int64, error) {
	a := &domain.Appointment{
		Date:       f.Date,
		Time:       f.Time,
		DoctorName: f.DoctorName,
		Department: f.Department,
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

// SlotTaken reports whether any appointment occupies (date, time).
func SlotTaken(ctx context.Context, db *gorm.DB, date, tm string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("date = ? AND time = ?", date, tm).
		Count(&n).Error
	return n > 0, err
}

// BookedTimes returns the distinct times booked on date.
func BookedTimes(ctx context.Context, db *gorm.DB, date string) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("date = ?", date).
		Distinct("time").
		Pluck("time", &out).Error
	return out, err
}

// UpdateAppointment overwrites the appointment with the given id. The new
// slot is not checked.
func UpdateAppointment(ctx context.Context, db *gorm.DB, id int64, f domain.AppointmentFields) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"date":        f.Date,
			"time":        f.Time,
			"doctor_name": f.DoctorName,
			"department":  f.Department,
		})
	return res.RowsAffected, res.Error
}

// DeleteAppointment removes the appointment with the given id.
func DeleteAppointment(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Delete(&domain.Appointment{}, id)
	return res.RowsAffected, res.Error
}

// ListAppointments returns every appointment in insertion order.
func ListAppointments(ctx context.Context, db *gorm.DB) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}
