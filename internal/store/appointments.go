package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/hospital-store/internal/domain"
	"github.com/tbourn/hospital-store/internal/repo"
)

// CreateAppointment books a slot. The slot check and the insert run in one
// transaction under the write lock; if the slot is already taken the call
// fails with ErrSlotTaken and nothing is written.
func (s *HospitalStore) CreateAppointment(ctx context.Context, f domain.AppointmentFields) (id int64, err error) {
	attempt := uuid.NewString()
	ctx, op := s.begin(ctx, "CreateAppointment",
		attribute.String("appointment.date", f.Date),
		attribute.String("appointment.time", f.Time),
		attribute.String("appointment.department", f.Department),
		attribute.String("booking.attempt_id", attempt),
	)
	defer op.end(&err)

	if err = s.check(f); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, terr := repo.SlotTaken(ctx, tx, f.Date, f.Time)
		if terr != nil {
			return terr
		}
		if taken {
			return ErrSlotTaken
		}
		newID, cerr := repo.CreateAppointment(ctx, tx, f)
		if cerr != nil {
			return cerr
		}
		id = newID
		return nil
	})
	switch {
	case errors.Is(err, ErrSlotTaken):
		s.Metrics.SlotConflict()
		s.Log.Info().
			Str("attempt_id", attempt).
			Str("date", f.Date).
			Str("time", f.Time).
			Msg("slot already booked")
		return 0, err
	case err != nil:
		return 0, op.wrap(err)
	}

	s.Log.Debug().Str("attempt_id", attempt).Int64("id", id).Msg("appointment booked")
	return id, nil
}

// IsSlotTaken reports whether any appointment occupies (date, time). It is a
// plain read; a following CreateAppointment re-checks on its own.
func (s *HospitalStore) IsSlotTaken(ctx context.Context, date, tm string) (taken bool, err error) {
	ctx, op := s.begin(ctx, "IsSlotTaken",
		attribute.String("appointment.date", date),
		attribute.String("appointment.time", tm),
	)
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return false, err
	}
	taken, err = repo.SlotTaken(ctx, s.DB, date, tm)
	if err != nil {
		return false, op.wrap(err)
	}
	return taken, nil
}

// FreeSlots returns the day's bookable times (see domain.TimeSlots) that
// no appointment on date occupies, in grid order.
func (s *HospitalStore) FreeSlots(ctx context.Context, date string) (free []string, err error) {
	ctx, op := s.begin(ctx, "FreeSlots", attribute.String("appointment.date", date))
	defer op.end(&err)

	if err = s.checkDate(date); err != nil {
		return nil, err
	}
	booked, err := repo.BookedTimes(ctx, s.DB, date)
	if err != nil {
		return nil, op.wrap(err)
	}
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}
	grid := domain.TimeSlots()
	free = make([]string, 0, len(grid))
	for _, t := range grid {
		if _, ok := taken[t]; !ok {
			free = append(free, t)
		}
	}
	return free, nil
}

// UpdateAppointment overwrites appointment id and returns rows affected.
// The new slot is not re-checked, so an update can move an appointment
// onto an occupied slot.
func (s *HospitalStore) UpdateAppointment(ctx context.Context, id int64, f domain.AppointmentFields) (n int64, err error) {
	ctx, op := s.begin(ctx, "UpdateAppointment", attribute.Int64("appointment.id", id))
	defer op.end(&err)

	if err = s.check(f); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	n, err = repo.UpdateAppointment(ctx, s.DB, id, f)
	if err != nil {
		return 0, op.wrap(err)
	}
	return op.affected(n), nil
}

// DeleteAppointment removes appointment id and returns rows affected.
func (s *HospitalStore) DeleteAppointment(ctx context.Context, id int64) (n int64, err error) {
	ctx, op := s.begin(ctx, "DeleteAppointment", attribute.Int64("appointment.id", id))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	n, err = repo.DeleteAppointment(ctx, s.DB, id)
	if err != nil {
		return 0, op.wrap(err)
	}
	return op.affected(n), nil
}

// ListAppointments returns all appointments in insertion order.
func (s *HospitalStore) ListAppointments(ctx context.Context) (out []domain.Appointment, err error) {
	ctx, op := s.begin(ctx, "ListAppointments")
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return nil, err
	}
	out, err = repo.ListAppointments(ctx, s.DB)
	if err != nil {
		return nil, op.wrap(err)
	}
	return out, nil
}
