// Package store defines HospitalStore. This file centralizes the store's
// error values so callers can branch on them with errors.Is.
//
// Storage failures (I/O, a closed file, a locked database) are not mapped
// to sentinels; they are returned wrapped with the operation name.
package store

import "errors"

var (
	// ErrDuplicateUsername is returned when a user insert or update would
	// give two users the same username.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateAdmin is returned when an admin username is already taken.
	ErrDuplicateAdmin = errors.New("admin already exists")

	// ErrSlotTaken is returned by CreateAppointment when another
	// appointment already occupies the same date and time.
	ErrSlotTaken = errors.New("appointment slot already taken")

	// ErrUserNotFound is returned by GetUserByUsername for unknown usernames.
	ErrUserNotFound = errors.New("user not found")

	// ErrReportNotFound is returned by GetReport for unknown ids.
	ErrReportNotFound = errors.New("report not found")

	// ErrInvalidInput wraps field validation failures.
	ErrInvalidInput = errors.New("invalid input")

	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("store is closed")
)
