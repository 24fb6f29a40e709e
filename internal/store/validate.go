package store

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/tbourn/hospital-store/internal/domain"
)

const dateRule = "required,datetime=" + domain.SlotDateLayout

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// notblank rejects whitespace-only strings, which "required" accepts.
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// check fails with ErrClosed after Close, and with ErrInvalidInput when in
// is a struct that does not pass its validate tags. A nil in only checks
// that the store is open.
func (s *HospitalStore) check(in any) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if in == nil {
		return nil
	}
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

// checkDate validates a single "YYYY-MM-DD" value.
func (s *HospitalStore) checkDate(date string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if err := s.validate.Var(date, dateRule); err != nil {
		return fmt.Errorf("%w: date %q: %w", ErrInvalidInput, date, err)
	}
	return nil
}
