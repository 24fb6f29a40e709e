package store

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/text/collate"

	"github.com/tbourn/hospital-store/internal/domain"
	"github.com/tbourn/hospital-store/internal/repo"
)

// AddDoctor stores a doctor and returns its id. Adding the same (name,
// department) twice is allowed; call DoctorExists first to avoid it.
func (s *HospitalStore) AddDoctor(ctx context.Context, name, department string) (id int64, err error) {
	ctx, op := s.begin(ctx, "AddDoctor",
		attribute.String("doctor.name", name),
		attribute.String("doctor.department", department),
	)
	defer op.end(&err)

	f := domain.DoctorFields{Name: name, Department: department}
	if err = s.check(f); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	id, err = repo.CreateDoctor(ctx, s.DB, f)
	if err != nil {
		return 0, op.wrap(err)
	}
	return id, nil
}

// DoctorExists reports whether (name, department) is already stored.
func (s *HospitalStore) DoctorExists(ctx context.Context, name, department string) (ok bool, err error) {
	ctx, op := s.begin(ctx, "DoctorExists",
		attribute.String("doctor.name", name),
		attribute.String("doctor.department", department),
	)
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return false, err
	}
	ok, err = repo.DoctorExists(ctx, s.DB, name, department)
	if err != nil {
		return false, op.wrap(err)
	}
	return ok, nil
}

// UpdateDoctor overwrites doctor id and returns rows affected.
func (s *HospitalStore) UpdateDoctor(ctx context.Context, id int64, name, department string) (n int64, err error) {
	ctx, op := s.begin(ctx, "UpdateDoctor", attribute.Int64("doctor.id", id))
	defer op.end(&err)

	f := domain.DoctorFields{Name: name, Department: department}
	if err = s.check(f); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	n, err = repo.UpdateDoctor(ctx, s.DB, id, f)
	if err != nil {
		return 0, op.wrap(err)
	}
	return op.affected(n), nil
}

// DeleteDoctor removes doctor id and returns rows affected.
func (s *HospitalStore) DeleteDoctor(ctx context.Context, id int64) (n int64, err error) {
	ctx, op := s.begin(ctx, "DeleteDoctor", attribute.Int64("doctor.id", id))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	n, err = repo.DeleteDoctor(ctx, s.DB, id)
	if err != nil {
		return 0, op.wrap(err)
	}
	return op.affected(n), nil
}

// ListDoctors returns all doctors in insertion order.
func (s *HospitalStore) ListDoctors(ctx context.Context) (out []domain.Doctor, err error) {
	ctx, op := s.begin(ctx, "ListDoctors")
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return nil, err
	}
	out, err = repo.ListDoctors(ctx, s.DB)
	if err != nil {
		return nil, op.wrap(err)
	}
	return out, nil
}

// ListDoctorsByDepartment returns the doctors of one department in
// insertion order.
func (s *HospitalStore) ListDoctorsByDepartment(ctx context.Context, department string) (out []domain.Doctor, err error) {
	ctx, op := s.begin(ctx, "ListDoctorsByDepartment", attribute.String("doctor.department", department))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return nil, err
	}
	out, err = repo.ListDoctorsByDepartment(ctx, s.DB, department)
	if err != nil {
		return nil, op.wrap(err)
	}
	return out, nil
}

// ListDepartments returns the distinct departments that have doctors,
// sorted for the store's locale (Turkish by default, so "Çocuk" sorts
// between "Cildiye" and "Dahiliye").
func (s *HospitalStore) ListDepartments(ctx context.Context) (out []string, err error) {
	ctx, op := s.begin(ctx, "ListDepartments", attribute.String("collation.locale", s.Locale.String()))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return nil, err
	}
	out, err = repo.DoctorDepartments(ctx, s.DB)
	if err != nil {
		return nil, op.wrap(err)
	}
	// Collators are not safe for concurrent use.
	collate.New(s.Locale).SortStrings(out)
	return out, nil
}
