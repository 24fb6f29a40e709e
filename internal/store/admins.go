package store

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/hospital-store/internal/domain"
	"github.com/tbourn/hospital-store/internal/repo"
)

// AuthenticateAdmin reports whether the pair matches a row of the admins
// table. There is no built-in account.
func (s *HospitalStore) AuthenticateAdmin(ctx context.Context, username, password string) (ok bool, err error) {
	ctx, op := s.begin(ctx, "AuthenticateAdmin", attribute.String("admin.username", username))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return false, err
	}
	ok, err = repo.AdminCredentialsMatch(ctx, s.DB, username, password)
	if err != nil {
		return false, op.wrap(err)
	}
	return ok, nil
}

// CreateAdmin adds an admin account. A taken username yields
// ErrDuplicateAdmin.
func (s *HospitalStore) CreateAdmin(ctx context.Context, username, password string) (id int64, err error) {
	ctx, op := s.begin(ctx, "CreateAdmin", attribute.String("admin.username", username))
	defer op.end(&err)

	if err = s.check(domain.Credentials{Username: username, Password: password}); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	id, err = repo.CreateAdmin(ctx, s.DB, username, password)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return 0, ErrDuplicateAdmin
	case err != nil:
		return 0, op.wrap(err)
	}
	return id, nil
}

// EnsureAdmin creates the admin unless one with that username exists. An
// existing account keeps its password. created reports whether a row was
// inserted.
func (s *HospitalStore) EnsureAdmin(ctx context.Context, username, password string) (created bool, err error) {
	ctx, op := s.begin(ctx, "EnsureAdmin", attribute.String("admin.username", username))
	defer op.end(&err)

	if err = s.check(domain.Credentials{Username: username, Password: password}); err != nil {
		return false, err
	}
	defer s.lockWrites()()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, xerr := repo.AdminExists(ctx, tx, username)
		if xerr != nil || exists {
			return xerr
		}
		if _, cerr := repo.CreateAdmin(ctx, tx, username, password); cerr != nil {
			return cerr
		}
		created = true
		return nil
	})
	if err != nil {
		return false, op.wrap(err)
	}
	if created {
		s.Log.Info().Str("admin", username).Msg("admin account seeded")
	}
	return created, nil
}
