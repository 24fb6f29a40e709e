package store

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/hospital-store/internal/domain"
	"github.com/tbourn/hospital-store/internal/repo"
)

// CreateUser registers a user and returns its id. A taken username yields
// ErrDuplicateUsername; the UNIQUE index on users.username decides.
func (s *HospitalStore) CreateUser(ctx context.Context, f domain.UserFields) (id int64, err error) {
	ctx, op := s.begin(ctx, "CreateUser", attribute.String("user.username", f.Username))
	defer op.end(&err)

	if err = s.check(f); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	id, err = repo.CreateUser(ctx, s.DB, f)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return 0, ErrDuplicateUsername
	case err != nil:
		return 0, op.wrap(err)
	}
	return id, nil
}

// AuthenticateUser reports whether username and password match a stored
// user exactly. Passwords are stored and compared as plain text.
func (s *HospitalStore) AuthenticateUser(ctx context.Context, username, password string) (ok bool, err error) {
	ctx, op := s.begin(ctx, "AuthenticateUser", attribute.String("user.username", username))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return false, err
	}
	ok, err = repo.UserCredentialsMatch(ctx, s.DB, username, password)
	if err != nil {
		return false, op.wrap(err)
	}
	return ok, nil
}

// GetUserByUsername returns the user, or ErrUserNotFound.
func (s *HospitalStore) GetUserByUsername(ctx context.Context, username string) (u *domain.User, err error) {
	ctx, op := s.begin(ctx, "GetUserByUsername", attribute.String("user.username", username))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return nil, err
	}
	u, err = repo.GetUserByUsername(ctx, s.DB, username)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, op.wrap(err)
	}
	return u, nil
}

// UpdateUser overwrites every field of user id, including clearing the
// optional ones when nil. It returns rows affected; 0 means no such user.
func (s *HospitalStore) UpdateUser(ctx context.Context, id int64, f domain.UserFields) (n int64, err error) {
	ctx, op := s.begin(ctx, "UpdateUser", attribute.Int64("user.id", id))
	defer op.end(&err)

	if err = s.check(f); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	n, err = repo.UpdateUser(ctx, s.DB, id, f)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return 0, ErrDuplicateUsername
	case err != nil:
		return 0, op.wrap(err)
	}
	return op.affected(n), nil
}

// DeleteUser removes user id and returns rows affected.
func (s *HospitalStore) DeleteUser(ctx context.Context, id int64) (n int64, err error) {
	ctx, op := s.begin(ctx, "DeleteUser", attribute.Int64("user.id", id))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	n, err = repo.DeleteUser(ctx, s.DB, id)
	if err != nil {
		return 0, op.wrap(err)
	}
	return op.affected(n), nil
}

// ListUsers returns all users in insertion order.
func (s *HospitalStore) ListUsers(ctx context.Context) (out []domain.User, err error) {
	ctx, op := s.begin(ctx, "ListUsers")
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return nil, err
	}
	out, err = repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, op.wrap(err)
	}
	return out, nil
}
