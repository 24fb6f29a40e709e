package store

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/hospital-store/internal/domain"
	"github.com/tbourn/hospital-store/internal/repo"
)

// CreateAnnouncement publishes an announcement stamped with the store clock.
func (s *HospitalStore) CreateAnnouncement(ctx context.Context, title, content string) (id int64, err error) {
	ctx, op := s.begin(ctx, "CreateAnnouncement")
	defer op.end(&err)

	f := domain.AnnouncementFields{Title: title, Content: content}
	if err = s.check(f); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	id, err = repo.CreateAnnouncement(ctx, s.DB, f, s.Now())
	if err != nil {
		return 0, op.wrap(err)
	}
	return id, nil
}

// UpdateAnnouncement rewrites title and content and returns rows affected.
// The timestamp keeps its creation value.
func (s *HospitalStore) UpdateAnnouncement(ctx context.Context, id int64, title, content string) (n int64, err error) {
	ctx, op := s.begin(ctx, "UpdateAnnouncement", attribute.Int64("announcement.id", id))
	defer op.end(&err)

	f := domain.AnnouncementFields{Title: title, Content: content}
	if err = s.check(f); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	n, err = repo.UpdateAnnouncement(ctx, s.DB, id, f)
	if err != nil {
		return 0, op.wrap(err)
	}
	return op.affected(n), nil
}

// DeleteAnnouncement removes announcement id and returns rows affected.
func (s *HospitalStore) DeleteAnnouncement(ctx context.Context, id int64) (n int64, err error) {
	ctx, op := s.begin(ctx, "DeleteAnnouncement", attribute.Int64("announcement.id", id))
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return 0, err
	}
	defer s.lockWrites()()

	n, err = repo.DeleteAnnouncement(ctx, s.DB, id)
	if err != nil {
		return 0, op.wrap(err)
	}
	return op.affected(n), nil
}

// ListAnnouncements returns all announcements, oldest first.
func (s *HospitalStore) ListAnnouncements(ctx context.Context) (out []domain.Announcement, err error) {
	ctx, op := s.begin(ctx, "ListAnnouncements")
	defer op.end(&err)

	if err = s.check(nil); err != nil {
		return nil, err
	}
	out, err = repo.ListAnnouncements(ctx, s.DB)
	if err != nil {
		return nil, op.wrap(err)
	}
	return out, nil
}
