package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/tbourn/hospital-store/internal/domain"
)

func strPtr(s string) *string { return &s }

// Property 1: create then read back and authenticate.
func TestUsers_RoundTripAndAuthenticate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	in := domain.UserFields{
		Name: "Ayşe", Surname: "Yılmaz", Username: "ayse", Password: "pw",
		BloodGroup: strPtr("0 Rh+"), Address: strPtr("Kadıköy, İstanbul"),
	}
	id, err := s.CreateUser(ctx, in)
	require.NoError(t, err)
	require.Positive(t, id)

	u, err := s.GetUserByUsername(ctx, "ayse")
	require.NoError(t, err)
	require.Equal(t, domain.User{
		ID: id, Name: in.Name, Surname: in.Surname, Username: in.Username, Password: in.Password,
		BloodGroup: in.BloodGroup, Address: in.Address,
	}, *u)

	ok, err := s.AuthenticateUser(ctx, "ayse", "pw")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.AuthenticateUser(ctx, "ayse", "wrong")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = s.GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, ErrUserNotFound)
}

// Property 2: second insert of a username fails and leaves one row.
func TestUsers_DuplicateUsername(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.CreateUser(ctx, domain.UserFields{Name: "A", Surname: "B", Username: "alice", Password: "p"})
	require.NoError(t, err)
	_, err = s.CreateUser(ctx, domain.UserFields{Name: "C", Surname: "D", Username: "alice", Password: "q"})
	require.ErrorIs(t, err, ErrDuplicateUsername)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	count := 0
	for _, u := range users {
		if u.Username == "alice" {
			count++
		}
	}
	require.Equal(t, 1, count)

	// Renaming another user onto a taken username is rejected too.
	bob, err := s.CreateUser(ctx, domain.UserFields{Name: "B", Surname: "B", Username: "bob", Password: "p"})
	require.NoError(t, err)
	_, err = s.UpdateUser(ctx, bob, domain.UserFields{Name: "B", Surname: "B", Username: "alice", Password: "p"})
	require.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestUsers_UpdateIsFullOverwrite(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, domain.UserFields{
		Name: "A", Surname: "B", Username: "alice", Password: "p",
		BloodGroup: strPtr("A+"), Address: strPtr("Ankara"),
	})
	require.NoError(t, err)

	n, err := s.UpdateUser(ctx, id, domain.UserFields{Name: "A2", Surname: "B2", Username: "alice2", Password: "p2"})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	u, err := s.GetUserByUsername(ctx, "alice2")
	require.NoError(t, err)
	require.Nil(t, u.BloodGroup)
	require.Nil(t, u.Address)
	require.Equal(t, "p2", u.Password)

	n, err = s.UpdateUser(ctx, id+100, domain.UserFields{Name: "x", Surname: "y", Username: "z", Password: "w"})
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestUsers_Validation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	cases := []domain.UserFields{
		{Name: "", Surname: "B", Username: "u1", Password: "p"},
		{Name: "A", Surname: "   ", Username: "u2", Password: "p"},
		{Name: "A", Surname: "B", Username: "", Password: "p"},
		{Name: "A", Surname: "B", Username: "u3", Password: ""},
	}
	for _, in := range cases {
		_, err := s.CreateUser(ctx, in)
		require.ErrorIs(t, err, ErrInvalidInput, "input %+v", in)
	}
	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Empty(t, users)
}

// Property 3: identical slot is refused regardless of doctor/department.
func TestAppointments_BookingConflict(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	taken, err := s.IsSlotTaken(ctx, "2025-06-01", "09:00")
	require.NoError(t, err)
	require.False(t, taken)

	id, err := s.CreateAppointment(ctx, domain.AppointmentFields{Date: "2025-06-01", Time: "09:00", DoctorName: "Dr. A", Department: "Kardiyoloji"})
	require.NoError(t, err)
	require.Positive(t, id)

	_, err = s.CreateAppointment(ctx, domain.AppointmentFields{Date: "2025-06-01", Time: "09:00", DoctorName: "Dr. B", Department: "Ortopedi"})
	require.ErrorIs(t, err, ErrSlotTaken)

	taken, err = s.IsSlotTaken(ctx, "2025-06-01", "09:00")
	require.NoError(t, err)
	require.True(t, taken)

	list, err := s.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, id, list[0].ID)
}

// Property 4: concurrent bookings of one slot produce exactly one winner.
func TestAppointments_ConcurrentBooking_ExactlyOneWins(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	const callers = 8
	var wins, conflicts atomic.Int32
	start := make(chan struct{})

	var g errgroup.Group
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			<-start
			_, err := s.CreateAppointment(ctx, domain.AppointmentFields{
				Date: "2025-06-01", Time: "10:00", DoctorName: "Dr. A", Department: "Dahiliye",
			})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, ErrSlotTaken):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	close(start)
	require.NoError(t, g.Wait())

	require.EqualValues(t, 1, wins.Load())
	require.EqualValues(t, callers-1, conflicts.Load())

	list, err := s.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAppointments_UpdateMayCreateDuplicateSlot(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a := domain.AppointmentFields{Date: "2025-06-01", Time: "09:00", DoctorName: "Dr. A", Department: "Kardiyoloji"}
	_, err := s.CreateAppointment(ctx, a)
	require.NoError(t, err)
	b := a
	b.Time = "09:30"
	idB, err := s.CreateAppointment(ctx, b)
	require.NoError(t, err)

	n, err := s.UpdateAppointment(ctx, idB, a)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	list, err := s.ListAppointments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, list[0].Time, list[1].Time)

	// Booking is still refused while either row holds the slot.
	_, err = s.CreateAppointment(ctx, a)
	require.ErrorIs(t, err, ErrSlotTaken)
}

func TestAppointments_Validation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	bad := []domain.AppointmentFields{
		{Date: "2025-6-1", Time: "09:00", DoctorName: "d", Department: "x"},
		{Date: "2025-13-01", Time: "09:00", DoctorName: "d", Department: "x"},
		{Date: "2025-06-01", Time: "25:00", DoctorName: "d", Department: "x"},
		{Date: "2025-06-01", Time: "09:00", DoctorName: " ", Department: "x"},
		{Date: "2025-06-01", Time: "09:00", DoctorName: "d", Department: ""},
	}
	for _, f := range bad {
		_, err := s.CreateAppointment(ctx, f)
		require.ErrorIs(t, err, ErrInvalidInput, "input %+v", f)
	}
}

func TestFreeSlots(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for _, tm := range []string{"08:00", "19:30"} {
		_, err := s.CreateAppointment(ctx, domain.AppointmentFields{Date: "2025-06-02", Time: tm, DoctorName: "Dr. A", Department: "Ortopedi"})
		require.NoError(t, err)
	}
	// Other dates do not count.
	_, err := s.CreateAppointment(ctx, domain.AppointmentFields{Date: "2025-06-03", Time: "12:00", DoctorName: "Dr. A", Department: "Ortopedi"})
	require.NoError(t, err)

	free, err := s.FreeSlots(ctx, "2025-06-02")
	require.NoError(t, err)
	require.Len(t, free, len(domain.TimeSlots())-2)
	require.Equal(t, "08:30", free[0])
	require.Equal(t, "19:00", free[len(free)-1])
	require.Contains(t, free, "12:00")

	_, err = s.FreeSlots(ctx, "02.06.2025")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdmins_CreateAndAuthenticate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	ok, err := s.AuthenticateAdmin(ctx, "root", "pw")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = s.CreateAdmin(ctx, "root", "pw")
	require.NoError(t, err)
	_, err = s.CreateAdmin(ctx, "root", "other")
	require.ErrorIs(t, err, ErrDuplicateAdmin)
	_, err = s.CreateAdmin(ctx, " ", "pw")
	require.ErrorIs(t, err, ErrInvalidInput)

	ok, err = s.AuthenticateAdmin(ctx, "root", "pw")
	require.NoError(t, err)
	require.True(t, ok)

	created, err := s.EnsureAdmin(ctx, "second", "pw2")
	require.NoError(t, err)
	require.True(t, created)
}

func TestDoctors_CRUDAndDepartments(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a, err := s.AddDoctor(ctx, "Dr. A", "Ortopedi")
	require.NoError(t, err)
	b, err := s.AddDoctor(ctx, "Dr. B", "Çocuk Cerrahisi")
	require.NoError(t, err)
	c, err := s.AddDoctor(ctx, "Dr. C", "Cildiye")
	require.NoError(t, err)
	_, err = s.AddDoctor(ctx, "Dr. D", "Dahiliye")
	require.NoError(t, err)
	_, err = s.AddDoctor(ctx, "Dr. A", "Ortopedi") // duplicates are allowed
	require.NoError(t, err)

	ok, err := s.DoctorExists(ctx, "Dr. A", "Ortopedi")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.DoctorExists(ctx, "Dr. A", "Dahiliye")
	require.NoError(t, err)
	require.False(t, ok)

	byDept, err := s.ListDoctorsByDepartment(ctx, "Ortopedi")
	require.NoError(t, err)
	require.Len(t, byDept, 2)
	require.Equal(t, a, byDept[0].ID)

	depts, err := s.ListDepartments(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Cildiye", "Çocuk Cerrahisi", "Dahiliye", "Ortopedi"}, depts)

	n, err := s.UpdateDoctor(ctx, b, "Dr. B", "Kardiyoloji")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	_, err = s.UpdateDoctor(ctx, b, "", "Kardiyoloji")
	require.ErrorIs(t, err, ErrInvalidInput)

	n, err = s.DeleteDoctor(ctx, c)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	all, err := s.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "Kardiyoloji", all[1].Department)
}

// Property 5: report content is derived on create and on update.
func TestReports_ContentRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	id, err := s.CreateReport(ctx, "alice", "Medical", 3)
	require.NoError(t, err)
	r, err := s.GetReport(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Please rest for 3 days. Reason: Medical", r.Content)
	require.Equal(t, "alice", r.Username)

	n, err := s.UpdateReport(ctx, id, "Personal", 5)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	r, err = s.GetReport(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Personal", r.Title)
	require.Equal(t, "Please rest for 5 days. Reason: Personal", r.Content)

	_, err = s.CreateReport(ctx, "bob", "Other", 1)
	require.NoError(t, err)

	mine, err := s.ListReportsByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	all, err := s.ListAllReports(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = s.GetReport(ctx, 999)
	require.ErrorIs(t, err, ErrReportNotFound)
	_, err = s.UpdateReport(ctx, id, "Medical", -1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

// Property 6: deleting a missing id reports zero rows and changes nothing.
func TestDelete_MissingIDIsNoop(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	uid, err := s.CreateUser(ctx, domain.UserFields{Name: "A", Surname: "B", Username: "alice", Password: "p"})
	require.NoError(t, err)
	aid, err := s.CreateAppointment(ctx, domain.AppointmentFields{Date: "2025-06-01", Time: "09:00", DoctorName: "d", Department: "x"})
	require.NoError(t, err)
	did, err := s.AddDoctor(ctx, "Dr. A", "Ortopedi")
	require.NoError(t, err)
	rid, err := s.CreateReport(ctx, "alice", "Medical", 2)
	require.NoError(t, err)
	nid, err := s.CreateAnnouncement(ctx, "t", "c")
	require.NoError(t, err)

	const missing = 10_000
	deletes := []func(context.Context, int64) (int64, error){
		s.DeleteUser, s.DeleteAppointment, s.DeleteDoctor, s.DeleteReport, s.DeleteAnnouncement,
	}
	for _, del := range deletes {
		n, err := del(ctx, missing)
		require.NoError(t, err)
		require.Zero(t, n)
	}

	users, _ := s.ListUsers(ctx)
	appts, _ := s.ListAppointments(ctx)
	docs, _ := s.ListDoctors(ctx)
	reports, _ := s.ListAllReports(ctx)
	anns, _ := s.ListAnnouncements(ctx)
	require.Len(t, users, 1)
	require.Equal(t, uid, users[0].ID)
	require.Len(t, appts, 1)
	require.Equal(t, aid, appts[0].ID)
	require.Len(t, docs, 1)
	require.Equal(t, did, docs[0].ID)
	require.Len(t, reports, 1)
	require.Equal(t, rid, reports[0].ID)
	require.Len(t, anns, 1)
	require.Equal(t, nid, anns[0].ID)

	// Deleting an existing id twice: 1 then 0.
	n, err := s.DeleteAppointment(ctx, aid)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	n, err = s.DeleteAppointment(ctx, aid)
	require.NoError(t, err)
	require.Zero(t, n)
}

// Property 7: announcements list in creation order.
func TestAnnouncements_OrderAndTimestamps(t *testing.T) {
	base := time.Date(2025, 5, 19, 9, 0, 0, 0, time.UTC)
	var tick atomic.Int64
	clock := func() time.Time { return base.Add(time.Duration(tick.Add(1)) * time.Minute) }

	s := newStore(t, WithClock(clock))
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	ids := make([]int64, 0, len(titles))
	for _, title := range titles {
		id, err := s.CreateAnnouncement(ctx, title, "body "+title)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	list, err := s.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, a := range list {
		require.Equal(t, ids[i], a.ID)
		require.Equal(t, titles[i], a.Title)
		if i > 0 {
			require.Greater(t, a.Timestamp, list[i-1].Timestamp)
		}
	}
	require.True(t, base.Add(time.Minute).Equal(list[0].CreatedAt()))

	n, err := s.UpdateAnnouncement(ctx, ids[0], "first (edited)", "new body")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	list, err = s.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Equal(t, "first (edited)", list[0].Title)
	require.Equal(t, base.Add(time.Minute).UnixMilli(), list[0].Timestamp)

	_, err = s.CreateAnnouncement(ctx, "", "x")
	require.ErrorIs(t, err, ErrInvalidInput)
}
