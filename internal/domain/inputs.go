package domain

// UserFields is the complete mutable state of a user. It is used for both
// creation and updates; an update overwrites every field, including nil
// optional fields.
type UserFields struct {
	Name       string  `validate:"notblank"`
	Surname    string  `validate:"notblank"`
	Username   string  `validate:"notblank"`
	Password   string  `validate:"required"`
	BloodGroup *string
	Address    *string
}

// AppointmentFields is the complete mutable state of an appointment.
type AppointmentFields struct {
	Date       string `validate:"required,datetime=2006-01-02"`
	Time       string `validate:"required,datetime=15:04"`
	DoctorName string `validate:"notblank"`
	Department string `validate:"notblank"`
}

// Slot returns the (date, time) pair the appointment occupies.
func (f AppointmentFields) Slot() Slot { return Slot{Date: f.Date, Time: f.Time} }

// Slot identifies one bookable appointment window.
type Slot struct {
	Date string `validate:"required,datetime=2006-01-02"`
	Time string `validate:"required,datetime=15:04"`
}

// DoctorFields is the complete mutable state of a doctor record.
type DoctorFields struct {
	Name       string `validate:"notblank"`
	Department string `validate:"notblank"`
}

// ReportFields carries the inputs a report's content is derived from.
type ReportFields struct {
	Title string `validate:"notblank"`
	Days  int    `validate:"gt=0"`
}

// AnnouncementFields is the complete mutable state of an announcement.
type AnnouncementFields struct {
	Title   string `validate:"notblank"`
	Content string `validate:"notblank"`
}

// Credentials is a username/password pair used for admin provisioning.
type Credentials struct {
	Username string `validate:"notblank"`
	Password string `validate:"required"`
}
