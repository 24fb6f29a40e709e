// Package domain defines the persistence models for the hospital store:
// users, appointments, admins, doctors, reports, and announcements. These
// types are mapped with GORM and form the core data layer of the
// application. Column names follow the on-device layout the store has
// always used, so existing database files stay readable.
package domain

import "time"

// User is a registered patient account.
//
// Fields:
//   - ID: auto-increment integer primary key.
//   - Username: unique login name (enforced by a unique index).
//   - Password: stored as entered; authentication is plain equality.
//   - BloodGroup / Address: optional profile data (NULL when unset).
type User struct {
	ID         int64   `json:"id"                    gorm:"primaryKey;autoIncrement"`
	Name       string  `json:"name"                  gorm:"type:text;not null"`
	Surname    string  `json:"surname"               gorm:"type:text;not null"`
	Username   string  `json:"username"              gorm:"type:text;not null;uniqueIndex:ux_users_username"`
	Password   string  `json:"-"                     gorm:"type:text;not null"`
	BloodGroup *string `json:"blood_group,omitempty" gorm:"column:blood_group;type:text"`
	Address    *string `json:"address,omitempty"     gorm:"column:address;type:text"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Appointment is a booked (date, time) slot with a doctor in a department.
// Date is "YYYY-MM-DD" and Time is "HH:MM"; both are stored as text so the
// pair compares exactly as entered. The slot index is not unique: booking
// enforces uniqueness, updates do not.
type Appointment struct {
	ID         int64  `json:"id"          gorm:"primaryKey;autoIncrement"`
	Date       string `json:"date"        gorm:"column:date;type:text;not null;index:idx_appointments_slot,priority:1"`
	Time       string `json:"time"        gorm:"column:time;type:text;not null;index:idx_appointments_slot,priority:2"`
	DoctorName string `json:"doctor_name" gorm:"column:doctor_name;type:text;not null"`
	Department string `json:"department"  gorm:"type:text;not null"`
}

// TableName returns the database table name for Appointment.
func (Appointment) TableName() string { return "appointments" }

// Admin is a console operator account.
type Admin struct {
	ID       int64  `json:"id"       gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"column:adminusername;type:text;not null;uniqueIndex:ux_admins_username"`
	Password string `json:"-"        gorm:"column:adminpassword;type:text;not null"`
}

// TableName returns the database table name for Admin.
func (Admin) TableName() string { return "admins" }

// Doctor is a doctor record within a department. The same (name,
// department) pair may be stored more than once; callers that care check
// existence first.
type Doctor struct {
	ID         int64  `json:"id"         gorm:"primaryKey;autoIncrement"`
	Name       string `json:"name"       gorm:"type:text;not null;index:idx_doctors_name_department,priority:1"`
	Department string `json:"department" gorm:"type:text;not null;index:idx_doctors_name_department,priority:2;index:idx_doctors_department"`
}

// TableName returns the database table name for Doctor.
func (Doctor) TableName() string { return "doctors" }

// Report is a rest report issued to a user. Username references the user
// by value; it is not a foreign key. Content is always derived from the
// title and the number of days (see ReportContent).
type Report struct {
	ID       int64  `json:"id"       gorm:"primaryKey;autoIncrement"`
	Title    string `json:"title"    gorm:"type:text;not null"`
	Content  string `json:"content"  gorm:"type:text;not null"`
	Username string `json:"username" gorm:"type:text;not null;index:idx_reports_username"`
}

// TableName returns the database table name for Report.
func (Report) TableName() string { return "reports" }

// Announcement is a notice published from the admin console.
// Timestamp is the creation time in milliseconds since the Unix epoch.
type Announcement struct {
	ID        int64  `json:"id"        gorm:"primaryKey;autoIncrement"`
	Title     string `json:"title"     gorm:"type:text;not null"`
	Content   string `json:"content"   gorm:"type:text;not null"`
	Timestamp int64  `json:"timestamp" gorm:"column:timestamp;not null"`
}

// TableName returns the database table name for Announcement.
func (Announcement) TableName() string { return "announcements" }

// CreatedAt converts Timestamp to a UTC time.
func (a Announcement) CreatedAt() time.Time { return time.UnixMilli(a.Timestamp).UTC() }

// AllModels lists every persisted model in creation order. Schema
// management drops and recreates exactly this set.
func AllModels() []any {
	return []any{
		&User{},
		&Appointment{},
		&Admin{},
		&Doctor{},
		&Report{},
		&Announcement{},
	}
}
