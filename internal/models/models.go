package models

import "time"

// Payment status values for Registration.
const (
	PaymentPaid    = "paid"
	PaymentPending = "pending"
)

// Registration is one child enrolled in the program. Age is derived
// from BirthDate on every create/update. SessionsAttended is a cached
// counter kept in step with AttendanceRecord rows by the services
// layer; the authoritative history lives in attendance_records.
type Registration struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	ChildName  string    `gorm:"not null"`
	BirthDate  time.Time `gorm:"not null"`
	Age        int
	ParentName string `gorm:"not null"`
	Email      string `gorm:"index;not null"` // parent contact, scopes the parent dashboard
	Phone      string
	Experience string
	Notes      string

	PaymentStatus    string `gorm:"default:pending"`
	SessionsAttended int    `gorm:"default:0"`
}

// AttendanceRecord is one dated session for one registration.
// SessionDate carries calendar-date semantics only.
type AttendanceRecord struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	RegistrationID uint      `gorm:"index;not null"`
	SessionDate    time.Time `gorm:"not null"`
	Notes          string
}

// Schedule is a recurring weekly session slot.
type Schedule struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Day         string `gorm:"not null"` // Monday..Sunday
	Time        string `gorm:"not null"` // display label, e.g. "5:30 PM"
	AgeGroup    string `gorm:"not null"`
	SessionType string `gorm:"not null"`

	LocationID *uint
	Location   *Location
}

type Location struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name    string `gorm:"not null"`
	Address string
}

// GalleryItem is a photo or video entry backed by the gallery bucket.
type GalleryItem struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Title        string `gorm:"not null"`
	Description  string
	Type         string `gorm:"default:photo"` // photo | video
	FileURL      string `gorm:"not null"`
	ThumbnailURL string
}

type Sponsor struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name         string `gorm:"not null"`
	LogoURL      string
	Description  string
	WebsiteURL   string
	DisplayOrder int
	// no column default: a false here must stay false
	IsActive bool
}

// Waiver is a signed liability release, one per registration by
// convention (not enforced with a unique index, matching the data the
// dashboards already hold).
type Waiver struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	RegistrationID     uint      `gorm:"index;not null"`
	ParentEmail        string    `gorm:"not null"`
	PlayerName         string    `gorm:"not null"`
	PlayerBirthDate    time.Time `gorm:"not null"`
	ParentGuardianName string    `gorm:"not null"`
	PhoneEmail         string

	HealthParticipation bool
	EmergencyMedical    bool
	ConcussionAwareness bool
	MediaConsent        bool

	ParentSignature  string    `gorm:"not null"`
	ParentSignedDate time.Time `gorm:"not null"`
	PlayerSignature  string
	PlayerSignedDate *time.Time
}

// Account is an authenticated user (admin or parent). Which role it
// carries is decided at request time by comparing Email against the
// configured admin address.
type Account struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`

	ResetToken  string
	ResetSentAt *time.Time
}
