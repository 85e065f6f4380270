package services

import (
	"errors"
	"time"

	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
)

// RegistrationInput is the validated form payload for creating or
// updating a registration.
type RegistrationInput struct {
	ChildName  string
	BirthDate  time.Time
	ParentName string
	Email      string
	Phone      string
	Experience string
	Notes      string
}

// CreateRegistration inserts a new player. Age is derived from the
// birth date at write time; payment status starts pending with zero
// sessions.
func CreateRegistration(in RegistrationInput) (*models.Registration, error) {
	email, ok := NormEmail(in.Email)
	if !ok {
		return nil, errors.New("invalid email address")
	}

	reg := models.Registration{
		ChildName:        in.ChildName,
		BirthDate:        in.BirthDate,
		Age:              AgeOn(in.BirthDate, time.Now()),
		ParentName:       in.ParentName,
		Email:            email,
		Phone:            in.Phone,
		Experience:       in.Experience,
		Notes:            in.Notes,
		PaymentStatus:    models.PaymentPending,
		SessionsAttended: 0,
	}
	if err := db.Conn().Create(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// UpdateRegistration rewrites the editable fields and re-derives age.
func UpdateRegistration(id uint, in RegistrationInput) (*models.Registration, error) {
	var reg models.Registration
	if err := db.Conn().First(&reg, id).Error; err != nil {
		return nil, ErrRegistrationNotFound
	}

	email, ok := NormEmail(in.Email)
	if !ok {
		return nil, errors.New("invalid email address")
	}

	reg.ChildName = in.ChildName
	reg.BirthDate = in.BirthDate
	reg.Age = AgeOn(in.BirthDate, time.Now())
	reg.ParentName = in.ParentName
	reg.Email = email
	reg.Phone = in.Phone
	reg.Experience = in.Experience
	reg.Notes = in.Notes

	if err := db.Conn().Save(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// RegistrationsForEmail is the parent-dashboard scope: every
// registration whose contact email matches the authenticated address,
// case-insensitively.
func RegistrationsForEmail(email string) ([]models.Registration, error) {
	norm, _ := NormEmail(email)
	var regs []models.Registration
	err := db.Conn().
		Where("LOWER(email) = ?", norm).
		Order("created_at asc").
		Find(&regs).Error
	return regs, err
}

// EmailHasRegistration reports whether any registration exists for the
// address; parent sign-up is gated on this.
func EmailHasRegistration(email string) (bool, error) {
	norm, ok := NormEmail(email)
	if !ok || norm == "" {
		return false, nil
	}
	var n int64
	err := db.Conn().Model(&models.Registration{}).
		Where("LOWER(email) = ?", norm).
		Count(&n).Error
	return n > 0, err
}
