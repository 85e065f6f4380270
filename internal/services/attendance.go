package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mightyathletic/academy/internal/billing"
	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
)

var ErrRegistrationNotFound = errors.New("registration not found")

// MarkAttendance appends an attendance record for the given session
// date and advances the registration's cached counter. When the cached
// count has reached the due threshold, the mark also flips payment
// status to pending. Both writes run in one transaction so the counter
// and the record history cannot diverge on partial failure.
//
// Session dates are taken as given: the dashboard backdates and
// future-dates freely.
func MarkAttendance(regID uint, sessionDate time.Time, notes string, blockSize, dueThreshold int) (*models.Registration, error) {
	var reg models.Registration
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reg, regID).Error; err != nil {
			return ErrRegistrationNotFound
		}

		updates := map[string]any{
			"sessions_attended": billing.NextCount(reg.SessionsAttended, blockSize),
		}
		if billing.Due(reg.SessionsAttended, dueThreshold) {
			updates["payment_status"] = models.PaymentPending
		}
		if err := tx.Model(&reg).Updates(updates).Error; err != nil {
			return err
		}

		rec := models.AttendanceRecord{
			RegistrationID: reg.ID,
			SessionDate:    sessionDate,
			Notes:          notes,
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// DeleteAttendance removes one record and decrements the owning
// registration's cached counter, floored at zero, in one transaction.
func DeleteAttendance(recordID uint) error {
	return db.Conn().Transaction(func(tx *gorm.DB) error {
		var rec models.AttendanceRecord
		if err := tx.First(&rec, recordID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&rec).Error; err != nil {
			return err
		}

		var reg models.Registration
		if err := tx.First(&reg, rec.RegistrationID).Error; err != nil {
			// Registration already gone; the record delete stands.
			return nil
		}
		if reg.SessionsAttended > 0 {
			return tx.Model(&reg).Update("sessions_attended", reg.SessionsAttended-1).Error
		}
		return nil
	})
}

// SetPaymentStatus moves a registration between paid and pending.
// Marking paid resets the cached counter to zero but leaves the
// attendance history intact: block reporting reads the records, and a
// paid block must stay visible afterward.
func SetPaymentStatus(regID uint, status string) (*models.Registration, error) {
	if status != models.PaymentPaid && status != models.PaymentPending {
		return nil, errors.New("payment status must be paid or pending")
	}

	var reg models.Registration
	if err := db.Conn().First(&reg, regID).Error; err != nil {
		return nil, ErrRegistrationNotFound
	}

	updates := map[string]any{"payment_status": status}
	if status == models.PaymentPaid {
		updates["sessions_attended"] = 0
	}
	if err := db.Conn().Model(&reg).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// BlocksFor reconciles a registration's full attendance history into
// payment blocks, oldest-first.
func BlocksFor(regID uint, blockSize int) ([]billing.Block, error) {
	var recs []models.AttendanceRecord
	if err := db.Conn().
		Where("registration_id = ?", regID).
		Order("session_date asc, id asc").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	dates := make([]time.Time, len(recs))
	for i, r := range recs {
		dates[i] = r.SessionDate
	}
	return billing.Partition(dates, blockSize), nil
}
