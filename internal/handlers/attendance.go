package handlers

import (
	"errors"
	"net/http"

	"github.com/mightyathletic/academy/internal/billing"
	"github.com/mightyathletic/academy/internal/config"
	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
	"github.com/mightyathletic/academy/internal/services"
)

type markAttendanceInput struct {
	SessionDate string `json:"session_date"` // optional, defaults to today
	Notes       string `json:"notes"`
}

// POST /api/admin/players/{id}/attendance
//
// Back-dating and future-dating are both allowed; coaches record
// make-up sessions after the fact.
func MarkAttendance(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, valid := idParam(w, r)
		if !valid {
			return
		}
		var in markAttendanceInput
		if !decodeJSON(w, r, &in) {
			return
		}

		sessionDate := services.Today()
		if in.SessionDate != "" {
			var err error
			sessionDate, err = services.ParseDateOnly(in.SessionDate)
			if err != nil {
				fail(w, http.StatusBadRequest, "session_date must be YYYY-MM-DD")
				return
			}
		}

		reg, err := services.MarkAttendance(id, sessionDate, in.Notes, cfg.BlockSize, cfg.DueThreshold)
		if err != nil {
			if errors.Is(err, services.ErrRegistrationNotFound) {
				fail(w, http.StatusNotFound, "player not found")
				return
			}
			fail(w, http.StatusInternalServerError, "could not record attendance")
			return
		}
		created(w, "attendance recorded", reg)
	}
}

// GET /api/admin/players/{id}/attendance
func ListAttendance(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	var records []models.AttendanceRecord
	err := db.Conn().
		Where("registration_id = ?", id).
		Order("session_date desc, id desc").
		Find(&records).Error
	if err != nil {
		fail(w, http.StatusInternalServerError, "could not load attendance")
		return
	}
	ok(w, "attendance", records)
}

type editAttendanceInput struct {
	SessionDate string `json:"session_date" validate:"required"`
}

// PUT /api/admin/attendance/{id}
//
// Date corrections only. The counter is untouched: the session still
// happened, just on a different day.
func EditAttendanceDate(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	var in editAttendanceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	sessionDate, err := services.ParseDateOnly(in.SessionDate)
	if err != nil {
		fail(w, http.StatusBadRequest, "session_date must be YYYY-MM-DD")
		return
	}

	var record models.AttendanceRecord
	if err := db.Conn().First(&record, id).Error; err != nil {
		fail(w, http.StatusNotFound, "attendance record not found")
		return
	}
	if err := db.Conn().Model(&record).Update("session_date", sessionDate).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not update record")
		return
	}
	record.SessionDate = sessionDate
	ok(w, "attendance updated", record)
}

// DELETE /api/admin/attendance/{id}
func DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	if err := services.DeleteAttendance(id); err != nil {
		fail(w, http.StatusNotFound, "attendance record not found")
		return
	}
	ok(w, "attendance deleted", nil)
}

type paymentStatusInput struct {
	Status string `json:"status" validate:"required,oneof=paid pending"`
}

// PUT /api/admin/players/{id}/payment
//
// Marking paid starts a fresh block; the attendance history stays.
func SetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	var in paymentStatusInput
	if !decodeJSON(w, r, &in) {
		return
	}
	reg, err := services.SetPaymentStatus(id, in.Status)
	if err != nil {
		if errors.Is(err, services.ErrRegistrationNotFound) {
			fail(w, http.StatusNotFound, "player not found")
			return
		}
		fail(w, http.StatusBadRequest, err.Error())
		return
	}
	ok(w, "payment status updated", reg)
}

// maxAdminBlocks caps the admin payment-history view; older blocks
// stay reachable through the parent view and the raw attendance list.
const maxAdminBlocks = 8

// GET /api/admin/players/{id}/blocks
//
// Newest first, at most the last eight blocks.
func PlayerBlocks(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, valid := idParam(w, r)
		if !valid {
			return
		}
		blocks, err := services.BlocksFor(id, cfg.BlockSize)
		if err != nil {
			if errors.Is(err, services.ErrRegistrationNotFound) {
				fail(w, http.StatusNotFound, "player not found")
				return
			}
			fail(w, http.StatusInternalServerError, "could not load payment blocks")
			return
		}
		blocks = newestFirst(blocks)
		if len(blocks) > maxAdminBlocks {
			blocks = blocks[:maxAdminBlocks]
		}
		ok(w, "payment blocks", blocks)
	}
}

func newestFirst(blocks []billing.Block) []billing.Block {
	out := make([]billing.Block, len(blocks))
	for i, b := range blocks {
		out[len(blocks)-1-i] = b
	}
	return out
}
