package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/mightyathletic/academy/internal/config"
	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
	"github.com/mightyathletic/academy/internal/services"
)

// childForParent loads a registration only when it belongs to the
// session email. Ownership mismatch reports not-found, not forbidden,
// so the endpoint does not confirm which ids exist.
func childForParent(w http.ResponseWriter, r *http.Request) (*models.Registration, bool) {
	id, valid := idParam(w, r)
	if !valid {
		return nil, false
	}
	var reg models.Registration
	if err := db.Conn().First(&reg, id).Error; err != nil {
		fail(w, http.StatusNotFound, "player not found")
		return nil, false
	}
	if !strings.EqualFold(reg.Email, SessionEmail(r)) {
		fail(w, http.StatusNotFound, "player not found")
		return nil, false
	}
	return &reg, true
}

// GET /api/parent/children
func ParentChildren(w http.ResponseWriter, r *http.Request) {
	children, err := services.RegistrationsForEmail(SessionEmail(r))
	if err != nil {
		fail(w, http.StatusInternalServerError, "could not load children")
		return
	}
	ok(w, "children", children)
}

// GET /api/parent/children/{id}/attendance
func ParentAttendance(w http.ResponseWriter, r *http.Request) {
	reg, valid := childForParent(w, r)
	if !valid {
		return
	}
	var records []models.AttendanceRecord
	err := db.Conn().
		Where("registration_id = ?", reg.ID).
		Order("session_date desc, id desc").
		Find(&records).Error
	if err != nil {
		fail(w, http.StatusInternalServerError, "could not load attendance")
		return
	}
	ok(w, "attendance", records)
}

// GET /api/parent/children/{id}/blocks
//
// Full payment history, newest block first.
func ParentBlocks(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reg, valid := childForParent(w, r)
		if !valid {
			return
		}
		blocks, err := services.BlocksFor(reg.ID, cfg.BlockSize)
		if err != nil {
			fail(w, http.StatusInternalServerError, "could not load payment blocks")
			return
		}
		ok(w, "payment blocks", newestFirst(blocks))
	}
}

// GET /api/parent/waivers
func ParentWaivers(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(SessionEmail(r))
	var waivers []models.Waiver
	err := db.Conn().
		Where("LOWER(parent_email) = ?", email).
		Order("created_at desc").
		Find(&waivers).Error
	if err != nil {
		fail(w, http.StatusInternalServerError, "could not load waivers")
		return
	}
	ok(w, "waivers", waivers)
}

type waiverInput struct {
	RegistrationID uint `json:"registration_id" validate:"required"`

	ParentGuardianName string `json:"parent_guardian_name" validate:"required"`
	PhoneEmail         string `json:"phone_email"`

	HealthParticipation bool `json:"health_participation"`
	EmergencyMedical    bool `json:"emergency_medical"`
	ConcussionAwareness bool `json:"concussion_awareness"`
	MediaConsent        bool `json:"media_consent"`

	ParentSignature string `json:"parent_signature" validate:"required"`
	PlayerSignature string `json:"player_signature"`
}

// POST /api/parent/waivers
//
// Signing is restricted to the parent's own children. The health,
// emergency-medical and concussion consents are mandatory; media
// consent is the parent's choice.
func SignWaiver(w http.ResponseWriter, r *http.Request) {
	var in waiverInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !in.HealthParticipation || !in.EmergencyMedical || !in.ConcussionAwareness {
		fail(w, http.StatusBadRequest, "health, emergency medical and concussion consents are required")
		return
	}

	var reg models.Registration
	if err := db.Conn().First(&reg, in.RegistrationID).Error; err != nil {
		fail(w, http.StatusNotFound, "player not found")
		return
	}
	if !strings.EqualFold(reg.Email, SessionEmail(r)) {
		fail(w, http.StatusNotFound, "player not found")
		return
	}

	var existing int64
	db.Conn().Model(&models.Waiver{}).Where("registration_id = ?", reg.ID).Count(&existing)
	if existing > 0 {
		fail(w, http.StatusConflict, "a waiver is already on file for this player")
		return
	}

	now := time.Now()
	waiver := models.Waiver{
		RegistrationID:     reg.ID,
		ParentEmail:        strings.ToLower(reg.Email),
		PlayerName:         reg.ChildName,
		PlayerBirthDate:    reg.BirthDate,
		ParentGuardianName: in.ParentGuardianName,
		PhoneEmail:         in.PhoneEmail,

		HealthParticipation: in.HealthParticipation,
		EmergencyMedical:    in.EmergencyMedical,
		ConcussionAwareness: in.ConcussionAwareness,
		MediaConsent:        in.MediaConsent,

		ParentSignature:  in.ParentSignature,
		ParentSignedDate: now,
	}
	if in.PlayerSignature != "" {
		waiver.PlayerSignature = in.PlayerSignature
		waiver.PlayerSignedDate = &now
	}

	if err := db.Conn().Create(&waiver).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not save waiver")
		return
	}
	created(w, "waiver signed", waiver)
}
