package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
	"github.com/mightyathletic/academy/internal/services"
)

// GET /api/admin/players?q=
//
// q matches child or parent name, case-insensitive.
func ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	tx := db.Conn().Order("child_name asc")
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(child_name) LIKE ? OR LOWER(parent_name) LIKE ?", like, like)
	}

	var players []models.Registration
	if err := tx.Find(&players).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not load players")
		return
	}
	ok(w, "players", players)
}

// GET /api/admin/players/{id}
func GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	var reg models.Registration
	if err := db.Conn().First(&reg, id).Error; err != nil {
		fail(w, http.StatusNotFound, "player not found")
		return
	}
	ok(w, "player", reg)
}

// POST /api/admin/players
func CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var in registrationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	svcIn, err := in.toService()
	if err != nil {
		fail(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
		return
	}
	reg, err := services.CreateRegistration(svcIn)
	if err != nil {
		fail(w, http.StatusBadRequest, err.Error())
		return
	}
	created(w, "player created", reg)
}

// PUT /api/admin/players/{id}
func UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	var in registrationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	svcIn, err := in.toService()
	if err != nil {
		fail(w, http.StatusBadRequest, "birth_date must be YYYY-MM-DD")
		return
	}
	reg, err := services.UpdateRegistration(id, svcIn)
	if err != nil {
		if errors.Is(err, services.ErrRegistrationNotFound) {
			fail(w, http.StatusNotFound, "player not found")
			return
		}
		fail(w, http.StatusBadRequest, err.Error())
		return
	}
	ok(w, "player updated", reg)
}

// DELETE /api/admin/players/{id}
//
// Attendance history and waivers for the player go with it.
func DeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("registration_id = ?", id).Delete(&models.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("registration_id = ?", id).Delete(&models.Waiver{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Registration{}, id).Error
	})
	if err != nil {
		fail(w, http.StatusInternalServerError, "could not delete player")
		return
	}
	ok(w, "player deleted", nil)
}

// GET /api/admin/players/export
//
// CSV roster download for offline use at the field.
func ExportRoster(w http.ResponseWriter, r *http.Request) {
	var players []models.Registration
	if err := db.Conn().Order("child_name asc").Find(&players).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not load players")
		return
	}

	filename := fmt.Sprintf("roster-%s.csv", services.FormatDateOnly(time.Now()))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"ID", "Child", "Birth Date", "Age", "Parent", "Email", "Phone", "Experience", "Payment", "Sessions", "Notes"})
	for _, p := range players {
		_ = cw.Write([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.ChildName,
			services.FormatDateOnly(p.BirthDate),
			strconv.Itoa(p.Age),
			p.ParentName,
			p.Email,
			p.Phone,
			p.Experience,
			p.PaymentStatus,
			strconv.Itoa(p.SessionsAttended),
			p.Notes,
		})
	}
	cw.Flush()
}
