package handlers

import (
	"net/http"

	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
)

// GET /api/admin/waivers
func ListWaivers(w http.ResponseWriter, r *http.Request) {
	var waivers []models.Waiver
	if err := db.Conn().Order("created_at desc, id desc").Find(&waivers).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not load waivers")
		return
	}
	ok(w, "waivers", waivers)
}

// GET /api/admin/waivers/{id}
func GetWaiver(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	var waiver models.Waiver
	if err := db.Conn().First(&waiver, id).Error; err != nil {
		fail(w, http.StatusNotFound, "waiver not found")
		return
	}
	ok(w, "waiver", waiver)
}

// DELETE /api/admin/waivers/{id}
//
// Lets a parent re-sign after a mistake; the registration keeps its
// attendance history.
func DeleteWaiver(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	if err := db.Conn().Delete(&models.Waiver{}, id).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not delete waiver")
		return
	}
	ok(w, "waiver deleted", nil)
}
