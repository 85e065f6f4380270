package handlers

import (
	"net/http"

	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
)

type locationInput struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

// GET /api/admin/locations
func ListLocations(w http.ResponseWriter, r *http.Request) {
	var locations []models.Location
	if err := db.Conn().Order("name asc").Find(&locations).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not load locations")
		return
	}
	ok(w, "locations", locations)
}

// POST /api/admin/locations
func CreateLocation(w http.ResponseWriter, r *http.Request) {
	var in locationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	loc := models.Location{Name: in.Name, Address: in.Address}
	if err := db.Conn().Create(&loc).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not create location")
		return
	}
	created(w, "location created", loc)
}

// PUT /api/admin/locations/{id}
func UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	var in locationInput
	if !decodeJSON(w, r, &in) {
		return
	}
	var loc models.Location
	if err := db.Conn().First(&loc, id).Error; err != nil {
		fail(w, http.StatusNotFound, "location not found")
		return
	}
	loc.Name = in.Name
	loc.Address = in.Address
	if err := db.Conn().Save(&loc).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not update location")
		return
	}
	ok(w, "location updated", loc)
}

// DELETE /api/admin/locations/{id}
//
// Schedules pointing at the location keep running with no venue
// rather than disappearing.
func DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	err := db.Conn().Model(&models.Schedule{}).
		Where("location_id = ?", id).
		Update("location_id", nil).Error
	if err != nil {
		fail(w, http.StatusInternalServerError, "could not detach schedules")
		return
	}
	if err := db.Conn().Delete(&models.Location{}, id).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not delete location")
		return
	}
	ok(w, "location deleted", nil)
}
