package handlers

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
	"github.com/mightyathletic/academy/internal/storage"
)

// GET /api/sponsors (public)
//
// Active sponsors only, lowest display order first.
func ListSponsors(w http.ResponseWriter, r *http.Request) {
	var sponsors []models.Sponsor
	err := db.Conn().
		Where("is_active = ?", true).
		Order("display_order asc, id asc").
		Find(&sponsors).Error
	if err != nil {
		fail(w, http.StatusInternalServerError, "could not load sponsors")
		return
	}
	ok(w, "sponsors", sponsors)
}

// GET /api/admin/sponsors
func ListAllSponsors(w http.ResponseWriter, r *http.Request) {
	var sponsors []models.Sponsor
	if err := db.Conn().Order("display_order asc, id asc").Find(&sponsors).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not load sponsors")
		return
	}
	ok(w, "sponsors", sponsors)
}

// POST /api/admin/sponsors
//
// Multipart form: name (required), description, website_url, logo
// (optional image). New sponsors go to the end of the display order.
func CreateSponsor(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			fail(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		name := strings.TrimSpace(r.FormValue("name"))
		if name == "" {
			fail(w, http.StatusBadRequest, "name is required")
			return
		}

		logoURL, done := saveSponsorLogo(w, r, store)
		if done {
			return
		}

		var count int64
		db.Conn().Model(&models.Sponsor{}).Count(&count)

		sponsor := models.Sponsor{
			Name:         name,
			LogoURL:      logoURL,
			Description:  r.FormValue("description"),
			WebsiteURL:   r.FormValue("website_url"),
			DisplayOrder: int(count),
			IsActive:     true,
		}
		if err := db.Conn().Create(&sponsor).Error; err != nil {
			fail(w, http.StatusInternalServerError, "could not create sponsor")
			return
		}
		created(w, "sponsor created", sponsor)
	}
}

// PUT /api/admin/sponsors/{id}
//
// Same multipart form as create; a new logo replaces the old file.
func UpdateSponsor(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, valid := idParam(w, r)
		if !valid {
			return
		}
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			fail(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		var sponsor models.Sponsor
		if err := db.Conn().First(&sponsor, id).Error; err != nil {
			fail(w, http.StatusNotFound, "sponsor not found")
			return
		}

		if name := strings.TrimSpace(r.FormValue("name")); name != "" {
			sponsor.Name = name
		}
		sponsor.Description = r.FormValue("description")
		sponsor.WebsiteURL = r.FormValue("website_url")
		if orderRaw := r.FormValue("display_order"); orderRaw != "" {
			if order, err := strconv.Atoi(orderRaw); err == nil && order >= 0 {
				sponsor.DisplayOrder = order
			}
		}

		logoURL, done := saveSponsorLogo(w, r, store)
		if done {
			return
		}
		if logoURL != "" {
			if sponsor.LogoURL != "" {
				if err := store.Remove(storage.BucketSponsors, sponsor.LogoURL); err != nil {
					log.Printf("remove old sponsor logo: %v", err)
				}
			}
			sponsor.LogoURL = logoURL
		}

		if err := db.Conn().Save(&sponsor).Error; err != nil {
			fail(w, http.StatusInternalServerError, "could not update sponsor")
			return
		}
		ok(w, "sponsor updated", sponsor)
	}
}

// saveSponsorLogo stores the optional logo part. The second return is
// true when a response has already been written.
func saveSponsorLogo(w http.ResponseWriter, r *http.Request, store *storage.Store) (string, bool) {
	file, header, err := r.FormFile("logo")
	if err != nil {
		return "", false // no logo in the form
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		fail(w, http.StatusBadRequest, "could not read logo")
		return "", true
	}

	// logos are served at original size, so only a decode check here
	if err := storage.ValidateImage(bytes.NewReader(raw)); err != nil {
		fail(w, http.StatusUnprocessableEntity, "unsupported logo format, upload JPEG, PNG or GIF")
		return "", true
	}
	name := storage.UniqueName(header.Filename)
	logoURL, err := store.Save(storage.BucketSponsors, name, bytes.NewReader(raw))
	if err != nil {
		fail(w, http.StatusInternalServerError, "could not store logo")
		return "", true
	}
	return logoURL, false
}

type sponsorToggleInput struct {
	IsActive bool `json:"is_active"`
}

// PUT /api/admin/sponsors/{id}/active
func ToggleSponsor(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	var in sponsorToggleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	var sponsor models.Sponsor
	if err := db.Conn().First(&sponsor, id).Error; err != nil {
		fail(w, http.StatusNotFound, "sponsor not found")
		return
	}
	if err := db.Conn().Model(&sponsor).Update("is_active", in.IsActive).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not update sponsor")
		return
	}
	sponsor.IsActive = in.IsActive
	ok(w, "sponsor updated", sponsor)
}

// DELETE /api/admin/sponsors/{id}
func DeleteSponsor(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, valid := idParam(w, r)
		if !valid {
			return
		}
		var sponsor models.Sponsor
		if err := db.Conn().First(&sponsor, id).Error; err != nil {
			fail(w, http.StatusNotFound, "sponsor not found")
			return
		}
		if sponsor.LogoURL != "" {
			if err := store.Remove(storage.BucketSponsors, sponsor.LogoURL); err != nil {
				log.Printf("remove sponsor logo: %v", err)
			}
		}
		if err := db.Conn().Delete(&sponsor).Error; err != nil {
			fail(w, http.StatusInternalServerError, "could not delete sponsor")
			return
		}
		ok(w, "sponsor deleted", nil)
	}
}
