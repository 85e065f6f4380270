package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
	"github.com/mightyathletic/academy/internal/storage"
)

// maxUploadBytes bounds a single multipart upload.
const maxUploadBytes = 32 << 20

const thumbWidth = 480

// GET /api/gallery (public)
func ListGallery(w http.ResponseWriter, r *http.Request) {
	var items []models.GalleryItem
	if err := db.Conn().Order("created_at desc, id desc").Find(&items).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not load gallery")
		return
	}
	ok(w, "gallery", items)
}

// POST /api/admin/gallery
//
// Multipart form: file (required), title (required), description,
// type (photo|video, defaults photo). Photos get a thumbnail; an
// image the decoder cannot read is rejected before anything is
// stored.
func UploadGalleryItem(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			fail(w, http.StatusBadRequest, "invalid multipart form")
			return
		}

		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			fail(w, http.StatusBadRequest, "title is required")
			return
		}
		itemType := r.FormValue("type")
		if itemType == "" {
			itemType = "photo"
		}
		if itemType != "photo" && itemType != "video" {
			fail(w, http.StatusBadRequest, "type must be photo or video")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			fail(w, http.StatusBadRequest, "file is required")
			return
		}
		defer file.Close()

		raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			fail(w, http.StatusBadRequest, "could not read upload")
			return
		}

		name := storage.UniqueName(header.Filename)

		var thumbURL string
		if itemType == "photo" {
			thumbURL, err = store.SaveThumbnail(storage.BucketGallery, name, bytes.NewReader(raw), thumbWidth)
			if err != nil {
				if errors.Is(err, storage.ErrUnsupportedImage) {
					fail(w, http.StatusUnprocessableEntity,
						"unsupported image format, upload JPEG, PNG or GIF (convert HEIC first)")
					return
				}
				fail(w, http.StatusInternalServerError, "could not process image")
				return
			}
		}

		fileURL, err := store.Save(storage.BucketGallery, name, bytes.NewReader(raw))
		if err != nil {
			fail(w, http.StatusInternalServerError, "could not store upload")
			return
		}

		item := models.GalleryItem{
			Title:        title,
			Description:  r.FormValue("description"),
			Type:         itemType,
			FileURL:      fileURL,
			ThumbnailURL: thumbURL,
		}
		if err := db.Conn().Create(&item).Error; err != nil {
			fail(w, http.StatusInternalServerError, "could not save gallery item")
			return
		}
		created(w, "gallery item uploaded", item)
	}
}

// DELETE /api/admin/gallery/{id}
func DeleteGalleryItem(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, valid := idParam(w, r)
		if !valid {
			return
		}
		var item models.GalleryItem
		if err := db.Conn().First(&item, id).Error; err != nil {
			fail(w, http.StatusNotFound, "gallery item not found")
			return
		}

		if err := store.Remove(storage.BucketGallery, item.FileURL); err != nil {
			log.Printf("remove gallery file %s: %v", filepath.Base(item.FileURL), err)
		}
		if item.ThumbnailURL != "" {
			if err := store.Remove(storage.BucketGallery, item.ThumbnailURL); err != nil {
				log.Printf("remove gallery thumbnail %s: %v", filepath.Base(item.ThumbnailURL), err)
			}
		}

		if err := db.Conn().Delete(&item).Error; err != nil {
			fail(w, http.StatusInternalServerError, "could not delete gallery item")
			return
		}
		ok(w, "gallery item deleted", nil)
	}
}
