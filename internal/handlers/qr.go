package handlers

import (
	"fmt"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/mightyathletic/academy/internal/config"
	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
)

// GET /api/admin/players/{id}/qr.png
//
// PNG a coach can print on the roster sheet; scanning opens the
// mark-attendance page for the player.
func PlayerQR(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, valid := idParam(w, r)
		if !valid {
			return
		}
		var reg models.Registration
		if err := db.Conn().First(&reg, id).Error; err != nil {
			fail(w, http.StatusNotFound, "player not found")
			return
		}

		target := fmt.Sprintf("%s/admin/players/%d/attendance", cfg.BaseURL, reg.ID)
		png, err := qrcode.Encode(target, qrcode.Medium, 256)
		if err != nil {
			fail(w, http.StatusInternalServerError, "could not generate qr code")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
