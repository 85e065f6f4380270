package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/mightyathletic/academy/internal/config"
	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/notify"
	"github.com/mightyathletic/academy/internal/storage"
	"github.com/mightyathletic/academy/internal/web"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()
	cfg := config.Load()

	if err := db.Init(cfg.DBPath); err != nil {
		log.Fatalf("db init: %v", err)
	}

	store, err := storage.New(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		log.Fatalf("storage init: %v", err)
	}

	var email notify.EmailSender = notify.LogSender{}
	if cfg.ResendAPIKey != "" {
		email = notify.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		log.Print("RESEND_API_KEY not set, emails go to the log")
	}

	var sheets *notify.Sheets
	if cfg.ServiceAccountKey != "" && cfg.SpreadsheetID != "" {
		sheets, err = notify.NewSheets(cfg.ServiceAccountKey, cfg.SpreadsheetID, cfg.SheetName)
		if err != nil {
			log.Fatalf("sheets init: %v", err)
		}
	} else {
		log.Print("sheets feed not configured, registrations stay local only")
	}

	r := web.Router(web.Deps{Cfg: cfg, Store: store, Email: email, Sheets: sheets})

	log.Printf("Mighty Athletic API listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, r); err != nil {
		log.Fatal(err)
	}
}
