package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mightyathletic/academy/internal/config"
	"github.com/mightyathletic/academy/internal/handlers"
	"github.com/mightyathletic/academy/internal/notify"
	"github.com/mightyathletic/academy/internal/storage"
)

// Deps are the shared services the handlers close over.
type Deps struct {
	Cfg    config.Config
	Store  *storage.Store
	Email  notify.EmailSender
	Sheets *notify.Sheets // nil when no service-account key is configured
}

func Router(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handlers.Healthz)

	// Uploaded media
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.Store.Root())))
	r.Get("/uploads/*", fs.ServeHTTP)

	// Public site data
	r.Post("/api/register", handlers.Register(d.Cfg, d.Sheets, d.Email))
	r.Get("/api/schedules", handlers.ListSchedules)
	r.Get("/api/gallery", handlers.ListGallery)
	r.Get("/api/sponsors", handlers.ListSponsors)

	// Auth
	r.Route("/api/auth", func(ar chi.Router) {
		ar.Post("/signup", handlers.Signup(d.Cfg))
		ar.Post("/login", handlers.Login(d.Cfg))
		ar.Post("/logout", handlers.Logout)
		ar.Post("/reset-request", handlers.ResetRequest(d.Cfg, d.Email))
		ar.Post("/reset", handlers.ResetConfirm(d.Cfg))
		ar.With(handlers.RequireAuth(d.Cfg.JWTSecret)).Get("/me", handlers.Me(d.Cfg))
	})

	// Parent dashboard
	r.Route("/api/parent", func(pr chi.Router) {
		pr.Use(handlers.RequireAuth(d.Cfg.JWTSecret))
		pr.Get("/children", handlers.ParentChildren)
		pr.Get("/children/{id}/attendance", handlers.ParentAttendance)
		pr.Get("/children/{id}/blocks", handlers.ParentBlocks(d.Cfg))
		pr.Get("/waivers", handlers.ParentWaivers)
		pr.Post("/waivers", handlers.SignWaiver)
	})

	// Admin dashboard
	r.Route("/api/admin", func(ar chi.Router) {
		ar.Use(handlers.RequireAuth(d.Cfg.JWTSecret))
		ar.Use(handlers.RequireAdmin(d.Cfg.AdminEmail))

		ar.Get("/players", handlers.ListPlayers)
		ar.Post("/players", handlers.CreatePlayer)
		ar.Get("/players/export", handlers.ExportRoster)
		ar.Get("/players/{id}", handlers.GetPlayer)
		ar.Put("/players/{id}", handlers.UpdatePlayer)
		ar.Delete("/players/{id}", handlers.DeletePlayer)
		ar.Get("/players/{id}/qr.png", handlers.PlayerQR(d.Cfg))

		ar.Post("/players/{id}/attendance", handlers.MarkAttendance(d.Cfg))
		ar.Get("/players/{id}/attendance", handlers.ListAttendance)
		ar.Put("/attendance/{id}", handlers.EditAttendanceDate)
		ar.Delete("/attendance/{id}", handlers.DeleteAttendance)
		ar.Put("/players/{id}/payment", handlers.SetPaymentStatus)
		ar.Get("/players/{id}/blocks", handlers.PlayerBlocks(d.Cfg))

		ar.Post("/schedules", handlers.CreateSchedule)
		ar.Put("/schedules/{id}", handlers.UpdateSchedule)
		ar.Delete("/schedules/{id}", handlers.DeleteSchedule)
		ar.Post("/schedules/publish", handlers.PublishSchedule(d.Email))

		ar.Get("/locations", handlers.ListLocations)
		ar.Post("/locations", handlers.CreateLocation)
		ar.Put("/locations/{id}", handlers.UpdateLocation)
		ar.Delete("/locations/{id}", handlers.DeleteLocation)

		ar.Post("/gallery", handlers.UploadGalleryItem(d.Store))
		ar.Delete("/gallery/{id}", handlers.DeleteGalleryItem(d.Store))

		ar.Get("/sponsors", handlers.ListAllSponsors)
		ar.Post("/sponsors", handlers.CreateSponsor(d.Store))
		ar.Put("/sponsors/{id}", handlers.UpdateSponsor(d.Store))
		ar.Put("/sponsors/{id}/active", handlers.ToggleSponsor)
		ar.Delete("/sponsors/{id}", handlers.DeleteSponsor(d.Store))

		ar.Get("/waivers", handlers.ListWaivers)
		ar.Get("/waivers/{id}", handlers.GetWaiver)
		ar.Delete("/waivers/{id}", handlers.DeleteWaiver)
	})

	return r
}
