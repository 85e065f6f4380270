package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/mightyathletic/academy/internal/config"
	"github.com/mightyathletic/academy/internal/models"
	"github.com/mightyathletic/academy/internal/notify"
	"github.com/mightyathletic/academy/internal/services"
)

type registrationInput struct {
	ChildName  string `json:"child_name" validate:"required"`
	BirthDate  string `json:"birth_date" validate:"required"`
	ParentName string `json:"parent_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Experience string `json:"experience"`
	Notes      string `json:"notes"`
}

func (in registrationInput) toService() (services.RegistrationInput, error) {
	birth, err := services.ParseDateOnly(in.BirthDate)
	if err != nil {
		return services.RegistrationInput{}, err
	}
	return services.RegistrationInput{
		ChildName:  in.ChildName,
		BirthDate:  birth,
		ParentName: in.ParentName,
		Email:      in.Email,
		Phone:      in.Phone,
		Experience: in.Experience,
		Notes:      in.Notes,
	}, nil
}

// Register handles the public registration form.
//
// POST /api/register
//
// The Sheets row and the confirmation email are best effort: a feed
// outage must never lose a registration, so both run after the insert
// commits and only log on failure.
func Register(cfg config.Config, sheets *notify.Sheets, sender notify.EmailSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		go notifyRegistration(*reg, sheets, sender)

		created(w, "registration received", reg)
	}
}

func notifyRegistration(reg models.Registration, sheets *notify.Sheets, sender notify.EmailSender) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sheets != nil {
		if err := sheets.AppendRegistration(ctx, reg); err != nil {
			log.Printf("sheets append for registration %d: %v", reg.ID, err)
		}
	}

	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received your registration for <strong>%s</strong>. A coach will be in touch with schedule details soon.</p><p>See you on the field!</p>",
		reg.ParentName, reg.ChildName)
	if err := sender.Send(ctx, []string{reg.Email}, "Registration received", html); err != nil {
		log.Printf("confirmation email for registration %d: %v", reg.ID, err)
	}
}
