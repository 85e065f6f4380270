package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
	"github.com/mightyathletic/academy/internal/notify"
)

var dayOrder = map[string]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6,
}

type scheduleInput struct {
	Day         string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	Time        string `json:"time" validate:"required"`
	AgeGroup    string `json:"age_group" validate:"required"`
	SessionType string `json:"session_type" validate:"required"`
	LocationID  *uint  `json:"location_id"`
}

func (in scheduleInput) apply(s *models.Schedule) {
	s.Day = in.Day
	s.Time = in.Time
	s.AgeGroup = in.AgeGroup
	s.SessionType = in.SessionType
	s.LocationID = in.LocationID
}

func loadSchedules() ([]models.Schedule, error) {
	var schedules []models.Schedule
	if err := db.Conn().Preload("Location").Find(&schedules).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(schedules, func(i, j int) bool {
		if dayOrder[schedules[i].Day] != dayOrder[schedules[j].Day] {
			return dayOrder[schedules[i].Day] < dayOrder[schedules[j].Day]
		}
		return schedules[i].Time < schedules[j].Time
	})
	return schedules, nil
}

// GET /api/schedules (public)
func ListSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := loadSchedules()
	if err != nil {
		fail(w, http.StatusInternalServerError, "could not load schedule")
		return
	}
	ok(w, "schedule", schedules)
}

// POST /api/admin/schedules
func CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var in scheduleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !locationExists(w, in.LocationID) {
		return
	}
	var s models.Schedule
	in.apply(&s)
	if err := db.Conn().Create(&s).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not create schedule")
		return
	}
	created(w, "schedule created", s)
}

// PUT /api/admin/schedules/{id}
func UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	var in scheduleInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if !locationExists(w, in.LocationID) {
		return
	}
	var s models.Schedule
	if err := db.Conn().First(&s, id).Error; err != nil {
		fail(w, http.StatusNotFound, "schedule not found")
		return
	}
	in.apply(&s)
	if err := db.Conn().Save(&s).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not update schedule")
		return
	}
	ok(w, "schedule updated", s)
}

// DELETE /api/admin/schedules/{id}
func DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, valid := idParam(w, r)
	if !valid {
		return
	}
	if err := db.Conn().Delete(&models.Schedule{}, id).Error; err != nil {
		fail(w, http.StatusInternalServerError, "could not delete schedule")
		return
	}
	ok(w, "schedule deleted", nil)
}

func locationExists(w http.ResponseWriter, id *uint) bool {
	if id == nil {
		return true
	}
	var loc models.Location
	if err := db.Conn().First(&loc, *id).Error; err != nil {
		fail(w, http.StatusBadRequest, "location_id does not exist")
		return false
	}
	return true
}

// POST /api/admin/schedules/publish
//
// Emails the current weekly schedule to every registered family, one
// address once even when it has several children.
func PublishSchedule(sender notify.EmailSender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		schedules, err := loadSchedules()
		if err != nil {
			fail(w, http.StatusInternalServerError, "could not load schedule")
			return
		}
		if len(schedules) == 0 {
			fail(w, http.StatusBadRequest, "no schedule entries to publish")
			return
		}

		var emails []string
		err = db.Conn().Model(&models.Registration{}).
			Distinct("LOWER(email)").
			Pluck("LOWER(email)", &emails).Error
		if err != nil {
			fail(w, http.StatusInternalServerError, "could not load recipients")
			return
		}
		if len(emails) == 0 {
			fail(w, http.StatusBadRequest, "no registered families to notify")
			return
		}

		html := scheduleEmailHTML(schedules)
		go func(recipients []string) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			for _, to := range recipients {
				if err := sender.Send(ctx, []string{to}, "This week's training schedule", html); err != nil {
					log.Printf("schedule email to %s: %v", to, err)
				}
			}
		}(emails)

		ok(w, fmt.Sprintf("schedule published to %d families", len(emails)), nil)
	}
}

func scheduleEmailHTML(schedules []models.Schedule) string {
	var b strings.Builder
	b.WriteString("<h2>Weekly Training Schedule</h2><ul>")
	for _, s := range schedules {
		fmt.Fprintf(&b, "<li><strong>%s %s</strong> &mdash; %s (%s)", s.Day, s.Time, s.AgeGroup, s.SessionType)
		if s.Location != nil {
			fmt.Fprintf(&b, " at %s", s.Location.Name)
			if s.Location.Address != "" {
				fmt.Fprintf(&b, ", %s", s.Location.Address)
			}
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul><p>See you there!</p>")
	return b.String()
}
