package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mightyathletic/academy/internal/billing"
	"github.com/mightyathletic/academy/internal/db"
	"github.com/mightyathletic/academy/internal/models"
)

// initTestDB points the shared connection at an isolated SQLite file
// in a temp directory.
func initTestDB(t *testing.T) {
	t.Helper()
	if err := db.Init(filepath.Join(t.TempDir(), "test.db")); err != nil {
		t.Fatalf("db init: %v", err)
	}
}

func seedPlayer(t *testing.T, sessions int, status string) models.Registration {
	t.Helper()
	reg := models.Registration{
		ChildName:        "Test Kid",
		BirthDate:        time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC),
		Age:              10,
		ParentName:       "Test Parent",
		Email:            "parent@example.com",
		Phone:            "555-0100",
		PaymentStatus:    status,
		SessionsAttended: sessions,
	}
	if err := db.Conn().Create(&reg).Error; err != nil {
		t.Fatalf("seed registration: %v", err)
	}
	return reg
}

func sessionDate(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func TestMarkAttendance_IncrementsAndRecords(t *testing.T) {
	initTestDB(t)
	reg := seedPlayer(t, 2, models.PaymentPaid)

	updated, err := MarkAttendance(reg.ID, sessionDate(3), "", 8, 7)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}

	var got models.Registration
	db.Conn().First(&got, updated.ID)
	if got.SessionsAttended != 3 {
		t.Errorf("sessions: want 3, got %d", got.SessionsAttended)
	}
	if got.PaymentStatus != models.PaymentPaid {
		t.Errorf("payment status should be untouched below threshold, got %q", got.PaymentStatus)
	}

	var n int64
	db.Conn().Model(&models.AttendanceRecord{}).Where("registration_id = ?", reg.ID).Count(&n)
	if n != 1 {
		t.Errorf("expected 1 attendance record, got %d", n)
	}
}

func TestMarkAttendance_FlipsPendingAtThreshold(t *testing.T) {
	initTestDB(t)
	reg := seedPlayer(t, 7, models.PaymentPaid)

	if _, err := MarkAttendance(reg.ID, sessionDate(10), "", 8, 7); err != nil {
		t.Fatalf("mark: %v", err)
	}

	var got models.Registration
	db.Conn().First(&got, reg.ID)
	if got.SessionsAttended != 8 {
		t.Errorf("sessions: want 8, got %d", got.SessionsAttended)
	}
	if got.PaymentStatus != models.PaymentPending {
		t.Errorf("the mark that fills the block should flip status to pending, got %q", got.PaymentStatus)
	}
}

func TestMarkAttendance_WrapsFullCounter(t *testing.T) {
	initTestDB(t)
	reg := seedPlayer(t, 8, models.PaymentPending)

	if _, err := MarkAttendance(reg.ID, sessionDate(17), "", 8, 7); err != nil {
		t.Fatalf("mark: %v", err)
	}

	var got models.Registration
	db.Conn().First(&got, reg.ID)
	if got.SessionsAttended != 1 {
		t.Errorf("a mark on a full counter restarts progress at 1, got %d", got.SessionsAttended)
	}
}

func TestMarkAttendance_UnknownRegistration(t *testing.T) {
	initTestDB(t)
	if _, err := MarkAttendance(9999, sessionDate(1), "", 8, 7); err != ErrRegistrationNotFound {
		t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
	}
}

func TestDeleteAttendance_DecrementsFlooredAtZero(t *testing.T) {
	initTestDB(t)
	reg := seedPlayer(t, 0, models.PaymentPending)

	// Two records but a drifted counter of 0: delete must not go negative.
	for day := 1; day <= 2; day++ {
		rec := models.AttendanceRecord{RegistrationID: reg.ID, SessionDate: sessionDate(day)}
		if err := db.Conn().Create(&rec).Error; err != nil {
			t.Fatalf("seed record: %v", err)
		}
	}
	var first models.AttendanceRecord
	db.Conn().Where("registration_id = ?", reg.ID).First(&first)

	if err := DeleteAttendance(first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var got models.Registration
	db.Conn().First(&got, reg.ID)
	if got.SessionsAttended != 0 {
		t.Errorf("counter must floor at zero, got %d", got.SessionsAttended)
	}
	var n int64
	db.Conn().Model(&models.AttendanceRecord{}).Where("registration_id = ?", reg.ID).Count(&n)
	if n != 1 {
		t.Errorf("expected 1 record left, got %d", n)
	}
}

func TestDeleteAttendance_Decrements(t *testing.T) {
	initTestDB(t)
	reg := seedPlayer(t, 3, models.PaymentPending)
	rec := models.AttendanceRecord{RegistrationID: reg.ID, SessionDate: sessionDate(5)}
	db.Conn().Create(&rec)

	if err := DeleteAttendance(rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var got models.Registration
	db.Conn().First(&got, reg.ID)
	if got.SessionsAttended != 2 {
		t.Errorf("counter: want 2, got %d", got.SessionsAttended)
	}
}

// TestSetPaymentStatus_PaidResetsCounterKeepsHistory covers the
// asymmetry the block report depends on: paying resets the visible
// counter but never touches the record history.
func TestSetPaymentStatus_PaidResetsCounterKeepsHistory(t *testing.T) {
	initTestDB(t)
	reg := seedPlayer(t, 8, models.PaymentPending)
	for day := 1; day <= 8; day++ {
		db.Conn().Create(&models.AttendanceRecord{RegistrationID: reg.ID, SessionDate: sessionDate(day)})
	}

	updated, err := SetPaymentStatus(reg.ID, models.PaymentPaid)
	if err != nil {
		t.Fatalf("set paid: %v", err)
	}

	var got models.Registration
	db.Conn().First(&got, updated.ID)
	if got.PaymentStatus != models.PaymentPaid {
		t.Errorf("status: want paid, got %q", got.PaymentStatus)
	}
	if got.SessionsAttended != 0 {
		t.Errorf("paid reset should zero the cached counter, got %d", got.SessionsAttended)
	}

	var n int64
	db.Conn().Model(&models.AttendanceRecord{}).Where("registration_id = ?", reg.ID).Count(&n)
	if n != 8 {
		t.Fatalf("attendance history must survive a paid reset, got %d records", n)
	}

	// And the history still reconciles into a complete block.
	blocks, err := BlocksFor(reg.ID, 8)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if len(blocks) != 1 || blocks[0].Status != billing.StatusComplete || blocks[0].Sessions != 8 {
		t.Errorf("expected one complete block after paid reset, got %+v", blocks)
	}
}

func TestSetPaymentStatus_Invalid(t *testing.T) {
	initTestDB(t)
	reg := seedPlayer(t, 0, models.PaymentPending)
	if _, err := SetPaymentStatus(reg.ID, "overdue"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestBlocksFor_OrdersByDate(t *testing.T) {
	initTestDB(t)
	reg := seedPlayer(t, 0, models.PaymentPending)

	// Insert out of chronological order.
	for _, day := range []int{22, 1, 15, 8} {
		db.Conn().Create(&models.AttendanceRecord{RegistrationID: reg.ID, SessionDate: sessionDate(day)})
	}

	blocks, err := BlocksFor(reg.ID, 4)
	if err != nil {
		t.Fatalf("blocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if !blocks[0].Start.Equal(sessionDate(1)) || !blocks[0].End.Equal(sessionDate(22)) {
		t.Errorf("block span wrong: %+v", blocks[0])
	}
}
