package db

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mightyathletic/academy/internal/models"
)

var conn *gorm.DB

// Init opens (or creates) the academy database at the given path.
func Init(path string) error {
	if path == "" {
		path = "academy.db"
	}

	var err error
	conn, err = gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		return err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(
		&models.Registration{},
		&models.AttendanceRecord{},
		&models.Schedule{},
		&models.Location{},
		&models.GalleryItem{},
		&models.Sponsor{},
		&models.Waiver{},
		&models.Account{},
	); err != nil {
		log.Fatalf("auto-migrate failed: %v", err)
	}

	// Composite index GORM doesn't auto-create from struct tags; block
	// reconciliation always reads a registration's records by date.
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_attendance_reg_date ON attendance_records(registration_id, session_date)")

	log.Println("database ready (sqlite)")
	return nil
}

func Conn() *gorm.DB {
	return conn
}
