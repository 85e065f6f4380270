package db_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/mightyathletic/academy/internal/db"
)

// TestWALMode verifies that the DSN parameters in db.go enable WAL
// journal mode. WAL is the key SQLite setting for concurrent reads
// with single-writer throughput.
func TestWALMode(t *testing.T) {
	if err := db.Init(filepath.Join(t.TempDir(), "wal_test.db")); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var mode string
	db.Conn().Raw("PRAGMA journal_mode").Scan(&mode)
	if mode != "wal" {
		t.Errorf("expected journal_mode=wal, got %q", mode)
	}
}

// TestInit_CreatesAttendanceIndex verifies the composite index that
// block reconciliation reads by, which GORM does not auto-create.
func TestInit_CreatesAttendanceIndex(t *testing.T) {
	if err := db.Init(filepath.Join(t.TempDir(), "idx_test.db")); err != nil {
		t.Fatalf("Init: %v", err)
	}

	sqlDB, err := db.Conn().DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}

	found := indexNames(t, sqlDB, "attendance_records")
	if !found["idx_attendance_reg_date"] {
		t.Errorf("index idx_attendance_reg_date missing; found: %v", found)
	}
}

func indexNames(t *testing.T, sqlDB *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := sqlDB.Query("PRAGMA index_list(" + table + ")")
	if err != nil {
		t.Fatalf("PRAGMA index_list: %v", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var seq int
		var name string
		var unique bool
		var origin, partial string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			t.Fatalf("scan: %v", err)
		}
		out[name] = true
	}
	return out
}
