package logs

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:logs_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&SystemLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestLog_WritesRowWithMetadata(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	uid := uint(42)
	meta := map[string]any{"entry_id": 7}

	if err := ls.Log("INFO", "entry", "SAVE_STAGE", "semifinals saved", &uid, meta); err != nil {
		t.Fatalf("Log: %v", err)
	}

	var row SystemLog
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if row.Level != "INFO" || row.Service != "entry" || row.Action != "SAVE_STAGE" {
		t.Fatalf("unexpected row: %+v", row)
	}
	if row.UserID == nil || *row.UserID != 42 {
		t.Fatalf("user id not stored: %+v", row.UserID)
	}
	if len(row.Metadata) == 0 {
		t.Fatalf("metadata not stored")
	}
}

func TestLog_NilMetadataOK(t *testing.T) {
	db := newTestDB(t)
	ls := &LogService{DB: db}

	if err := ls.Log("WARN", "admin", "BULK_DELETE", "partial failure", nil, nil); err != nil {
		t.Fatalf("Log: %v", err)
	}

	var row SystemLog
	if err := db.First(&row).Error; err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(row.Metadata) != 0 {
		t.Fatalf("expected empty metadata, got %s", row.Metadata)
	}
}
