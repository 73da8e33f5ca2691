package deadline

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"stage-entry-api/internal/entry"
)

func TestIsEditableInclusiveBoundary(t *testing.T) {
	d := time.Date(2026, 7, 1, 23, 59, 59, 0, time.UTC)
	cfg := map[string]string{"finals_deadline": d.Format(time.RFC3339)}

	if !IsEditable("finals_deadline", cfg, d) {
		t.Fatalf("exactly at deadline must be editable")
	}
	if IsEditable("finals_deadline", cfg, d.Add(time.Second)) {
		t.Fatalf("one second past deadline must not be editable")
	}
	if !IsEditable("finals_deadline", cfg, d.Add(-time.Hour)) {
		t.Fatalf("before deadline must be editable")
	}
}

func TestIsEditableMissingOrBrokenConfig(t *testing.T) {
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	if !IsEditable("sns_deadline", map[string]string{}, now) {
		t.Fatalf("unconfigured key must be editable")
	}
	if !IsEditable("sns_deadline", map[string]string{"sns_deadline": ""}, now) {
		t.Fatalf("empty value must be editable")
	}
	if !IsEditable("sns_deadline", map[string]string{"sns_deadline": "not-a-date"}, now) {
		t.Fatalf("unparseable value must be editable")
	}
}

func TestIsEditableDateOnlyValue(t *testing.T) {
	// A bare date covers the whole day in the display timezone.
	cfg := map[string]string{"program_deadline": "2026-07-01"}
	during := time.Date(2026, 7, 1, 20, 0, 0, 0, displayLocation)
	after := time.Date(2026, 7, 2, 1, 0, 0, 0, displayLocation)

	if !IsEditable("program_deadline", cfg, during) {
		t.Fatalf("deadline day itself must be editable")
	}
	if IsEditable("program_deadline", cfg, after) {
		t.Fatalf("day after a date-only deadline must not be editable")
	}
}

func TestDaysRemainingAndUrgency(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		deadline time.Time
		days     int
		urgency  string
	}{
		{now.Add(10 * 24 * time.Hour), 10, UrgencyOpen},
		{now.Add(3 * 24 * time.Hour), 3, UrgencyUrgent},
		{now.Add(time.Hour), 1, UrgencyUrgent},
		{now.Add(-time.Hour), 0, UrgencyExpired},
	}
	for _, c := range cases {
		if got := DaysRemaining(c.deadline, now); got != c.days {
			t.Fatalf("DaysRemaining(%v) = %d, want %d", c.deadline, got, c.days)
		}
		if got := UrgencyFor(c.deadline, now); got != c.urgency {
			t.Fatalf("UrgencyFor(%v) = %q, want %q", c.deadline, got, c.urgency)
		}
	}
}

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:deadline_%d?mode=memory&cache=shared", atomic.AddUint64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&Setting{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

func TestServiceStageEditable(t *testing.T) {
	svc := &DeadlineService{DB: newTestDB(t)}
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	if err := svc.SetDeadline(Key(entry.StageFinals), now.Add(-time.Hour).Format(time.RFC3339)); err != nil {
		t.Fatalf("SetDeadline: %v", err)
	}

	editable, err := svc.StageEditable(entry.StageFinals, now)
	if err != nil {
		t.Fatalf("StageEditable: %v", err)
	}
	if editable {
		t.Fatalf("finals should be closed")
	}

	editable, err = svc.StageEditable(entry.StageSns, now)
	if err != nil {
		t.Fatalf("StageEditable: %v", err)
	}
	if !editable {
		t.Fatalf("unconfigured stage should be editable")
	}
}

func TestServiceSetDeadlineUpsert(t *testing.T) {
	svc := &DeadlineService{DB: newTestDB(t)}

	if err := svc.SetDeadline("finals_deadline", "2026-07-01T00:00:00Z"); err != nil {
		t.Fatalf("SetDeadline: %v", err)
	}
	if err := svc.SetDeadline("finals_deadline", "2026-08-01T00:00:00Z"); err != nil {
		t.Fatalf("SetDeadline update: %v", err)
	}

	cfg, err := svc.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg["finals_deadline"] != "2026-08-01T00:00:00Z" {
		t.Fatalf("expected upserted value, got %q", cfg["finals_deadline"])
	}
	var count int64
	svc.DB.Model(&Setting{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected single settings row, got %d", count)
	}
}

func TestOverviewCoversAllStages(t *testing.T) {
	svc := &DeadlineService{DB: newTestDB(t)}
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	svc.SetDeadline(Key(entry.StagePreliminary), now.Add(48*time.Hour).Format(time.RFC3339))

	overview, err := svc.Overview(now)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(overview) != len(entry.AllStages) {
		t.Fatalf("expected %d stages, got %d", len(entry.AllStages), len(overview))
	}
	for _, sd := range overview {
		if sd.Stage == entry.StagePreliminary {
			if !sd.Editable || sd.DaysRemaining != 2 || sd.Urgency != UrgencyUrgent {
				t.Fatalf("unexpected preliminary state: %+v", sd)
			}
		} else if !sd.Editable || sd.Urgency != "" {
			t.Fatalf("unconfigured stage %s should be open with no urgency: %+v", sd.Stage, sd)
		}
	}
}
