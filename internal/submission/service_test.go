package submission

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"stage-entry-api/config"
	"stage-entry-api/internal/deadline"
	"stage-entry-api/internal/entry"
	"stage-entry-api/internal/stagesync"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:submission_%d?mode=memory&cache=shared", atomic.AddUint64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&entry.Entry{}, &entry.BasicInfo{}, &entry.PreliminaryInfo{}, &entry.ProgramInfo{},
		&entry.SemifinalsInfo{}, &entry.FinalsInfo{}, &entry.SnsInfo{}, &entry.ApplicationsInfo{},
		&entry.EntryFile{}, &deadline.Setting{},
	); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

func newService(t *testing.T) *SubmissionService {
	db := newTestDB(t)
	entries := &entry.EntryService{DB: db}
	return &SubmissionService{
		DB:        db,
		Entries:   entries,
		Deadlines: &deadline.DeadlineService{DB: db},
		Sync:      &stagesync.SyncService{Entries: entries},
		CFG:       &config.Config{BucketName: "test-bucket"},
	}
}

func TestSaveBasicInfoCreatesEntryOnce(t *testing.T) {
	svc := newService(t)

	res, err := svc.SaveBasicInfo(1, &entry.BasicInfo{TeamName: "Aurora"})
	if err != nil {
		t.Fatalf("SaveBasicInfo: %v", err)
	}
	if res.EntryID == 0 {
		t.Fatalf("expected entry created")
	}
	if res.Complete {
		t.Fatalf("incomplete record reported complete")
	}

	res2, err := svc.SaveBasicInfo(1, &entry.BasicInfo{TeamName: "Aurora v2"})
	if err != nil {
		t.Fatalf("SaveBasicInfo again: %v", err)
	}
	if res2.EntryID != res.EntryID {
		t.Fatalf("second save created a new entry")
	}

	var count int64
	svc.DB.Model(&entry.Entry{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one entry, got %d", count)
	}
}

func TestSaveBasicInfoMinorReportsGuardianFields(t *testing.T) {
	svc := newService(t)
	birthdate := time.Now().AddDate(-17, 0, 0).Format("2006-01-02")

	res, err := svc.SaveBasicInfo(1, &entry.BasicInfo{
		TeamName:                "Aurora",
		Genre:                   "hiphop",
		Prefecture:              "Tokyo",
		RepresentativeName:      "Hanako",
		RepresentativeKana:      "ハナコ",
		RepresentativeBirthdate: birthdate,
		RepresentativePhone:     "090",
		RepresentativeEmail:     "h@example.com",
	})
	if err != nil {
		t.Fatalf("SaveBasicInfo: %v", err)
	}

	want := map[string]bool{"guardian_name": true, "guardian_phone": true, "guardian_email": true}
	if len(res.Missing) != 3 {
		t.Fatalf("expected the three guardian fields, got %v", res.Missing)
	}
	for _, m := range res.Missing {
		if !want[m] {
			t.Fatalf("unexpected missing field %q in %v", m, res.Missing)
		}
	}

	e, _ := svc.Entries.GetEntry(res.EntryID)
	if e.BasicInfoStatus != entry.StageStatusIncomplete {
		t.Fatalf("cached status not refreshed, got %q", e.BasicInfoStatus)
	}
}

func TestSaveStageRequiresEntry(t *testing.T) {
	svc := newService(t)
	_, err := svc.SaveProgram(1, &entry.ProgramInfo{SongCount: "1"})
	if !errors.Is(err, ErrNoEntry) {
		t.Fatalf("expected ErrNoEntry, got %v", err)
	}
}

func TestSaveStagePastDeadlineRejected(t *testing.T) {
	svc := newService(t)
	svc.SaveBasicInfo(1, &entry.BasicInfo{TeamName: "x"})

	past := time.Now().Add(-time.Hour).Format(time.RFC3339)
	if err := svc.Deadlines.SetDeadline(deadline.Key(entry.StageProgram), past); err != nil {
		t.Fatalf("SetDeadline: %v", err)
	}

	_, err := svc.SaveProgram(1, &entry.ProgramInfo{SongCount: "1"})
	if !errors.Is(err, ErrStageClosed) {
		t.Fatalf("expected ErrStageClosed, got %v", err)
	}
	if rec, _ := svc.Entries.GetProgram(1); rec != nil {
		t.Fatalf("closed stage was persisted anyway")
	}
}

func TestSaveSemifinalsSyncsIntoFinals(t *testing.T) {
	svc := newService(t)
	res, _ := svc.SaveBasicInfo(1, &entry.BasicInfo{TeamName: "x"})
	if err := svc.Entries.SaveFinals(res.EntryID, &entry.FinalsInfo{MusicChange: false}); err != nil {
		t.Fatalf("seed finals: %v", err)
	}

	save, err := svc.SaveSemifinals(1, &entry.SemifinalsInfo{
		WorkTitle:             "Midnight Run",
		MusicTitle:            "Night Drive",
		MusicDataPath:         "entries/1/semi.mp3",
		ChaserSongDesignation: entry.ChaserNotRequired,
	})
	if err != nil {
		t.Fatalf("SaveSemifinals: %v", err)
	}
	if save.Sync == nil || !save.Sync.TargetExists {
		t.Fatalf("expected sync against existing finals, got %+v", save.Sync)
	}

	finals, _ := svc.Entries.GetFinals(res.EntryID)
	if finals.WorkTitle != "Midnight Run" || finals.MusicDataPath != "entries/1/semi.mp3" {
		t.Fatalf("finals not synced: %+v", finals)
	}
	if finals.ChaserSongDesignation != entry.FinalsChaserNone {
		t.Fatalf("designation not translated: %q", finals.ChaserSongDesignation)
	}
}

func TestSavePreliminarySyncNoTarget(t *testing.T) {
	svc := newService(t)
	svc.SaveBasicInfo(1, &entry.BasicInfo{TeamName: "x"})

	res, err := svc.SavePreliminary(1, &entry.PreliminaryInfo{WorkTitle: "w"})
	if err != nil {
		t.Fatalf("SavePreliminary: %v", err)
	}
	if res.Sync == nil || res.Sync.TargetExists {
		t.Fatalf("expected no-op sync without semifinals, got %+v", res.Sync)
	}
}

func TestUploadFileStoresAndReplaces(t *testing.T) {
	svc := newService(t)
	res, _ := svc.SaveBasicInfo(1, &entry.BasicInfo{TeamName: "x"})

	var uploaded []string
	var removed []string
	origUpload, origRemove := uploadToGCS, removeObjects
	uploadToGCS = func(data, contentType, bucket, object string) (string, int64, error) {
		uploaded = append(uploaded, object)
		return object, 1024, nil
	}
	removeObjects = func(bucket string, paths []string) error {
		removed = append(removed, paths...)
		return nil
	}
	defer func() { uploadToGCS, removeObjects = origUpload, origRemove }()

	req := &UploadFileRequest{
		FileType: entry.FileTypeVideo,
		Purpose:  entry.PurposePreliminaryVideo,
		Filename: "run.mp4",
		MimeType: "video/mp4",
		Data:     "AAAA",
	}
	first, err := svc.UploadFile(1, req)
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if first.EntryID != res.EntryID || first.SizeBytes != 1024 {
		t.Fatalf("unexpected file row: %+v", first)
	}

	if _, err := svc.UploadFile(1, req); err != nil {
		t.Fatalf("UploadFile replace: %v", err)
	}
	if len(uploaded) != 2 {
		t.Fatalf("expected two uploads, got %v", uploaded)
	}
	if len(removed) != 1 || removed[0] != first.Path {
		t.Fatalf("expected replaced blob removed, got %v", removed)
	}

	files, _ := svc.Entries.Files(res.EntryID)
	if len(files) != 1 {
		t.Fatalf("expected one live row, got %d", len(files))
	}
}

func TestUploadFileValidation(t *testing.T) {
	svc := newService(t)
	svc.SaveBasicInfo(1, &entry.BasicInfo{TeamName: "x"})

	_, err := svc.UploadFile(1, &UploadFileRequest{FileType: "archive", Purpose: entry.PurposePaymentSlip, Data: "AAAA"})
	if err == nil {
		t.Fatalf("expected invalid file type error")
	}
	_, err = svc.UploadFile(1, &UploadFileRequest{FileType: entry.FileTypePhoto, Purpose: "random_slot", Data: "AAAA"})
	if err == nil {
		t.Fatalf("expected invalid purpose error")
	}
}

func TestDashboardWithoutEntry(t *testing.T) {
	svc := newService(t)

	dash, err := svc.Dashboard(42)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dash.Entry != nil {
		t.Fatalf("expected nil entry, got %+v", dash.Entry)
	}
	if len(dash.Stages) != len(entry.AllStages) {
		t.Fatalf("expected %d stages, got %d", len(entry.AllStages), len(dash.Stages))
	}
	for _, st := range dash.Stages {
		if st.Exists || st.Complete {
			t.Fatalf("stage %s should be unstarted: %+v", st.Stage, st)
		}
		if !st.Editable {
			t.Fatalf("stage %s should be editable without deadlines", st.Stage)
		}
	}
}

func TestDashboardMissingLists(t *testing.T) {
	svc := newService(t)
	svc.SaveBasicInfo(1, &entry.BasicInfo{TeamName: "only-name"})

	dash, err := svc.Dashboard(1)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	for _, st := range dash.Stages {
		if st.Stage != entry.StageBasicInfo {
			continue
		}
		if !st.Exists || st.Complete {
			t.Fatalf("unexpected basic_info state: %+v", st)
		}
		if len(st.Missing) == 0 {
			t.Fatalf("expected missing fields for partial basic_info")
		}
	}
}
