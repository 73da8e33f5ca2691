package submission

import (
	"errors"
	"fmt"
	"path"
	"time"

	"gorm.io/gorm"

	"stage-entry-api/config"
	"stage-entry-api/internal/deadline"
	"stage-entry-api/internal/entry"
	"stage-entry-api/internal/stagesync"
	"stage-entry-api/internal/util"
	"stage-entry-api/internal/validation"
)

var (
	// ErrNoEntry: the participant has not started an entry yet.
	ErrNoEntry = errors.New("entry not found")
	// ErrStageClosed: the stage's deadline has passed.
	ErrStageClosed = errors.New("stage deadline has passed")
)

// Storage hooks, swappable in tests.
var (
	uploadToGCS   = util.UploadBase64ToGCS
	removeObjects = util.RemoveObjects
	signGetURL    = util.SignedGetURL
)

// Per-type upload caps in bytes.
var maxUploadBytes = map[string]int64{
	entry.FileTypeMusic: 50 << 20,
	entry.FileTypeAudio: 50 << 20,
	entry.FileTypeVideo: 500 << 20,
	entry.FileTypePhoto: 20 << 20,
}

var allowedPurposes = buildAllowedPurposes()

func buildAllowedPurposes() map[string]bool {
	purposes := map[string]bool{
		entry.PurposePreliminaryVideo: true,
		entry.PurposeSemifinalsMusic:  true,
		entry.PurposeFinalsMusic:      true,
		entry.PurposeSemifinalsChaser: true,
		entry.PurposeFinalsChaser:     true,
		entry.PurposeSnsPracticeVideo: true,
		entry.PurposePaymentSlip:      true,
	}
	for _, stage := range []entry.Stage{entry.StageSemifinals, entry.StageFinals} {
		for scene := 1; scene <= 5; scene++ {
			purposes[entry.SceneImagePurpose(stage, scene)] = true
		}
	}
	return purposes
}

// SubmissionService orchestrates the participant-facing save flow: deadline
// gate, persistence, stage sync, and the completion snapshot refresh.
type SubmissionService struct {
	DB        *gorm.DB
	Entries   *entry.EntryService
	Deadlines *deadline.DeadlineService
	Sync      *stagesync.SyncService
	CFG       *config.Config
}

// requireEntry resolves the caller's current entry.
func (s *SubmissionService) requireEntry(userID uint) (*entry.Entry, error) {
	e, err := s.Entries.CurrentEntryForUser(userID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNoEntry
	}
	return e, nil
}

// gate rejects the save when the stage is past its deadline.
func (s *SubmissionService) gate(stage entry.Stage, now time.Time) error {
	editable, err := s.Deadlines.StageEditable(stage, now)
	if err != nil {
		return err
	}
	if !editable {
		return ErrStageClosed
	}
	return nil
}

// refresh recomputes the completion snapshot after a write and updates the
// cached stage statuses on the entry row. Returns the saved stage's missing
// list.
func (s *SubmissionService) refresh(entryID uint, stage entry.Stage, now time.Time) ([]string, error) {
	rs, err := s.Entries.StageRecords(entryID)
	if err != nil {
		return nil, err
	}
	files, err := s.Entries.Files(entryID)
	if err != nil {
		return nil, err
	}
	aux := validation.BuildAuxFacts(now, files)
	if err := s.Entries.UpdateStageStatuses(entryID, validation.StageStatuses(rs, aux)); err != nil {
		return nil, err
	}
	return validation.ValidateStage(stage, rs, aux), nil
}

// SaveBasicInfo creates the entry on first save, then behaves like every
// other stage save.
func (s *SubmissionService) SaveBasicInfo(userID uint, rec *entry.BasicInfo) (*SaveResult, error) {
	now := time.Now()
	if err := s.gate(entry.StageBasicInfo, now); err != nil {
		return nil, err
	}

	e, err := s.Entries.CurrentEntryForUser(userID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		if e, err = s.Entries.CreateEntry(userID); err != nil {
			return nil, err
		}
	}

	if err := s.Entries.SaveBasicInfo(e.ID, rec); err != nil {
		return nil, err
	}
	missing, err := s.refresh(e.ID, entry.StageBasicInfo, now)
	if err != nil {
		return nil, err
	}
	return &SaveResult{EntryID: e.ID, Stage: entry.StageBasicInfo, Missing: missing, Complete: len(missing) == 0}, nil
}

// SavePreliminary persists the stage and then pushes unchanged groups into
// the semifinals record. A failed sync never fails the save.
func (s *SubmissionService) SavePreliminary(userID uint, rec *entry.PreliminaryInfo) (*SaveResult, error) {
	now := time.Now()
	if err := s.gate(entry.StagePreliminary, now); err != nil {
		return nil, err
	}
	e, err := s.requireEntry(userID)
	if err != nil {
		return nil, err
	}
	if err := s.Entries.SavePreliminary(e.ID, rec); err != nil {
		return nil, err
	}

	syncRes := s.Sync.SyncAfterPreliminarySave(e.ID, rec)

	missing, err := s.refresh(e.ID, entry.StagePreliminary, now)
	if err != nil {
		return nil, err
	}
	return &SaveResult{
		EntryID:  e.ID,
		Stage:    entry.StagePreliminary,
		Missing:  missing,
		Complete: len(missing) == 0,
		Sync:     &syncRes,
		Warnings: syncRes.Warnings,
	}, nil
}

func (s *SubmissionService) SaveProgram(userID uint, rec *entry.ProgramInfo) (*SaveResult, error) {
	now := time.Now()
	if err := s.gate(entry.StageProgram, now); err != nil {
		return nil, err
	}
	e, err := s.requireEntry(userID)
	if err != nil {
		return nil, err
	}
	if err := s.Entries.SaveProgram(e.ID, rec); err != nil {
		return nil, err
	}
	missing, err := s.refresh(e.ID, entry.StageProgram, now)
	if err != nil {
		return nil, err
	}
	return &SaveResult{EntryID: e.ID, Stage: entry.StageProgram, Missing: missing, Complete: len(missing) == 0}, nil
}

// SaveSemifinals persists the stage and then pushes unchanged groups into
// the finals record.
func (s *SubmissionService) SaveSemifinals(userID uint, rec *entry.SemifinalsInfo) (*SaveResult, error) {
	now := time.Now()
	if err := s.gate(entry.StageSemifinals, now); err != nil {
		return nil, err
	}
	e, err := s.requireEntry(userID)
	if err != nil {
		return nil, err
	}
	if err := s.Entries.SaveSemifinals(e.ID, rec); err != nil {
		return nil, err
	}

	syncRes := s.Sync.SyncAfterSemifinalsSave(e.ID, rec)

	missing, err := s.refresh(e.ID, entry.StageSemifinals, now)
	if err != nil {
		return nil, err
	}
	return &SaveResult{
		EntryID:  e.ID,
		Stage:    entry.StageSemifinals,
		Missing:  missing,
		Complete: len(missing) == 0,
		Sync:     &syncRes,
		Warnings: syncRes.Warnings,
	}, nil
}

func (s *SubmissionService) SaveFinals(userID uint, rec *entry.FinalsInfo) (*SaveResult, error) {
	now := time.Now()
	if err := s.gate(entry.StageFinals, now); err != nil {
		return nil, err
	}
	e, err := s.requireEntry(userID)
	if err != nil {
		return nil, err
	}
	if err := s.Entries.SaveFinals(e.ID, rec); err != nil {
		return nil, err
	}
	missing, err := s.refresh(e.ID, entry.StageFinals, now)
	if err != nil {
		return nil, err
	}
	return &SaveResult{EntryID: e.ID, Stage: entry.StageFinals, Missing: missing, Complete: len(missing) == 0}, nil
}

func (s *SubmissionService) SaveSns(userID uint, rec *entry.SnsInfo) (*SaveResult, error) {
	now := time.Now()
	if err := s.gate(entry.StageSns, now); err != nil {
		return nil, err
	}
	e, err := s.requireEntry(userID)
	if err != nil {
		return nil, err
	}
	if err := s.Entries.SaveSns(e.ID, rec); err != nil {
		return nil, err
	}
	missing, err := s.refresh(e.ID, entry.StageSns, now)
	if err != nil {
		return nil, err
	}
	return &SaveResult{EntryID: e.ID, Stage: entry.StageSns, Missing: missing, Complete: len(missing) == 0}, nil
}

func (s *SubmissionService) SaveApplications(userID uint, rec *entry.ApplicationsInfo) (*SaveResult, error) {
	now := time.Now()
	if err := s.gate(entry.StageApplications, now); err != nil {
		return nil, err
	}
	e, err := s.requireEntry(userID)
	if err != nil {
		return nil, err
	}
	if err := s.Entries.SaveApplications(e.ID, rec); err != nil {
		return nil, err
	}
	missing, err := s.refresh(e.ID, entry.StageApplications, now)
	if err != nil {
		return nil, err
	}
	return &SaveResult{EntryID: e.ID, Stage: entry.StageApplications, Missing: missing, Complete: len(missing) == 0}, nil
}

// Dashboard assembles the participant's full entry view. A user without an
// entry gets an empty dashboard, not an error.
func (s *SubmissionService) Dashboard(userID uint) (*Dashboard, error) {
	now := time.Now()
	overview, err := s.Deadlines.Overview(now)
	if err != nil {
		return nil, err
	}
	deadlines := make(map[entry.Stage]deadline.StageDeadline, len(overview))
	for _, sd := range overview {
		deadlines[sd.Stage] = sd
	}

	e, err := s.Entries.CurrentEntryForUser(userID)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{Entry: e}
	var rs entry.StageRecords
	var files []entry.EntryFile
	if e != nil {
		if rs, err = s.Entries.StageRecords(e.ID); err != nil {
			return nil, err
		}
		if files, err = s.Entries.Files(e.ID); err != nil {
			return nil, err
		}
	}
	dash.Files = files

	aux := validation.BuildAuxFacts(now, files)
	snapshot := validation.Evaluate(rs, aux)
	for _, stage := range entry.AllStages {
		c := snapshot[stage]
		sd := deadlines[stage]
		state := StageState{
			Stage:      stage,
			Exists:     c.Exists,
			Complete:   c.Complete,
			Editable:   sd.Editable,
			Deadline:   &sd,
			Completion: c,
		}
		if c.Exists && !c.Complete {
			state.Missing = validation.ValidateStage(stage, rs, aux)
		}
		dash.Stages = append(dash.Stages, state)
	}
	return dash, nil
}

// UploadFile stores one base64 upload in the bucket and records it, replacing
// whatever previously filled the same slot.
func (s *SubmissionService) UploadFile(userID uint, req *UploadFileRequest) (*entry.EntryFile, error) {
	if !entry.ValidFileTypes[req.FileType] {
		return nil, fmt.Errorf("invalid file type %q", req.FileType)
	}
	if !allowedPurposes[req.Purpose] {
		return nil, fmt.Errorf("invalid purpose %q", req.Purpose)
	}

	e, err := s.requireEntry(userID)
	if err != nil {
		return nil, err
	}

	ext := util.ExtFromFilenameOrMime(req.Filename, req.MimeType)
	object := path.Join(util.EntryPrefix(e.ID), fmt.Sprintf("%s_%d%s", util.SanitizePart(req.Purpose), time.Now().UnixNano(), ext))

	storedPath, size, err := uploadToGCS(req.Data, req.MimeType, s.CFG.BucketName, object)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	if limit := maxUploadBytes[req.FileType]; size > limit {
		removeObjects(s.CFG.BucketName, []string{storedPath})
		return nil, fmt.Errorf("file too large for type %q", req.FileType)
	}

	f := &entry.EntryFile{
		EntryID:   e.ID,
		FileType:  req.FileType,
		Purpose:   req.Purpose,
		Path:      storedPath,
		SizeBytes: size,
		MimeType:  req.MimeType,
	}
	replaced, err := s.Entries.AttachFile(f)
	if err != nil {
		return nil, err
	}
	if len(replaced) > 0 {
		// Best effort: a leaked blob is better than a failed upload.
		removeObjects(s.CFG.BucketName, replaced)
	}

	if _, err := s.refresh(e.ID, stageForPurpose(req.Purpose), time.Now()); err != nil {
		return f, err
	}
	return f, nil
}

// DeleteFile removes one upload owned by the caller's entry.
func (s *SubmissionService) DeleteFile(userID, fileID uint) error {
	e, err := s.requireEntry(userID)
	if err != nil {
		return err
	}
	storedPath, err := s.Entries.RemoveFile(e.ID, fileID)
	if err != nil {
		return err
	}
	removeObjects(s.CFG.BucketName, []string{storedPath})
	_, err = s.refresh(e.ID, entry.StageBasicInfo, time.Now())
	return err
}

// FileURL returns a short-lived signed URL for one of the caller's uploads.
func (s *SubmissionService) FileURL(userID, fileID uint) (string, error) {
	e, err := s.requireEntry(userID)
	if err != nil {
		return "", err
	}
	files, err := s.Entries.Files(e.ID)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.ID == fileID {
			url := signGetURL(s.CFG.BucketName, f.Path, 15*time.Minute)
			if url == "" {
				return "", fmt.Errorf("could not sign url")
			}
			return url, nil
		}
	}
	return "", fmt.Errorf("file not found")
}

// stageForPurpose maps an upload slot back to the stage whose completion it
// affects.
func stageForPurpose(purpose string) entry.Stage {
	switch purpose {
	case entry.PurposePreliminaryVideo:
		return entry.StagePreliminary
	case entry.PurposeSemifinalsMusic, entry.PurposeSemifinalsChaser:
		return entry.StageSemifinals
	case entry.PurposeFinalsMusic, entry.PurposeFinalsChaser:
		return entry.StageFinals
	case entry.PurposeSnsPracticeVideo:
		return entry.StageSns
	case entry.PurposePaymentSlip:
		return entry.StageApplications
	}
	for scene := 1; scene <= 5; scene++ {
		if purpose == entry.SceneImagePurpose(entry.StageSemifinals, scene) {
			return entry.StageSemifinals
		}
		if purpose == entry.SceneImagePurpose(entry.StageFinals, scene) {
			return entry.StageFinals
		}
	}
	return entry.StageBasicInfo
}
