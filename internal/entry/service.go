package entry

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrEntryExists is returned when a user who already has an entry tries to
// create another one.
var ErrEntryExists = errors.New("entry already exists for this user")

type EntryService struct {
	DB *gorm.DB
}

// CurrentEntryForUser returns the user's active entry, defined as the most
// recently created one. Returns nil when the user has no entry yet.
func (s *EntryService) CurrentEntryForUser(userID uint) (*Entry, error) {
	var e Entry
	err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEntry creates a fresh pending entry for the user.
func (s *EntryService) CreateEntry(userID uint) (*Entry, error) {
	existing, err := s.CurrentEntryForUser(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEntryExists
	}
	e := Entry{
		UserID:             userID,
		Status:             StatusPending,
		BasicInfoStatus:    StageStatusNone,
		PreliminaryStatus:  StageStatusNone,
		ProgramStatus:      StageStatusNone,
		SemifinalsStatus:   StageStatusNone,
		FinalsStatus:       StageStatusNone,
		SnsStatus:          StageStatusNone,
		ApplicationsStatus: StageStatusNone,
	}
	if err := s.DB.Create(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// GetEntry loads one entry by ID. Returns nil when it does not exist.
func (s *EntryService) GetEntry(entryID uint) (*Entry, error) {
	var e Entry
	err := s.DB.First(&e, entryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// stageRecord loads the single stage row for an entry into dst. The bool
// reports whether a row exists.
func (s *EntryService) stageRecord(entryID uint, dst interface{}) (bool, error) {
	err := s.DB.Where("entry_id = ?", entryID).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *EntryService) GetBasicInfo(entryID uint) (*BasicInfo, error) {
	var rec BasicInfo
	found, err := s.stageRecord(entryID, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (s *EntryService) GetPreliminary(entryID uint) (*PreliminaryInfo, error) {
	var rec PreliminaryInfo
	found, err := s.stageRecord(entryID, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (s *EntryService) GetProgram(entryID uint) (*ProgramInfo, error) {
	var rec ProgramInfo
	found, err := s.stageRecord(entryID, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (s *EntryService) GetSemifinals(entryID uint) (*SemifinalsInfo, error) {
	var rec SemifinalsInfo
	found, err := s.stageRecord(entryID, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (s *EntryService) GetFinals(entryID uint) (*FinalsInfo, error) {
	var rec FinalsInfo
	found, err := s.stageRecord(entryID, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (s *EntryService) GetSns(entryID uint) (*SnsInfo, error) {
	var rec SnsInfo
	found, err := s.stageRecord(entryID, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (s *EntryService) GetApplications(entryID uint) (*ApplicationsInfo, error) {
	var rec ApplicationsInfo
	found, err := s.stageRecord(entryID, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

// StageRecords loads every stage row of one entry, nil where a stage has not
// been started.
func (s *EntryService) StageRecords(entryID uint) (StageRecords, error) {
	var rs StageRecords
	var err error
	if rs.BasicInfo, err = s.GetBasicInfo(entryID); err != nil {
		return rs, err
	}
	if rs.Preliminary, err = s.GetPreliminary(entryID); err != nil {
		return rs, err
	}
	if rs.Program, err = s.GetProgram(entryID); err != nil {
		return rs, err
	}
	if rs.Semifinals, err = s.GetSemifinals(entryID); err != nil {
		return rs, err
	}
	if rs.Finals, err = s.GetFinals(entryID); err != nil {
		return rs, err
	}
	if rs.Sns, err = s.GetSns(entryID); err != nil {
		return rs, err
	}
	if rs.Applications, err = s.GetApplications(entryID); err != nil {
		return rs, err
	}
	return rs, nil
}

// SaveBasicInfo inserts or updates the entry's basic-info row. The incoming
// record's EntryID is forced to entryID so a client cannot write another
// entry's row.
func (s *EntryService) SaveBasicInfo(entryID uint, rec *BasicInfo) error {
	rec.EntryID = entryID
	var existing BasicInfo
	found, err := s.stageRecord(entryID, &existing)
	if err != nil {
		return err
	}
	if found {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		return s.DB.Save(rec).Error
	}
	rec.ID = 0
	return s.DB.Create(rec).Error
}

func (s *EntryService) SavePreliminary(entryID uint, rec *PreliminaryInfo) error {
	rec.EntryID = entryID
	var existing PreliminaryInfo
	found, err := s.stageRecord(entryID, &existing)
	if err != nil {
		return err
	}
	if found {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		return s.DB.Save(rec).Error
	}
	rec.ID = 0
	return s.DB.Create(rec).Error
}

func (s *EntryService) SaveProgram(entryID uint, rec *ProgramInfo) error {
	rec.EntryID = entryID
	var existing ProgramInfo
	found, err := s.stageRecord(entryID, &existing)
	if err != nil {
		return err
	}
	if found {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		return s.DB.Save(rec).Error
	}
	rec.ID = 0
	return s.DB.Create(rec).Error
}

func (s *EntryService) SaveSemifinals(entryID uint, rec *SemifinalsInfo) error {
	rec.EntryID = entryID
	var existing SemifinalsInfo
	found, err := s.stageRecord(entryID, &existing)
	if err != nil {
		return err
	}
	if found {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		return s.DB.Save(rec).Error
	}
	rec.ID = 0
	return s.DB.Create(rec).Error
}

func (s *EntryService) SaveFinals(entryID uint, rec *FinalsInfo) error {
	rec.EntryID = entryID
	var existing FinalsInfo
	found, err := s.stageRecord(entryID, &existing)
	if err != nil {
		return err
	}
	if found {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		return s.DB.Save(rec).Error
	}
	rec.ID = 0
	return s.DB.Create(rec).Error
}

func (s *EntryService) SaveSns(entryID uint, rec *SnsInfo) error {
	rec.EntryID = entryID
	var existing SnsInfo
	found, err := s.stageRecord(entryID, &existing)
	if err != nil {
		return err
	}
	if found {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		return s.DB.Save(rec).Error
	}
	rec.ID = 0
	return s.DB.Create(rec).Error
}

func (s *EntryService) SaveApplications(entryID uint, rec *ApplicationsInfo) error {
	rec.EntryID = entryID
	var existing ApplicationsInfo
	found, err := s.stageRecord(entryID, &existing)
	if err != nil {
		return err
	}
	if found {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		return s.DB.Save(rec).Error
	}
	rec.ID = 0
	return s.DB.Create(rec).Error
}

// UpdateStageStatuses writes fresh cached completion markers onto the entry
// row. Only the stages present in statuses are touched.
func (s *EntryService) UpdateStageStatuses(entryID uint, statuses map[Stage]string) error {
	if len(statuses) == 0 {
		return nil
	}
	cols := map[string]interface{}{}
	for stage, status := range statuses {
		switch stage {
		case StageBasicInfo:
			cols["basic_info_status"] = status
		case StagePreliminary:
			cols["preliminary_status"] = status
		case StageProgram:
			cols["program_status"] = status
		case StageSemifinals:
			cols["semifinals_status"] = status
		case StageFinals:
			cols["finals_status"] = status
		case StageSns:
			cols["sns_status"] = status
		case StageApplications:
			cols["applications_status"] = status
		default:
			return fmt.Errorf("unknown stage %q", stage)
		}
	}
	return s.DB.Model(&Entry{}).Where("id = ?", entryID).Updates(cols).Error
}

// Files returns every uploaded file of an entry, newest first.
func (s *EntryService) Files(entryID uint) ([]EntryFile, error) {
	var files []EntryFile
	err := s.DB.Where("entry_id = ?", entryID).
		Order("created_at DESC, id DESC").
		Find(&files).Error
	return files, err
}

// LatestFile returns the live file for a single-slot purpose. When stale
// duplicates exist the newest row wins. Returns nil when the slot is empty.
func (s *EntryService) LatestFile(entryID uint, purpose string) (*EntryFile, error) {
	var f EntryFile
	err := s.DB.Where("entry_id = ? AND purpose = ?", entryID, purpose).
		Order("created_at DESC, id DESC").
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// AttachFile records a new upload and removes older rows in the same slot.
// The returned paths are the replaced objects, for the caller to clean up in
// storage.
func (s *EntryService) AttachFile(f *EntryFile) ([]string, error) {
	var stale []EntryFile
	if err := s.DB.Where("entry_id = ? AND purpose = ?", f.EntryID, f.Purpose).
		Find(&stale).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Create(f).Error; err != nil {
		return nil, err
	}
	var replaced []string
	for _, old := range stale {
		replaced = append(replaced, old.Path)
	}
	if len(stale) > 0 {
		if err := s.DB.Where("entry_id = ? AND purpose = ? AND id <> ?",
			f.EntryID, f.Purpose, f.ID).Delete(&EntryFile{}).Error; err != nil {
			return replaced, err
		}
	}
	return replaced, nil
}

// RemoveFile deletes one file row and returns its storage path.
func (s *EntryService) RemoveFile(entryID, fileID uint) (string, error) {
	var f EntryFile
	err := s.DB.Where("id = ? AND entry_id = ?", fileID, entryID).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("file not found")
	}
	if err != nil {
		return "", err
	}
	if err := s.DB.Delete(&EntryFile{}, f.ID).Error; err != nil {
		return "", err
	}
	return f.Path, nil
}

// DeleteEntryData removes the entry with all stage rows and file rows in one
// transaction. Storage objects are the caller's responsibility.
func (s *EntryService) DeleteEntryData(entryID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&BasicInfo{}, &PreliminaryInfo{}, &ProgramInfo{},
			&SemifinalsInfo{}, &FinalsInfo{}, &SnsInfo{}, &ApplicationsInfo{},
			&EntryFile{},
		} {
			if err := tx.Where("entry_id = ?", entryID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&Entry{}, entryID).Error
	})
}
