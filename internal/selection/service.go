package selection

import (
	"errors"

	"gorm.io/gorm"
)

type SelectionService struct {
	DB *gorm.DB
}

// Create stores a new evaluation; earlier rows stay as history.
func (s *SelectionService) Create(sel *Selection) error {
	return s.DB.Create(sel).Error
}

// LatestForEntry returns the authoritative evaluation, nil when none exists.
func (s *SelectionService) LatestForEntry(entryID uint) (*Selection, error) {
	var sel Selection
	err := s.DB.Where("entry_id = ?", entryID).
		Order("created_at DESC, id DESC").
		First(&sel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sel, nil
}

// HistoryForEntry returns every evaluation, newest first.
func (s *SelectionService) HistoryForEntry(entryID uint) ([]Selection, error) {
	var sels []Selection
	err := s.DB.Where("entry_id = ?", entryID).
		Order("created_at DESC, id DESC").
		Find(&sels).Error
	return sels, err
}

// DeleteForEntries removes all evaluations of the given entries, used by the
// bulk-delete cascade.
func (s *SelectionService) DeleteForEntries(entryIDs []uint) error {
	if len(entryIDs) == 0 {
		return nil
	}
	return s.DB.Where("entry_id IN ?", entryIDs).Delete(&Selection{}).Error
}
