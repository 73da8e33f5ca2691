package stagesync

import (
	"fmt"

	"stage-entry-api/internal/entry"
)

// SyncService runs stage synchronization after a source-stage save. The
// source save has already been persisted when these run; a sync failure is
// reported in the result, never propagated as an error of the save itself.
type SyncService struct {
	Entries *entry.EntryService
}

// SyncAfterPreliminarySave pushes unchanged groups into the semifinals
// record, when one exists.
func (s *SyncService) SyncAfterPreliminarySave(entryID uint, src *entry.PreliminaryInfo) SyncResult {
	dst, err := s.Entries.GetSemifinals(entryID)
	if err != nil {
		return SyncResult{Warnings: []string{fmt.Sprintf("semifinals sync skipped: %v", err)}}
	}
	if dst == nil {
		return SyncResult{TargetExists: false}
	}
	res := ApplyPreliminaryToSemifinals(src, dst)
	if err := s.Entries.SaveSemifinals(entryID, dst); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("semifinals sync write failed: %v", err))
	}
	return res
}

// SyncAfterSemifinalsSave pushes unchanged groups into the finals record,
// when one exists.
func (s *SyncService) SyncAfterSemifinalsSave(entryID uint, src *entry.SemifinalsInfo) SyncResult {
	dst, err := s.Entries.GetFinals(entryID)
	if err != nil {
		return SyncResult{Warnings: []string{fmt.Sprintf("finals sync skipped: %v", err)}}
	}
	if dst == nil {
		return SyncResult{TargetExists: false}
	}
	res := ApplySemifinalsToFinals(src, dst)
	if err := s.Entries.SaveFinals(entryID, dst); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("finals sync write failed: %v", err))
	}
	return res
}
