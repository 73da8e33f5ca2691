package submission

import (
	"stage-entry-api/internal/deadline"
	"stage-entry-api/internal/entry"
	"stage-entry-api/internal/stagesync"
	"stage-entry-api/internal/validation"
)

// StageState is one stage as the participant dashboard shows it: the raw
// record, its completion snapshot, what is still missing, and whether the
// deadline still allows edits.
type StageState struct {
	Stage      entry.Stage                `json:"stage"`
	Exists     bool                       `json:"exists"`
	Complete   bool                       `json:"complete"`
	Missing    []string                   `json:"missing,omitempty"`
	Editable   bool                       `json:"editable"`
	Deadline   *deadline.StageDeadline    `json:"deadline,omitempty"`
	Completion validation.StageCompletion `json:"-"`
}

// Dashboard is the participant's full view of their entry.
type Dashboard struct {
	Entry  *entry.Entry      `json:"entry"`
	Stages []StageState      `json:"stages"`
	Files  []entry.EntryFile `json:"files"`
}

// SaveResult reports one stage save: the recomputed missing list for the
// saved stage and, when a downstream stage tracks this one, what sync did.
type SaveResult struct {
	EntryID  uint                  `json:"entry_id"`
	Stage    entry.Stage           `json:"stage"`
	Missing  []string              `json:"missing,omitempty"`
	Complete bool                  `json:"complete"`
	Sync     *stagesync.SyncResult `json:"sync,omitempty"`
	Warnings []string              `json:"warnings,omitempty"`
}

// UploadFileRequest carries one base64-encoded upload.
type UploadFileRequest struct {
	FileType string `json:"file_type"`
	Purpose  string `json:"purpose"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}
