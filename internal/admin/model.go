package admin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stage-entry-api/internal/entry"
)

// TargetKind distinguishes rows that are real entries from placeholder rows
// standing in for users who registered but never saved basic info.
type TargetKind int

const (
	TargetEntry TargetKind = iota
	TargetPlaceholder
)

// TargetRef is one addressable row of the admin listing. Placeholders render
// as "dummy-<userID>"; bulk mutations must never treat them as entries.
type TargetRef struct {
	Kind TargetKind
	ID   uint
}

const placeholderPrefix = "dummy-"

func ParseTargetRef(s string) (TargetRef, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, placeholderPrefix); ok {
		id, err := strconv.ParseUint(rest, 10, 32)
		if err != nil || id == 0 {
			return TargetRef{}, fmt.Errorf("invalid placeholder ref %q", s)
		}
		return TargetRef{Kind: TargetPlaceholder, ID: uint(id)}, nil
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return TargetRef{}, fmt.Errorf("invalid entry ref %q", s)
	}
	return TargetRef{Kind: TargetEntry, ID: uint(id)}, nil
}

func (r TargetRef) String() string {
	if r.Kind == TargetPlaceholder {
		return placeholderPrefix + strconv.FormatUint(uint64(r.ID), 10)
	}
	return strconv.FormatUint(uint64(r.ID), 10)
}

// EntryFilter holds the conjunctive listing filters.
type EntryFilter struct {
	Status    string
	Genre     string
	HasStages []entry.Stage
	NoStages  []entry.Stage
	StartDate *string
	EndDate   *string
}

func (f EntryFilter) entriesOnly() bool {
	return f.Status != "" || f.Genre != "" ||
		len(f.HasStages) > 0 || len(f.NoStages) > 0 ||
		f.StartDate != nil || f.EndDate != nil
}

// EntryRow is one row of the admin listing: a real entry joined with its
// participant and basic info, or a placeholder for an entry-less user.
type EntryRow struct {
	Ref             string                 `json:"ref"`
	EntryID         uint                   `json:"entry_id,omitempty"`
	UserID          uint                   `json:"user_id"`
	ParticipantName string                 `json:"participant_name"`
	Email           string                 `json:"email"`
	TeamName        string                 `json:"team_name,omitempty"`
	Genre           string                 `json:"genre,omitempty"`
	Status          string                 `json:"status,omitempty"`
	DisplayStatus   string                 `json:"display_status"`
	Seeded          bool                   `json:"seeded"`
	Placeholder     bool                   `json:"placeholder"`
	StageStatuses   map[entry.Stage]string `json:"stage_statuses,omitempty"`
	CreatedAt       *time.Time             `json:"created_at,omitempty"`
}

// BulkFailure reports one target that could not be processed.
type BulkFailure struct {
	Ref   string `json:"ref"`
	Error string `json:"error"`
}

// BulkResult is the outcome of one bulk operation. Warnings carry partial
// failures that did not stop the batch (excluded placeholders, leaked blobs).
type BulkResult struct {
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Warnings  []string      `json:"warnings,omitempty"`
	Failed    []BulkFailure `json:"failed,omitempty"`
}

type bulkRequest struct {
	EntryIDs []string `json:"entryIds"`
	Status   string   `json:"status,omitempty"`
}

type bulkEmailRequest struct {
	EntryIDs []string `json:"entryIds"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
}
