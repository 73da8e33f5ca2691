package admin

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/smtp"
	"sort"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"stage-entry-api/config"
	"stage-entry-api/internal/auth"
	"stage-entry-api/internal/entry"
	"stage-entry-api/internal/selection"
	"stage-entry-api/internal/util"
)

// Storage and mail hooks, swappable in tests.
var (
	removePrefix = util.RemovePrefix
	sendMail     = smtp.SendMail
)

// DisplayStatusPassing is shown for seeded participants regardless of their
// entry's real status. Presentation only, never written back.
const DisplayStatusPassing = "passing"

type AdminService struct {
	DB         *gorm.DB
	Entries    *entry.EntryService
	Selections *selection.SelectionService
	CFG        *config.Config
}

// ==========================
// LISTING
// ==========================

type entryListRow struct {
	entry.Entry
	Firstname string `gorm:"column:firstname"`
	Lastname  string `gorm:"column:lastname"`
	Email     string `gorm:"column:email"`
	Seeded    bool   `gorm:"column:seeded"`
	TeamName  string `gorm:"column:team_name"`
	Genre     string `gorm:"column:genre"`
}

// stageStatusColumn maps a stage to its cached column on entries. The stage
// name ends up inside the query, so unknown stages are rejected up front.
func stageStatusColumn(stage entry.Stage) (string, error) {
	for _, s := range entry.AllStages {
		if s == stage {
			return string(stage) + "_status", nil
		}
	}
	return "", fmt.Errorf("invalid stage filter %q", stage)
}

// ListEntries returns the admin listing with all filters applied
// conjunctively. An unfiltered listing also includes a placeholder row per
// participant who registered but never created an entry.
func (as *AdminService) ListEntries(filter EntryFilter) ([]EntryRow, error) {
	q := as.DB.Table("entries").
		Select("entries.*, u.firstname, u.lastname, u.email, u.seeded, COALESCE(b.team_name, '') AS team_name, COALESCE(b.genre, '') AS genre").
		Joins("JOIN users u ON u.id = entries.user_id").
		Joins("LEFT JOIN basic_info b ON b.entry_id = entries.id")

	if filter.Status != "" {
		if !entry.ValidStatuses[filter.Status] {
			return nil, fmt.Errorf("invalid status")
		}
		q = q.Where("entries.status = ?", filter.Status)
	}
	if filter.Genre != "" {
		q = q.Where("b.genre = ?", filter.Genre)
	}
	for _, stage := range filter.HasStages {
		col, err := stageStatusColumn(stage)
		if err != nil {
			return nil, err
		}
		q = q.Where(fmt.Sprintf("entries.%s <> ?", col), entry.StageStatusNone)
	}
	for _, stage := range filter.NoStages {
		col, err := stageStatusColumn(stage)
		if err != nil {
			return nil, err
		}
		q = q.Where(fmt.Sprintf("entries.%s = ?", col), entry.StageStatusNone)
	}

	start, hasStart, endExclusive, hasEnd, err := util.ParseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	if hasStart {
		q = q.Where("entries.created_at >= ?", start)
	}
	if hasEnd {
		q = q.Where("entries.created_at < ?", endExclusive)
	}

	var rows []entryListRow
	if err := q.Order("entries.created_at DESC, entries.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]EntryRow, 0, len(rows))
	for _, r := range rows {
		created := r.CreatedAt
		row := EntryRow{
			Ref:             TargetRef{Kind: TargetEntry, ID: r.ID}.String(),
			EntryID:         r.ID,
			UserID:          r.UserID,
			ParticipantName: strings.TrimSpace(r.Firstname + " " + r.Lastname),
			Email:           r.Email,
			TeamName:        r.TeamName,
			Genre:           r.Genre,
			Status:          r.Status,
			DisplayStatus:   r.Status,
			Seeded:          r.Seeded,
			CreatedAt:       &created,
			StageStatuses:   stageStatusMap(&r.Entry),
		}
		if r.Seeded {
			row.DisplayStatus = DisplayStatusPassing
		}
		out = append(out, row)
	}

	if !filter.entriesOnly() {
		placeholders, err := as.placeholderRows()
		if err != nil {
			return nil, err
		}
		out = append(out, placeholders...)
	}
	return out, nil
}

func stageStatusMap(e *entry.Entry) map[entry.Stage]string {
	m := make(map[entry.Stage]string, len(entry.AllStages))
	for _, stage := range entry.AllStages {
		m[stage] = e.StageStatus(stage)
	}
	return m
}

// placeholderRows: one synthetic row per participant without an entry.
func (as *AdminService) placeholderRows() ([]EntryRow, error) {
	var users []auth.User
	err := as.DB.
		Where("role = ?", "User").
		Where("id NOT IN (?)", as.DB.Model(&entry.Entry{}).Select("user_id")).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	out := make([]EntryRow, 0, len(users))
	for _, u := range users {
		row := EntryRow{
			Ref:             TargetRef{Kind: TargetPlaceholder, ID: u.ID}.String(),
			UserID:          u.ID,
			ParticipantName: strings.TrimSpace(u.FirstName + " " + u.LastName),
			Email:           u.Email,
			Seeded:          u.Seeded,
			Placeholder:     true,
			DisplayStatus:   "",
		}
		if u.Seeded {
			row.DisplayStatus = DisplayStatusPassing
		}
		out = append(out, row)
	}
	return out, nil
}

// ==========================
// BULK OPERATIONS
// ==========================

// BulkUpdateStatus moves every addressed entry to status. Entries already in
// the target status are skipped, not errors; placeholders are excluded with a
// warning since they have no entry row to mutate.
func (as *AdminService) BulkUpdateStatus(refs []TargetRef, status string) (*BulkResult, error) {
	if !entry.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid status")
	}

	res := &BulkResult{}
	var ids []uint
	for _, ref := range refs {
		if ref.Kind == TargetPlaceholder {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s has no entry and was skipped", ref))
			continue
		}
		ids = append(ids, ref.ID)
	}
	if len(ids) == 0 {
		return res, nil
	}

	tx := as.DB.Model(&entry.Entry{}).
		Where("id IN ?", ids).
		Where("status <> ?", status).
		Update("status", status)
	if tx.Error != nil {
		return nil, tx.Error
	}
	res.Processed = int(tx.RowsAffected)
	res.Skipped = len(ids) - res.Processed
	return res, nil
}

// BulkDelete cascades each addressed entry: stored blobs first (best effort,
// failures demoted to warnings), then selections and database rows. One
// entry's failure never aborts the rest of the batch. A placeholder ref
// deletes the participant record itself.
func (as *AdminService) BulkDelete(refs []TargetRef) (*BulkResult, error) {
	res := &BulkResult{}
	for _, ref := range refs {
		if ref.Kind == TargetPlaceholder {
			if err := as.DB.Delete(&auth.User{}, ref.ID).Error; err != nil {
				res.Failed = append(res.Failed, BulkFailure{Ref: ref.String(), Error: err.Error()})
				continue
			}
			res.Processed++
			continue
		}

		if err := removePrefix(as.CFG.BucketName, util.EntryPrefix(ref.ID)); err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("storage cleanup for %s failed: %v", ref, err))
		}
		if err := as.Selections.DeleteForEntries([]uint{ref.ID}); err != nil {
			res.Failed = append(res.Failed, BulkFailure{Ref: ref.String(), Error: err.Error()})
			continue
		}
		if err := as.Entries.DeleteEntryData(ref.ID); err != nil {
			res.Failed = append(res.Failed, BulkFailure{Ref: ref.String(), Error: err.Error()})
			continue
		}
		res.Processed++
	}
	return res, nil
}

// BulkEmail sends one message to every addressed participant. Placeholder
// refs resolve to the user directly; entry refs resolve through the entry.
func (as *AdminService) BulkEmail(refs []TargetRef, subject, body string) (*BulkResult, error) {
	res := &BulkResult{}

	recipients := map[string]bool{}
	for _, ref := range refs {
		var email string
		var err error
		if ref.Kind == TargetPlaceholder {
			var u auth.User
			err = as.DB.First(&u, ref.ID).Error
			email = u.Email
		} else {
			var u auth.User
			err = as.DB.
				Joins("JOIN entries ON entries.user_id = users.id").
				Where("entries.id = ?", ref.ID).
				First(&u).Error
			email = u.Email
		}
		if err != nil {
			res.Failed = append(res.Failed, BulkFailure{Ref: ref.String(), Error: "recipient not found"})
			continue
		}
		recipients[email] = true
	}

	from := as.CFG.GmailUser
	password := as.CFG.GmailPass
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"
	mailAuth := smtp.PlainAuth("", from, password, smtpHost)

	for email := range recipients {
		message := []byte(fmt.Sprintf(
			"To: %s\r\n"+
				"Subject: %s\r\n"+
				"\r\n"+
				"%s",
			email,
			subject,
			body,
		))
		if err := sendMail(smtpHost+":"+smtpPort, mailAuth, from, []string{email}, message); err != nil {
			res.Failed = append(res.Failed, BulkFailure{Ref: email, Error: "send failed"})
			continue
		}
		res.Processed++
	}
	return res, nil
}

// ==========================
// EXPORT
// ==========================

var exportColumns = []string{
	"ref", "participant_name", "email", "team_name", "genre", "status",
	"display_status", "basic_info", "preliminary", "program", "semifinals",
	"finals", "sns", "applications", "created_at",
}

// exportRows builds one ordered record per listing row so CSV, XLSX and JSON
// exports agree on column order.
func (as *AdminService) exportRows(filter EntryFilter) ([]*orderedmap.OrderedMap, error) {
	rows, err := as.ListEntries(filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].UserID < rows[j].UserID })

	out := make([]*orderedmap.OrderedMap, 0, len(rows))
	for _, r := range rows {
		m := orderedmap.New()
		m.Set("ref", r.Ref)
		m.Set("participant_name", r.ParticipantName)
		m.Set("email", r.Email)
		m.Set("team_name", r.TeamName)
		m.Set("genre", r.Genre)
		m.Set("status", r.Status)
		m.Set("display_status", r.DisplayStatus)
		for _, stage := range entry.AllStages {
			status := entry.StageStatusNone
			if r.StageStatuses != nil {
				status = r.StageStatuses[stage]
			}
			m.Set(string(stage), status)
		}
		if r.CreatedAt != nil {
			m.Set("created_at", r.CreatedAt.Format(time.RFC3339))
		} else {
			m.Set("created_at", "")
		}
		out = append(out, m)
	}
	return out, nil
}

// ExportEntries renders the (filtered) listing as csv, xlsx or json.
func (as *AdminService) ExportEntries(filter EntryFilter, format string) (string, string, []byte, error) {
	rows, err := as.exportRows(filter)
	if err != nil {
		return "", "", nil, err
	}
	ts := time.Now().Format("20060102_150405")

	switch format {
	case "csv":
		b, err := buildCSV(rows)
		if err != nil {
			return "", "", nil, err
		}
		return "text/csv; charset=utf-8", fmt.Sprintf("entries_%s.csv", ts), b, nil
	case "xlsx":
		b, err := buildXLSX(rows)
		if err != nil {
			return "", "", nil, err
		}
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			fmt.Sprintf("entries_%s.xlsx", ts), b, nil
	case "json":
		b, err := json.Marshal(rows)
		if err != nil {
			return "", "", nil, err
		}
		return "application/json", fmt.Sprintf("entries_%s.json", ts), b, nil
	}
	return "", "", nil, fmt.Errorf("unsupported format %q", format)
}

func cellString(m *orderedmap.OrderedMap, col string) string {
	v, ok := m.Get(col)
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func buildCSV(rows []*orderedmap.OrderedMap) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, err
	}
	for _, m := range rows {
		rec := make([]string, 0, len(exportColumns))
		for _, col := range exportColumns {
			rec = append(rec, cellString(m, col))
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

func buildXLSX(rows []*orderedmap.OrderedMap) ([]byte, error) {
	f := excelize.NewFile()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})

	sheet := f.GetSheetName(0)
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, err
	}

	header := make([]interface{}, 0, len(exportColumns))
	for _, col := range exportColumns {
		header = append(header, excelize.Cell{Value: col, StyleID: headerStyle})
	}
	_ = sw.SetRow("A1", header)

	rowNum := 2
	for _, m := range rows {
		values := make([]interface{}, 0, len(exportColumns))
		for _, col := range exportColumns {
			values = append(values, cellString(m, col))
		}
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		_ = sw.SetRow(cell, values)
		rowNum++
	}

	if err := sw.Flush(); err != nil {
		return nil, err
	}

	out := &bytes.Buffer{}
	if err := f.Write(out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
