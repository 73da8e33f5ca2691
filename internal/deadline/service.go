package deadline

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stage-entry-api/internal/entry"
)

type DeadlineService struct {
	DB *gorm.DB
}

// StageDeadline is one stage's deadline as shown to participants.
type StageDeadline struct {
	Stage         entry.Stage `json:"stage"`
	Deadline      string      `json:"deadline"`
	Editable      bool        `json:"editable"`
	DaysRemaining int         `json:"days_remaining"`
	Urgency       string      `json:"urgency"`
}

// Config reads the whole settings table into a key-value map.
func (s *DeadlineService) Config() (map[string]string, error) {
	var rows []Setting
	if err := s.DB.Find(&rows).Error; err != nil {
		return nil, err
	}
	cfg := make(map[string]string, len(rows))
	for _, r := range rows {
		cfg[r.Key] = r.Value
	}
	return cfg, nil
}

// StageEditable reports whether one stage is still open at now.
func (s *DeadlineService) StageEditable(stage entry.Stage, now time.Time) (bool, error) {
	cfg, err := s.Config()
	if err != nil {
		return false, err
	}
	return IsEditable(Key(stage), cfg, now), nil
}

// Overview returns every stage's deadline state for dashboard display.
// Stages without a configured deadline report editable with no urgency.
func (s *DeadlineService) Overview(now time.Time) ([]StageDeadline, error) {
	cfg, err := s.Config()
	if err != nil {
		return nil, err
	}
	out := make([]StageDeadline, 0, len(entry.AllStages))
	for _, stage := range entry.AllStages {
		raw := cfg[Key(stage)]
		sd := StageDeadline{
			Stage:    stage,
			Deadline: raw,
			Editable: IsEditable(Key(stage), cfg, now),
		}
		if d, ok := parseDeadline(raw); ok {
			sd.DaysRemaining = DaysRemaining(d, now)
			sd.Urgency = UrgencyFor(d, now)
		}
		out = append(out, sd)
	}
	return out, nil
}

// SetDeadline upserts one stage deadline. An empty value clears the deadline.
func (s *DeadlineService) SetDeadline(key, value string) error {
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Setting{Key: key, Value: value}).Error
}
