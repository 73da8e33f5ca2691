package deadline

import "time"

// Setting is one row of the flat key-value settings table. Deadline keys are
// "<stage>_deadline" with an RFC3339 timestamp value; an absent or empty
// value means the stage has no deadline.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"size:255" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Setting) TableName() string { return "settings" }
