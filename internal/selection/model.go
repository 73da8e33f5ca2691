package selection

import "time"

// Selection is one admin's evaluation of an entry. History is retained; the
// most recent row is the authoritative one for display.
type Selection struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID   uint      `gorm:"not null;index" json:"entry_id"`
	AdminID   uint      `gorm:"not null" json:"admin_id"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	Comment   string    `gorm:"type:text" json:"comment"`
	Status    string    `gorm:"size:20" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Selection) TableName() string { return "selections" }
