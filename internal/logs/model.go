package logs

import (
	"time"

	"gorm.io/datatypes"
)

type SystemLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     string         `gorm:"size:20;not null" json:"level"`
	Service   string         `gorm:"size:100;not null" json:"service"`
	UserID    *uint          `gorm:"index" json:"user_id,omitempty"`
	Action    string         `gorm:"size:255;not null" json:"action"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (SystemLog) TableName() string {
	return "logs"
}
