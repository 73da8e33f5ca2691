package logs

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LogService struct {
	DB *gorm.DB
}

// Log writes one system-log row. Metadata (map/struct) is stored as JSON;
// marshal failures just drop the metadata rather than losing the log line.
func (ls *LogService) Log(level, service, action, message string, userID *uint, metadata interface{}) error {
	var meta datatypes.JSON

	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			meta = datatypes.JSON(b)
		}
	}

	newLog := SystemLog{
		Level:     level,
		Service:   service,
		UserID:    userID,
		Action:    action,
		Message:   message,
		Metadata:  meta,
		CreatedAt: time.Now(),
	}

	return ls.DB.Create(&newLog).Error
}
