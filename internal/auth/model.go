package auth

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string    `gorm:"size:100;not null;column:firstname" json:"firstname"`
	LastName  string    `gorm:"size:100;not null;column:lastname" json:"lastname"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:20;default:'User'" json:"role"`
	// Seeded participants skip the selection rounds; listings always show them
	// as passing regardless of their entry's stored status.
	Seeded    bool      `gorm:"default:false" json:"seeded"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
