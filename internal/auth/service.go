package auth

import (
	"errors"
	"strings"

	"stage-entry-api/config"

	"gorm.io/gorm"
)

type AuthService struct {
	DB  *gorm.DB
	CFG *config.Config
}

func (s *AuthService) CreateUser(user User) (*User, error) {
	if user.Role == "" {
		user.Role = "User"
	}

	if err := s.DB.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint") || strings.Contains(err.Error(), "unique constraint") {
			return nil, errors.New("An account with this email already exists. Please log in or use a different address.")
		}
		return nil, err
	}

	return &user, nil
}

func (s *AuthService) GetUser(email string) (*User, error) {
	var user User
	result := s.DB.Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (s *AuthService) GetUserByID(id uint) (*User, error) {
	var user User
	result := s.DB.Where("id = ?", id).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (s *AuthService) GetAllParticipants() ([]User, error) {
	var users []User
	result := s.DB.Where("role = ?", "User").Order("id ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}
