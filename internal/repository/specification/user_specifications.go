package specification

import (
	"gorm.io/gorm"

	"github.com/google/uuid"

	"gymbro-be/internal/entity"
)

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

func (s ByUsername) Matches(record any) bool {
	p, ok := record.(*entity.UserProfile)
	return ok && p.Username == s.Username
}

type UserOwnedBy struct {
	UserID uuid.UUID
}

func (s UserOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

func (s UserOwnedBy) Matches(record any) bool {
	switch r := record.(type) {
	case *entity.Meal:
		return r.UserId == s.UserID
	case *entity.Workout:
		return r.UserId == s.UserID
	}
	return false
}
