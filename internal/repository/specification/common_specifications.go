package specification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gymbro-be/internal/entity"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

func (s ByID) Matches(record any) bool {
	switch r := record.(type) {
	case *entity.UserProfile:
		return r.Id == s.ID
	case *entity.Meal:
		return r.Id == s.ID
	case *entity.Workout:
		return r.Id == s.ID
	}
	return false
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// Less supports occurred_at and created_at; other fields keep store order.
func (s OrderBy) Less(a, b any) bool {
	ta, okA := sortKey(a, s.Field)
	tb, okB := sortKey(b, s.Field)
	if !okA || !okB {
		return false
	}
	if s.Desc {
		return ta.After(tb)
	}
	return ta.Before(tb)
}

func sortKey(record any, field string) (time.Time, bool) {
	switch r := record.(type) {
	case *entity.Meal:
		if field == "occurred_at" {
			return r.OccurredAt, true
		}
		if field == "created_at" {
			return r.CreatedAt, true
		}
	case *entity.Workout:
		if field == "occurred_at" {
			return r.OccurredAt, true
		}
		if field == "created_at" {
			return r.CreatedAt, true
		}
	case *entity.UserProfile:
		if field == "created_at" {
			return r.CreatedAt, true
		}
	}
	return time.Time{}, false
}
