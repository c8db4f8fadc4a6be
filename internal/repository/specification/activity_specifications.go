package specification

import (
	"time"

	"gorm.io/gorm"

	"gymbro-be/internal/entity"
)

// OccurredBetween is the half-open window [From, To). A zero To means no upper bound.
type OccurredBetween struct {
	From time.Time
	To   time.Time
}

func (s OccurredBetween) Apply(db *gorm.DB) *gorm.DB {
	db = db.Where("occurred_at >= ?", s.From)
	if !s.To.IsZero() {
		db = db.Where("occurred_at < ?", s.To)
	}
	return db
}

func (s OccurredBetween) Matches(record any) bool {
	var at time.Time
	switch r := record.(type) {
	case *entity.Meal:
		at = r.OccurredAt
	case *entity.Workout:
		at = r.OccurredAt
	default:
		return false
	}
	if at.Before(s.From) {
		return false
	}
	return s.To.IsZero() || at.Before(s.To)
}

// SinceDays is the window from now-days to now (open ended).
func SinceDays(now time.Time, days int) OccurredBetween {
	return OccurredBetween{From: now.AddDate(0, 0, -days)}
}

// OnDay covers the calendar day of day in its location.
func OnDay(day time.Time) OccurredBetween {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return OccurredBetween{From: start, To: start.AddDate(0, 0, 1)}
}
