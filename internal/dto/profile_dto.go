package dto

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	Id            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Name          string    `json:"name"`
	Gender        string    `json:"gender"`
	Age           string    `json:"age"`
	Weight        string    `json:"weight"`
	Height        string    `json:"height"`
	Goal          string    `json:"goal"`
	HasPendingLog bool      `json:"has_pending_log"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type UpdateGoalRequest struct {
	Goal string `json:"goal" validate:"required,max=500"`
}
