package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type UserProfile struct {
	Id                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username          string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name              string    `gorm:"type:varchar(255)"`
	Gender            string    `gorm:"type:varchar(50)"`
	Age               string    `gorm:"type:varchar(50)"`
	Weight            string    `gorm:"type:varchar(50)"`
	Height            string    `gorm:"type:varchar(50)"`
	Goal              string    `gorm:"type:text"`
	ContinuationToken *string   `gorm:"type:varchar(255)"`
	PendingLogKind    *string   `gorm:"type:varchar(20)"`
	PendingLogPayload datatypes.JSON
	PendingLogAt      *time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
