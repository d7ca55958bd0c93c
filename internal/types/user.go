package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string         `gorm:"not null;column:password" json:"-"`
	FullName  string         `gorm:"not null;column:full_name" json:"full_name"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FitnessProfile *FitnessProfile `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"fitness_profile,omitempty"`
}

func (User) TableName() string { return "user" }
