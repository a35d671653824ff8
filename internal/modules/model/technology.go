package model

import (
	"time"

	"github.com/google/uuid"
)

// Technology is a free-text tag scoped to one project. Names are not globally
// unique; duplicates within a project are rejected at the service layer.
type Technology struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null;index" json:"name"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Technology) TableName() string { return "technologies" }
