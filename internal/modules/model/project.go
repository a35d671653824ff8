package model

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Link        *string   `gorm:"type:text" json:"link"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Project <-> Image, creation order
	Images []Image `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"images"`

	// Project <-> Technology
	Technologies []Technology `gorm:"constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"technologies"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Project) TableName() string { return "projects" }
