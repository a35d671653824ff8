package model

import (
	"time"

	"github.com/google/uuid"
)

// Image is one uploaded blob. The row and the stored object live and die
// together: PublicID is the object key used to delete the blob.
type Image struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	PublicID  string    `gorm:"type:text;not null" json:"publicId"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Image) TableName() string { return "images" }
