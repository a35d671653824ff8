package repo

import (
	"context"

	"github.com/folioworks/portfolio-api/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImageRepo interface {
	// GetWithProject loads the image together with its parent project so the
	// caller can verify ownership.
	GetWithProject(ctx context.Context, imageID uuid.UUID) (*model.Image, error)
	Delete(ctx context.Context, img *model.Image) error
}

type imageRepo struct{ db *gorm.DB }

func NewImageRepo(db *gorm.DB) ImageRepo {
	return &imageRepo{db: db}
}

func (r *imageRepo) GetWithProject(ctx context.Context, imageID uuid.UUID) (*model.Image, error) {
	var img model.Image
	err := r.db.WithContext(ctx).
		Preload("Project").
		Where("id = ?", imageID).
		First(&img).Error
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *imageRepo) Delete(ctx context.Context, img *model.Image) error {
	return r.db.WithContext(ctx).Delete(img).Error
}
