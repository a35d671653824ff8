package repo

import (
	"context"

	"github.com/folioworks/portfolio-api/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	// Create inserts the project together with its Images and Technologies
	// associations in one transaction.
	Create(ctx context.Context, p *model.Project) error
	GetOwned(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	ListPublic(ctx context.Context, offset, limit int) ([]model.Project, int64, error)
	// UpdateAggregate persists field changes, appends newImages and, when
	// technologies is non-nil, replaces the whole technology set, all in one
	// transaction.
	UpdateAggregate(ctx context.Context, p *model.Project, newImages []model.Image, technologies *[]string) error
	Delete(ctx context.Context, p *model.Project) error
	DistinctTechnologyNames(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func withAggregate(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("images.created_at ASC")
		}).
		Preload("Technologies")
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) GetOwned(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error) {
	var p model.Project
	err := withAggregate(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", projectID, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	var projects []model.Project
	err := withAggregate(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *projectRepo) ListPublic(ctx context.Context, offset, limit int) ([]model.Project, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Project{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []model.Project
	err := withAggregate(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&projects).Error
	return projects, total, err
}

func (r *projectRepo) UpdateAggregate(ctx context.Context, p *model.Project, newImages []model.Image, technologies *[]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Select forces zero values through, so a cleared link becomes NULL
		if err := tx.Model(&model.Project{ID: p.ID}).
			Select("name", "description", "link").
			Updates(p).Error; err != nil {
			return err
		}

		if technologies != nil {
			if err := tx.Where("project_id = ?", p.ID).Delete(&model.Technology{}).Error; err != nil {
				return err
			}
			if len(*technologies) > 0 {
				techs := make([]model.Technology, 0, len(*technologies))
				for _, name := range *technologies {
					techs = append(techs, model.Technology{Name: name, ProjectID: p.ID})
				}
				if err := tx.Create(&techs).Error; err != nil {
					return err
				}
			}
		}

		if len(newImages) > 0 {
			if err := tx.Create(&newImages).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *projectRepo) Delete(ctx context.Context, p *model.Project) error {
	// Cascade removes the project's images and technologies
	return r.db.WithContext(ctx).Delete(p).Error
}

func (r *projectRepo) DistinctTechnologyNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&model.Technology{}).
		Distinct("technologies.name").
		Joins("JOIN projects ON projects.id = technologies.project_id").
		Where("projects.user_id = ?", userID).
		Order("technologies.name ASC").
		Pluck("technologies.name", &names).Error
	return names, err
}
