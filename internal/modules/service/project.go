package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/folioworks/portfolio-api/internal/infra/blob"
	"github.com/folioworks/portfolio-api/internal/modules/model"
	"github.com/folioworks/portfolio-api/internal/modules/repo"
	"github.com/folioworks/portfolio-api/internal/pkg/paging"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// ImageStore is the slice of blob storage the project service needs; tests
// substitute an in-memory fake.
type ImageStore interface {
	UploadImage(ctx context.Context, fh *multipart.FileHeader) (*blob.UploadedImage, error)
	DeleteImage(ctx context.Context, key string) error
}

type CreateProjectInput struct {
	UserID       uuid.UUID
	Name         string
	Description  string
	Link         *string
	Technologies []string
	Images       []*multipart.FileHeader
}

type UpdateProjectInput struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID

	// nil means "field absent, keep current value". A non-nil pointer to an
	// empty string clears the link; an empty non-nil technology list clears
	// the whole set.
	Name         *string
	Description  *string
	Link         *string
	Technologies *[]string

	NewImages []*multipart.FileHeader
}

type PublicListOutput struct {
	Projects   []model.Project
	Pagination paging.Meta
}

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*model.Project, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.Project, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error
	DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error
	ListTechnologies(ctx context.Context, userID uuid.UUID) ([]string, error)
	ListPublic(ctx context.Context, page, limit int) (*PublicListOutput, error)
}

type projectService struct {
	projects repo.ProjectRepo
	images   repo.ImageRepo
	store    ImageStore
	log      *zap.Logger
}

func NewProjectService(projects repo.ProjectRepo, images repo.ImageRepo, store ImageStore, log *zap.Logger) ProjectService {
	return &projectService{
		projects: projects,
		images:   images,
		store:    store,
		log:      log,
	}
}

func (s *projectService) Create(ctx context.Context, in CreateProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	if name == "" || description == "" {
		return nil, fmt.Errorf("%w: name and description are required", ErrValidation)
	}

	// Blobs go out before any row is written; a failed upload aborts the
	// whole operation and the only possible leftovers are orphaned blobs.
	uploaded, err := s.uploadAll(ctx, in.Images)
	if err != nil {
		return nil, fmt.Errorf("upload images: %w", err)
	}

	project := &model.Project{
		Name:         name,
		Description:  description,
		Link:         normalizeLink(in.Link),
		UserID:       in.UserID,
		Images:       uploaded,
		Technologies: technologyRows(dedupeNames(in.Technologies)),
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return s.projects.GetOwned(ctx, in.UserID, project.ID)
}

func (s *projectService) List(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	return s.projects.ListByUser(ctx, userID)
}

func (s *projectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error) {
	p, err := s.projects.GetOwned(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *projectService) Update(ctx context.Context, in UpdateProjectInput) (*model.Project, error) {
	current, err := s.Get(ctx, in.UserID, in.ProjectID)
	if err != nil {
		return nil, err
	}

	if v := in.Name; v != nil && strings.TrimSpace(*v) != "" {
		current.Name = strings.TrimSpace(*v)
	}
	if v := in.Description; v != nil && strings.TrimSpace(*v) != "" {
		current.Description = strings.TrimSpace(*v)
	}
	// Link tri-state: absent keeps the current value, provided-but-empty
	// clears it.
	if in.Link != nil {
		current.Link = normalizeLink(in.Link)
	}

	uploaded, err := s.uploadAll(ctx, in.NewImages)
	if err != nil {
		return nil, fmt.Errorf("upload images: %w", err)
	}
	for i := range uploaded {
		uploaded[i].ProjectID = current.ID
	}

	var technologies *[]string
	if in.Technologies != nil {
		names := dedupeNames(*in.Technologies)
		technologies = &names
	}

	if err := s.projects.UpdateAggregate(ctx, current, uploaded, technologies); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	return s.projects.GetOwned(ctx, in.UserID, in.ProjectID)
}

func (s *projectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	p, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return err
	}

	// All blob deletions are attempted together and awaited before the row
	// goes away; a failed fan-out fails the operation even though some blobs
	// may already be gone.
	g, gctx := errgroup.WithContext(ctx)
	for _, img := range p.Images {
		key := img.PublicID
		g.Go(func() error {
			return s.store.DeleteImage(gctx, key)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("delete image blobs: %w", err)
	}

	return s.projects.Delete(ctx, p)
}

func (s *projectService) DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error {
	img, err := s.images.GetWithProject(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if img.Project == nil || img.Project.UserID != userID {
		return ErrNotFound
	}

	if err := s.store.DeleteImage(ctx, img.PublicID); err != nil {
		return fmt.Errorf("delete image blob: %w", err)
	}

	return s.images.Delete(ctx, img)
}

func (s *projectService) ListTechnologies(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.projects.DistinctTechnologyNames(ctx, userID)
}

func (s *projectService) ListPublic(ctx context.Context, page, limit int) (*PublicListOutput, error) {
	projects, total, err := s.projects.ListPublic(ctx, paging.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	return &PublicListOutput{
		Projects:   projects,
		Pagination: paging.NewMeta(page, limit, total),
	}, nil
}

// uploadAll pushes every file to blob storage concurrently. All uploads must
// succeed; the first failure cancels the rest.
func (s *projectService) uploadAll(ctx context.Context, files []*multipart.FileHeader) ([]model.Image, error) {
	if len(files) == 0 {
		return nil, nil
	}

	images := make([]model.Image, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			meta, err := s.store.UploadImage(gctx, fh)
			if err != nil {
				return fmt.Errorf("upload %s: %w", fh.Filename, err)
			}
			images[i] = model.Image{URL: meta.URL, PublicID: meta.Key}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// dedupeNames trims and drops empty or repeated technology names, keeping
// first-occurrence order. Matching is case-sensitive.
func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func technologyRows(names []string) []model.Technology {
	rows := make([]model.Technology, 0, len(names))
	for _, n := range names {
		rows = append(rows, model.Technology{Name: n})
	}
	return rows
}

// normalizeLink maps empty strings to NULL so the column never stores "".
func normalizeLink(link *string) *string {
	if link == nil {
		return nil
	}
	v := strings.TrimSpace(*link)
	if v == "" {
		return nil
	}
	return &v
}
