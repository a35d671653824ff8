package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/folioworks/portfolio-api/internal/infra/blob"
	"github.com/folioworks/portfolio-api/internal/modules/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MockProjectRepo is a mock implementation of repo.ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) GetOwned(ctx context.Context, userID, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepo) ListPublic(ctx context.Context, offset, limit int) ([]model.Project, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepo) UpdateAggregate(ctx context.Context, p *model.Project, newImages []model.Image, technologies *[]string) error {
	args := m.Called(ctx, p, newImages, technologies)
	return args.Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) DistinctTechnologyNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockImageRepo is a mock implementation of repo.ImageRepo
type MockImageRepo struct {
	mock.Mock
}

func (m *MockImageRepo) GetWithProject(ctx context.Context, imageID uuid.UUID) (*model.Image, error) {
	args := m.Called(ctx, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *MockImageRepo) Delete(ctx context.Context, img *model.Image) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

// MockImageStore is a mock implementation of ImageStore
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) UploadImage(ctx context.Context, fh *multipart.FileHeader) (*blob.UploadedImage, error) {
	args := m.Called(ctx, fh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blob.UploadedImage), args.Error(1)
}

func (m *MockImageStore) DeleteImage(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newTestProjectService(projects *MockProjectRepo, images *MockImageRepo, store *MockImageStore) ProjectService {
	return NewProjectService(projects, images, store, zap.NewNop())
}

func createTestProject(userID uuid.UUID) *model.Project {
	return &model.Project{
		ID:          uuid.New(),
		Name:        "Demo",
		Description: "Desc",
		UserID:      userID,
	}
}

func TestProjectService_Create(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name        string
		input       CreateProjectInput
		setup       func(*MockProjectRepo, *MockImageStore)
		expectError error
	}{
		{
			name: "successful creation without files",
			input: CreateProjectInput{
				UserID:       userID,
				Name:         "Demo",
				Description:  "Desc",
				Technologies: []string{"Go"},
			},
			setup: func(projects *MockProjectRepo, store *MockImageStore) {
				projects.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
					return p.Name == "Demo" && p.UserID == userID &&
						len(p.Technologies) == 1 && p.Technologies[0].Name == "Go"
				})).Return(nil)
				projects.On("GetOwned", mock.Anything, userID, mock.Anything).
					Return(createTestProject(userID), nil)
			},
		},
		{
			name: "duplicate technologies collapse to one row",
			input: CreateProjectInput{
				UserID:       userID,
				Name:         "Demo",
				Description:  "Desc",
				Technologies: []string{"Go", " Go ", "Go", "Rust"},
			},
			setup: func(projects *MockProjectRepo, store *MockImageStore) {
				projects.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
					return len(p.Technologies) == 2 &&
						p.Technologies[0].Name == "Go" && p.Technologies[1].Name == "Rust"
				})).Return(nil)
				projects.On("GetOwned", mock.Anything, userID, mock.Anything).
					Return(createTestProject(userID), nil)
			},
		},
		{
			name: "empty name is rejected",
			input: CreateProjectInput{
				UserID:      userID,
				Name:        "   ",
				Description: "Desc",
			},
			setup:       func(projects *MockProjectRepo, store *MockImageStore) {},
			expectError: ErrValidation,
		},
		{
			name: "upload failure aborts before any row is written",
			input: CreateProjectInput{
				UserID:      userID,
				Name:        "Demo",
				Description: "Desc",
				Images:      []*multipart.FileHeader{{Filename: "shot.png"}},
			},
			setup: func(projects *MockProjectRepo, store *MockImageStore) {
				store.On("UploadImage", mock.Anything, mock.Anything).
					Return(nil, errors.New("bucket unreachable"))
			},
			expectError: errors.New("bucket unreachable"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects := &MockProjectRepo{}
			images := &MockImageRepo{}
			store := &MockImageStore{}
			tt.setup(projects, store)

			svc := newTestProjectService(projects, images, store)
			result, err := svc.Create(context.Background(), tt.input)

			if tt.expectError != nil {
				assert.Error(t, err)
				assert.Nil(t, result)
				if errors.Is(tt.expectError, ErrValidation) {
					assert.ErrorIs(t, err, ErrValidation)
				}
				projects.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
			}
			projects.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestProjectService_Create_UploadsBeforeInsert(t *testing.T) {
	userID := uuid.New()
	projects := &MockProjectRepo{}
	images := &MockImageRepo{}
	store := &MockImageStore{}

	store.On("UploadImage", mock.Anything, mock.Anything).
		Return(&blob.UploadedImage{URL: "https://cdn.example.com/a.png", Key: "k/a.png"}, nil).Twice()
	projects.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Project) bool {
		return len(p.Images) == 2 && p.Images[0].PublicID == "k/a.png"
	})).Return(nil)
	projects.On("GetOwned", mock.Anything, userID, mock.Anything).
		Return(createTestProject(userID), nil)

	svc := newTestProjectService(projects, images, store)
	_, err := svc.Create(context.Background(), CreateProjectInput{
		UserID:      userID,
		Name:        "Demo",
		Description: "Desc",
		Images: []*multipart.FileHeader{
			{Filename: "a.png"}, {Filename: "b.png"},
		},
	})

	assert.NoError(t, err)
	projects.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestProjectService_Get(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()

	t.Run("missing project maps to not found", func(t *testing.T) {
		projects := &MockProjectRepo{}
		projects.On("GetOwned", mock.Anything, userID, projectID).
			Return(nil, gorm.ErrRecordNotFound)

		svc := newTestProjectService(projects, &MockImageRepo{}, &MockImageStore{})
		result, err := svc.Get(context.Background(), userID, projectID)

		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, result)
	})

	t.Run("owned project is returned", func(t *testing.T) {
		projects := &MockProjectRepo{}
		p := createTestProject(userID)
		projects.On("GetOwned", mock.Anything, userID, p.ID).Return(p, nil)

		svc := newTestProjectService(projects, &MockImageRepo{}, &MockImageStore{})
		result, err := svc.Get(context.Background(), userID, p.ID)

		assert.NoError(t, err)
		assert.Equal(t, p.ID, result.ID)
	})
}

func TestProjectService_Update(t *testing.T) {
	userID := uuid.New()
	link := "https://demo.example.com"

	newString := func(s string) *string { return &s }
	newSlice := func(s ...string) *[]string { return &s }

	tests := []struct {
		name    string
		input   UpdateProjectInput
		current *model.Project
		check   func(t *testing.T, p *model.Project, technologies *[]string)
	}{
		{
			name: "absent fields keep current values",
			input: UpdateProjectInput{
				UserID: userID,
			},
			current: &model.Project{Name: "Old", Description: "OldDesc", Link: &link, UserID: userID},
			check: func(t *testing.T, p *model.Project, technologies *[]string) {
				assert.Equal(t, "Old", p.Name)
				assert.Equal(t, &link, p.Link)
				assert.Nil(t, technologies)
			},
		},
		{
			name: "empty link clears the column",
			input: UpdateProjectInput{
				UserID: userID,
				Link:   newString(""),
			},
			current: &model.Project{Name: "Old", Description: "OldDesc", Link: &link, UserID: userID},
			check: func(t *testing.T, p *model.Project, technologies *[]string) {
				assert.Nil(t, p.Link)
			},
		},
		{
			name: "blank name keeps the current one",
			input: UpdateProjectInput{
				UserID: userID,
				Name:   newString("  "),
			},
			current: &model.Project{Name: "Old", Description: "OldDesc", UserID: userID},
			check: func(t *testing.T, p *model.Project, technologies *[]string) {
				assert.Equal(t, "Old", p.Name)
			},
		},
		{
			name: "empty technology list replaces the whole set",
			input: UpdateProjectInput{
				UserID:       userID,
				Technologies: newSlice(),
			},
			current: &model.Project{Name: "Old", Description: "OldDesc", UserID: userID},
			check: func(t *testing.T, p *model.Project, technologies *[]string) {
				assert.NotNil(t, technologies)
				assert.Empty(t, *technologies)
			},
		},
		{
			name: "provided fields overwrite",
			input: UpdateProjectInput{
				UserID:       userID,
				Name:         newString("New"),
				Description:  newString("NewDesc"),
				Technologies: newSlice("Go", "Go", "Postgres"),
			},
			current: &model.Project{Name: "Old", Description: "OldDesc", UserID: userID},
			check: func(t *testing.T, p *model.Project, technologies *[]string) {
				assert.Equal(t, "New", p.Name)
				assert.Equal(t, "NewDesc", p.Description)
				assert.Equal(t, []string{"Go", "Postgres"}, *technologies)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projectID := uuid.New()
			tt.current.ID = projectID
			tt.input.ProjectID = projectID

			projects := &MockProjectRepo{}
			projects.On("GetOwned", mock.Anything, userID, projectID).Return(tt.current, nil)

			var gotProject *model.Project
			var gotTechnologies *[]string
			projects.On("UpdateAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					gotProject = args.Get(1).(*model.Project)
					if args.Get(3) != nil {
						gotTechnologies = args.Get(3).(*[]string)
					}
				}).Return(nil)

			svc := newTestProjectService(projects, &MockImageRepo{}, &MockImageStore{})
			_, err := svc.Update(context.Background(), tt.input)

			assert.NoError(t, err)
			tt.check(t, gotProject, gotTechnologies)
			projects.AssertExpectations(t)
		})
	}
}

func TestProjectService_Update_NotFound(t *testing.T) {
	userID := uuid.New()
	projectID := uuid.New()

	projects := &MockProjectRepo{}
	projects.On("GetOwned", mock.Anything, userID, projectID).
		Return(nil, gorm.ErrRecordNotFound)

	svc := newTestProjectService(projects, &MockImageRepo{}, &MockImageStore{})
	_, err := svc.Update(context.Background(), UpdateProjectInput{UserID: userID, ProjectID: projectID})

	assert.ErrorIs(t, err, ErrNotFound)
	projects.AssertNotCalled(t, "UpdateAggregate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProjectService_Delete(t *testing.T) {
	userID := uuid.New()

	t.Run("blobs are removed before the row", func(t *testing.T) {
		p := createTestProject(userID)
		p.Images = []model.Image{
			{ID: uuid.New(), PublicID: "k/a.png", ProjectID: p.ID},
			{ID: uuid.New(), PublicID: "k/b.png", ProjectID: p.ID},
		}

		projects := &MockProjectRepo{}
		store := &MockImageStore{}
		projects.On("GetOwned", mock.Anything, userID, p.ID).Return(p, nil)
		store.On("DeleteImage", mock.Anything, "k/a.png").Return(nil)
		store.On("DeleteImage", mock.Anything, "k/b.png").Return(nil)
		projects.On("Delete", mock.Anything, p).Return(nil)

		svc := newTestProjectService(projects, &MockImageRepo{}, store)
		err := svc.Delete(context.Background(), userID, p.ID)

		assert.NoError(t, err)
		projects.AssertExpectations(t)
		store.AssertExpectations(t)
	})

	t.Run("blob failure keeps the row", func(t *testing.T) {
		p := createTestProject(userID)
		p.Images = []model.Image{{ID: uuid.New(), PublicID: "k/a.png", ProjectID: p.ID}}

		projects := &MockProjectRepo{}
		store := &MockImageStore{}
		projects.On("GetOwned", mock.Anything, userID, p.ID).Return(p, nil)
		store.On("DeleteImage", mock.Anything, "k/a.png").Return(errors.New("bucket unreachable"))

		svc := newTestProjectService(projects, &MockImageRepo{}, store)
		err := svc.Delete(context.Background(), userID, p.ID)

		assert.Error(t, err)
		projects.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unowned project is not found", func(t *testing.T) {
		projectID := uuid.New()
		projects := &MockProjectRepo{}
		projects.On("GetOwned", mock.Anything, userID, projectID).
			Return(nil, gorm.ErrRecordNotFound)

		svc := newTestProjectService(projects, &MockImageRepo{}, &MockImageStore{})
		err := svc.Delete(context.Background(), userID, projectID)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProjectService_DeleteImage(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name        string
		setup       func(*MockImageRepo, *MockImageStore) uuid.UUID
		expectError error
	}{
		{
			name: "owner deletes blob then row",
			setup: func(images *MockImageRepo, store *MockImageStore) uuid.UUID {
				img := &model.Image{
					ID:       uuid.New(),
					PublicID: "k/a.png",
					Project:  &model.Project{UserID: userID},
				}
				images.On("GetWithProject", mock.Anything, img.ID).Return(img, nil)
				store.On("DeleteImage", mock.Anything, "k/a.png").Return(nil)
				images.On("Delete", mock.Anything, img).Return(nil)
				return img.ID
			},
		},
		{
			name: "someone else's image is not found",
			setup: func(images *MockImageRepo, store *MockImageStore) uuid.UUID {
				img := &model.Image{
					ID:       uuid.New(),
					PublicID: "k/a.png",
					Project:  &model.Project{UserID: uuid.New()},
				}
				images.On("GetWithProject", mock.Anything, img.ID).Return(img, nil)
				return img.ID
			},
			expectError: ErrNotFound,
		},
		{
			name: "missing image is not found",
			setup: func(images *MockImageRepo, store *MockImageStore) uuid.UUID {
				id := uuid.New()
				images.On("GetWithProject", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)
				return id
			},
			expectError: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := &MockImageRepo{}
			store := &MockImageStore{}
			imageID := tt.setup(images, store)

			svc := newTestProjectService(&MockProjectRepo{}, images, store)
			err := svc.DeleteImage(context.Background(), userID, imageID)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			images.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestProjectService_ListPublic(t *testing.T) {
	projects := &MockProjectRepo{}
	projects.On("ListPublic", mock.Anything, 5, 5).
		Return([]model.Project{{Name: "p6"}}, int64(12), nil)

	svc := newTestProjectService(projects, &MockImageRepo{}, &MockImageStore{})
	out, err := svc.ListPublic(context.Background(), 2, 5)

	assert.NoError(t, err)
	assert.Len(t, out.Projects, 1)
	assert.Equal(t, 2, out.Pagination.CurrentPage)
	assert.Equal(t, 3, out.Pagination.TotalPages)
	assert.Equal(t, int64(12), out.Pagination.TotalCount)
	assert.True(t, out.Pagination.HasNextPage)
	assert.True(t, out.Pagination.HasPrevPage)
	projects.AssertExpectations(t)
}
