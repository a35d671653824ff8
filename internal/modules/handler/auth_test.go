package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/folioworks/portfolio-api/internal/modules/model"
	"github.com/folioworks/portfolio-api/internal/modules/service"
)

// MockAuthService is a mock implementation of service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, name, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, name, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := sonic.Marshal(payload)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "dev@example.com", Name: "Dev"}

	tests := []struct {
		name           string
		payload        map[string]string
		setup          func(*MockAuthService)
		expectedStatus int
	}{
		{
			name:    "successful registration",
			payload: map[string]string{"email": "dev@example.com", "name": "Dev", "password": "correct horse"},
			setup: func(svc *MockAuthService) {
				svc.On("Register", mock.Anything, "dev@example.com", "Dev", "correct horse").
					Return(user, "a.b.c", nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:    "taken email",
			payload: map[string]string{"email": "dev@example.com", "name": "Dev", "password": "correct horse"},
			setup: func(svc *MockAuthService) {
				svc.On("Register", mock.Anything, "dev@example.com", "Dev", "correct horse").
					Return(nil, "", service.ErrEmailTaken)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "short password rejected by binding",
			payload:        map[string]string{"email": "dev@example.com", "name": "Dev", "password": "short"},
			setup:          func(svc *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed email rejected by binding",
			payload:        map[string]string{"email": "not-an-email", "name": "Dev", "password": "correct horse"},
			setup:          func(svc *MockAuthService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAuthService{}
			tt.setup(mockService)
			h := NewAuthHandler(mockService)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.POST("/auth/register", h.Register)

			w := postJSON(t, router, "/auth/register", tt.payload)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "dev@example.com"}

	tests := []struct {
		name           string
		payload        map[string]string
		setup          func(*MockAuthService)
		expectedStatus int
		expectToken    bool
	}{
		{
			name:    "successful login",
			payload: map[string]string{"email": "dev@example.com", "password": "correct horse"},
			setup: func(svc *MockAuthService) {
				svc.On("Login", mock.Anything, "dev@example.com", "correct horse").
					Return(user, "a.b.c", nil)
			},
			expectedStatus: http.StatusOK,
			expectToken:    true,
		},
		{
			name:    "bad credentials",
			payload: map[string]string{"email": "dev@example.com", "password": "wrong"},
			setup: func(svc *MockAuthService) {
				svc.On("Login", mock.Anything, "dev@example.com", "wrong").
					Return(nil, "", service.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "service error",
			payload: map[string]string{"email": "dev@example.com", "password": "correct horse"},
			setup: func(svc *MockAuthService) {
				svc.On("Login", mock.Anything, "dev@example.com", "correct horse").
					Return(nil, "", errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockAuthService{}
			tt.setup(mockService)
			h := NewAuthHandler(mockService)

			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.POST("/auth/login", h.Login)

			w := postJSON(t, router, "/auth/login", tt.payload)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectToken {
				var resp struct {
					Token string `json:"token"`
				}
				assert.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "a.b.c", resp.Token)
			}
			mockService.AssertExpectations(t)
		})
	}
}
