package serializer

import (
	"github.com/folioworks/portfolio-api/internal/modules/model"
	"github.com/folioworks/portfolio-api/internal/pkg/paging"
)

type ProjectResponse struct {
	Message string         `json:"message"`
	Project *model.Project `json:"project"`
}

type ProjectListResponse struct {
	Message  string          `json:"message"`
	Projects []model.Project `json:"projects"`
}

type PublicProjectListResponse struct {
	Projects   []model.Project `json:"projects"`
	Pagination paging.Meta     `json:"pagination"`
}

type TechnologyListResponse struct {
	Technologies []string `json:"technologies"`
}

type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *model.User `json:"user"`
}
