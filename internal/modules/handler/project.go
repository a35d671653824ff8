package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/folioworks/portfolio-api/internal/middleware"
	"github.com/folioworks/portfolio-api/internal/modules/serializer"
	"github.com/folioworks/portfolio-api/internal/modules/service"
	"github.com/folioworks/portfolio-api/internal/pkg/paging"
)

// maxImagesPerUpload caps one create/update call, not the project total.
const maxImagesPerUpload = 10

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project with optional images and technology tags
//	@Tags			project
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name			formData	string	true	"Project name"
//	@Param			description		formData	string	true	"Project description"
//	@Param			link			formData	string	false	"External link"
//	@Param			technologies	formData	[]string	false	"Technology names (repeatable)"
//	@Param			images			formData	file	false	"Images (up to 10)"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.ProjectResponse
//	@Failure		400	{object}	serializer.Response
//	@Failure		401	{object}	serializer.Response
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid multipart form", err))
		return
	}

	files := form.File["images"]
	if len(files) > maxImagesPerUpload {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("too many images, the limit is 10 per request", nil))
		return
	}

	in := service.CreateProjectInput{
		UserID:       userID,
		Name:         c.PostForm("name"),
		Description:  c.PostForm("description"),
		Link:         formField(form, "link"),
		Technologies: form.Value["technologies"],
		Images:       files,
	}

	project, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.respondErr(c, err, "project not found")
		return
	}

	c.JSON(http.StatusCreated, serializer.ProjectResponse{
		Message: "project created successfully",
		Project: project,
	})
}

// GetProjects godoc
//
//	@Summary		List projects
//	@Description	List the caller's projects, newest first
//	@Tags			project
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.ProjectListResponse
//	@Router			/projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	userID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	projects, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.ProjectListResponse{
		Message:  "projects retrieved successfully",
		Projects: projects,
	})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Description	Get one of the caller's projects by id
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.ProjectResponse
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("project not found"))
		return
	}

	project, err := h.svc.Get(c.Request.Context(), userID, projectID)
	if err != nil {
		h.respondErr(c, err, "project not found")
		return
	}

	c.JSON(http.StatusOK, serializer.ProjectResponse{
		Message: "project retrieved successfully",
		Project: project,
	})
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Partially update a project; new images are appended, a provided technologies field replaces the whole set
//	@Tags			project
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id				path		string	true	"Project ID"	Format(uuid)
//	@Param			name			formData	string	false	"Project name"
//	@Param			description		formData	string	false	"Project description"
//	@Param			link			formData	string	false	"External link, empty value clears it"
//	@Param			technologies	formData	[]string	false	"Technology names, full replace"
//	@Param			images			formData	file	false	"Images to append (up to 10)"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.ProjectResponse
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("project not found"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid multipart form", err))
		return
	}

	files := form.File["images"]
	if len(files) > maxImagesPerUpload {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("too many images, the limit is 10 per request", nil))
		return
	}

	in := service.UpdateProjectInput{
		UserID:      userID,
		ProjectID:   projectID,
		Name:        formField(form, "name"),
		Description: formField(form, "description"),
		Link:        formField(form, "link"),
		NewImages:   files,
	}
	if values, provided := form.Value["technologies"]; provided {
		in.Technologies = &values
	}

	project, err := h.svc.Update(c.Request.Context(), in)
	if err != nil {
		h.respondErr(c, err, "project not found")
		return
	}

	c.JSON(http.StatusOK, serializer.ProjectResponse{
		Message: "project updated successfully",
		Project: project,
	})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project, its stored image blobs and all dependent rows
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("project not found"))
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, projectID); err != nil {
		h.respondErr(c, err, "project not found")
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Message: "project deleted successfully"})
}

// DeleteImage godoc
//
//	@Summary		Delete image
//	@Description	Delete one image blob and row; siblings and the project are untouched
//	@Tags			project
//	@Produce		json
//	@Param			imageId	path	string	true	"Image ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/image/{imageId} [delete]
func (h *ProjectHandler) DeleteImage(c *gin.Context) {
	userID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	imageID, err := uuid.Parse(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("image not found"))
		return
	}

	if err := h.svc.DeleteImage(c.Request.Context(), userID, imageID); err != nil {
		h.respondErr(c, err, "image not found")
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Message: "image deleted successfully"})
}

// GetTechnologies godoc
//
//	@Summary		List technology names
//	@Description	Distinct technology names across the caller's projects, alphabetical
//	@Tags			project
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.TechnologyListResponse
//	@Router			/projects/technologies [get]
func (h *ProjectHandler) GetTechnologies(c *gin.Context) {
	userID, ok := middleware.OwnerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return
	}

	names, err := h.svc.ListTechnologies(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}
	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, serializer.TechnologyListResponse{Technologies: names})
}

// GetPublicProjects godoc
//
//	@Summary		List public projects
//	@Description	Paginated listing of every user's projects, newest first
//	@Tags			project
//	@Produce		json
//	@Param			page	query	integer	false	"Page number, default 1"
//	@Param			limit	query	integer	false	"Page size, default 12, max 100"
//	@Success		200	{object}	serializer.PublicProjectListResponse
//	@Router			/projects/public [get]
func (h *ProjectHandler) GetPublicProjects(c *gin.Context) {
	page := paging.ParsePage(c.Query("page"))
	limit := paging.ParseLimit(c.Query("limit"))

	out, err := h.svc.ListPublic(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.PublicProjectListResponse{
		Projects:   out.Projects,
		Pagination: out.Pagination,
	})
}

// respondErr maps service errors onto the response taxonomy.
func (h *ProjectHandler) respondErr(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), nil))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(notFoundMsg))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}

// formField distinguishes an absent multipart field (nil) from a provided one,
// including provided-but-empty.
func formField(form *multipart.Form, key string) *string {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
