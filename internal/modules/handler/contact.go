package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folioworks/portfolio-api/internal/modules/serializer"
	"github.com/folioworks/portfolio-api/internal/modules/service"
)

type ContactHandler struct {
	svc service.ContactService
}

func NewContactHandler(s service.ContactService) *ContactHandler {
	return &ContactHandler{svc: s}
}

type ContactReq struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// SendContact godoc
//
//	@Summary		Contact form
//	@Description	Queue a contact-form message; the worker delivers the emails
//	@Tags			contact
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.ContactReq	true	"Contact payload"
//	@Success		200	{object}	serializer.Response
//	@Failure		400	{object}	serializer.Response
//	@Failure		429	{object}	serializer.Response
//	@Router			/contact [post]
func (h *ContactHandler) SendContact(c *gin.Context) {
	req := ContactReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("name, email and message are required", err))
		return
	}

	err := h.svc.Submit(c.Request.Context(), service.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), nil))
			return
		}
		c.JSON(http.StatusInternalServerError, serializer.Err("failed to send message", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Message: "message sent successfully"})
}
