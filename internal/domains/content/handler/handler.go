package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pttech-backend/internal/domains/content/model"
	"pttech-backend/internal/domains/content/service"
	"pttech-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth, admin gin.HandlerFunc) {
	policies := rg.Group("/policies")
	policies.GET("", h.ListPolicies)
	policies.GET("/slug/:slug", h.GetPolicyBySlug)
	policies.GET("/:id", h.GetPolicy)

	policiesAdmin := policies.Group("", auth, admin)
	policiesAdmin.POST("", h.CreatePolicy)
	policiesAdmin.PUT("/:id", h.UpdatePolicy)
	policiesAdmin.PATCH("/:id/hide", h.HidePolicy)
	policiesAdmin.PATCH("/:id/show", h.ShowPolicy)
	policiesAdmin.DELETE("/:id", h.DeletePolicy)

	banners := rg.Group("/ad-banners")
	banners.GET("", h.ListBanners)

	bannersAdmin := banners.Group("", auth, admin)
	bannersAdmin.POST("", h.CreateBanner)
	bannersAdmin.PUT("/:id", h.UpdateBanner)
	bannersAdmin.PATCH("/:id/hide", h.HideBanner)
	bannersAdmin.PATCH("/:id/show", h.ShowBanner)
	bannersAdmin.DELETE("/:id", h.DeleteBanner)

	contacts := rg.Group("/contacts")
	contacts.GET("", h.ListContacts)
	contacts.GET("/:id", h.GetContact)

	contactsAdmin := contacts.Group("", auth, admin)
	contactsAdmin.POST("", h.CreateContact)
	contactsAdmin.PUT("/:id", h.UpdateContact)
	contactsAdmin.PATCH("/:id/hide", h.HideContact)
	contactsAdmin.PATCH("/:id/show", h.ShowContact)
	contactsAdmin.DELETE("/:id", h.DeleteContact)

	messages := rg.Group("/contact-messages")
	messages.POST("", h.SubmitMessage)

	messagesAdmin := messages.Group("", auth, admin)
	messagesAdmin.GET("", h.ListMessages)
	messagesAdmin.PATCH("/:id/resolve", h.ResolveMessage)
	messagesAdmin.DELETE("/:id", h.DeleteMessage)
}

func (h *Handler) CreatePolicy(c *gin.Context) {
	var req model.CreatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	p, err := h.service.CreatePolicy(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) UpdatePolicy(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req model.UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	p, err := h.service.UpdatePolicy(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) GetPolicy(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	p, err := h.service.GetPolicy(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) GetPolicyBySlug(c *gin.Context) {
	p, err := h.service.GetPolicyBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) ListPolicies(c *gin.Context) {
	policies, err := h.service.ListPolicies(c.Request.Context(), c.Query("include_hidden") == "true")
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, policies)
}

func (h *Handler) HidePolicy(c *gin.Context)   { h.setActive(c, h.service.HidePolicy) }
func (h *Handler) ShowPolicy(c *gin.Context)   { h.setActive(c, h.service.ShowPolicy) }
func (h *Handler) DeletePolicy(c *gin.Context) { h.remove(c, h.service.DeletePolicy) }

func (h *Handler) CreateBanner(c *gin.Context) {
	var req model.CreateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	b, err := h.service.CreateBanner(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) UpdateBanner(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req model.UpdateBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	b, err := h.service.UpdateBanner(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListBanners(c *gin.Context) {
	banners, err := h.service.ListBanners(c.Request.Context(), c.Query("include_hidden") == "true")
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, banners)
}

func (h *Handler) HideBanner(c *gin.Context)   { h.setActive(c, h.service.HideBanner) }
func (h *Handler) ShowBanner(c *gin.Context)   { h.setActive(c, h.service.ShowBanner) }
func (h *Handler) DeleteBanner(c *gin.Context) { h.remove(c, h.service.DeleteBanner) }

func (h *Handler) CreateContact(c *gin.Context) {
	var req model.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	info, err := h.service.CreateContact(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, info)
}

func (h *Handler) UpdateContact(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req model.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	info, err := h.service.UpdateContact(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}

func (h *Handler) GetContact(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	info, err := h.service.GetContact(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, info)
}

func (h *Handler) ListContacts(c *gin.Context) {
	contacts, err := h.service.ListContacts(c.Request.Context(), c.Query("include_hidden") == "true")
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, contacts)
}

func (h *Handler) HideContact(c *gin.Context)   { h.setActive(c, h.service.HideContact) }
func (h *Handler) ShowContact(c *gin.Context)   { h.setActive(c, h.service.ShowContact) }
func (h *Handler) DeleteContact(c *gin.Context) { h.remove(c, h.service.DeleteContact) }

func (h *Handler) SubmitMessage(c *gin.Context) {
	var req model.SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	msg, err := h.service.SubmitMessage(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, msg)
}

func (h *Handler) ListMessages(c *gin.Context) {
	messages, err := h.service.ListMessages(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, messages)
}

func (h *Handler) ResolveMessage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.ResolveMessage(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"resolved": true})
}

func (h *Handler) DeleteMessage(c *gin.Context) { h.remove(c, h.service.DeleteMessage) }

func (h *Handler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) setActive(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) remove(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrPolicyNotFound):
		response.NotFound(c, "policy not found")
	case errors.Is(err, model.ErrBannerNotFound):
		response.NotFound(c, "banner not found")
	case errors.Is(err, model.ErrContactNotFound):
		response.NotFound(c, "contact info not found")
	case errors.Is(err, model.ErrMessageNotFound):
		response.NotFound(c, "contact message not found")
	default:
		response.BadRequest(c, err.Error())
	}
}
