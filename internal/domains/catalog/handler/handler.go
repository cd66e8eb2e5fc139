package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pttech-backend/internal/domains/catalog/model"
	"pttech-backend/internal/domains/catalog/service"
	"pttech-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the brand and category endpoints. Listings and reads
// are public; everything else is admin only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth, admin gin.HandlerFunc) {
	brands := rg.Group("/brands")
	brands.GET("", h.ListBrands)
	brands.GET("/:id", h.GetBrand)

	brandsAdmin := brands.Group("", auth, admin)
	brandsAdmin.POST("", h.CreateBrand)
	brandsAdmin.PUT("/:id", h.UpdateBrand)
	brandsAdmin.PATCH("/:id/hide", h.HideBrand)
	brandsAdmin.PATCH("/:id/show", h.ShowBrand)
	brandsAdmin.DELETE("/:id", h.DeleteBrand)

	categories := rg.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.GET("/:id", h.GetCategory)

	categoriesAdmin := categories.Group("", auth, admin)
	categoriesAdmin.POST("", h.CreateCategory)
	categoriesAdmin.PUT("/:id", h.UpdateCategory)
	categoriesAdmin.PATCH("/:id/hide", h.HideCategory)
	categoriesAdmin.PATCH("/:id/show", h.ShowCategory)
	categoriesAdmin.DELETE("/:id", h.DeleteCategory)
}

func (h *Handler) CreateBrand(c *gin.Context) {
	var req model.CreateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	b, err := h.service.CreateBrand(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) UpdateBrand(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req model.UpdateBrandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	b, err := h.service.UpdateBrand(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) GetBrand(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	b, err := h.service.GetBrand(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) ListBrands(c *gin.Context) {
	brands, err := h.service.ListBrands(c.Request.Context(), c.Query("include_hidden") == "true")
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, brands)
}

func (h *Handler) HideBrand(c *gin.Context)   { h.setActive(c, h.service.HideBrand) }
func (h *Handler) ShowBrand(c *gin.Context)   { h.setActive(c, h.service.ShowBrand) }
func (h *Handler) DeleteBrand(c *gin.Context) { h.remove(c, h.service.DeleteBrand) }

func (h *Handler) CreateCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	cat, err := h.service.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cat)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	cat, err := h.service.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cat)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	cat, err := h.service.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cat)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context(), c.Query("include_hidden") == "true")
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

func (h *Handler) HideCategory(c *gin.Context)   { h.setActive(c, h.service.HideCategory) }
func (h *Handler) ShowCategory(c *gin.Context)   { h.setActive(c, h.service.ShowCategory) }
func (h *Handler) DeleteCategory(c *gin.Context) { h.remove(c, h.service.DeleteCategory) }

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
	case errors.Is(err, model.ErrBrandNotFound):
		response.NotFound(c, "brand not found")
	case errors.Is(err, model.ErrCategoryNotFound):
		response.NotFound(c, "category not found")
	case errors.Is(err, model.ErrParentNotFound):
		response.BadRequest(c, "parent category not found")
	case errors.Is(err, model.ErrDuplicateName):
		response.Conflict(c, "name already exists")
	default:
		response.BadRequest(c, err.Error())
	}
}
