package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pttech-backend/internal/domains/inventory/model"
	"pttech-backend/internal/domains/inventory/service"
	productmodel "pttech-backend/internal/domains/product/model"
	"pttech-backend/internal/shared/middleware"
	"pttech-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the goods-received endpoints. All of them are admin
// operations.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth, admin gin.HandlerFunc) {
	receipts := rg.Group("/inventory/receipts", auth, admin)
	receipts.POST("", h.Create)
	receipts.GET("", h.List)
	receipts.GET("/:id", h.GetByID)
	receipts.POST("/:id/apply", h.Apply)
	receipts.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	receipt, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, receipt)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid receipt id")
		return
	}

	receipt, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, receipt)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter := &model.Filter{
		Supplier: c.Query("supplier"),
		Status:   c.Query("status"),
		Page:     page,
		Limit:    limit,
	}

	receipts, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, receipts, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *Handler) Apply(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid receipt id")
		return
	}

	receipt, err := h.service.Apply(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, receipt)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid receipt id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		response.NotFound(c, "receipt not found")
	case errors.Is(err, productmodel.ErrNotFound):
		response.NotFound(c, "product not found")
	case errors.Is(err, productmodel.ErrVariantNotFound):
		response.NotFound(c, "variant not found")
	case errors.Is(err, model.ErrAlreadyApplied):
		response.Conflict(c, "receipt already applied")
	default:
		response.BadRequest(c, err.Error())
	}
}
