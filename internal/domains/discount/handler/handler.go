package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pttech-backend/internal/domains/discount/model"
	"pttech-backend/internal/domains/discount/service"
	"pttech-backend/internal/shared/middleware"
	"pttech-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the discount endpoints. Management endpoints are
// admin only; validation and the usable listing need a logged-in user.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth, admin gin.HandlerFunc) {
	codes := rg.Group("/discount-codes")

	codes.GET("/usable", auth, h.ListUsable)
	codes.POST("/validate", auth, h.Validate)

	codes.Use(auth, admin)
	codes.POST("", h.Create)
	codes.GET("", h.List)
	codes.GET("/search", h.Search)
	codes.GET("/export-excel", h.ExportExcel)
	codes.GET("/:id", h.GetByID)
	codes.PUT("/:id", h.Update)
	codes.PATCH("/:id/hide", h.Hide)
	codes.PATCH("/:id/show", h.Show)
	codes.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	d, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, d)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid discount code id")
		return
	}

	var req model.UpdateDiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	d, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid discount code id")
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, d)
}

func (h *Handler) List(c *gin.Context) {
	includeHidden := c.Query("include_hidden") == "true"
	codes, err := h.service.List(c.Request.Context(), includeHidden)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, codes)
}

func (h *Handler) ListUsable(c *gin.Context) {
	codes, err := h.service.ListUsable(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, codes)
}

func (h *Handler) Search(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		response.BadRequest(c, "missing search keyword")
		return
	}

	codes, err := h.service.Search(c.Request.Context(), keyword)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, codes)
}

func (h *Handler) Hide(c *gin.Context) {
	h.setActive(c, h.service.Hide)
}

func (h *Handler) Show(c *gin.Context) {
	h.setActive(c, h.service.Show)
}

func (h *Handler) setActive(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid discount code id")
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid discount code id")
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Validate answers whether the caller could use the code right now,
// without consuming it.
func (h *Handler) Validate(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	subtotal := decimal.NewFromFloat(req.Subtotal)
	_, amount, err := h.service.Quote(c.Request.Context(), req.Code, userID, nil, subtotal)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			response.NotFound(c, "discount code not found")
			return
		}
		if reason, ok := usabilityReason(err); ok {
			response.Success(c, http.StatusOK, model.ValidationResult{Valid: false, Reason: reason})
			return
		}
		response.InternalError(c, "failed to validate discount code")
		return
	}

	response.Success(c, http.StatusOK, model.ValidationResult{
		Valid:          true,
		DiscountAmount: amount.String(),
	})
}

func (h *Handler) ExportExcel(c *gin.Context) {
	data, err := h.service.ExportExcel(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to export discount codes")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="discount-codes.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func usabilityReason(err error) (string, bool) {
	switch {
	case errors.Is(err, model.ErrInactive):
		return "code is not active", true
	case errors.Is(err, model.ErrNotStarted):
		return "code is not yet valid", true
	case errors.Is(err, model.ErrExpired):
		return "code has expired", true
	case errors.Is(err, model.ErrExhausted):
		return "code usage limit reached", true
	case errors.Is(err, model.ErrAlreadyUsed):
		return "code already used by this account", true
	case errors.Is(err, model.ErrScopeMismatch):
		return "code does not apply to these items", true
	case errors.Is(err, model.ErrBelowMinimum):
		return "order is below the minimum purchase amount", true
	}
	return "", false
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		response.NotFound(c, "discount code not found")
	case errors.Is(err, model.ErrDuplicateCode):
		response.Conflict(c, "discount code already exists")
	case errors.Is(err, model.ErrExhausted), errors.Is(err, model.ErrAlreadyUsed):
		response.Conflict(c, err.Error())
	default:
		response.BadRequest(c, err.Error())
	}
}
