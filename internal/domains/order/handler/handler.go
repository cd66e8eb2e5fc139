package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	discountmodel "pttech-backend/internal/domains/discount/model"
	"pttech-backend/internal/domains/order/model"
	"pttech-backend/internal/domains/order/service"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth, admin gin.HandlerFunc) {
	orders := rg.Group("/orders", auth)

	orders.POST("", h.Create)
	orders.GET("/mine", h.ListMine)
	orders.GET("/mine/spending", h.MonthlySpending)
	orders.GET("/:id", h.GetByID)
	orders.POST("/:id/cancel", h.Cancel)
	orders.POST("/:id/return", h.RequestReturn)

	admins := orders.Group("", admin)
	admins.GET("", h.List)
	admins.GET("/export-excel", h.ExportExcel)
	admins.PATCH("/:id/status", h.UpdateStatus)
	admins.POST("/:id/return/approve", h.ApproveReturn)
	admins.POST("/:id/return/reject", h.RejectReturn)
	admins.POST("/:id/return/complete", h.CompleteReturn)
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	email := c.GetString(middleware.CtxEmail)
	result, err := h.service.Create(c.Request.Context(), userID, email, &req)
	if err != nil {
		if errors.Is(err, model.ErrItemsUnavailable) {
			response.ErrorWithDetails(c, http.StatusConflict, "ITEMS_UNAVAILABLE",
				"some items are out of stock", result.Unavailable)
			return
		}
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	// Owners and admins only.
	userID, _ := middleware.UserID(c)
	if o.UserID != userID && c.GetString(middleware.CtxRole) != "admin" {
		response.NotFound(c, "order not found")
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	filter.UserID = &userID

	orders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	o, err := h.service.UpdateStatus(c.Request.Context(), id, model.Status(req.Status), "")
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)

	var req model.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if o.UserID != userID && c.GetString(middleware.CtxRole) != "admin" {
		response.NotFound(c, "order not found")
		return
	}

	o, err = h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) RequestReturn(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.RequestReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	o, err := h.service.RequestReturn(c.Request.Context(), id, userID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) ApproveReturn(c *gin.Context) {
	h.resolveReturn(c, h.service.ApproveReturn)
}

func (h *Handler) RejectReturn(c *gin.Context) {
	h.resolveReturn(c, h.service.RejectReturn)
}

func (h *Handler) CompleteReturn(c *gin.Context) {
	h.resolveReturn(c, h.service.CompleteReturn)
}

func (h *Handler) resolveReturn(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*model.Order, error)) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	o, err := op(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, o)
}

func (h *Handler) MonthlySpending(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))

	buckets, err := h.service.MonthlySpending(c.Request.Context(), userID, months)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, buckets)
}

func (h *Handler) ExportExcel(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	data, err := h.service.ExportExcel(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, "failed to export orders")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="orders.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func parseFilter(c *gin.Context) (*model.Filter, error) {
	filter := &model.Filter{}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if v := c.Query("status"); v != "" {
		status := model.Status(v)
		filter.Status = &status
	}
	if v := c.Query("payment_status"); v != "" {
		filter.PaymentStatus = &v
	}
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, errors.New("invalid from timestamp")
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, errors.New("invalid to timestamp")
		}
		filter.To = &t
	}
	return filter, nil
}

func (h *Handler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		response.NotFound(c, "order not found")
	case errors.Is(err, model.ErrInvalidTransition):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrNotReturnable), errors.Is(err, model.ErrReturnResolved):
		response.Conflict(c, err.Error())
	case errors.Is(err, productmodel.ErrNotFound), errors.Is(err, productmodel.ErrVariantNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, discountmodel.ErrNotFound):
		response.NotFound(c, "discount code not found")
	case errors.Is(err, discountmodel.ErrExhausted),
		errors.Is(err, discountmodel.ErrAlreadyUsed):
		response.Conflict(c, err.Error())
	case errors.Is(err, discountmodel.ErrInactive),
		errors.Is(err, discountmodel.ErrNotStarted),
		errors.Is(err, discountmodel.ErrExpired),
		errors.Is(err, discountmodel.ErrScopeMismatch),
		errors.Is(err, discountmodel.ErrBelowMinimum):
		response.BadRequest(c, err.Error())
	default:
		response.BadRequest(c, err.Error())
	}
}
