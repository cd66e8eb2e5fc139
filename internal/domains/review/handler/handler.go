package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ordermodel "pttech-backend/internal/domains/order/model"
	"pttech-backend/internal/domains/review/model"
	"pttech-backend/internal/domains/review/service"
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
	reviews := rg.Group("/reviews")
	reviews.GET("/product/:productId", h.ListByProduct)

	reviews.POST("", auth, h.Create)
	reviews.GET("/mine", auth, h.ListMine)
	reviews.PUT("/:id", auth, h.Update)
	reviews.DELETE("/:id", auth, h.Delete)

	reviews.PATCH("/:id/hide", auth, admin, h.Hide)
	reviews.PATCH("/:id/show", auth, admin, h.Show)
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	rev, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, rev)
}

func (h *Handler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	rev, err := h.service.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rev)
}

func (h *Handler) ListByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	includeHidden := c.Query("include_hidden") == "true" && c.GetString(middleware.CtxRole) == "admin"
	reviews, err := h.service.ListByProduct(c.Request.Context(), productID, includeHidden)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reviews)
}

func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	reviews, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reviews)
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
		response.BadRequest(c, "invalid review id")
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid review id")
		return
	}

	isAdmin := c.GetString(middleware.CtxRole) == "admin"
	if err := h.service.Delete(c.Request.Context(), userID, id, isAdmin); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		response.NotFound(c, "review not found")
	case errors.Is(err, ordermodel.ErrNotFound):
		response.NotFound(c, "order not found")
	case errors.Is(err, model.ErrAlreadyReviewed):
		response.Conflict(c, "product already reviewed for this order")
	case errors.Is(err, model.ErrNotOwner):
		response.Forbidden(c, "review belongs to another user")
	case errors.Is(err, model.ErrNotPurchased), errors.Is(err, model.ErrNotDelivered):
		response.BadRequest(c, err.Error())
	default:
		response.BadRequest(c, err.Error())
	}
}
