package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartmodel "pttech-backend/internal/domains/cart/model"
	"pttech-backend/internal/domains/cart/service"
	productmodel "pttech-backend/internal/domains/product/model"
	"pttech-backend/internal/shared/middleware"
	"pttech-backend/internal/shared/response"
)

// Guest carts are keyed by this header when no user is logged in.
const sessionHeader = "X-Session-ID"

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	carts := rg.Group("/cart", optionalAuth)
	carts.GET("", h.Get)
	carts.POST("/items", h.AddItem)
	carts.PATCH("/items/:itemId/quantity", h.ChangeQuantity)
	carts.PATCH("/items/:itemId/variant", h.ChangeVariant)
	carts.DELETE("/items/:itemId", h.RemoveItem)
	carts.POST("/merge", h.Merge)
	carts.DELETE("", h.Clear)
}

// resolve finds the caller's cart: the user's when authenticated, the
// session's otherwise.
func (h *Handler) resolve(c *gin.Context) (*cartmodel.Cart, bool) {
	if userID, ok := middleware.UserID(c); ok {
		cart, err := h.service.GetForUser(c.Request.Context(), userID)
		if err != nil {
			h.writeError(c, err)
			return nil, false
		}
		return cart, true
	}

	sessionID := c.GetHeader(sessionHeader)
	if sessionID == "" {
		response.BadRequest(c, "missing session id")
		return nil, false
	}
	cart, err := h.service.GetForSession(c.Request.Context(), sessionID)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return cart, true
}

func (h *Handler) Get(c *gin.Context) {
	cart, ok := h.resolve(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, cart)
}

func (h *Handler) AddItem(c *gin.Context) {
	cart, ok := h.resolve(c)
	if !ok {
		return
	}

	var req cartmodel.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	updated, err := h.service.AddItem(c.Request.Context(), cart.ID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

func (h *Handler) ChangeQuantity(c *gin.Context) {
	cart, ok := h.resolve(c)
	if !ok {
		return
	}
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	var req cartmodel.ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	updated, err := h.service.ChangeQuantity(c.Request.Context(), cart.ID, itemID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

func (h *Handler) ChangeVariant(c *gin.Context) {
	cart, ok := h.resolve(c)
	if !ok {
		return
	}
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	var req cartmodel.ChangeVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	updated, err := h.service.ChangeVariant(c.Request.Context(), cart.ID, itemID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

func (h *Handler) RemoveItem(c *gin.Context) {
	cart, ok := h.resolve(c)
	if !ok {
		return
	}
	itemID, ok := h.itemID(c)
	if !ok {
		return
	}

	updated, err := h.service.RemoveItem(c.Request.Context(), cart.ID, itemID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updated)
}

// Merge folds the guest session cart into the authenticated user's cart.
func (h *Handler) Merge(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	sessionID := c.GetHeader(sessionHeader)
	if sessionID == "" {
		response.BadRequest(c, "missing session id")
		return
	}

	cart, err := h.service.MergeGuestCart(c.Request.Context(), sessionID, userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cart)
}

func (h *Handler) Clear(c *gin.Context) {
	cart, ok := h.resolve(c)
	if !ok {
		return
	}
	if err := h.service.Clear(c.Request.Context(), cart.ID); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cleared": true})
}

func (h *Handler) itemID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "invalid cart item id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cartmodel.ErrNotFound):
		response.NotFound(c, "cart not found")
	case errors.Is(err, cartmodel.ErrItemNotFound):
		response.NotFound(c, "cart item not found")
	case errors.Is(err, productmodel.ErrNotFound):
		response.NotFound(c, "product not found")
	case errors.Is(err, productmodel.ErrVariantNotFound):
		response.NotFound(c, "product variant not found")
	default:
		response.BadRequest(c, err.Error())
	}
}
