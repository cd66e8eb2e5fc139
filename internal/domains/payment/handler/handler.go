package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ordermodel "pttech-backend/internal/domains/order/model"
	"pttech-backend/internal/domains/payment/gateway/vnpay"
	"pttech-backend/internal/domains/payment/model"
	"pttech-backend/internal/domains/payment/service"
	"pttech-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth, admin gin.HandlerFunc) {
	orders := rg.Group("/orders")
	orders.POST("/:id/vnpay", auth, h.CreatePaymentURL)

	// Both callback entry points verify the signature; neither requires a
	// session (the gateway is the caller).
	orders.GET("/vnpay/return", h.Return)
	orders.GET("/vnpay/ipn", h.IPN)
	orders.POST("/vnpay/ipn", h.IPN)

	orders.GET("/:id/transactions", auth, admin, h.ListTransactions)
}

func (h *Handler) CreatePaymentURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	url, err := h.service.CreatePaymentURL(c.Request.Context(), id, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, ordermodel.ErrNotFound):
			response.NotFound(c, "order not found")
		case errors.Is(err, ordermodel.ErrAlreadyPaid):
			response.Conflict(c, "order is already paid")
		default:
			response.BadRequest(c, err.Error())
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment_url": url})
}

// Return handles the browser redirect after payment.
func (h *Handler) Return(c *gin.Context) {
	result, err := h.handleCallback(c, model.SourceReturn)
	if err != nil {
		return
	}
	response.Success(c, http.StatusOK, result)
}

// IPN handles the server-to-server notification. The gateway expects the
// RspCode/Message acknowledgement shape.
func (h *Handler) IPN(c *gin.Context) {
	if _, err := h.handleCallback(c, model.SourceIPN); err != nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"RspCode": "00", "Message": "Confirm Success"})
}

func (h *Handler) handleCallback(c *gin.Context, source string) (*model.CallbackResult, error) {
	params, err := vnpay.ParseCallback(c.Request.URL.RawQuery)
	if err != nil {
		h.writeCallbackError(c, source, err)
		return nil, err
	}

	result, err := h.service.HandleCallback(c.Request.Context(), params, source)
	if err != nil {
		h.writeCallbackError(c, source, err)
		return nil, err
	}
	return result, nil
}

func (h *Handler) writeCallbackError(c *gin.Context, source string, err error) {
	if source == model.SourceIPN {
		// IPN error acknowledgements use the gateway's code table.
		switch {
		case errors.Is(err, model.ErrInvalidSignature):
			c.JSON(http.StatusOK, gin.H{"RspCode": "97", "Message": "Invalid Checksum"})
		case errors.Is(err, model.ErrOrderNotFound):
			c.JSON(http.StatusOK, gin.H{"RspCode": "01", "Message": "Order Not Found"})
		case errors.Is(err, model.ErrAmountMismatch):
			c.JSON(http.StatusOK, gin.H{"RspCode": "04", "Message": "Invalid Amount"})
		default:
			c.JSON(http.StatusOK, gin.H{"RspCode": "99", "Message": "Unknown Error"})
		}
		return
	}

	switch {
	case errors.Is(err, model.ErrInvalidSignature):
		response.BadRequest(c, "invalid payment signature")
	case errors.Is(err, model.ErrOrderNotFound):
		response.NotFound(c, "order for transaction not found")
	case errors.Is(err, model.ErrAmountMismatch):
		response.BadRequest(c, "payment amount does not match order")
	default:
		response.BadRequest(c, err.Error())
	}
}

func (h *Handler) ListTransactions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}
	txns, err := h.service.ListTransactions(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, "failed to list transactions")
		return
	}
	response.Success(c, http.StatusOK, txns)
}
