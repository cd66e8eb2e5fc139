package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"pttech-backend/internal/domains/user/model"
	"pttech-backend/internal/domains/user/service"
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
	users := rg.Group("/users")
	users.POST("/register", h.Register)
	users.POST("/login", h.Login)
	users.POST("/refresh", h.Refresh)
	users.GET("/verify", h.VerifyEmail)

	users.GET("/me", auth, h.GetProfile)
	users.PUT("/me", auth, h.UpdateProfile)
	users.POST("/me/password", auth, h.ChangePassword)

	usersAdmin := users.Group("", auth, admin)
	usersAdmin.GET("", h.List)
	usersAdmin.PATCH("/:id/block", h.Block)
	usersAdmin.PATCH("/:id/unblock", h.Unblock)
	usersAdmin.DELETE("/:id", h.Delete)
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	u, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	u, tokens, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u, "tokens": tokens})
}

func (h *Handler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tokens)
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	if err := h.service.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true})
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	u, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	filter := &model.Filter{
		Keyword: c.Query("q"),
		Role:    c.Query("role"),
		Page:    page,
		Limit:   limit,
	}

	users, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, users, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *Handler) Block(c *gin.Context) {
	h.setBlocked(c, h.service.Block)
}

func (h *Handler) Unblock(c *gin.Context) {
	h.setBlocked(c, h.service.Unblock)
}

func (h *Handler) setBlocked(c *gin.Context, op func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
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
		response.BadRequest(c, "invalid user id")
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
		response.NotFound(c, "user not found")
	case errors.Is(err, model.ErrEmailTaken):
		response.Conflict(c, "email already registered")
	case errors.Is(err, model.ErrInvalidCredentials):
		response.Unauthorized(c, "invalid email or password")
	case errors.Is(err, model.ErrBlocked):
		response.Forbidden(c, "account is blocked")
	case errors.Is(err, model.ErrInvalidToken):
		response.BadRequest(c, "invalid or expired token")
	case errors.Is(err, model.ErrAlreadyVerified):
		response.Conflict(c, "email already verified")
	default:
		response.BadRequest(c, err.Error())
	}
}
