package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"pttech-backend/internal/domains/product/model"
	"pttech-backend/internal/domains/product/service"
	"pttech-backend/internal/infrastructure/storage"
	"pttech-backend/internal/shared/response"
)

const maxUploadBytes = 20 << 20

type Handler struct {
	service service.ServiceInterface
	storage *storage.MinIOStorage
}

func NewHandler(service service.ServiceInterface, storage *storage.MinIOStorage) *Handler {
	return &Handler{service: service, storage: storage}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth, admin gin.HandlerFunc) {
	products := rg.Group("/products")

	products.GET("", h.List)
	products.GET("/slug/:slug", h.GetBySlug)
	products.GET("/:id", h.GetByID)
	products.GET("/:id/price-history", h.PriceHistory)

	admins := products.Group("", auth, admin)
	admins.POST("", h.Create)
	admins.PUT("/:id", h.Update)
	admins.PATCH("/:id/hide", h.Hide)
	admins.PATCH("/:id/show", h.Show)
	admins.PATCH("/:id/price", h.UpdatePrice)
	admins.PATCH("/stock", h.AdjustStock)
	admins.POST("/:id/media", h.UploadMedia)
	admins.GET("/export-excel", h.ExportExcel)
	admins.POST("/import-excel", h.ImportExcel)
	admins.DELETE("/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req model.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) GetBySlug(c *gin.Context) {
	p, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	products, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

func (h *Handler) Hide(c *gin.Context) {
	h.setActive(c, h.service.Hide)
}

func (h *Handler) Show(c *gin.Context) {
	h.setActive(c, h.service.Show)
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) UpdatePrice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req model.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	p, err := h.service.UpdatePrice(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) PriceHistory(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	history, err := h.service.PriceHistory(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, history)
}

func (h *Handler) AdjustStock(c *gin.Context) {
	var req model.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	v, err := h.service.AdjustStock(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, v)
}

// UploadMedia accepts multipart files; images get a thumbnail, other media
// are stored as-is under the videos list.
func (h *Handler) UploadMedia(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.BadRequest(c, "no files provided")
		return
	}

	var imageURLs, videoURLs []string
	for _, fh := range files {
		if fh.Size > maxUploadBytes {
			response.BadRequest(c, fmt.Sprintf("%s exceeds the upload size limit", fh.Filename))
			return
		}

		src, err := fh.Open()
		if err != nil {
			response.InternalError(c, "failed to read upload")
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			response.InternalError(c, "failed to read upload")
			return
		}

		contentType := fh.Header.Get("Content-Type")
		key := fmt.Sprintf("products/%s/%s%s", id, uuid.NewString(), path.Ext(fh.Filename))

		if strings.HasPrefix(contentType, "image/") {
			original, thumb, err := storage.ProcessImage(data)
			if err != nil {
				response.BadRequest(c, fmt.Sprintf("%s: not a valid image", fh.Filename))
				return
			}
			url, err := h.storage.Upload(c.Request.Context(), key, original, "image/jpeg")
			if err != nil {
				response.InternalError(c, "failed to store image")
				return
			}
			thumbKey := strings.TrimSuffix(key, path.Ext(key)) + "_thumb.jpg"
			if _, err := h.storage.Upload(c.Request.Context(), thumbKey, thumb, "image/jpeg"); err != nil {
				response.InternalError(c, "failed to store thumbnail")
				return
			}
			imageURLs = append(imageURLs, url)
			continue
		}

		url, err := h.storage.Upload(c.Request.Context(), key, data, contentType)
		if err != nil {
			response.InternalError(c, "failed to store media")
			return
		}
		videoURLs = append(videoURLs, url)
	}

	if err := h.service.AttachMedia(c.Request.Context(), id, imageURLs, videoURLs); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"images": imageURLs, "videos": videoURLs})
}

func (h *Handler) ExportExcel(c *gin.Context) {
	data, err := h.service.ExportExcel(c.Request.Context())
	if err != nil {
		response.InternalError(c, "failed to export products")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *Handler) ImportExcel(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing workbook file")
		return
	}

	src, err := fh.Open()
	if err != nil {
		response.InternalError(c, "failed to read upload")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		response.InternalError(c, "failed to read upload")
		return
	}

	report, err := h.service.ImportExcel(c.Request.Context(), data)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, http.StatusOK, report)
}

func parseFilter(c *gin.Context) (*model.Filter, error) {
	filter := &model.Filter{Keyword: c.Query("q")}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if v := c.Query("brand_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errors.New("invalid brand_id")
		}
		filter.BrandID = &id
	}
	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errors.New("invalid category_id")
		}
		filter.CategoryID = &id
	}
	if v := c.Query("min_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, errors.New("invalid min_price")
		}
		filter.MinPrice = &d
	}
	if v := c.Query("max_price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, errors.New("invalid max_price")
		}
		filter.MaxPrice = &d
	}
	if c.Query("include_hidden") == "true" {
		filter.IncludeHidden = true
	}
	return filter, nil
}

func (h *Handler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid product id")
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

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		response.NotFound(c, "product not found")
	case errors.Is(err, model.ErrVariantNotFound):
		response.NotFound(c, "product variant not found")
	case errors.Is(err, model.ErrDuplicateSKU):
		response.Conflict(c, "product sku already exists")
	case errors.Is(err, model.ErrOutOfStock):
		response.Conflict(c, "insufficient stock")
	default:
		response.BadRequest(c, err.Error())
	}
}
