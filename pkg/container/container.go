package container

import (
	"context"
	"fmt"

	"pttech-backend/internal/config"
	cartservice "pttech-backend/internal/domains/cart/service"
	catalogservice "pttech-backend/internal/domains/catalog/service"
	contentservice "pttech-backend/internal/domains/content/service"
	discountservice "pttech-backend/internal/domains/discount/service"
	inventoryservice "pttech-backend/internal/domains/inventory/service"
	orderservice "pttech-backend/internal/domains/order/service"
	"pttech-backend/internal/domains/payment/gateway/vnpay"
	paymentservice "pttech-backend/internal/domains/payment/service"
	productservice "pttech-backend/internal/domains/product/service"
	reviewservice "pttech-backend/internal/domains/review/service"
	userservice "pttech-backend/internal/domains/user/service"
	"pttech-backend/internal/infrastructure/cache"
	"pttech-backend/internal/infrastructure/database"
	"pttech-backend/internal/infrastructure/queue"
	"pttech-backend/internal/infrastructure/storage"
	"pttech-backend/pkg/jwt"

	carthandler "pttech-backend/internal/domains/cart/handler"
	cartrepository "pttech-backend/internal/domains/cart/repository"
	cataloghandler "pttech-backend/internal/domains/catalog/handler"
	catalogrepository "pttech-backend/internal/domains/catalog/repository"
	contenthandler "pttech-backend/internal/domains/content/handler"
	contentrepository "pttech-backend/internal/domains/content/repository"
	discounthandler "pttech-backend/internal/domains/discount/handler"
	discountrepository "pttech-backend/internal/domains/discount/repository"
	inventoryhandler "pttech-backend/internal/domains/inventory/handler"
	inventoryrepository "pttech-backend/internal/domains/inventory/repository"
	orderhandler "pttech-backend/internal/domains/order/handler"
	orderrepository "pttech-backend/internal/domains/order/repository"
	paymenthandler "pttech-backend/internal/domains/payment/handler"
	paymentrepository "pttech-backend/internal/domains/payment/repository"
	producthandler "pttech-backend/internal/domains/product/handler"
	productrepository "pttech-backend/internal/domains/product/repository"
	reviewhandler "pttech-backend/internal/domains/review/handler"
	reviewrepository "pttech-backend/internal/domains/review/repository"
	userhandler "pttech-backend/internal/domains/user/handler"
	userrepository "pttech-backend/internal/domains/user/repository"
)

// Container wires the API process: infrastructure, repositories, services
// and handlers, built once at startup.
type Container struct {
	Config *config.Config

	DB      *database.PostgresDB
	Cache   *cache.RedisCache
	Storage *storage.MinIOStorage
	Queue   *queue.Client
	JWT     *jwt.Manager

	ProductService   productservice.ServiceInterface
	CartService      cartservice.ServiceInterface
	OrderService     orderservice.ServiceInterface
	DiscountService  discountservice.ServiceInterface
	PaymentService   paymentservice.ServiceInterface
	InventoryService inventoryservice.ServiceInterface
	CatalogService   catalogservice.ServiceInterface
	ContentService   contentservice.ServiceInterface
	UserService      userservice.ServiceInterface
	ReviewService    reviewservice.ServiceInterface

	ProductHandler   *producthandler.Handler
	CartHandler      *carthandler.Handler
	OrderHandler     *orderhandler.Handler
	DiscountHandler  *discounthandler.Handler
	PaymentHandler   *paymenthandler.Handler
	InventoryHandler *inventoryhandler.Handler
	CatalogHandler   *cataloghandler.Handler
	ContentHandler   *contenthandler.Handler
	UserHandler      *userhandler.Handler
	ReviewHandler    *reviewhandler.Handler
}

func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	c.DB = database.New(cfg.Database)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	c.Cache = cache.NewRedisCache(cfg.Redis)
	if err := c.Cache.Ping(ctx); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}
	c.Storage = minioStorage

	c.Queue = queue.NewClient(cfg.Redis)
	c.JWT = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	gateway, err := vnpay.NewClient(cfg.VNPay)
	if err != nil {
		return nil, fmt.Errorf("configure vnpay gateway: %w", err)
	}

	pool := c.DB.Pool

	productRepo := productrepository.NewPostgresRepository(pool)
	cartRepo := cartrepository.NewPostgresRepository(pool)
	orderRepo := orderrepository.NewPostgresRepository(pool)
	discountRepo := discountrepository.NewPostgresRepository(pool)
	paymentRepo := paymentrepository.NewPostgresRepository(pool)
	inventoryRepo := inventoryrepository.NewPostgresRepository(pool)
	brandRepo := catalogrepository.NewBrandPostgresRepository(pool)
	categoryRepo := catalogrepository.NewCategoryPostgresRepository(pool)
	policyRepo := contentrepository.NewPolicyPostgresRepository(pool)
	bannerRepo := contentrepository.NewBannerPostgresRepository(pool)
	contactRepo := contentrepository.NewContactPostgresRepository(pool)
	messageRepo := contentrepository.NewMessagePostgresRepository(pool)
	userRepo := userrepository.NewPostgresRepository(pool)
	reviewRepo := reviewrepository.NewPostgresRepository(pool)

	c.ProductService = productservice.NewProductService(productRepo, c.Cache)
	c.CartService = cartservice.NewCartService(cartRepo, c.ProductService)
	c.DiscountService = discountservice.NewDiscountService(discountRepo)
	c.OrderService = orderservice.NewOrderService(orderRepo, c.ProductService, c.DiscountService, c.Queue)
	c.PaymentService = paymentservice.NewPaymentService(gateway, paymentRepo, orderRepo)
	c.InventoryService = inventoryservice.NewInventoryService(inventoryRepo, c.ProductService)
	c.CatalogService = catalogservice.NewCatalogService(brandRepo, categoryRepo)
	c.ContentService = contentservice.NewContentService(policyRepo, bannerRepo, contactRepo, messageRepo)
	c.UserService = userservice.NewUserService(userRepo, c.JWT, c.Queue, cfg.App)
	c.ReviewService = reviewservice.NewReviewService(reviewRepo, orderRepo, c.ProductService)

	c.ProductHandler = producthandler.NewHandler(c.ProductService, c.Storage)
	c.CartHandler = carthandler.NewHandler(c.CartService)
	c.OrderHandler = orderhandler.NewHandler(c.OrderService)
	c.DiscountHandler = discounthandler.NewHandler(c.DiscountService)
	c.PaymentHandler = paymenthandler.NewHandler(c.PaymentService)
	c.InventoryHandler = inventoryhandler.NewHandler(c.InventoryService)
	c.CatalogHandler = cataloghandler.NewHandler(c.CatalogService)
	c.ContentHandler = contenthandler.NewHandler(c.ContentService)
	c.UserHandler = userhandler.NewHandler(c.UserService)
	c.ReviewHandler = reviewhandler.NewHandler(c.ReviewService)

	return c, nil
}

// Close releases infrastructure connections in reverse order of creation.
func (c *Container) Close() {
	if c.Queue != nil {
		_ = c.Queue.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
