package httpserver

import (
	"context"
	"log"
	"time"

	"cvs-storefront/internal/domain"
	adminsvc "cvs-storefront/internal/service/admin"
	catalogsvc "cvs-storefront/internal/service/catalog"
	checkoutsvc "cvs-storefront/internal/service/checkout"
	ordersvc "cvs-storefront/internal/service/order"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CartService is the slice of the cart service the handlers need.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddItem(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, sessionID, productID string, quantity int) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, in catalogsvc.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in catalogsvc.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListProducts(ctx context.Context, categoryID string, includeInactive bool) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, in catalogsvc.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in catalogsvc.ProductUpdateInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type CheckoutService interface {
	BeginSelection(ctx context.Context, sessionID string, in checkoutsvc.BeginInput) (*domain.CheckoutDraft, string, error)
	CompleteSelection(ctx context.Context, token string, payload map[string]string) (*domain.CheckoutDraft, error)
	GetDraft(ctx context.Context, sessionID, draftID string) (*domain.CheckoutDraft, error)
	PlaceOrder(ctx context.Context, sessionID, draftID string) (*domain.Order, error)
}

type OrderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	Transition(ctx context.Context, orderID, target, actor string) (*domain.Order, error)
	List(ctx context.Context, in ordersvc.ListInput) (*ordersvc.ListResult, error)
	ListForExport(ctx context.Context, in ordersvc.ListInput) ([]domain.Order, error)
}

type AdminService interface {
	Register(ctx context.Context, in adminsvc.RegisterInput) (*domain.Admin, error)
	Login(ctx context.Context, username, password string) (*adminsvc.LoginResult, error)
	Verify(ctx context.Context, token string) (*domain.Admin, error)
}

type StoreDirectory interface {
	List(ctx context.Context) ([]domain.PartnerStore, error)
	GetByID(ctx context.Context, id string) (*domain.PartnerStore, error)
}

// Deps carries everything the route table needs.
type Deps struct {
	CartSvc     CartService
	CatalogSvc  CatalogService
	CheckoutSvc CheckoutService
	OrderSvc    OrderService
	AdminSvc    AdminService
	Stores      StoreDirectory
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	// Partner locator posts here from outside any session.
	router.POST("/cvs/callback", cvsCallbackHandler(deps.CheckoutSvc, logger))

	api := router.Group("/api")
	{
		api.GET("/categories", listCategoriesHandler(deps.CatalogSvc))
		api.GET("/categories/:id", getCategoryHandler(deps.CatalogSvc))
		api.GET("/products", listProductsHandler(deps.CatalogSvc))
		api.GET("/products/:id", getProductHandler(deps.CatalogSvc))
		api.GET("/stores", listStoresHandler(deps.Stores))
		api.GET("/stores/:id", getStoreHandler(deps.Stores))
		api.GET("/orders/:number", getOrderByNumberHandler(deps.OrderSvc))

		withSession := api.Group("", sessionMiddleware())
		{
			withSession.GET("/cart", getCartHandler(deps.CartSvc))
			withSession.POST("/cart/items", addCartItemHandler(deps.CartSvc))
			withSession.PUT("/cart/items/:productId", updateCartItemHandler(deps.CartSvc))
			withSession.DELETE("/cart", clearCartHandler(deps.CartSvc))

			withSession.POST("/checkout/draft", beginSelectionHandler(deps.CheckoutSvc))
			withSession.GET("/checkout/draft/:id", getDraftHandler(deps.CheckoutSvc))
			withSession.POST("/checkout/place", placeOrderHandler(deps.CheckoutSvc))
		}

		admin := api.Group("/admin")
		{
			admin.POST("/register", adminRegisterHandler(deps.AdminSvc))
			admin.POST("/login", adminLoginHandler(deps.AdminSvc))

			authed := admin.Group("", adminAuthMiddleware(deps.AdminSvc))
			{
				authed.POST("/categories", createCategoryHandler(deps.CatalogSvc))
				authed.PUT("/categories/:id", updateCategoryHandler(deps.CatalogSvc))
				authed.DELETE("/categories/:id", deleteCategoryHandler(deps.CatalogSvc))
				authed.GET("/products", adminListProductsHandler(deps.CatalogSvc))
				authed.POST("/products", createProductHandler(deps.CatalogSvc))
				authed.PUT("/products/:id", updateProductHandler(deps.CatalogSvc))
				authed.DELETE("/products/:id", deleteProductHandler(deps.CatalogSvc))

				authed.GET("/orders", listOrdersHandler(deps.OrderSvc))
				authed.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
				authed.PUT("/orders/:id/status", updateOrderStatusHandler(deps.OrderSvc))
				authed.GET("/export/orders", exportOrdersHandler(deps.OrderSvc))
			}
		}
	}

	return router, nil
}
