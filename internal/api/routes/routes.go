package routes

import (
	"time"

	"fireworks-wms-api-server/config"
	"fireworks-wms-api-server/internal/api/handlers"
	"fireworks-wms-api-server/internal/api/middleware"
	"fireworks-wms-api-server/internal/models"
	"fireworks-wms-api-server/internal/picklist"
	"fireworks-wms-api-server/internal/repository"
	"fireworks-wms-api-server/internal/s3"
	"fireworks-wms-api-server/internal/socket"
	"fireworks-wms-api-server/internal/sync"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SetupRouter wires the handlers and their dependencies into the route tree.
func SetupRouter(
	cfg config.Config,
	db *sqlx.DB,
	syncService *sync.Service,
	pickListService *picklist.Service,
	wsHub *socket.Hub,
	s3Uploader *s3.Uploader,
	log *zap.Logger,
) *gin.Engine {
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	jwtSecret := []byte(cfg.JWT.Secret)
	expiration, err := time.ParseDuration(cfg.JWT.Expiration)
	if err != nil {
		expiration = 24 * time.Hour
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	userRepo := repository.NewUserRepository(db)

	userHandler := &handlers.UserHandler{Users: userRepo, JWTSecret: jwtSecret, Expiration: expiration}
	productHandler := &handlers.ProductHandler{Products: productRepo, Locations: locationRepo, Hub: wsHub}
	locationHandler := &handlers.LocationHandler{Locations: locationRepo, Products: productRepo}
	orderHandler := &handlers.OrderHandler{Orders: orderRepo}
	syncHandler := &handlers.SyncHandler{Sync: syncService, Hub: wsHub}
	pickListHandler := &handlers.PickListHandler{PickLists: pickListService, Hub: wsHub, Uploader: s3Uploader, Log: log}
	dashboardHandler := &handlers.DashboardHandler{Products: productRepo, Orders: orderRepo}
	webSocketHandler := &handlers.WebSocketHandler{Hub: wsHub}

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/ws", webSocketHandler.ServeWs)

		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", userHandler.Login)
		}

		// Admin-only routes: warehouse layout and shop synchronization.
		admin := apiV1.Group("/")
		admin.Use(middleware.Authenticate(jwtSecret))
		admin.Use(middleware.Authorize(models.RoleAdmin))
		{
			locations := admin.Group("/locations")
			{
				locations.POST("/", locationHandler.CreateLocation)
				locations.PUT("/:code", locationHandler.UpdateLocation)
				locations.DELETE("/:code", locationHandler.DeleteLocation)
			}

			syncRoutes := admin.Group("/sync")
			{
				syncRoutes.POST("/products", syncHandler.SyncProducts)
				syncRoutes.POST("/orders", syncHandler.SyncOrders)
			}
		}

		// Day-to-day warehouse routes for admins and pickers.
		business := apiV1.Group("/")
		business.Use(middleware.Authenticate(jwtSecret))
		business.Use(middleware.Authorize(models.RoleAdmin, models.RolePicker))
		{
			products := business.Group("/products")
			{
				products.GET("/", productHandler.GetProducts)
				products.GET("/:id", productHandler.GetProduct)
				products.PUT("/:id", productHandler.UpdateProduct)
				products.POST("/:id/stock", productHandler.AdjustStock)
				products.GET("/barcode/:code", productHandler.GetProductByBarcode)
			}

			locations := business.Group("/locations")
			{
				locations.GET("/", locationHandler.GetAllLocations)
				locations.GET("/:code", locationHandler.GetLocationByCode)
				locations.GET("/:code/products", locationHandler.GetLocationProducts)
			}

			orders := business.Group("/orders")
			{
				orders.GET("/", orderHandler.GetOrders)
				orders.GET("/:id", orderHandler.GetOrder)
			}

			picklists := business.Group("/picklists")
			{
				picklists.POST("/", pickListHandler.CreatePickList)
				picklists.POST("/complete", pickListHandler.CompletePickList)
			}

			business.GET("/dashboard", dashboardHandler.GetDashboard)
		}
	}

	return router
}
