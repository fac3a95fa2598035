package main

import (
	"log"

	"fireworks-wms-api-server/config"
	"fireworks-wms-api-server/internal/api/routes"
	"fireworks-wms-api-server/internal/database"
	"fireworks-wms-api-server/internal/logger"
	"fireworks-wms-api-server/internal/picklist"
	"fireworks-wms-api-server/internal/repository"
	"fireworks-wms-api-server/internal/s3"
	"fireworks-wms-api-server/internal/shopify"
	"fireworks-wms-api-server/internal/socket"
	"fireworks-wms-api-server/internal/sync"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration (.env is optional, as is config.yaml).
	_ = godotenv.Load()
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	// 2. Logger
	appLogger, err := logger.New(cfg.Server.AppEnv)
	if err != nil {
		log.Fatalf("Could not create logger: %v", err)
	}
	defer appLogger.Sync()

	// 3. Database
	db, err := database.Connect(cfg.Postgres)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		appLogger.Fatal("Failed to run schema migration", zap.Error(err))
	}
	if err := database.SeedAdmin(db, cfg.Admin); err != nil {
		appLogger.Fatal("Failed to seed admin user", zap.Error(err))
	}

	// 4. Shop synchronization
	shopClient := shopify.NewClient(cfg.Shopify)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	syncService := sync.NewService(shopClient, productRepo, orderRepo, appLogger)

	// 5. Pick lists
	pickListService := picklist.NewService(orderRepo, appLogger)

	// 6. WebSocket hub for the scanner and dashboard clients
	wsHub := socket.NewHub()

	// 7. Optional S3 report archive
	var s3Uploader *s3.Uploader
	if cfg.S3.Bucket != "" {
		s3Uploader, err = s3.NewUploader(cfg.S3)
		if err != nil {
			appLogger.Fatal("Failed to create S3 uploader", zap.Error(err))
		}
	}

	// 8. Router
	router := routes.SetupRouter(cfg, db, syncService, pickListService, wsHub, s3Uploader, appLogger)

	appLogger.Info("Starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		appLogger.Fatal("Failed to run server", zap.Error(err))
	}
}
