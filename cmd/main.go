package main

import (
	"fmt"
	"log"

	"vending-machine/internal/api"
	"vending-machine/internal/config"
	"vending-machine/internal/db"
	"vending-machine/internal/logger"
	"vending-machine/internal/machine"
	"vending-machine/internal/middleware"
	"vending-machine/internal/service"
	"vending-machine/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(zapLogger)
	svcLog := pkg.NewZapLogger(zapLogger)

	dbConn, err := db.Connect(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.Migrate(dbConn); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	authService := service.NewAuthService(db.NewAuthDB(dbConn), svcLog, cfg.JWTSecret, cfg.TokenTTL)
	if cfg.OperatorUsername != "" {
		if err := authService.EnsureOperator(cfg.OperatorUsername, cfg.OperatorPassword); err != nil {
			zapLogger.Fatal("Failed to set up operator", zap.Error(err))
		}
	}

	vendingService := service.NewVendingService(machine.New(), db.NewInventoryDB(dbConn), svcLog)
	if err := vendingService.Load(); err != nil {
		zapLogger.Fatal("Failed to load inventory", zap.Error(err))
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinLogger(zapLogger))

	handlers := &api.Handlers{
		AuthService:    authService,
		VendingService: vendingService,
		Logger:         svcLog,
	}
	api.RegisterHandlers(router, handlers, middleware.JWTAuthMiddleware(cfg.JWTSecret, svcLog))

	port := fmt.Sprintf(":%s", cfg.ServerPort)
	svcLog.Info("Starting server", zap.String("port", cfg.ServerPort))
	if err := router.Run(port); err != nil {
		svcLog.Error("Failed to run server", zap.Error(err))
	}
}
