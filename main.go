package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/config"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/controllers"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/database"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/errors"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/kafka"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/logger"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/middleware"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	aws_pkg "github.com/haxllo/ar-alphaya-jewellery-sub002/pkg/aws"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/providers"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/repository"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/routes"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync() //nolint:errcheck

	if cfg.PayHereMerchantSecret == "" {
		logger.Log.Warn("PAYHERE_MERCHANT_SECRET not set; payment notifications will be rejected")
	}

	// Storage
	redisClient := database.NewRedisClient(cfg.RedisURL)
	if err := database.Connect(cfg, logger.Log, &models.Payment{}); err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close() //nolint:errcheck

	// AWS clients (optional; SNS fan-out is disabled without them)
	var snsClient aws_pkg.SNSPublisher
	if awsCfg, awsErr := aws_pkg.LoadAWSConfig(context.Background()); awsErr != nil {
		logger.Log.Warn("AWS config unavailable, SNS disabled", zap.Error(awsErr))
	} else {
		snsClient = aws_pkg.NewSNSClient(awsCfg)
	}

	// Kafka producers
	brokers := strings.Split(cfg.KafkaBrokers, ",")
	checkoutProducer := kafka.NewCheckoutProducer(brokers, cfg.CheckoutTopic)
	defer checkoutProducer.Close()
	paymentProducer := kafka.NewPaymentEventProducer(brokers, cfg.PaymentEventsTopic)
	defer paymentProducer.Close()

	// DI chain
	ratesProvider := providers.NewRatesAPIProvider(cfg.RatesAPIBaseURL)
	rateCache := services.NewRateCache(ratesProvider, cfg.BaseCurrency, cfg.RatesCacheTTL, logger.Log)

	cartRepo := repository.NewRedisCartRepository(redisClient, cfg.CartTTL)
	cartService := services.NewCartService(cartRepo, checkoutProducer, logger.Log)

	wishlistRepo := repository.NewRedisWishlistRepository(redisClient, cfg.CartTTL)

	paymentRepo := repository.NewGormPaymentRepo(database.DB)
	paymentService := services.NewPaymentService(
		paymentRepo,
		paymentProducer,
		snsClient,
		cfg.PaymentSNSTopicARN,
		cfg.PayHereMerchantSecret,
		logger.Log,
	)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(errors.ErrorMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "storefront-service"})
	})

	routes.Register(
		r,
		cfg.JWTSecret,
		controllers.NewRatesController(rateCache),
		controllers.NewPaymentController(paymentService),
		controllers.NewCartController(cartService),
		controllers.NewWishlistController(wishlistRepo),
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Log.Info("Storefront service started", zap.String("port", cfg.Port))
	<-quit
	logger.Log.Info("Shutting down storefront service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Log.Info("Server exited cleanly")
}
