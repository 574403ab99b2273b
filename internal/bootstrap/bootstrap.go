package bootstrap

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/auth"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/config"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/database"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/handlers"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/identity"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/middleware"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/notify"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/repository"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/routes"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/uploads"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/utils"
)

// AppContext wires every component for the server entrypoint.
type AppContext struct {
	Config   *config.Config
	Logger   *zap.SugaredLogger
	Mongo    *mongo.Client
	Redis    *redis.Client
	Notifier *notify.KafkaNotifier

	Gate     *middleware.Gate
	Limiter  *middleware.RateLimiter
	Auth     *handlers.AuthHandler
	Property *handlers.PropertyHandler
	Amenity  *handlers.AmenityHandler
	Category *handlers.CategoryHandler
}

type CleanupFn func(context.Context)

// Init loads config and builds the dependency graph with explicit injection.
func Init(configPath string) (*AppContext, CleanupFn, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := utils.NewLogger(cfg.App.Env == "development")
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("starting rentmate backend in %s environment", cfg.App.Env)

	db, mongoClient, err := database.ConnectMongo(cfg.Mongo.URI, cfg.Mongo.Database, logger)
	if err != nil {
		return nil, nil, err
	}

	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		return nil, nil, err
	}

	notifier := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)

	uploadStore, err := uploads.NewStore(cfg.Upload.Dir)
	if err != nil {
		return nil, nil, err
	}

	userRepo := repository.NewMongoUserRepo(db)
	otpRepo := repository.NewMongoOTPRepo(db)
	propRepo := repository.NewMongoPropertyRepo(db)
	amenRepo := repository.NewMongoAmenityRepo(db)
	catRepo := repository.NewMongoCategoryRepo(db)

	hasher := auth.NewHasher()
	tokens := auth.NewTokenManager(cfg.JWT.Secret)
	gate := middleware.NewGate(tokens)
	limiter := middleware.NewRateLimiter(rdb, "otp_rl", cfg.OTP.RateLimitPerHour, time.Hour)

	svc := identity.NewService(userRepo, otpRepo, hasher, tokens, notifier, logger, cfg.OTPTTL)

	app := &AppContext{
		Config:   cfg,
		Logger:   logger,
		Mongo:    mongoClient,
		Redis:    rdb,
		Notifier: notifier,
		Gate:     gate,
		Limiter:  limiter,
		Auth:     handlers.NewAuthHandler(svc, gate, uploadStore, logger),
		Property: handlers.NewPropertyHandler(propRepo, logger),
		Amenity:  handlers.NewAmenityHandler(amenRepo, uploadStore, logger),
		Category: handlers.NewCategoryHandler(catRepo, logger),
	}

	cleanup := func(ctx context.Context) {
		_ = logger.Sync()
		if cerr := notifier.Close(); cerr != nil {
			logger.Errorf("kafka writer close error: %v", cerr)
		}
		if cerr := mongoClient.Disconnect(ctx); cerr != nil {
			logger.Errorf("MongoDB disconnect error: %v", cerr)
		}
		if cerr := rdb.Close(); cerr != nil {
			logger.Errorf("Redis client close error: %v", cerr)
		}
	}
	return app, cleanup, nil
}

// Mount registers every route on the fiber app.
func (a *AppContext) Mount(app *fiber.App) {
	routes.Setup(app, a.Gate, a.Limiter, a.Auth, a.Property, a.Amenity, a.Category)
}
