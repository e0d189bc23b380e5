package routes

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/loveloggy/loveloggy/internal/config"
	"github.com/loveloggy/loveloggy/internal/couple"
	"github.com/loveloggy/loveloggy/internal/keys"
	"github.com/loveloggy/loveloggy/internal/messages"
	"github.com/loveloggy/loveloggy/internal/middleware"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. The couple
// document lives in Postgres when a pool is supplied, in the configured
// data file otherwise, and purely in memory when neither is set (tests).
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	var store couple.Store
	switch {
	case d.DB != nil:
		pg, err := couple.NewPostgresStore(context.Background(), d.DB)
		if err != nil {
			return err
		}
		store = pg
	case d.Cfg.DataFile != "":
		store = couple.NewFileStore(d.Cfg.DataFile)
	default:
		store = couple.NewMemoryStore()
	}

	coupleSvc := couple.NewService(store, d.Cfg.BcryptCost)
	keysSvc := keys.NewService(store)
	messagesSvc := messages.NewService(store)

	coupleHandler := couple.NewHandler(coupleSvc)
	keysHandler := keys.NewHandler(keysSvc)
	messagesHandler := messages.NewHandler(messagesSvc)

	RegisterHealthRoutes(app, d)

	app.Post("/signup", coupleHandler.Signup)
	app.Post("/login", middleware.LoginRateLimit(d.Cache, 5), coupleHandler.Login)
	app.Get("/couple/status", coupleHandler.Status)
	app.Post("/profile", coupleHandler.UpdateProfile)

	app.Post("/keys/register", keysHandler.Register)
	app.Get("/keys/partner/:userId", keysHandler.Partner)

	app.Post("/messages", messagesHandler.Append)
	app.Get("/messages", messagesHandler.List)

	RegisterExportRoute(app, store)

	return nil
}
