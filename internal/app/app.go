// Package app wires repositories, services and the HTTP router together
// according to the runtime configuration.
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"gearshare/internal/api"
	"gearshare/internal/booking"
	"gearshare/internal/clock"
	"gearshare/internal/config"
	"gearshare/internal/item"
	"gearshare/internal/itemrequest"
	"gearshare/internal/metrics"
	"gearshare/internal/user"
)

// Deps are the external resources the application runs on. Pool is
// required for postgres storage; Redis is optional and enables the user
// lookup cache. A nil Clock falls back to the system clock.
type Deps struct {
	Pool  *pgxpool.Pool
	Redis *redis.Client
	Clock clock.Clock
}

type App struct {
	Router *gin.Engine

	Users    user.Service
	Items    item.Service
	Requests itemrequest.Service
	Bookings booking.Service
}

func New(cfg *config.Config, deps Deps, log zerolog.Logger) (*App, error) {
	clk := deps.Clock
	if clk == nil {
		clk = clock.System()
	}

	metrics.Register()

	var (
		userRepo    user.Repository
		itemRepo    item.Repository
		requestRepo itemrequest.Repository
		bookingRepo booking.Repository
	)

	switch cfg.Storage {
	case config.StoragePostgres:
		if deps.Pool == nil {
			return nil, fmt.Errorf("postgres storage requires a connection pool")
		}
		userRepo = user.NewPgxRepository(deps.Pool)
		itemRepo = item.NewPgxRepository(deps.Pool)
		requestRepo = itemrequest.NewPgxRepository(deps.Pool)
		bookingRepo = booking.NewPgxRepository(deps.Pool)
	case config.StorageMemory:
		userRepo = user.NewMemoryRepository()
		itemRepo = item.NewMemoryRepository()
		requestRepo = itemrequest.NewMemoryRepository()
		bookingRepo = booking.NewMemoryRepository()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	userRepo = user.NewCachingRepository(userRepo, deps.Redis, cfg.UserCacheTTL)

	userService := user.NewService(userRepo, log)

	// The item service needs booking and request lookups that only exist
	// once their services do; the adapters are filled in below.
	bookings := &bookingSource{}
	requests := &requestDirectory{}

	itemService := item.NewService(itemRepo, userService, requests, bookings, clk, log)
	requestService := itemrequest.NewService(requestRepo, userService, itemService, clk, log)
	bookingService := booking.NewService(
		bookingRepo,
		userDirectory{users: userService},
		itemDirectory{items: itemRepo},
		clk,
		log,
	)

	bookings.bookings = bookingService
	requests.requests = requestService

	router := api.NewRouter(api.RouterConfig{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Logger:         log,
	}, userService, itemService, requestService, bookingService)

	return &App{
		Router:   router,
		Users:    userService,
		Items:    itemService,
		Requests: requestService,
		Bookings: bookingService,
	}, nil
}
