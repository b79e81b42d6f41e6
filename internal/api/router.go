package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"gearshare/internal/booking"
	bookingHttp "gearshare/internal/booking/http"
	"gearshare/internal/item"
	itemHttp "gearshare/internal/item/http"
	"gearshare/internal/itemrequest"
	requestHttp "gearshare/internal/itemrequest/http"
	"gearshare/internal/pkg/identity"
	"gearshare/internal/user"
	userHttp "gearshare/internal/user/http"
)

// RouterConfig carries everything the router needs besides the domain
// services themselves.
type RouterConfig struct {
	IsProduction   bool
	ProdOrigins    string
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         zerolog.Logger
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, logging, rate
// limiting) and registering routes for the domain modules.
func NewRouter(
	cfg RouterConfig,
	userService user.Service,
	itemService item.Service,
	requestService itemrequest.Service,
	bookingService booking.Service,
) *gin.Engine {

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Recovery captures panics so a single bad request cannot take the
	// server down.
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Logger))
	r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", identity.Header}
	r.Use(cors.New(corsConfig))

	identityMiddleware := identity.Required()

	userHandler := userHttp.NewHandler(userService)
	itemHandler := itemHttp.NewHandler(itemService)
	requestHandler := requestHttp.NewHandler(requestService)
	bookingHandler := bookingHttp.NewHandler(bookingService)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler)
		itemHttp.RegisterRoutes(root, itemHandler, identityMiddleware)
		requestHttp.RegisterRoutes(root, requestHandler, identityMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHandler, identityMiddleware)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
