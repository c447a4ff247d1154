package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AfsalAzizi/food-delivery-platform/pkg/health"
	"github.com/AfsalAzizi/food-delivery-platform/pkg/middleware"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/service"
)

const serviceName = "user"

// RouterConfig carries the HTTP-layer settings.
type RouterConfig struct {
	CORS         middleware.CORSConfig
	PprofAllowed []string
}

// NewRouter creates a chi router with all user service routes registered.
func NewRouter(
	userService *service.UserService,
	addressService *service.AddressService,
	validateToken middleware.TokenValidator,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofAllowed, logger)

	authHandler := NewAuthHandler(userService, logger)
	r.Route("/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	userHandler := NewUserHandler(userService, logger)
	addressHandler := NewAddressHandler(addressService, logger)
	r.Route("/user", func(r chi.Router) {
		r.Use(middleware.Auth(validateToken))
		r.Use(ContentTypeJSON)

		r.Get("/profile", userHandler.GetProfile)

		r.Post("/address", addressHandler.Create)
		r.Get("/addresses", addressHandler.List)
		r.Get("/addresses/count", addressHandler.Count)
		r.Get("/addresses/{id}", addressHandler.Get)
		r.Put("/addresses/{id}", addressHandler.Update)
		r.Delete("/addresses/{id}", addressHandler.Delete)
	})

	return r
}
