// Package v1 implements the JSON API consumed by the mobile app.
package v1

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/nischalvasista13-maker/Snap-and-sell/internal/profile"
	"github.com/nischalvasista13-maker/Snap-and-sell/server/auth"
	"github.com/nischalvasista13-maker/Snap-and-sell/store"
	"github.com/nischalvasista13-maker/Snap-and-sell/vision"
)

type APIV1Service struct {
	// Domain services
	AuthService    *AuthService
	SettingService *SettingService
	ProductService *ProductService
	SaleService    *SaleService
	ReturnService  *ReturnService
	MatchService   *MatchService

	// Shared infra
	Secret  string
	Profile *profile.Profile
	Store   *store.Store
	Metrics *Metrics
}

func NewAPIV1Service(secret string, profile *profile.Profile, store *store.Store) *APIV1Service {
	metrics := NewMetrics()
	indexer := vision.NewIndexer(store, int64(profile.ExtractionWorkers))
	matcher := vision.NewMatcher(store, int64(profile.ExtractionWorkers),
		time.Duration(profile.ExtractionTimeoutSec)*time.Second)

	service := &APIV1Service{
		Secret:  secret,
		Profile: profile,
		Store:   store,
		Metrics: metrics,
	}
	service.AuthService = &AuthService{Store: store, Secret: secret}
	service.SettingService = &SettingService{Store: store}
	service.ProductService = &ProductService{Store: store, Indexer: indexer}
	service.SaleService = &SaleService{Store: store}
	service.ReturnService = &ReturnService{Store: store}
	service.MatchService = &MatchService{Store: store, Matcher: matcher, Metrics: metrics}
	return service
}

// Register mounts all routes on the echo instance. Auth endpoints are public
// but rate limited; everything else requires a Bearer token.
func (s *APIV1Service) Register(e *echo.Echo) {
	api := e.Group("/api")

	authGroup := api.Group("/auth")
	// Brute-force guard on the credential endpoints.
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(10))))
	authGroup.POST("/signup", s.AuthService.Signup)
	authGroup.POST("/signin", s.AuthService.Signin)
	authGroup.POST("/forgot-password", s.AuthService.ForgotPassword)

	protected := api.Group("", auth.Middleware(s.Secret))

	protected.POST("/settings/setup", s.SettingService.Setup)
	protected.GET("/settings", s.SettingService.Get)
	protected.PUT("/settings/:id", s.SettingService.Update)

	protected.POST("/products", s.ProductService.Create)
	protected.GET("/products", s.ProductService.List)
	protected.GET("/products/:id", s.ProductService.Get)
	protected.PUT("/products/:id", s.ProductService.Update)
	protected.DELETE("/products/:id", s.ProductService.Delete)
	protected.POST("/products/match", s.MatchService.Match)

	protected.POST("/sales", s.SaleService.Create)
	protected.GET("/sales", s.SaleService.List)
	protected.GET("/sales/today", s.SaleService.Today)
	protected.GET("/sales/:id", s.SaleService.Get)

	protected.POST("/returns", s.ReturnService.Create)
	protected.GET("/returns", s.ReturnService.List)
	protected.GET("/returns/sale/:id", s.ReturnService.ListBySale)
}
