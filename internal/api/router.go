package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goalline/pitch-booking-backend/internal/admin"
	adminHttp "github.com/goalline/pitch-booking-backend/internal/admin/http"
	"github.com/goalline/pitch-booking-backend/internal/assistant"
	assistantHttp "github.com/goalline/pitch-booking-backend/internal/assistant/http"
	"github.com/goalline/pitch-booking-backend/internal/auth"
	"github.com/goalline/pitch-booking-backend/internal/booking"
	bookingHttp "github.com/goalline/pitch-booking-backend/internal/booking/http"
	"github.com/goalline/pitch-booking-backend/internal/match"
	matchHttp "github.com/goalline/pitch-booking-backend/internal/match/http"
	"github.com/goalline/pitch-booking-backend/internal/notification"
	notificationHttp "github.com/goalline/pitch-booking-backend/internal/notification/http"
	"github.com/goalline/pitch-booking-backend/internal/payment"
	paymentHttp "github.com/goalline/pitch-booking-backend/internal/payment/http"
	"github.com/goalline/pitch-booking-backend/internal/pitch"
	pitchHttp "github.com/goalline/pitch-booking-backend/internal/pitch/http"
	"github.com/goalline/pitch-booking-backend/internal/review"
	reviewHttp "github.com/goalline/pitch-booking-backend/internal/review/http"
	"github.com/goalline/pitch-booking-backend/internal/user"
	userHttp "github.com/goalline/pitch-booking-backend/internal/user/http"
)

// Config carries everything the router needs to assemble the API surface.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	PitchService        pitch.Service
	BookingService      booking.Service
	MatchService        match.Service
	ReviewService       review.Service
	PaymentService      payment.Service
	NotificationService notification.Service
	AssistantService    assistant.Service
	AdminService        admin.Service

	JWTManager *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and
// registering routes for all modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = []string{cfg.ProdOrigins}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user is an admin.
	adminMiddleware := auth.RequireAdmin()

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	authHandler := NewAuthHandler(cfg.UserService, cfg.JWTManager)
	userHandler := userHttp.NewHandler(cfg.UserService)
	pitchHandler := pitchHttp.NewHandler(cfg.PitchService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	matchHandler := matchHttp.NewHandler(cfg.MatchService)
	reviewHandler := reviewHttp.NewHandler(cfg.ReviewService)
	paymentHandler := paymentHttp.NewHandler(cfg.PaymentService)
	notificationHandler := notificationHttp.NewHandler(cfg.NotificationService)
	assistantHandler := assistantHttp.NewHandler(cfg.AssistantService)
	adminHandler := adminHttp.NewHandler(cfg.AdminService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		pitchHttp.RegisterRoutes(v1, pitchHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		matchHttp.RegisterRoutes(v1, matchHandler, authMiddleware)
		reviewHttp.RegisterRoutes(v1, reviewHandler, authMiddleware)
		paymentHttp.RegisterRoutes(v1, paymentHandler, authMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware)
		assistantHttp.RegisterRoutes(v1, assistantHandler, authMiddleware)
		adminHttp.RegisterRoutes(v1, adminHandler, authMiddleware, adminMiddleware)
	}

	return r
}
