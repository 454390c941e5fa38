package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/goalline/pitch-booking-backend/internal/admin"
	"github.com/goalline/pitch-booking-backend/internal/api"
	"github.com/goalline/pitch-booking-backend/internal/assistant"
	"github.com/goalline/pitch-booking-backend/internal/auth"
	"github.com/goalline/pitch-booking-backend/internal/booking"
	"github.com/goalline/pitch-booking-backend/internal/match"
	"github.com/goalline/pitch-booking-backend/internal/notification"
	"github.com/goalline/pitch-booking-backend/internal/payment"
	"github.com/goalline/pitch-booking-backend/internal/pitch"
	"github.com/goalline/pitch-booking-backend/internal/review"
	"github.com/goalline/pitch-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	StripeSecretKey     string
	StripeWebhookSecret string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Pitch Module
	pitchRepo := pitch.NewPgxRepository(cfg.DBPool)
	pitchService := pitch.NewService(pitchRepo)

	// Notification Module; its event fan-out is the Notifier every other
	// module publishes through.
	notificationRepo := notification.NewPgxRepository(cfg.DBPool)
	notificationService := notification.NewService(notificationRepo)
	events := notification.NewEvents(notificationService, pitchService)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, pitchService, events)

	// Match Module
	matchRepo := match.NewPgxRepository(cfg.DBPool)
	matchService := match.NewService(matchRepo, userService, events)

	// Review Module
	reviewRepo := review.NewPgxRepository(cfg.DBPool)
	reviewService := review.NewService(reviewRepo, bookingService, pitchService, events)

	// Payment Module
	paymentRepo := payment.NewPgxRepository(cfg.DBPool)
	processor := payment.NewStripeProcessor(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	paymentService := payment.NewService(paymentRepo, processor, bookingService, events)

	// Assistant Module
	assistantRepo := assistant.NewPgxRepository(cfg.DBPool)
	assistantService := assistant.NewService(assistantRepo, pitchService, bookingService)

	// Admin Module
	statsRepo := admin.NewPgxStatsRepository(cfg.DBPool)
	adminService := admin.NewService(userService, pitchService, reviewService, statsRepo)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		PitchService:        pitchService,
		BookingService:      bookingService,
		MatchService:        matchService,
		ReviewService:       reviewService,
		PaymentService:      paymentService,
		NotificationService: notificationService,
		AssistantService:    assistantService,
		AdminService:        adminService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
