package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kwolity/realty-api/internal/api/handler"
	"github.com/kwolity/realty-api/internal/api/middleware"
	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

// Dependencies carries everything the router needs; main wires them up.
type Dependencies struct {
	Log         zerolog.Logger
	Mongo       *mongo.Database
	Redis       *redis.Client
	Auth        ports.AuthService
	Verifier    middleware.AccessVerifier
	Users       ports.UserRepository
	Properties  ports.PropertyService
	Bookings    ports.BookingService
	Payments    ports.PaymentService
	Investments ports.InvestmentService
	Dispatcher  handler.EventDispatcher
	Cookies     handler.CookieSettings
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("realty"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookies)
	propertyHandler := handler.NewPropertyHandler(deps.Properties)
	bookingHandler := handler.NewBookingHandler(deps.Bookings)
	paymentHandler := handler.NewPaymentHandler(deps.Payments, deps.Dispatcher)
	investmentHandler := handler.NewInvestmentHandler(deps.Investments)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	// --- Route-level middleware ---
	authed := middleware.Auth(deps.Verifier)
	listers := middleware.RBAC(domain.RoleLandlord, domain.RoleAdmin)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	adminFresh := middleware.RBACFresh(deps.Users, domain.RoleAdmin)

	// --- Auth ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)

	// --- Users (profile and saved listings) ---
	users := e.Group("/users", authed)
	users.GET("/profile", authHandler.Profile)
	users.PUT("/profile", authHandler.UpdateProfile)
	users.GET("/saved-properties", propertyHandler.ListSaved)
	users.POST("/saved-properties/:property_id", propertyHandler.Save)
	users.DELETE("/saved-properties/:property_id", propertyHandler.Unsave)

	// --- Properties ---
	properties := e.Group("/properties")
	properties.GET("", propertyHandler.List)
	properties.GET("/count", propertyHandler.Count)
	properties.GET("/:id", propertyHandler.Get)
	properties.POST("", propertyHandler.Create, authed, listers)
	properties.PUT("/:id", propertyHandler.Update, authed, listers)
	properties.DELETE("/:id", propertyHandler.Delete, authed, adminFresh)

	// --- Bookings (ownership enforced in the service) ---
	bookings := e.Group("/bookings", authed)
	bookings.POST("", bookingHandler.Create)
	bookings.GET("", bookingHandler.ListAll, adminOnly)
	bookings.GET("/mine", bookingHandler.ListMine)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.PUT("/:id", bookingHandler.Update)
	bookings.DELETE("/:id", bookingHandler.Delete)

	// --- Payments ---
	e.POST("/payments/webhook", paymentHandler.Webhook)
	payments := e.Group("/payments", authed)
	payments.POST("", paymentHandler.Create)
	payments.GET("", paymentHandler.ListAll, adminOnly)
	payments.GET("/mine", paymentHandler.ListMine)
	payments.GET("/booking/:booking_id", paymentHandler.ListByBooking, adminOnly)
	payments.GET("/:id", paymentHandler.Get)
	payments.POST("/:id/verify", paymentHandler.Verify)
	payments.PUT("/:id", paymentHandler.Update, adminFresh)
	payments.DELETE("/:id", paymentHandler.Delete, adminFresh)

	// --- Investments ---
	investments := e.Group("/investments")
	investments.GET("", investmentHandler.List)
	investments.GET("/count", investmentHandler.Count)
	investments.GET("/mine", investmentHandler.ListMine, authed)
	investments.GET("/:id", investmentHandler.Get)
	investments.POST("", investmentHandler.Create, authed, adminOnly)
	investments.PUT("/:id", investmentHandler.Update, authed, adminOnly)
	investments.DELETE("/:id", investmentHandler.Delete, authed, adminFresh)
	investments.POST("/:id/invest", investmentHandler.Invest, authed)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	return e
}
