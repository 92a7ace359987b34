package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/chirp/social-api/docs"
	"github.com/chirp/social-api/internal/api/handler"
	"github.com/chirp/social-api/internal/api/middleware"
	"github.com/chirp/social-api/internal/core/ports"
	"github.com/chirp/social-api/internal/infrastructure/http/handlers"
	"github.com/chirp/social-api/pkg/logger"
)

// bodyLimit leaves room for a 10MB image encoded as a base64 data URL.
const bodyLimit = "16M"

// Deps carries everything the router wires into handlers.
type Deps struct {
	Auth          ports.AuthService
	Sessions      ports.SessionIssuer
	Users         ports.UserService
	Posts         ports.PostService
	Notifications ports.NotificationService

	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handlers.Pinger
	// Registerer receives the HTTP request metrics. Defaults to
	// prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	Log        zerolog.Logger

	SecureCookie bool
	// StaticDir, when set, is served as a single page application.
	StaticDir string
	// UploadsDir is served under UploadsURL for the filesystem image backend.
	UploadsDir string
	UploadsURL string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer := d.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(logger.EchoMiddleware(d.Log))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions, d.SecureCookie)
	userHandler := handler.NewUserHandler(d.Users)
	postHandler := handler.NewPostHandler(d.Posts)
	notificationHandler := handler.NewNotificationHandler(d.Notifications)
	session := middleware.Session(d.Sessions, d.Users)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/getMe", authHandler.GetMe, session)

	// --- User routes ---
	users := e.Group("/api/users", session)
	users.GET("/profile/:username", userHandler.Profile)
	users.POST("/follow/:id", userHandler.Follow)
	users.GET("/suggested", userHandler.Suggested)
	users.POST("/update", userHandler.Update)

	// --- Post routes ---
	posts := e.Group("/api/posts", session)
	posts.GET("/all", postHandler.All)
	posts.GET("/followerPosts", postHandler.Following)
	posts.GET("/user/:username", postHandler.ByUser)
	posts.GET("/liked/:id", postHandler.Liked)
	posts.POST("/create", postHandler.Create)
	posts.POST("/like/:id", postHandler.Like)
	posts.POST("/comment/:id", postHandler.Comment)
	posts.GET("/:id", postHandler.Get)
	posts.DELETE("/:id", postHandler.Delete)

	// --- Notification routes ---
	notifications := e.Group("/api/notifications", session)
	notifications.GET("", notificationHandler.List)
	notifications.DELETE("", notificationHandler.DeleteAll)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Uploaded images and client bundle ---
	if d.UploadsDir != "" && d.UploadsURL != "" {
		e.Static(d.UploadsURL, d.UploadsDir)
	}
	if d.StaticDir != "" {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root:  d.StaticDir,
			HTML5: true,
			Skipper: func(c echo.Context) bool {
				p := c.Request().URL.Path
				return strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/swagger/")
			},
		}))
	}

	return e
}
