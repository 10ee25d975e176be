package routes

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/config"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/handlers"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/realtime"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/account"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/chat"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/marketplace"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/notification"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/validation"
)

type Deps struct {
	Config        config.Config
	Accounts      *account.Service
	Market        *marketplace.Service
	Notifications *notification.Service
	Chat          *chat.Service
	Hub           *realtime.Hub
	Validator     *validation.Validator
	Log           *slog.Logger
	Registry      *prometheus.Registry
	HealthChecks  map[string]func(ctx context.Context) error
}

// NewApp builds the fiber app with the global middleware stack and every route.
func NewApp(d Deps) *fiber.App {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}
	if d.Validator == nil {
		d.Validator = validation.New()
	}

	app := fiber.New(fiber.Config{
		AppName:      "platform_freelance",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.AccessLog(d.Log))
	app.Use(middleware.NewMetrics(d.Registry).Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	Setup(app, d)
	return app
}

func Setup(app *fiber.App, d Deps) {
	cfg := d.Config

	healthH := &handlers.HealthHandler{Checks: d.HealthChecks}
	app.Get("/health", healthH.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	authH := &handlers.AuthHandler{
		Accounts:     d.Accounts,
		Expires:      cfg.JWTExpiresMin,
		CookieSecure: cfg.CookieSecure,
	}
	jobH := handlers.NewJobHandler(d.Market, d.Validator)
	chatH := &handlers.ChatHandler{Chat: d.Chat, Validate: d.Validator}
	userH := &handlers.UserHandler{Accounts: d.Accounts, Market: d.Market}
	notifH := &handlers.NotificationHandler{
		Notifications: d.Notifications,
		Hub:           d.Hub,
		JWTSecret:     cfg.JWTSecret,
		Resolver:      d.Accounts,
	}

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	if cfg.GoogleEnabled() {
		googleH := &handlers.GoogleOAuthHandler{
			Auth:            authH,
			Accounts:        d.Accounts,
			GoogleClientID:  cfg.GoogleClientID,
			GoogleSecret:    cfg.GoogleSecret,
			GoogleRedirect:  cfg.GoogleRedirect,
			FrontendBaseURL: cfg.FrontendBaseURL,
		}
		api.Get("/auth/google/start", googleH.GoogleStart)
		api.Get("/auth/google/callback", googleH.GoogleCallback)
	}

	authn := middleware.Authenticate(cfg.JWTSecret, d.Accounts)
	admin := middleware.RequireRoles(models.RoleAdmin)

	jobs := api.Group("/jobs")
	jobs.Get("/", jobH.List)
	// registered before /:jobId so they are not captured by it
	jobs.Get("/mine", authn, jobH.Mine)
	jobs.Get("/awarded", authn, jobH.Awarded)
	jobs.Get("/:jobId", jobH.Get)
	jobs.Post("/", authn, middleware.RequireRoles(models.RoleClient, models.RoleAdmin), jobH.Create)
	jobs.Delete("/:jobId", authn, admin, jobH.Delete)
	jobs.Post("/:jobId/proposals", authn, middleware.RequireRoles(models.RoleFreelancer), jobH.SubmitProposal)
	jobs.Get("/:jobId/proposals", authn, jobH.ListProposals)
	jobs.Put("/:jobId/proposals/:proposalId", authn, jobH.UpdateProposal)
	jobs.Get("/:jobId/messages", authn, chatH.List)
	jobs.Post("/:jobId/messages", authn, chatH.Send)

	users := api.Group("/users", authn)
	users.Get("/profile", userH.Profile)
	users.Put("/profile", userH.UpdateProfile)
	users.Get("/", admin, userH.List)
	users.Delete("/:userId", admin, userH.Delete)
	users.Put("/:userId/ban", admin, userH.ToggleBan)

	notifs := api.Group("/notifications", authn)
	notifs.Get("/", notifH.List)
	notifs.Patch("/:id/read", notifH.MarkRead)

	if d.Hub != nil {
		app.Get("/ws/notifications", notifH.Upgrade, notifH.Stream())
	}
}
