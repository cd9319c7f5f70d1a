package router

import (
	"net/http"

	authsvc "auditnet-backend/internal/application/auth"
	emailsvc "auditnet-backend/internal/application/emails"
	healthsvc "auditnet-backend/internal/application/health"
	joinsvc "auditnet-backend/internal/application/joinrequests"
	notesvc "auditnet-backend/internal/application/notifications"
	orgsvc "auditnet-backend/internal/application/organizations"
	uploadsvc "auditnet-backend/internal/application/uploads"
	usersvc "auditnet-backend/internal/application/user"
	"auditnet-backend/internal/config"
	"auditnet-backend/internal/infrastructure/database"
	"auditnet-backend/internal/infrastructure/metrics"
	adminhandler "auditnet-backend/internal/interfaces/handlers/admin"
	authhandler "auditnet-backend/internal/interfaces/handlers/auth"
	healthhandler "auditnet-backend/internal/interfaces/handlers/health"
	joinhandler "auditnet-backend/internal/interfaces/handlers/joinrequests"
	notehandler "auditnet-backend/internal/interfaces/handlers/notifications"
	orghandler "auditnet-backend/internal/interfaces/handlers/organizations"
	uploadhandler "auditnet-backend/internal/interfaces/handlers/uploads"
	userhandler "auditnet-backend/internal/interfaces/handlers/user"
	"auditnet-backend/internal/middleware"
	"auditnet-backend/internal/pkg/constants"
	"auditnet-backend/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the connections and clients the routes are built from.
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Rdb     *redis.Client
	Mailer  emailsvc.Sender
	Storage uploadsvc.StorageClient
}

// CreateApp opens the database and Redis named by cfg and builds the app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	_, rdb, err := middleware.Session(sessionConfig(cfg))
	if err != nil {
		return nil, nil, nil, err
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	deps := Deps{Config: cfg, DB: db, Rdb: rdb}
	if cfg.SendinblueAPIKey != "" {
		deps.Mailer = &emailsvc.BrevoClient{APIKey: cfg.SendinblueAPIKey, MailFrom: cfg.MailFrom}
	}
	if cfg.SupabaseURL != "" {
		deps.Storage = &uploadsvc.HTTPClient{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey}
	}
	return New(deps), db, rdb, nil
}

func sessionConfig(cfg *config.Config) middleware.SessionConfig {
	return middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
		CookieDomain:      cfg.CookieDomain,
	}
}

// New registers global middleware and every route. API routes are mounted only
// when a database is available.
func New(d Deps) *fiber.App {
	cfg := d.Config
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	metrics.Register()

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigin: cfg.FrontendURL,
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.SessionStore(d.Rdb))
	app.Use(middleware.HealthMarker(d.Rdb))
	app.Use(middleware.Metrics())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	hh := &healthhandler.Handlers{
		Rdb:            d.Rdb,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	if cfg.SupabaseURL != "" {
		hh.Targets = append(hh.Targets, healthsvc.Target{Name: "storage", URL: cfg.SupabaseURL})
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	if d.DB == nil {
		return app
	}
	hh.DB = &database.Pinger{DB: d.DB}

	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	requireAuth := middleware.RequireAuth(tokens)

	users := &usersvc.Service{DB: d.DB, EmailSender: d.Mailer, SystemAdminEmail: cfg.SystemAdminEmail}
	notifier := &notesvc.Service{DB: d.DB, Mailer: d.Mailer}
	orgs := &orgsvc.Service{DB: d.DB, Notifier: notifier}
	joins := &joinsvc.Service{DB: d.DB, Notifier: notifier}
	profileGate := middleware.RequireCompleteProfile(users)

	// Auth
	ah := &authhandler.Handlers{
		Auth:      &authsvc.Service{DB: d.DB, SystemAdminEmail: cfg.SystemAdminEmail},
		Registrar: users,
		Tokens:    tokens,
		Rdb:       d.Rdb,
		Config:    sessionConfig(cfg),
	}
	ag := app.Group("/api/v1/auth")
	limited := middleware.RateLimit(middleware.RateLimitConfig{PerSecond: cfg.AuthRatePerSecond, Burst: cfg.AuthRateBurst})
	ag.Post("/register", limited, ah.Register)
	ag.Post("/login", limited, ah.Login)
	ag.Get("/me", ah.Me)
	ag.Delete("/logout", ah.Logout)

	// Users
	uh := &userhandler.Handlers{Service: users}
	ug := app.Group("/api/v1/users", requireAuth)
	ug.Get("/profile", uh.Profile)
	ug.Put("/profile", uh.UpdateProfile)
	ug.Get("/", middleware.AuthorizePermission(constants.ListUsers), uh.List)

	// Organizations
	oh := &orghandler.Handlers{Service: orgs, Joins: joins, Rdb: d.Rdb}
	og := app.Group("/api/v1/organizations", requireAuth)
	og.Get("/", oh.List)
	og.Post("/", profileGate, oh.Create)
	og.Get("/current", oh.Current)
	og.Get("/:id", oh.Get)
	og.Put("/:id", oh.Update)
	og.Delete("/:id/members/:userId", oh.RevokeMember)
	og.Post("/:id/join-requests", profileGate, oh.Join)
	og.Get("/:id/join-requests", oh.JoinRequests)

	// Join requests
	jh := &joinhandler.Handlers{Service: joins}
	jg := app.Group("/api/v1/join-requests", requireAuth)
	jg.Get("/mine", jh.Mine)
	jg.Post("/:id/approve", jh.Approve)
	jg.Post("/:id/reject", jh.Reject)

	// Firm verification
	adh := &adminhandler.Handlers{Service: orgs}
	fg := app.Group("/api/v1/admin/firms", requireAuth)
	fg.Get("/", middleware.AuthorizePermission(constants.ListFirms), adh.ListFirms)
	fg.Post("/:id/approve", middleware.AuthorizePermission(constants.VerifyFirms), adh.Approve)
	fg.Post("/:id/reject", middleware.AuthorizePermission(constants.VerifyFirms), adh.Reject)
	fg.Post("/:id/suspend", middleware.AuthorizePermission(constants.SuspendFirms), adh.Suspend)
	fg.Post("/:id/unsuspend", middleware.AuthorizePermission(constants.SuspendFirms), adh.Unsuspend)
	fg.Delete("/:id", middleware.AuthorizePermission(constants.DeleteFirms), adh.Delete)

	// Notifications
	nh := &notehandler.Handlers{Service: notifier}
	ng := app.Group("/api/v1/notifications", requireAuth)
	ng.Get("/", nh.List)
	ng.Patch("/read-all", nh.MarkAllRead)
	ng.Patch("/:id/read", nh.MarkRead)

	// Uploads
	if d.Storage != nil {
		uph := &uploadhandler.Handlers{Service: &uploadsvc.Service{
			Client:      d.Storage,
			SupabaseURL: cfg.SupabaseURL,
			Bucket:      cfg.DocumentsBucket,
		}}
		app.Post("/api/v1/uploads/document", requireAuth, uph.UploadDocument)
	}

	return app
}

// Handler adapts the app for net/http hosts.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
