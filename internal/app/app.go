package app

import (
	"time"

	"badir-backend/internal/admin"
	"badir-backend/internal/auth"
	"badir-backend/internal/config"
	"badir-backend/internal/database"
	"badir-backend/internal/emails"
	"badir-backend/internal/health"
	"badir-backend/internal/initiatives"
	"badir-backend/internal/middleware"
	"badir-backend/internal/notifications"
	"badir-backend/internal/organizations"
	"badir-backend/internal/participants"
	"badir-backend/internal/uploads"
	"badir-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App bundles the Fiber application with the shared handles main and the
// dispatcher cron need.
type App struct {
	Fiber         *fiber.App
	DB            *gorm.DB
	Rdb           *redis.Client
	Notifications *notifications.Service
}

// New builds the full application: middleware chain, every module, every route.
func New(cfg *config.Config) (*App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendSuffix,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}

	sender := &emails.ResendClient{
		APIKey:       cfg.ResendAPIKey,
		MailFrom:     cfg.MailFrom,
		ContactEmail: cfg.ContactEmail,
	}
	notificationsSvc := &notifications.Service{DB: db, Sender: sender}

	uploadsSvc := &uploads.Service{
		Client: &uploads.HTTPClient{
			BaseURL:   cfg.SupabaseURL,
			SecretKey: cfg.SupabaseSecretKey,
		},
		BaseURL: cfg.SupabaseURL,
	}

	authHandlers := &auth.Handlers{
		Service: &auth.Service{DB: db},
		Rdb:     rdb,
		Config:  sessionCfg,
	}
	usersHandlers := &users.Handlers{
		Service: &users.Service{DB: db, Uploads: uploadsSvc},
	}
	orgsSvc := &organizations.Service{DB: db, Rdb: rdb}
	orgsHandlers := &organizations.Handlers{Service: orgsSvc}
	initiativesHandlers := &initiatives.Handlers{
		Service: &initiatives.Service{DB: db},
	}
	participantsHandlers := &participants.Handlers{
		Service: &participants.Service{DB: db},
	}
	adminHandlers := &admin.Handlers{
		Service: &admin.Service{
			DB:            db,
			Rdb:           rdb,
			Notifications: notificationsSvc,
			Config:        cfg,
		},
	}
	uploadsHandlers := &uploads.Handlers{Service: uploadsSvc}
	healthHandlers := &health.Handlers{
		Service: &health.Service{DB: db, Rdb: rdb, Started: time.Now()},
	}

	app.Get("/health", healthHandlers.Check)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", authHandlers.Signup)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	usersGroup := api.Group("/users")
	usersGroup.Post("/complete-profile", middleware.RequireAuth(), usersHandlers.CompleteProfile)
	usersGroup.Put("/profile", middleware.RequireAuth(), usersHandlers.UpdateProfile)
	usersGroup.Get("/:id/image", usersHandlers.Image)

	api.Get("/partners", orgsHandlers.FeaturedPartners)
	orgsGroup := api.Group("/organizations")
	orgsGroup.Post("/", middleware.RequireAuth(), orgsHandlers.Register)
	orgsGroup.Get("/", orgsHandlers.List)
	orgsGroup.Get("/mine", middleware.RequireAuth(), orgsHandlers.Mine)
	orgsGroup.Get("/:id", orgsHandlers.GetByID)
	orgsGroup.Get("/:id/initiatives", initiativesHandlers.ByOrganization)

	initiativesGroup := api.Group("/initiatives")
	initiativesGroup.Post("/", middleware.RequireAuth(), initiativesHandlers.Create)
	initiativesGroup.Get("/", initiativesHandlers.List)
	initiativesGroup.Get("/:id", initiativesHandlers.GetByID)
	initiativesGroup.Put("/:id", middleware.RequireAuth(), initiativesHandlers.Update)
	initiativesGroup.Post("/:id/join", middleware.RequireAuth(), participantsHandlers.Join)
	initiativesGroup.Get("/:id/participants", middleware.RequireAuth(), participantsHandlers.List)
	initiativesGroup.Patch("/:id/participants/:pid", middleware.RequireAuth(), participantsHandlers.SetStatus)
	initiativesGroup.Post("/:id/rate", middleware.RequireAuth(), participantsHandlers.Rate)

	api.Post("/uploads/:bucket", middleware.RequireAuth(), uploadsHandlers.SignedUploadURL)

	adminGroup := api.Group("/admin", middleware.RequireAuth(), middleware.RequireAdmin())
	adminGroup.Get("/organizations", adminHandlers.ListOrganizations)
	adminGroup.Get("/organizations/:id", adminHandlers.GetOrganization)
	adminGroup.Patch("/organizations/:id/status", adminHandlers.UpdateOrganizationStatus)
	adminGroup.Get("/initiatives", adminHandlers.ListInitiatives)
	adminGroup.Get("/initiatives/:id", adminHandlers.GetInitiative)
	adminGroup.Patch("/initiatives/:id/status", adminHandlers.UpdateInitiativeStatus)
	adminGroup.Get("/categories", adminHandlers.ListCategories)
	adminGroup.Post("/categories", adminHandlers.CreateCategory)
	adminGroup.Put("/categories/:id", adminHandlers.UpdateCategory)
	adminGroup.Delete("/categories/:id", adminHandlers.DeleteCategory)
	adminGroup.Get("/stats", adminHandlers.Stats)
	adminGroup.Get("/partners", adminHandlers.ListPartners)
	adminGroup.Patch("/partners/:id", adminHandlers.ToggleFeaturedPartner)

	return &App{
		Fiber:         app,
		DB:            db,
		Rdb:           rdb,
		Notifications: notificationsSvc,
	}, nil
}
