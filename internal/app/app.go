package app

import (
	"fleetops-backend/internal/analytics"
	"fleetops-backend/internal/auth"
	"fleetops-backend/internal/config"
	"fleetops-backend/internal/constants"
	"fleetops-backend/internal/datasets"
	"fleetops-backend/internal/health"
	"fleetops-backend/internal/infrastructure/database"
	"fleetops-backend/internal/middleware"
	"fleetops-backend/internal/reports"
	"fleetops-backend/internal/store"
	"fleetops-backend/internal/uploads"
	"fleetops-backend/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and route
// registration.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
		BodyLimit:               cfg.MaxUploadMB * 1024 * 1024,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))

	// Session (Redis); need Redis client for health marker too
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}
	if err := auth.SeedAdmin(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return nil, nil, nil, err
	}

	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, err
	}

	hh := &health.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		DataDir:        cfg.DataDir,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	// Auth
	ah := &auth.Handlers{
		DB:         db,
		UserFinder: &auth.GormUserFinder{DB: db},
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Post("/register", ah.Register)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	// Users
	us := &user.Service{DB: db, Rdb: rdb}
	uh := &user.Handlers{Service: us}
	ug := app.Group("/api/v1/users", middleware.RequireAuth())
	ug.Get("/", middleware.AuthorizePermission(constants.ManageUsers), uh.List)
	ug.Get("/:user_id", middleware.AuthorizePermission(constants.ManageUsers), uh.View)
	ug.Patch("/:user_id/role", middleware.AuthorizePermission(constants.ManageUsers), uh.UpdateRole)
	ug.Delete("/:user_id", middleware.AuthorizePermission(constants.ManageUsers), uh.Deactivate)

	// Datasets
	ds := &datasets.Service{Store: fileStore}
	dh := &datasets.Handlers{Service: ds}
	dg := app.Group("/api/v1/datasets", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ViewData))
	dg.Get("/", dh.List)
	dg.Get("/:dataset", dh.Info)
	dg.Get("/:dataset/data", dh.Data)
	dg.Post("/:dataset/data", dh.DataPost)
	dg.Get("/:dataset/columns/:column/stats", dh.ColumnStats)

	// Fleet analytics
	as := &analytics.Service{Store: fileStore}
	anh := &analytics.Handlers{Service: as}
	fg := app.Group("/api/v1/fleet", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ViewData))
	fg.Get("/summary", anh.Summary)
	fg.Get("/filters", anh.Filters)

	// Scripts
	rs := &reports.Service{Store: fileStore, DB: db}
	rh := &reports.Handlers{Service: rs}
	sg := app.Group("/api/v1/scripts", middleware.RequireAuth())
	sg.Get("/", middleware.AuthorizePermission(constants.ViewData), rh.List)
	sg.Get("/runs", middleware.AuthorizePermission(constants.ViewData), rh.Runs)
	sg.Post("/:script/run", middleware.AuthorizePermission(constants.RunScripts), rh.Run)

	// Uploads
	ups := &uploads.Service{Store: fileStore, MaxBytes: int64(cfg.MaxUploadMB) * 1024 * 1024}
	uph := &uploads.Handlers{Service: ups}
	app.Post("/api/v1/files/:dataset/upload",
		middleware.RequireAuth(), middleware.AuthorizePermission(constants.UploadData), uph.Upload)

	return app, db, rdb, nil
}
