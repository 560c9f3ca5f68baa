package app

import (
	"estates-backend/internal/analytics"
	"estates-backend/internal/auth"
	"estates-backend/internal/bookings"
	"estates-backend/internal/cancellations"
	"estates-backend/internal/config"
	"estates-backend/internal/flats"
	"estates-backend/internal/invoices"
	"estates-backend/internal/kyc"
	"estates-backend/internal/middleware"
	"estates-backend/internal/payments"
	"estates-backend/internal/projects"
	"estates-backend/internal/schedule"
	"estates-backend/internal/store"
	"estates-backend/internal/uploads"
	"estates-backend/internal/users"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and routes, and
// returns the opened connections so the caller can verify them on startup.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS())
	app.Use(middleware.RouteLogger())

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redis.NewClient(redisOpts)

	// Services
	storageClient := &uploads.HTTPClient{BaseURL: cfg.SupabaseURL, SecretKey: cfg.SupabaseSecretKey}
	uploadsService := &uploads.Service{Client: storageClient, Bucket: cfg.KYCBucket}
	flatsService := &flats.Service{DB: db}
	projectsService := &projects.Service{DB: db, Flats: flatsService}
	scheduleService := &schedule.Service{Rdb: rdb}
	resolver := &invoices.Resolver{DB: db}
	invoicesService := &invoices.Service{DB: db, Resolver: resolver, Flats: flatsService, Schedule: scheduleService}
	cancellationsService := &cancellations.Service{DB: db, Flats: flatsService, Schedule: scheduleService}
	paymentsService := &payments.Service{DB: db}
	bookingsService := &bookings.Service{DB: db, Flats: flatsService, Projects: projectsService, Payments: paymentsService}
	kycService := &kyc.Service{DB: db, Documents: uploadsService}
	authService := &auth.Service{DB: db, AdminSecret: cfg.AdminSecret}
	usersService := &users.Service{DB: db}
	analyticsService := &analytics.Service{DB: db}

	// Handlers
	authHandlers := &auth.Handlers{Service: authService, JWTSecret: cfg.JWTSecret}
	usersHandlers := &users.Handlers{Service: usersService}
	uploadsHandlers := &uploads.Handlers{Service: uploadsService}
	kycHandlers := &kyc.Handlers{Service: kycService}
	projectsHandlers := &projects.Handlers{Service: projectsService, Flats: flatsService}
	invoicesHandlers := &invoices.Handlers{Service: invoicesService}
	cancellationsHandlers := &cancellations.Handlers{Service: cancellationsService}
	bookingsHandlers := &bookings.Handlers{Service: bookingsService}
	paymentsHandlers := &payments.Handlers{Service: paymentsService}
	scheduleHandlers := &schedule.Handlers{Service: scheduleService}
	analyticsHandlers := &analytics.Handlers{Service: analyticsService}

	// --- Public routes ---
	app.Get("/health", func(c *fiber.Ctx) error {
		status := fiber.Map{"success": true, "db": "up", "redis": "up"}
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Context()) != nil {
			status["success"] = false
			status["db"] = "down"
		}
		if rdb.Ping(c.Context()).Err() != nil {
			status["success"] = false
			status["redis"] = "down"
		}
		code := fiber.StatusOK
		if status["success"] == false {
			code = fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(status)
	})

	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/register-admin", authHandlers.RegisterAdmin)
	authGroup.Post("/login", authHandlers.Login)

	// Site-visit scheduling stays open for the customer-facing booking page.
	scheduleGroup := app.Group("/api/v1/schedule")
	scheduleGroup.Post("/", scheduleHandlers.Upsert)
	scheduleGroup.Get("/:phone", scheduleHandlers.Get)

	// --- Protected routes ---
	protected := middleware.RequireAuth(cfg.JWTSecret)

	usersGroup := app.Group("/api/v1/users", protected)
	usersGroup.Get("/", usersHandlers.List)
	usersGroup.Delete("/", usersHandlers.Delete)

	kycGroup := app.Group("/api/v1/customer-kyc", protected)
	kycGroup.Post("/presign", uploadsHandlers.Presign)
	kycGroup.Post("/", kycHandlers.Create)
	kycGroup.Get("/", kycHandlers.ListAll)
	kycGroup.Get("/approved", kycHandlers.ListApproved)
	kycGroup.Get("/pending", kycHandlers.ListPending)
	kycGroup.Get("/search/all", kycHandlers.SearchAll)
	kycGroup.Get("/search/approved", kycHandlers.SearchApproved)
	kycGroup.Get("/search/pending", kycHandlers.SearchPending)
	kycGroup.Patch("/:customerId/approve", kycHandlers.Approve)
	kycGroup.Delete("/:customerId", kycHandlers.Delete)

	projectsGroup := app.Group("/api/v1/projects", protected)
	projectsGroup.Post("/", projectsHandlers.Create)
	projectsGroup.Get("/", projectsHandlers.List)
	projectsGroup.Get("/:projectId/flats", projectsHandlers.ListFlats)
	projectsGroup.Get("/:projectId/flats/:flatId", projectsHandlers.GetFlat)
	projectsGroup.Patch("/:projectId/flats/:flatId/approve-loan", projectsHandlers.ApproveLoan)
	projectsGroup.Delete("/:projectId", projectsHandlers.Delete)

	invoicesGroup := app.Group("/api/v1/invoices", protected)
	invoicesGroup.Post("/", invoicesHandlers.CreateVersion)
	invoicesGroup.Post("/attach-to-flat", invoicesHandlers.AttachToFlat)
	invoicesGroup.Get("/:projectId/:flatId/invoice-summary", invoicesHandlers.SummaryForFlat)
	invoicesGroup.Patch("/flats/swap-latest-invoice", invoicesHandlers.SwapLatest)
	invoicesGroup.Patch("/reset", invoicesHandlers.Reset)

	cancellationsGroup := app.Group("/api/v1/cancellations", protected)
	cancellationsGroup.Post("/", cancellationsHandlers.CreateVersion)
	cancellationsGroup.Post("/attach-to-flat", cancellationsHandlers.AttachToFlat)
	cancellationsGroup.Get("/:projectId/:flatId/cancellation-summary", cancellationsHandlers.SummaryForFlat)
	cancellationsGroup.Patch("/flats/swap-latest-cancellation", cancellationsHandlers.SwapLatest)

	bookingsGroup := app.Group("/api/v1/bookings", protected)
	bookingsGroup.Post("/flats/:projectId/:flatId/book", bookingsHandlers.Book)
	bookingsGroup.Get("/flats/:projectId/:flatId/booked", bookingsHandlers.GetBooked)

	paymentsGroup := app.Group("/api/v1/payments", protected)
	paymentsGroup.Get("/", paymentsHandlers.List)
	paymentsGroup.Get("/search", paymentsHandlers.Search)
	paymentsGroup.Post("/flats/:projectId/:flatId", bookingsHandlers.AddPayment)
	paymentsGroup.Get("/flats/:projectId/:flatId", paymentsHandlers.History)

	analyticsGroup := app.Group("/api/v1/analytics", protected)
	analyticsGroup.Get("/customers", analyticsHandlers.Customers)
	analyticsGroup.Get("/sales", analyticsHandlers.Sales)
	analyticsGroup.Get("/projects", analyticsHandlers.Projects)
	analyticsGroup.Get("/projects/:projectId", analyticsHandlers.Project)

	return app, db, rdb, nil
}
