package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timesheet-backend/internal/auth"
	"timesheet-backend/internal/cache"
	"timesheet-backend/internal/config"
	"timesheet-backend/internal/database"
	"timesheet-backend/internal/db"
	h "timesheet-backend/internal/http"
	"timesheet-backend/internal/handlers"
	"timesheet-backend/internal/health"
	"timesheet-backend/internal/middleware"
	"timesheet-backend/internal/notify"
	"timesheet-backend/internal/repositories"
	"timesheet-backend/internal/services"
	"timesheet-backend/internal/storage"
	"timesheet-backend/internal/timeutil"
	"timesheet-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	migrateOnly := flag.Bool("migrate", false, "Run database migrations and exit")
	createAdmin := flag.Bool("create-admin", false, "Create the bootstrap administrator and exit (password from ADMIN_PASSWORD)")
	adminName := flag.String("admin-name", "Administrator", "Name of the bootstrap administrator")
	adminEmail := flag.String("admin-email", "admin@example.com", "Email of the bootstrap administrator")
	adminOrg := flag.Int("admin-org", 1, "Organisation of the bootstrap administrator")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	timeutil.SetLocation(cfg.App.Timezone)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Database unavailable: %v", err)
	}
	defer pool.Close()

	log.Println("Running database migrations...")
	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".")
	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = migrator.RunMigrations(migrateCtx)
	cancel()
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if *migrateOnly {
		return
	}

	jwtManager := auth.NewJWTManager(cfg)

	employeeRepo := repositories.NewEmployeeRepository(pool)
	projectRepo := repositories.NewProjectRepository(pool)
	timesheetRepo := repositories.NewTimesheetRepository(pool)
	salarySlipRepo := repositories.NewSalarySlipRepository(pool)
	notificationRepo := repositories.NewNotificationRepository(pool)

	employeeService := services.NewEmployeeService(employeeRepo, jwtManager)

	if *createAdmin {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			log.Fatal("ADMIN_PASSWORD must be set with -create-admin")
		}
		admin, err := employeeService.EnsureAdmin(ctx, *adminOrg, *adminName, *adminEmail, password)
		if err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		log.Printf("Admin ready: %s (id %d, org %d)", admin.Email, admin.ID, admin.OrganizationID)
		return
	}

	redisCache, err := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("[Redis] Cache unavailable: %v (timesheet reads go to the database)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}
	defer redisCache.Close()

	archive, err := storage.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to configure salary slip archive: %v", err)
	}
	if archive.Enabled() {
		log.Printf("[Storage] Archiving salary slips to bucket %s", cfg.Storage.Bucket)
	} else {
		log.Println("[Storage] No bucket configured, salary slips are rendered on demand")
	}

	hub := notify.NewHub()
	go hub.Run(ctx)

	notificationService := services.NewNotificationService(notificationRepo, hub)
	projectService := services.NewProjectService(projectRepo, employeeRepo, redisCache, notificationService)
	timesheetService := services.NewTimesheetService(timesheetRepo, projectRepo, employeeRepo,
		redisCache, notificationService, cfg.App.MaxDailyHours)
	reportService := services.NewReportService(timesheetService)
	salarySlipService := services.NewSalarySlipService(salarySlipRepo, employeeRepo, timesheetService,
		archive, notificationService, cfg.App.CompanyName, cfg.App.PaidLeaveDays)

	healthChecker := health.NewHealthChecker(pool, redisCache)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, employeeRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		handlers.NewAuthHandler(employeeService),
		handlers.NewEmployeeHandler(employeeService),
		handlers.NewProjectHandler(projectService),
		handlers.NewTimesheetHandler(timesheetService, reportService),
		handlers.NewSalarySlipHandler(salarySlipService),
		handlers.NewNotificationHandler(notificationService, hub),
		handlers.NewHealthHandler(healthChecker),
		authMiddleware,
	)

	// Wrap with panic recovery and CORS
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           middleware.PanicRecovery(corsMiddleware(router)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Server running on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed to start: %v", err)
	}
}
