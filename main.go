package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"scoreboard-system/handlers"
	"scoreboard-system/models"
	"scoreboard-system/services"
	"scoreboard-system/utils"
	"scoreboard-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — team logos only
	})

	// CORS for the dashboard SPA and overlay embeds
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(allowedOriginsList, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Match{},
		&models.Payment{},
		&models.AdminSession{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}
	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir:", err)
	}

	identityURL := os.Getenv("IDENTITY_SERVICE_URL")
	if identityURL == "" {
		log.Fatal("IDENTITY_SERVICE_URL environment variable not set")
	}
	identityClient := services.NewIdentityClient(identityURL, os.Getenv("IDENTITY_SERVICE_API_KEY"))

	userService := services.NewUserService(db, identityClient)
	matchService := services.NewMatchService(db)
	scoreboardService := services.NewScoreboardService(db)
	paymentService := services.NewPaymentService(db)
	adminService := services.NewAdminService(db)

	wakeInterval := 60
	if v := os.Getenv("TICK_WAKE_INTERVAL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			wakeInterval = n
		}
	}
	tickScheduler := services.NewTickScheduler(matchService, wakeInterval)

	schedulerMode := os.Getenv("SCHEDULER_MODE")
	if schedulerMode == "" {
		schedulerMode = services.SchedulerModeContinuous
	}
	switch schedulerMode {
	case services.SchedulerModeContinuous:
		if err := tickScheduler.Start(); err != nil {
			log.Fatal("failed to start tick scheduler:", err)
		}
	case services.SchedulerModeCron:
		log.Println("⏰ Tick scheduler in cron mode — expecting external wakes on /internal/tick/catchup")
	default:
		log.Fatalf("unknown SCHEDULER_MODE %q (want continuous or cron)", schedulerMode)
	}

	adminService.StartSessionCleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := workers.NewUserSyncWorker(db, identityClient)
	syncWorker.Start(ctx)

	handlers.SetupAuthRoutes(app, userService, paymentService)
	handlers.SetupMatchRoutes(app, matchService, scoreboardService, userService, tickScheduler)
	handlers.SetupAdminRoutes(app, adminService, userService, paymentService, matchService)

	// Locally stored team logos (R2 fallback)
	app.Static("/uploads", "./uploads")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Tick scheduler mode: %s", schedulerMode)
	log.Println("✅ User sync worker running (every 60s)")
	log.Println("✅ Admin session cleanup running (every 60s)")

	<-ctx.Done()
	log.Println("Shutting down server...")
	tickScheduler.Stop()
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
