package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/dsnmoura/thrg-flow/configs"
	"github.com/dsnmoura/thrg-flow/internal/api/handlers"
	"github.com/dsnmoura/thrg-flow/internal/api/middleware"
	job "github.com/dsnmoura/thrg-flow/internal/jobs"
	"github.com/dsnmoura/thrg-flow/internal/publisher"
	"github.com/dsnmoura/thrg-flow/internal/queue"
	"github.com/dsnmoura/thrg-flow/internal/repository"
	"github.com/dsnmoura/thrg-flow/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
		BodyLimit:    25 * 1024 * 1024, // 25 MB, enough for one image
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Api-Key, X-Service-Key",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	apiKeyRepo := repository.NewAPIKeyRepository(db)

	authService := service.NewAuthService(*cfg, userRepo)
	userService := service.NewUserService(userRepo)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo)
	storageService := service.NewStorageService(*cfg)
	contentService := service.NewContentService(*cfg)
	scheduleService, err := service.NewScheduleService(postRepo, cfg.DefaultTimezone)
	if err != nil {
		log.Fatalf("Failed to build schedule service: %v", err)
	}
	dashboardService := service.NewDashboardService(postRepo)

	registry := publisher.NewRegistry()
	publishJob := job.NewPublishJob(postRepo, registry)

	authMiddleware := middleware.NewAuthMiddleware(*cfg, apiKeyService)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Get("/login", auth.Login)
	app.Get("/login/callback", auth.LoginCallback)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(userService)
	api.Get("/user/info", user.GetUserInfo)

	apiKeys := handlers.NewAPIKeyHandler(apiKeyService)
	api.Post("/keys", apiKeys.CreateKey)
	api.Get("/keys", apiKeys.ListKeys)
	api.Delete("/keys/:id", apiKeys.RemoveKey)

	post := handlers.NewPostHandler(scheduleService, storageService, client)
	api.Post("/posts", post.SchedulePost)
	api.Get("/posts", post.ListPosts)
	api.Delete("/posts/:id", post.CancelPost)
	api.Get("/platforms/:platform/optimal-times", post.OptimalTimes)

	dashboard := handlers.NewDashboardHandler(dashboardService)
	api.Get("/dashboard/summary", dashboard.Summary)

	content := handlers.NewContentHandler(contentService)
	api.Post("/content/generate", content.Generate)

	jobs := handlers.NewJobsHandler(publishJob)
	internal := app.Group("/internal", middleware.ServiceKeyMiddleware(cfg.ServiceKey))
	internal.Post("/jobs/publish-scheduled", jobs.PublishScheduled)

	// Periodic sweep: catches posts whose delayed task was lost and
	// anything scheduled out of band.
	c := cron.New()
	c.AddFunc(cfg.SweepSpec, func() {
		if _, err := publishJob.Run(context.Background()); err != nil {
			log.Printf("Publish sweep failed: %v", err)
		}
	})
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		worker := queue.NewWorker(publishJob)
		mux.HandleFunc(queue.TaskTypePublishPost, worker.HandlePublishPostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
