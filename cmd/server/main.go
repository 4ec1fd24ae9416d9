package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/content-planner/configs"
	"github.com/maheshrc27/content-planner/internal/api/handlers"
	"github.com/maheshrc27/content-planner/internal/api/middleware"
	job "github.com/maheshrc27/content-planner/internal/jobs"
	"github.com/maheshrc27/content-planner/internal/planner"
	"github.com/maheshrc27/content-planner/internal/publisher"
	"github.com/maheshrc27/content-planner/internal/queue"
	"github.com/maheshrc27/content-planner/internal/repository"
	"github.com/maheshrc27/content-planner/internal/service"
	"github.com/maheshrc27/content-planner/internal/textgen"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()
	loc := cfg.Location()

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

	settings := publisher.ResolveSettings(*cfg)
	slog.Info("publish mode resolved", "mode", settings.Mode)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	mediaAssetRepo := repository.NewMediaAssetRepository(db)
	postRepo := repository.NewPostRepository(db, mediaAssetRepo)
	pageRepo := repository.NewPageRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)
	historyRepo := repository.NewPostingHistoryRepository(db)

	platformService := service.NewPlatformService(settings, cfg.SecretKey, credentialRepo)
	pub := publisher.New(settings, platformService, publisher.Options{})

	gen, err := textgen.NewGemini(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("Failed to create text generator: %v", err)
	}
	tg := textgen.NewService(gen)
	advisors := planner.NewAdvisors(tg)

	authService := service.NewAuthService(cfg.SecretKey, cfg.OperatorPassword)
	postService := service.NewPostService(postRepo, pageRepo, planner.NewLifecycle(planner.Unrestricted), loc)
	pageService := service.NewPageService(pageRepo, pub, cfg.SecretKey)
	dashboardService := service.NewDashboardService(pageRepo, postRepo, advisors, postService, settings.Mode, cfg.WeeklyGoal, loc)
	publishService := service.NewPublishService(postService, pageService, postRepo, historyRepo, pub, loc)
	aiService := service.NewAIService(tg, postService, pageService)
	assetService := service.NewAssetService(postService, service.NewR2Service(*cfg))

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	auth := handlers.NewAuthHandler(*cfg, authService)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)

	platform := handlers.NewPlatformHandler(platformService, *cfg)
	app.Get("/auth/facebook", authMiddleware.AuthMiddleware(), platform.Login)
	app.Get("/auth/facebook/callback", platform.Callback)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Get("/facebook/status", platform.Status)
	api.Post("/facebook/logout", platform.Logout)

	page := handlers.NewPageHandler(pageService, dashboardService, aiService)
	api.Get("/pages", page.ListPages)
	api.Post("/pages", page.CreatePage)
	api.Get("/targets", page.ListTargets)
	api.Get("/pages/:id", page.GetPage)
	api.Put("/pages/:id", page.UpdatePage)
	api.Delete("/pages/:id", page.RemovePage)
	api.Post("/pages/:id/connect", page.Connect)
	api.Post("/pages/:id/disconnect", page.Disconnect)
	api.Get("/pages/:id/dashboard", page.Dashboard)
	api.Post("/pages/:id/gaps/accept", page.AcceptGap)
	api.Get("/pages/:id/ideas", page.Ideas)

	post := handlers.NewPostHandler(postService, publishService, aiService, assetService, client)
	api.Get("/templates", post.Templates)
	api.Get("/pages/:id/posts", post.ListPosts)
	api.Post("/pages/:id/posts", post.CreatePost)
	api.Get("/pages/:id/calendar", post.Calendar)
	api.Post("/pages/:id/posts/template/:templateID", post.CreateFromTemplate)
	api.Post("/pages/:id/posts/idea", post.CreateFromIdea)
	api.Get("/posts/:id", post.GetPost)
	api.Patch("/posts/:id", post.UpdatePost)
	api.Delete("/posts/:id", post.RemovePost)
	api.Put("/posts/:id/status", post.SetStatus)
	api.Post("/posts/:id/publish", post.Publish)
	api.Post("/posts/:id/schedule", post.Schedule)
	api.Get("/posts/:id/history", post.History)
	api.Post("/posts/:id/draft", post.Draft)
	api.Post("/posts/:id/hook", post.ApplyHook)
	api.Post("/posts/:id/assets", post.UploadAsset)

	// cron jobs
	gapPrefetchJob := job.NewGapPrefetchJob(pageRepo, dashboardService)

	//queue
	queueW := queue.NewQueue(postService, publishService)

	c := cron.New()
	if err := c.AddFunc(cfg.GapPrefetchSchedule, gapPrefetchJob.PrefetchGaps); err != nil {
		log.Fatalf("Invalid gap prefetch schedule %q: %v", cfg.GapPrefetchSchedule, err)
	}
	c.Start()
	defer c.Stop()

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskTypeSchedulePost, queueW.HandleSchedulePostTask)

	log.Println("Starting the Asynq server...")
	if err := server.Start(mux); err != nil {
		log.Fatalf("Could not start Asynq server: %v", err)
	}

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.PublicURL)

	gracefulShutdown(app, server)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}
	server.Shutdown()

	log.Println("Server shutdown complete.")
}
