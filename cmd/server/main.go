package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/fadilmartias/taskfit/internal/config"
	"github.com/fadilmartias/taskfit/internal/domain/fiber/handler"
	"github.com/fadilmartias/taskfit/internal/middleware"
	"github.com/fadilmartias/taskfit/internal/model"
	"github.com/fadilmartias/taskfit/internal/repository"
	"github.com/fadilmartias/taskfit/internal/service"
	"github.com/fadilmartias/taskfit/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()
	if err := godotenv.Load(); err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		// Room for two uploads at handler.MaxUploadSize plus form overhead.
		BodyLimit: 3 * handler.MaxUploadSize,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: appConfig.Env != "production",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return appConfig.Env != "production"
		},
	}))
	app.Use(healthcheck.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.RateLimiter(50, 1*time.Minute))

	db := ConnectDB()

	jobRepo := repository.NewJobRepository(db)
	fitRepo := repository.NewFitRepository(db)

	// The external capability is resolved once at startup: Gemini when its
	// key is configured, OpenRouter as second choice, otherwise nil and the
	// pipeline runs in fallback mode.
	var generator service.TextGenerator
	var embedder usecase.Embedder
	if config.LoadGeminiConfig().APIKey != "" {
		gemini, err := service.NewGeminiService(ctx)
		if err != nil {
			log.Fatal(err)
		}
		generator = gemini
		embedder = gemini
	} else if config.LoadOpenRouterConfig().APIKey != "" {
		generator = service.NewOpenRouterService()
		log.Println("Gemini not configured, using OpenRouter for extraction and generation")
	} else {
		log.Println("No LLM API key found. Extraction and cover letters run in fallback mode.")
	}

	extractor := service.NewTaskExtractorService(generator)
	letters := service.NewCoverLetterService(generator)
	uc := usecase.NewTaskFitUsecase(jobRepo, fitRepo, extractor, letters, embedder)
	h := handler.NewTaskFitHandler(uc)

	h.RegisterRoutes(app)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			log.Printf("Active goroutines: %d", runtime.NumGoroutine())
		}
	}()

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(&model.Job{}, &model.Task{}, &model.Assessment{}, &model.FitResult{})
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
