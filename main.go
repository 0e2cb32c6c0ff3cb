package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"

	"pendidikanku_backend/internals/configs"
	database "pendidikanku_backend/internals/databases"
	"pendidikanku_backend/internals/features/school/quizzes/events"
	"pendidikanku_backend/internals/features/school/quizzes/repository"
	"pendidikanku_backend/internals/features/school/quizzes/service"
	middlewares "pendidikanku_backend/internals/middlewares"
	routes "pendidikanku_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// HTTP timeout guard; finalize submit punya timeout sendiri
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%s %s %s status=%d dur=%s", id, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app)

	// 🔌 storage
	quizRepo, attemptRepo := setupStorage()
	quizRepo = repository.NewCachedQuizRepository(
		quizRepo,
		database.ConnectRedis(),
		configs.GetEnvSeconds("QUESTION_CACHE_TTL_SEC", 10*time.Minute),
	)

	// 📣 events
	publisher := setupPublisher()
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Printf("publisher close err: %v", err)
		}
	}()

	bank := service.NewQuestionBank(quizRepo)
	routes.SetupRoutes(app, routes.Services{
		QuizAttempts: service.NewQuizAttemptService(bank, attemptRepo,
			service.WithPublisher(publisher),
			service.WithFinalizeTimeout(configs.GetEnvSeconds("SUBMIT_FINALIZE_TIMEOUT_SEC", 10*time.Second)),
		),
		Quizzes: service.NewQuizService(quizRepo),
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB / redis
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	database.Close()
	if database.Redis != nil {
		_ = database.Redis.Close()
	}
}

func setupStorage() (repository.QuizRepository, repository.AttemptRepository) {
	if configs.StorageDriver == "memory" {
		log.Println("⚠️ STORAGE_DRIVER=memory, data hilang saat restart")
		return repository.NewMemoryQuizRepository(), repository.NewMemoryAttemptRepository()
	}

	database.ConnectDB()
	database.TunePool()
	database.WarmUpQueries()

	if configs.AutoMigrate {
		if err := repository.AutoMigrate(database.DB); err != nil {
			log.Fatalf("❌ AutoMigrate gagal: %v", err)
		}
		log.Println("✅ AutoMigrate quiz selesai.")
	}
	return repository.NewGormQuizRepository(database.DB), repository.NewGormAttemptRepository(database.DB)
}

func setupPublisher() events.Publisher {
	url := configs.GetEnv("RABBITMQ_URL")
	if url == "" {
		log.Println("⚠️ RABBITMQ_URL kosong, event attempt tidak dikirim")
		return events.NoopPublisher{}
	}
	p, err := events.NewRabbitPublisher(url)
	if err != nil {
		log.Printf("⚠️ RabbitMQ tidak tersedia (%v), event attempt tidak dikirim", err)
		return events.NoopPublisher{}
	}
	return p
}
