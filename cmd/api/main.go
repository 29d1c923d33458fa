package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/question-bank-api/internal/config"
	"github.com/yourusername/question-bank-api/internal/handler"
	"github.com/yourusername/question-bank-api/internal/middleware"
	pgRepo "github.com/yourusername/question-bank-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/question-bank-api/internal/repository/redis"
	"github.com/yourusername/question-bank-api/internal/service"
	"github.com/yourusername/question-bank-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	questionRepo := pgRepo.NewQuestionRepo(db)
	linkRepo := pgRepo.NewQuestionSkillLinkRepo(db)
	commitLogRepo := pgRepo.NewCommitLogRepo(db)
	summaryRepo := pgRepo.NewQuestionSummaryRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	questionService := service.NewQuestionService(questionRepo, linkRepo, commitLogRepo, summaryRepo, cacheRepo)

	// Инициализируем обработчики
	questionHandler := handler.NewQuestionHandler(questionService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	isProduction := gin.Mode() == gin.ReleaseMode

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// В development: доверяем localhost
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(middleware.RequestID())

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8000", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	readLimit := rateLimiter.Limit(middleware.DefaultReadRateLimitConfig())
	writeLimit := rateLimiter.Limit(middleware.StrictWriteRateLimitConfig())

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Вопросы
		questions := api.Group("/questions")
		{
			questions.GET("", readLimit, questionHandler.GetQuestions)

			// Группа маршрутов, требующих questionID
			questionWithID := questions.Group("/:questionID")
			questionWithID.Use(middleware.ExtractIDParam("questionID", "questionID"))
			{
				questionWithID.GET("", readLimit, questionHandler.GetQuestion)
				questionWithID.GET("/history", readLimit, questionHandler.GetQuestionHistory)
				questionWithID.GET("/versions/:version", readLimit, questionHandler.GetQuestionVersion)
				questionWithID.GET("/links", readLimit, questionHandler.GetQuestionLinks)

				// Маршруты для администраторов банка вопросов
				adminQuestions := questionWithID.Group("") // Наследует middleware
				adminQuestions.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
				{
					adminQuestions.PUT("", writeLimit, questionHandler.UpdateQuestion)
					adminQuestions.DELETE("", writeLimit, questionHandler.DeleteQuestion)
					adminQuestions.POST("/links", writeLimit, questionHandler.LinkSkill)
					adminQuestions.DELETE("/links/:skillID",
						middleware.ExtractIDParam("skillID", "skillID"),
						writeLimit, questionHandler.UnlinkSkill)
				}
			}

			// Маршрут создания вопроса (не требует ID)
			adminCreateQuestion := questions.Group("")
			adminCreateQuestion.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminCreateQuestion.POST("", writeLimit, questionHandler.CreateQuestion)
			}
		}

		// Навыки
		skillWithID := api.Group("/skills/:skillID")
		skillWithID.Use(middleware.ExtractIDParam("skillID", "skillID"))
		{
			skillWithID.GET("/links", readLimit, questionHandler.GetSkillLinks)
			skillWithID.GET("/links/export",
				authMiddleware.RequireAuth(), authMiddleware.AdminOnly(),
				readLimit, questionHandler.ExportSkillLinks)
		}

		// Привязки вопросов к навыкам
		skillLinks := api.Group("/skill-links")
		{
			skillLinks.GET("", readLimit, questionHandler.GetSkillLinksPage)
			skillLinks.POST("/selection", readLimit, questionHandler.SelectLinks)
		}

		// Summary вопросов
		api.GET("/summaries", readLimit, questionHandler.GetSummaries)

		// Обезличивание автора (только для администраторов)
		api.POST("/creators/:creatorID/anonymize",
			middleware.ExtractIDParam("creatorID", "creatorID"),
			authMiddleware.RequireAuth(), authMiddleware.AdminOnly(),
			writeLimit, questionHandler.AnonymizeCreator)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
