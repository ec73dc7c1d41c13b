package main

import (
	"log"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"reviewhub.app/reviewhub/internal/config"
	"reviewhub.app/reviewhub/internal/handler"
	"reviewhub.app/reviewhub/internal/middleware"
	"reviewhub.app/reviewhub/internal/model"
	"reviewhub.app/reviewhub/internal/repository"
	"reviewhub.app/reviewhub/internal/service"
	"reviewhub.app/reviewhub/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, auth rate limiting disabled")
	}

	mailer := service.NewLogMailer()

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := service.NewAuthService(userRepo, mailer, rdb, cfg.RateLimitAuth)
	authHandler := handler.NewAuthHandler(authService)

	userService := service.NewUserService(userRepo, mailer)
	userHandler := handler.NewUserHandler(userService)

	categoryService := service.NewCategoryService(categoryRepo)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	genreService := service.NewGenreService(genreRepo)
	genreHandler := handler.NewGenreHandler(genreService)

	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, reviewRepo)
	titleHandler := handler.NewTitleHandler(titleService)

	reviewService := service.NewReviewService(reviewRepo, titleRepo, userRepo)
	reviewHandler := handler.NewReviewHandler(reviewService)

	commentService := service.NewCommentService(commentRepo, reviewRepo, userRepo)
	commentHandler := handler.NewCommentHandler(commentService)

	authMiddleware := middleware.NewAuthMiddleware(userRepo)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/token", authHandler.ObtainToken)

		// Read access is anonymous
		api.GET("/categories", categoryHandler.GetAllCategories)
		api.GET("/genres", genreHandler.GetAllGenres)
		api.GET("/titles", titleHandler.ListTitles)
		api.GET("/titles/:title_id", titleHandler.GetTitle)
		api.GET("/titles/:title_id/reviews", reviewHandler.ListReviews)
		api.GET("/titles/:title_id/reviews/:review_id", reviewHandler.GetReview)
		api.GET("/titles/:title_id/reviews/:review_id/comments", commentHandler.ListComments)
		api.GET("/titles/:title_id/reviews/:review_id/comments/:comment_id", commentHandler.GetComment)

		authed := api.Group("")
		authed.Use(authMiddleware.RequireAuth())
		{
			// /users/me must be registered before /users/:username
			authed.GET("/users/me", userHandler.GetProfile)
			authed.PATCH("/users/me", userHandler.UpdateProfile)

			authed.POST("/titles/:title_id/reviews", reviewHandler.CreateReview)
			authed.PATCH("/titles/:title_id/reviews/:review_id", reviewHandler.UpdateReview)
			authed.DELETE("/titles/:title_id/reviews/:review_id", reviewHandler.DeleteReview)

			authed.POST("/titles/:title_id/reviews/:review_id/comments", commentHandler.CreateComment)
			authed.PATCH("/titles/:title_id/reviews/:review_id/comments/:comment_id", commentHandler.UpdateComment)
			authed.DELETE("/titles/:title_id/reviews/:review_id/comments/:comment_id", commentHandler.DeleteComment)

			admin := authed.Group("")
			admin.Use(authMiddleware.RequireAdmin())
			{
				admin.GET("/users", userHandler.ListUsers)
				admin.POST("/users", userHandler.CreateUser)
				admin.GET("/users/:username", userHandler.GetUser)
				admin.PATCH("/users/:username", userHandler.UpdateUser)
				admin.DELETE("/users/:username", userHandler.DeleteUser)

				admin.POST("/categories", categoryHandler.CreateCategory)
				admin.DELETE("/categories/:slug", categoryHandler.DeleteCategory)
				admin.POST("/genres", genreHandler.CreateGenre)
				admin.DELETE("/genres/:slug", genreHandler.DeleteGenre)

				admin.POST("/titles", titleHandler.CreateTitle)
				admin.PATCH("/titles/:title_id", titleHandler.UpdateTitle)
				admin.DELETE("/titles/:title_id", titleHandler.DeleteTitle)
			}
		}
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&model.Title{}, "Genres", &model.TitleGenre{}); err != nil {
		return err
	}

	return db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Genre{},
		&model.Title{},
		&model.Review{},
		&model.Comment{},
	)
}

func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("username = ?", "admin").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	code := "admin-dev-code"
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Username:             "admin",
		Email:                "admin@reviewhub.local",
		Role:                 model.RoleAdmin,
		ConfirmationCodeHash: string(hash),
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("seeded admin user (confirmation code: %s)", code)
	return nil
}
