package config

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"Foodgram-Backend/internal/api/handlers"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/api/routes"
	"Foodgram-Backend/internal/cache"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logger"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/tag"
	"Foodgram-Backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Infra holds the process wide clients the HTTP app is built from.
type Infra struct {
	Cache      *cache.Scopes
	Storage    storage.ImageStorage
	JWTService jwt.JWTService
	Logger     *logger.Logger

	// AccessLog receives one line per request.
	AccessLog io.Writer
	// MediaRoot is served under /media when images are kept on local disk.
	MediaRoot string
	RateLimit int
}

// NewInfra connects the cache and image storage selected by configuration.
func NewInfra(ctx context.Context, log *logger.Logger) (Infra, error) {
	jwtService, err := jwt.NewJWTService()
	if err != nil {
		return Infra{}, err
	}
	scopes, err := cache.NewScopes(ctx, log)
	if err != nil {
		return Infra{}, err
	}

	infra := Infra{
		Cache:      scopes,
		JWTService: jwtService,
		Logger:     log,
		RateLimit:  utils.GetConfigInt("RATE_LIMIT_PER_SECOND", 10),
	}

	if utils.GetConfig("AWS_S3_BUCKET") != "" {
		infra.Storage, err = storage.NewAwsS3(ctx)
		if err != nil {
			return Infra{}, err
		}
		log.Info("storing images in s3", "bucket", utils.GetConfig("AWS_S3_BUCKET"))
	} else {
		infra.MediaRoot = utils.GetConfig("MEDIA_ROOT")
		baseURL := strings.TrimRight(utils.GetConfig("APP_URL"), "/") + "/media"
		infra.Storage, err = storage.NewLocalDisk(infra.MediaRoot, baseURL)
		if err != nil {
			return Infra{}, err
		}
		log.Info("storing images on local disk", "root", infra.MediaRoot)
	}

	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return Infra{}, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return Infra{}, err
	}
	infra.AccessLog = file
	return infra, nil
}

func NewApp(db *gorm.DB, infra Infra) (*fiber.App, error) {
	utils.InitValidator()
	presenters.SetLogger(infra.Logger)

	app := fiber.New(fiber.Config{
		AppName:   "foodgram",
		BodyLimit: 10 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware(infra.Cache.Tokens)
	validator := utils.Validate

	app.Use(recover.New())
	if infra.AccessLog != nil {
		app.Use(fiberlogger.New(fiberlogger.Config{
			TimeFormat: "2006-01-02 15:04:05",
			TimeZone:   "UTC",
			Output:     infra.AccessLog,
		}))
	}
	if infra.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        infra.RateLimit,
			Expiration: 1 * time.Second,
		}))
	}
	if infra.MediaRoot != "" {
		app.Static("/media", infra.MediaRoot)
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	tagRepository := tag.NewTagRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	userService := user.NewUserService(userRepository, infra.JWTService, infra.Cache.Tokens)
	tagService := tag.NewTagService(tagRepository, infra.Cache.Catalog, infra.Logger)
	ingredientService := ingredient.NewIngredientService(ingredientRepository, infra.Cache.Catalog, infra.Logger)
	recipeService := recipe.NewRecipeService(recipeRepository, userService, infra.Storage, infra.Logger)
	subscriptionService := user.NewSubscriptionService(userRepository, recipeService)
	favoriteService := relation.NewFavoriteService(db, recipeService)
	cartService := relation.NewShoppingCartService(db, recipeService)
	followService := relation.NewFollowService(db, userRepository, subscriptionService)

	// Handler
	userHandler := handlers.NewUserHandler(userService, subscriptionService, followService, validator)
	tagHandler := handlers.NewTagHandler(tagService)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, favoriteService, cartService, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		TagHandler:        tagHandler,
		IngredientHandler: ingredientHandler,
		RecipeHandler:     recipeHandler,
		Middleware:        middlewares,
		JWTService:        infra.JWTService,
	}
	routesConfig.Setup()
	return app, nil
}
