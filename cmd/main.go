package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Foodgram-Backend/cmd/config"
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/cmd/database/seed"
	"Foodgram-Backend/internal/cache"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logger"
	"Foodgram-Backend/pkg/ingredient"
	"Foodgram-Backend/pkg/tag"
)

const usage = `usage: foodgram <command>

commands:
  serve        run the HTTP API
  migrate      create or update the database schema
  load_data    import DATA_DIR/ingredients.csv and DATA_DIR/tags.csv
  clear_cache  drop cached tags and ingredients
`

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	utils.LoadConfig()
	log, err := logger.New(utils.GetConfig("APP_ENV"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch flag.Arg(0) {
	case "serve":
		err = serve(ctx, log)
	case "migrate":
		err = migrate()
	case "load_data":
		err = loadData(ctx, log)
	case "clear_cache":
		err = clearCache(ctx, log)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("command failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, log *logger.Logger) error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	infra, err := config.NewInfra(ctx, log)
	if err != nil {
		return err
	}
	defer infra.Cache.Close()

	app, err := config.NewApp(db, infra)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := ":" + utils.GetConfig("APP_PORT")
	log.Info("listening", "addr", addr)
	return app.Listen(addr)
}

func migrate() error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	if err := migration.Migrate(db); err != nil {
		return err
	}
	fmt.Println("Database migration complete")
	return nil
}

func loadData(ctx context.Context, log *logger.Logger) error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	scopes, err := cache.NewScopes(ctx, log)
	if err != nil {
		return err
	}
	defer scopes.Close()

	utils.InitValidator()
	counts, err := seed.Load(
		ctx,
		utils.GetConfig("DATA_DIR"),
		utils.Validate,
		ingredient.NewIngredientService(ingredient.NewIngredientRepository(db), scopes.Catalog, log),
		tag.NewTagService(tag.NewTagRepository(db), scopes.Catalog, log),
	)
	fmt.Printf("Loaded %d ingredients\n", counts.Ingredients)
	fmt.Printf("Loaded %d tags\n", counts.Tags)
	if !scopes.Shared() {
		fmt.Println("No shared cache configured, running servers refresh their catalog after CACHE_TTL_SECONDS")
	}
	return err
}

func clearCache(ctx context.Context, log *logger.Logger) error {
	scopes, err := cache.NewScopes(ctx, log)
	if err != nil {
		return err
	}
	defer scopes.Close()

	if err := scopes.ClearCatalog(ctx); err != nil {
		return err
	}
	fmt.Println("Cleared cache")
	return nil
}
