// Package bootstrap builds the editor's dependencies from configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cv-editor/internal/cloud"
	"cv-editor/internal/editor"
	"cv-editor/internal/importer"
	"cv-editor/internal/llm"
	openai "cv-editor/internal/llm/openai"
	"cv-editor/internal/localstate"
	"cv-editor/internal/printfit/chrome"
	"cv-editor/internal/services/health"
	"cv-editor/internal/shared/config"
	"cv-editor/internal/shared/server"
	"cv-editor/internal/shared/server/middleware"
	"cv-editor/internal/shared/storage/db"
	"cv-editor/internal/shared/storage/object"
	localstore "cv-editor/internal/shared/storage/object/local"
	s3store "cv-editor/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config   config.Config
	Router   *gin.Engine
	DB       *sql.DB
	Redis    *redis.Client
	State    localstate.State
	Store    object.Store
	Cloud    *cloud.Service
	Importer *importer.Pipeline
	Printer  *chrome.Printer
	Sessions *editor.Registry
	Editor   *editor.Handler
	Health   *health.Service
}

// Build prepares every dependency and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app, err := BuildCore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Sessions = editor.NewRegistry(app.State, app.Cloud)
	go app.Sessions.RunEviction(ctx, cfg.SessionIdle, cfg.SessionIdle/4)
	app.Editor = editor.NewHandler(app.Sessions, app.Importer, app.Printer, cfg.APIBase)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:  cfg,
		Editor:  app.Editor,
		Health:  app.Health,
		Limiter: middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// BuildCore prepares storage, import and print without HTTP wiring, for
// commands that work on documents directly.
func BuildCore(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.APIBase) == "" {
		cfg.APIBase = "/api/v1"
	}
	app := &App{Config: cfg, Health: health.NewService(0)}

	if err := buildState(ctx, app); err != nil {
		app.Close()
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	if store != nil {
		app.Store = store
		app.Cloud = cloud.NewService(store)
	}

	extractor, err := buildExtractor(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Importer = importer.NewPipeline(extractor)
	app.Printer = &chrome.Printer{ExecPath: cfg.ChromePath, Timeout: cfg.PrintTimeout}
	return app, nil
}

func buildState(ctx context.Context, app *App) error {
	cfg := app.Config
	switch cfg.LocalState {
	case "memory":
		app.State = localstate.NewMemoryState()
	case "redis":
		if strings.TrimSpace(cfg.RedisURL) == "" {
			return fmt.Errorf("LOCAL_STATE=redis requires REDIS_URL")
		}
		state, client, err := localstate.NewRedisStateFromURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		app.Redis = client
		app.State = state
		app.Health.Register("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
	case "postgres":
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: database connect failed; using in-memory state: %v", err)
				app.State = localstate.NewMemoryState()
				return nil
			}
			return err
		}
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return fmt.Errorf("run migrations: %w", err)
		}
		app.DB = sqlDB
		app.State = &localstate.PGState{DB: sqlDB}
		app.Health.Register("postgres", sqlDB.PingContext)
	default:
		app.State = &localstate.FileState{Dir: cfg.LocalStateDir}
	}
	log.Printf("bootstrap: local state backend %s", cfg.LocalState)
	return nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "none":
		log.Printf("bootstrap: OBJECT_STORE=none; remote save disabled")
		return nil, nil
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildExtractor(cfg config.Config) (llm.Extractor, error) {
	if cfg.LLMProvider != "openai" {
		return llm.PlaceholderExtractor{}, nil
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: OPENAI_API_KEY empty; PDF import disabled")
			return llm.PlaceholderExtractor{}, nil
		}
		return nil, errors.New("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
	}
	return openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
}

// Close releases sessions and connections.
func (a *App) Close() {
	if a.Sessions != nil {
		a.Sessions.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
