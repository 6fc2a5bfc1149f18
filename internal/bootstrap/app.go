package bootstrap

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/josevbrito/food-review-agent/internal/agent"
	"github.com/josevbrito/food-review-agent/internal/ai"
	"github.com/josevbrito/food-review-agent/internal/cache"
	"github.com/josevbrito/food-review-agent/internal/config"
	redisClient "github.com/josevbrito/food-review-agent/internal/platform/redis"
	sqliteClient "github.com/josevbrito/food-review-agent/internal/platform/sqlite"
	"github.com/josevbrito/food-review-agent/internal/vectorstore"
)

// App wires every collaborator once at startup and owns them for the process
// lifetime. Handlers and offline jobs receive what they need from here;
// there is no module-level mutable state anywhere else.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redisv9.Client // nil when the embedding cache is disabled
	LLM    *ai.Client
	Store  *vectorstore.Store
	Agent  *agent.Agent

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	llm, err := ai.NewClient(
		ai.ChatConfig{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
		},
		ai.EmbeddingConfig{
			BaseURL: cfg.Embedding.BaseURL,
			APIKey:  cfg.Embedding.APIKey,
			Model:   cfg.Embedding.Model,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("configure llm client failed: %w", err)
	}

	db, err := sqliteClient.New(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	var redisCli *redisv9.Client
	var storeOpts []vectorstore.Option
	if cfg.Redis.Addr != "" {
		redisCli, err = redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		embCache := cache.NewEmbeddingCache(
			redisCli,
			llm.EmbeddingModel(),
			time.Duration(cfg.Redis.EmbeddingTTLSeconds)*time.Second,
		)
		storeOpts = append(storeOpts, vectorstore.WithCache(embCache))
	}

	store, err := vectorstore.New(db, llm, cfg.Store.Collection, storeOpts...)
	if err != nil {
		return nil, err
	}

	registry := agent.NewRegistry()
	if err := registry.Register(agent.NewSearchReviewsTool(store)); err != nil {
		return nil, fmt.Errorf("register tools failed: %w", err)
	}
	reviewAgent, err := agent.New(llm, registry, cfg.Agent.MaxTurns)
	if err != nil {
		return nil, fmt.Errorf("build agent failed: %w", err)
	}

	return &App{
		Config:    cfg,
		DB:        db,
		Redis:     redisCli,
		LLM:       llm,
		Store:     store,
		Agent:     reviewAgent,
		StartedAt: time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
