package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"sudooom.im.xuezhan/internal/config"
	"sudooom.im.xuezhan/internal/game"
	"sudooom.im.xuezhan/internal/game/mahjong/core"
	"sudooom.im.xuezhan/internal/game/mahjong/policy"
	"sudooom.im.xuezhan/internal/game/mahjong/xzmahjong"
	"sudooom.im.xuezhan/internal/handler"
	"sudooom.im.xuezhan/internal/health"
	xzNats "sudooom.im.xuezhan/internal/nats"
	"sudooom.im.xuezhan/internal/snowflake"
	"sudooom.im.xuezhan/internal/store"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "xuezhan",
	Short: "xuezhan 血战到底麻将对局服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 加载配置
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("load config %s: %w", configFile, err)
		}
		run(cfg)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "configs/config.yaml", "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Xuezhan service failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) {

	// 初始化日志
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With("node", cfg.App.NodeID)
	slog.SetDefault(logger)

	// 创建上下文
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 连接 NATS
	natsClient, err := xzNats.NewClient(cfg.NATS)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()
	logger.Info("Connected to NATS", "url", cfg.NATS.URL)

	// 连接 Redis
	redisClient := connectRedis(cfg.Redis)
	defer redisClient.Close()
	logger.Info("Connected to Redis", "host", cfg.Redis.Host)

	// 连接数据库
	db, err := connectDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL", "host", cfg.Database.Host)

	ids, err := snowflake.NewNode(cfg.App.NodeID)
	if err != nil {
		logger.Error("Invalid node id", "error", err)
		os.Exit(1)
	}

	// 初始化对局服务
	rules := core.Rules{
		StartingScore: cfg.Game.StartingScore,
		BaseUnit:      cfg.Game.BaseUnit,
		MaxWinners:    cfg.Game.MaxWinners,
		SettleWins:    cfg.Game.SettleWins,
	}
	manager := game.NewGameManager(
		store.NewRedisSnapshotStore(redisClient, cfg.Game.SnapshotTTL),
		cfg.Game.MaxGames,
		cfg.Game.EvictTimeout,
	)
	gameService := game.NewGameService(game.ServiceDeps{
		Manager:      manager,
		Engine:       xzmahjong.NewEngine(rules),
		Policy:       policy.NewHeuristic(nil),
		IDs:          ids,
		Records:      store.NewRecordRepository(db),
		Publisher:    xzNats.NewEventPublisher(natsClient.Conn()),
		MaxAutoSteps: cfg.Game.MaxAutoSteps,
	})
	gameHandler := handler.NewGameHandler(gameService)

	// 启动订阅者
	subscriber := xzNats.NewRequestSubscriber(natsClient.Conn(), gameHandler, xzNats.SubscriberConfig{
		WorkerCount: cfg.Subscriber.WorkerCount,
		BufferSize:  cfg.Subscriber.BufferSize,
	})
	if err := subscriber.Start(ctx); err != nil {
		logger.Error("Failed to start subscriber", "error", err)
		os.Exit(1)
	}

	// 启动健康检查 HTTP 服务
	healthChecker := health.NewChecker(natsClient, redisClient, db, manager)
	healthServer := startHealthServer(cfg.Health.Addr, healthChecker, logger)

	logger.Info("Xuezhan service started", "name", cfg.App.Name, "rules", rules)

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	cancel()
	if err := subscriber.Stop(); err != nil {
		logger.Error("Failed to stop subscriber", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := manager.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to save games on shutdown", "error", err)
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to stop health server", "error", err)
	}
	if err := natsClient.Drain(); err != nil {
		logger.Error("Failed to drain NATS", "error", err)
	}
	logger.Info("Xuezhan service stopped")
}

// startHealthServer 启动健康检查 HTTP 服务
func startHealthServer(addr string, healthChecker *health.Checker, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/health", healthChecker)
	mux.HandleFunc("/ready", healthChecker.ReadyHandler())

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("Health check server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed", "error", err)
		}
	}()
	return server
}

// connectRedis 连接 Redis
func connectRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// connectDatabase 连接 PostgreSQL
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = 10 * time.Minute

	return pgxpool.NewWithConfig(ctx, poolConfig)
}
