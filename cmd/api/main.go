package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/cache"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/clock"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/config"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/handler"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/mailqueue"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/query"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/repository/local"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	// 没有 .env 文件时直接使用环境变量
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	location, err := time.LoadLocation(cfg.Schedule.TimeZone)
	if err != nil {
		logger.Error("无法加载时区", "timezone", cfg.Schedule.TimeZone, "error", err)
		return
	}

	/**********************************************
	 * 链路追踪
	 **********************************************/
	shutdownTracing := telemetry.Setup(context.Background(), cfg)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("无法关闭链路追踪", "error", err)
		}
	}()

	/**********************************************
	 * 连接数据库
	 **********************************************/
	store, closer, err := openStore(cfg)
	if err != nil {
		logger.Error("无法连接到数据库", "driver", cfg.Database.Driver, "error", err)
		return
	}
	defer closer.Close()

	service := query.NewService(store, clock.Real(), scheduler.Policy{
		DefaultWeeklyHoursLimit: float64(cfg.Workload.DefaultWeeklyHoursLimit),
		RiskRatio:               cfg.Workload.RiskRatio,
	}, location)

	/**********************************************
	 * 连接 rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	// 建立通道
	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法建立通道", "error", err)
		return
	}
	defer ch.Close()

	if _, err := mailqueue.DeclareQueue(ch); err != nil {
		logger.Error("无法声明队列", "error", err)
		return
	}
	publisher := mailqueue.NewPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})
	defer rdb.Close()

	var summaryCache handler.SummaryCache
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.ConnectTimeout)*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// 缓存不可用时仪表盘每次都重新计算
		logger.Warn("无法连接到 redis，仪表盘缓存已禁用", "error", err)
	} else {
		summaryCache = cache.NewDashboardCache(rdb, time.Duration(cfg.Redis.DashboardCacheTTL)*time.Second)
	}

	/**********************************************
	 * 创建 handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, store, service, publisher, summaryCache)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      otelhttp.NewHandler(handler.Mux, cfg.Telemetry.ServiceName),
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}
	logger.Info("服务器已成功关闭")
}

// openStore 根据配置选择 postgres 或本地 sqlite 存储
func openStore(cfg *config.Config) (handler.Store, io.Closer, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		store, err := local.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case "postgres":
		dbpool, err := sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			return nil, nil, err
		}

		dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
		defer cancel()

		// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
		if err := dbpool.PingContext(ctx); err != nil {
			_ = dbpool.Close()
			return nil, nil, err
		}
		return repository.NewRepository(cfg, dbpool), dbpool, nil
	default:
		return nil, nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}
}
