package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            string `env:"PORT" envDefault:"3000"`
		ReadTimeout     int    `env:"READ_TIMEOUT" envDefault:"10"`
		WriteTimeout    int    `env:"WRITE_TIMEOUT" envDefault:"15"`
		IdleTimeout     int    `env:"IDLE_TIMEOUT" envDefault:"60"`
		ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"`
	} `envPrefix:"SERVER_"`
	Database struct {
		Driver             string `env:"DRIVER" envDefault:"postgres"` // postgres 或 sqlite
		DSN                string `env:"DSN"`
		SQLitePath         string `env:"SQLITE_PATH" envDefault:"qwikshifts.db"`
		ConnectTimeout     int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		QueryTimeout       int    `env:"QUERY_TIMEOUT" envDefault:"10"`
		TransactionTimeout int    `env:"TRANSACTION_TIMEOUT" envDefault:"20"`
		MaxOpenConns       int    `env:"MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns       int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
		MaxIdleTime        int    `env:"MAX_IDLE_TIME" envDefault:"60"`
	} `envPrefix:"DATABASE_"`
	JWT struct {
		Secret     string `env:"SECRET,required"`
		CookieName string `env:"COOKIE_NAME" envDefault:"__qwikshifts_token"`
	} `envPrefix:"JWT_"`
	Seed struct {
		User struct {
			Password string `env:"PASSWORD" envDefault:"password"`
		} `envPrefix:"USER_"`
	} `envPrefix:"SEED_"`
	Email struct {
		UserDomain string `env:"USER_DOMAIN" envDefault:"qwikshifts.local"`
		SMTP       struct {
			Username    string `env:"USERNAME"`
			Password    string `env:"PASSWORD"`
			Host        string `env:"HOST"`
			Port        int    `env:"PORT" envDefault:"465"`
			DialTimeout int    `env:"DIAL_TIMEOUT" envDefault:"10"`
		} `envPrefix:"SMTP_"`
	} `envPrefix:"EMAIL_"`
	RabbitMQ struct {
		DSN            string `env:"DSN,required"`
		PublishTimeout int    `env:"PUBLISH_TIMEOUT" envDefault:"10"`
	} `envPrefix:"RABBITMQ_"`
	Redis struct {
		Host              string `env:"HOST" envDefault:"localhost"`
		Port              int    `env:"PORT" envDefault:"6379"`
		Password          string `env:"PASSWORD"`
		ConnectTimeout    int    `env:"CONNECT_TIMEOUT" envDefault:"10"`
		DashboardCacheTTL int    `env:"DASHBOARD_CACHE_TTL" envDefault:"300"` // 5 分钟
	} `envPrefix:"REDIS_"`
	Workload struct {
		DefaultWeeklyHoursLimit int     `env:"DEFAULT_WEEKLY_HOURS_LIMIT" envDefault:"40"`
		RiskRatio               float64 `env:"RISK_RATIO" envDefault:"0.9"`
	} `envPrefix:"WORKLOAD_"`
	Schedule struct {
		TimeZone string `env:"TIMEZONE" envDefault:"Local"`
	} `envPrefix:"SCHEDULE_"`
	Telemetry struct {
		ServiceName  string `env:"SERVICE_NAME" envDefault:"qwikshifts-api"`
		OTLPEndpoint string `env:"OTLP_ENDPOINT"`
		OTLPInsecure bool   `env:"OTLP_INSECURE" envDefault:"false"`
	} `envPrefix:"TELEMETRY_"`
}

var ErrMissingDSN = errors.New("使用 postgres 时必须设置 DATABASE_DSN")

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// 只返回第一个错误使得日志更清晰
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}

	if cfg.Database.Driver == "postgres" && cfg.Database.DSN == "" {
		return nil, ErrMissingDSN
	}

	return cfg, nil
}
