package telemetry

import (
	"context"
	"log/slog"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Setup 配置全局的 TracerProvider。未设置 OTLP 地址时不导出链路数据，
// tracer 使用 otel 默认的空实现。
func Setup(ctx context.Context, cfg *config.Config) ShutdownFunc {
	endpoint := cfg.Telemetry.OTLPEndpoint
	if endpoint == "" {
		return noop
	}

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
	if cfg.Telemetry.OTLPInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		slog.Warn("无法创建链路导出器", "error", err)
		return noop
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(cfg.Telemetry.ServiceName)))
	if err != nil {
		slog.Warn("无法创建链路资源信息", "error", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	slog.Info("已启用链路追踪", "endpoint", endpoint, "service", cfg.Telemetry.ServiceName)
	return provider.Shutdown
}
