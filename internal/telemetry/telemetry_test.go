package telemetry

import (
	"context"
	"testing"

	"github.com/sysu-ecnc-dev/qwikshifts/backend/internal/config"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	cfg := &config.Config{}

	shutdown := Setup(context.Background(), cfg)
	if shutdown == nil {
		t.Fatal("shutdown 不应为 nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("未启用链路追踪时 shutdown 应返回 nil，实际为 %v", err)
	}
}
