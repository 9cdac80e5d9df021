package observability

import (
	"context"
	"testing"

	"github.com/NoCoder4you/worldcup-sweepstake/internal/config"
	"github.com/NoCoder4you/worldcup-sweepstake/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{UptraceEnabled: false}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}
