package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"testing"
)

func captureDefaultLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	return &buf
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	logger := SetupLogger("debug")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
	if slog.Default() != logger.Logger {
		t.Error("SetupLogger should install the default logger")
	}

	logger = SetupLogger("nonsense")
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("unknown level should fall back to info")
	}
}

func TestSignalContextCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent)
	defer stop()

	cancel()
	<-ctx.Done()
	if ctx.Err() == nil {
		t.Error("context should be cancelled with its parent")
	}
}

func TestWatchSignalsLogsOnSignal(t *testing.T) {
	buf := captureDefaultLog(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	sigCh <- syscall.SIGTERM
	watchSignals(ctx, sigCh, cancel)

	if ctx.Err() == nil {
		t.Error("signal should cancel the context")
	}
	if !strings.Contains(buf.String(), "Shutdown signal received") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestWatchSignalsQuietOnNormalStop(t *testing.T) {
	buf := captureDefaultLog(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	watchSignals(ctx, make(chan os.Signal), cancel)

	if strings.Contains(buf.String(), "Shutdown signal received") {
		t.Errorf("stop without a signal logged: %q", buf.String())
	}
}
