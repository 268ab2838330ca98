package contextutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestLoggerRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), logger)

	if got := LoggerFromContext(ctx); got != logger {
		t.Error("LoggerFromContext did not return the attached logger")
	}
}

func TestLoggerFromContext_Default(t *testing.T) {
	if got := LoggerFromContext(context.Background()); got != slog.Default() {
		t.Error("bare context should fall back to the default logger")
	}
}
