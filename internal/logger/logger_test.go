package logger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_LevelParsing(t *testing.T) {
	if got := New("debug").GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %s", got)
	}
	if got := New("nonsense").GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("expected fallback to info, got %s", got)
	}
}

func TestCorrelationID_RoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "abc-123")
	if got := CorrelationIDFromContext(ctx); got != "abc-123" {
		t.Errorf("expected abc-123, got %q", got)
	}
	if got := CorrelationIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty ID, got %q", got)
	}
}

func TestNewCorrelationID_Unique(t *testing.T) {
	if NewCorrelationID() == NewCorrelationID() {
		t.Error("expected unique correlation IDs")
	}
}

func TestFromContext_Fallback(t *testing.T) {
	log := FromContext(context.Background())
	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("expected info fallback logger, got %s", log.GetLevel())
	}
}
