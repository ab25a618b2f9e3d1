package util

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	if log.GetLevel() != zerolog.DebugLevel {
		t.Fatalf("expected debug level, got %s", log.GetLevel())
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	log := NewLogger("chatty")
	if log.GetLevel() != zerolog.InfoLevel {
		t.Fatalf("expected info fallback, got %s", log.GetLevel())
	}
}
