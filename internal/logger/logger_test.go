package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info().Str("component", "test").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Errorf("log output missing message: %s", out)
	}
	if !strings.Contains(out, "component") {
		t.Errorf("log output missing field: %s", out)
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	ctx := WithContext(context.Background(), log)
	got := FromContext(ctx)

	got.Info().Msg("from context")
	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("logger from context did not write to original buffer")
	}
}

func TestFromContextFallback(t *testing.T) {
	// Must not panic when no logger is stored.
	log := FromContext(context.Background())
	log.Debug().Msg("fallback")
}
