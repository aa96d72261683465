package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/sieve/internal/version"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker", "test"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(env)
			if err != nil {
				t.Fatalf("NewLogger(%q): %v", env, err)
			}
			if l == nil {
				t.Fatal("nil logger")
			}
		})
	}
}

func TestNewLogger_Errors(t *testing.T) {
	if _, err := NewLogger("staging"); err == nil {
		t.Error("expected error for unknown env")
	}
	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
}

func TestBaseFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core).With(baseFields(version.Info{Version: "v1.2.3", Commit: "0123456789abcdef"})...)
	l.Info("started")

	got := logs.All()[0].ContextMap()
	want := map[string]any{"service": "sieve", "version": "v1.2.3", "commit": "0123456789ab"}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger")
	}

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core).With(zap.String("request_id", "r1")))
	FromContext(ctx).Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].ContextMap()["request_id"] != "r1" {
		t.Errorf("context fields = %v", entries[0].ContextMap())
	}
}

func TestForCollection(t *testing.T) {
	reqCore, reqLogs := observer.New(zapcore.DebugLevel)
	fbCore, fbLogs := observer.New(zapcore.DebugLevel)
	fallback := zap.New(fbCore)

	tests := []struct {
		name string
		ctx  context.Context
		logs *observer.ObservedLogs
	}{
		{"request scoped", ContextWithLogger(context.Background(), zap.New(reqCore)), reqLogs},
		{"fallback", context.Background(), fbLogs},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ForCollection(tt.ctx, fallback, "books").Info("compiled")
			entries := tt.logs.TakeAll()
			if len(entries) != 1 {
				t.Fatalf("got %d entries, want 1", len(entries))
			}
			if entries[0].ContextMap()["collection"] != "books" {
				t.Errorf("context fields = %v", entries[0].ContextMap())
			}
		})
	}

	if ForCollection(context.Background(), nil, "books") == nil {
		t.Error("nil fallback must yield a nop logger")
	}
}
