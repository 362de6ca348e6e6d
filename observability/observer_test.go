package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/tailored-agentic-units/wayfinder/observability"
)

func TestObserver_NoOpObserver(t *testing.T) {
	observer := observability.NoOpObserver{}
	event := observability.Event{
		Type:      "search.start",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "test",
		Data:      map[string]any{"key": "value"},
	}

	observer.OnEvent(context.Background(), event)
}

func TestObserverRegistry_GetObserver(t *testing.T) {
	tests := []struct {
		name        string
		observerKey string
		wantErr     bool
	}{
		{
			name:        "noop observer exists",
			observerKey: "noop",
			wantErr:     false,
		},
		{
			name:        "slog observer exists",
			observerKey: "slog",
			wantErr:     false,
		},
		{
			name:        "unknown observer returns error",
			observerKey: "unknown",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer, err := observability.GetObserver(tt.observerKey)
			if (err != nil) != tt.wantErr {
				t.Errorf("GetObserver() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && observer == nil {
				t.Error("GetObserver() returned nil observer for valid key")
			}
		})
	}
}

type testObserver struct{}

func (testObserver) OnEvent(ctx context.Context, event observability.Event) {}

func TestObserverRegistry_RegisterObserver(t *testing.T) {
	observability.RegisterObserver("test-observer", testObserver{})

	observer, err := observability.GetObserver("test-observer")
	if err != nil {
		t.Errorf("GetObserver() after registration failed: %v", err)
	}
	if observer == nil {
		t.Error("GetObserver() returned nil for registered observer")
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  string
	}{
		{observability.LevelVerbose, "DEBUG"},
		{observability.LevelInfo, "INFO"},
		{observability.LevelWarning, "WARN"},
		{observability.LevelError, "ERROR"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level observability.Level
		want  slog.Level
	}{
		{observability.LevelVerbose, slog.LevelDebug},
		{observability.LevelInfo, slog.LevelInfo},
		{observability.LevelWarning, slog.LevelWarn},
		{observability.LevelError, slog.LevelError},
	}

	for _, tt := range tests {
		if got := tt.level.SlogLevel(); got != tt.want {
			t.Errorf("Level(%d).SlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestSlogObserver_OnEvent_LogsEventFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	observer := observability.NewSlogObserver(logger)

	event := observability.Event{
		Type:      "search.complete",
		Level:     observability.LevelInfo,
		Timestamp: time.Now(),
		Source:    "test.finder",
		Data: map[string]any{
			"visited_nodes": 5,
			"success":       true,
		},
	}

	observer.OnEvent(context.Background(), event)

	output := buf.String()
	if !strings.Contains(output, "search.complete") {
		t.Error("Expected log to contain event type 'search.complete'")
	}
	if !strings.Contains(output, "test.finder") {
		t.Error("Expected log to contain source 'test.finder'")
	}
	if !strings.Contains(output, "visited_nodes") {
		t.Error("Expected log to contain data field 'visited_nodes'")
	}
}

type countingObserver struct {
	count int
}

func (c *countingObserver) OnEvent(ctx context.Context, event observability.Event) {
	c.count++
}

func TestMultiObserver_FansOut(t *testing.T) {
	first := &countingObserver{}
	second := &countingObserver{}
	multi := observability.NewMultiObserver(first, nil, second)

	multi.OnEvent(context.Background(), observability.Event{Type: "search.start"})
	multi.OnEvent(context.Background(), observability.Event{Type: "search.complete"})

	if first.count != 2 {
		t.Errorf("first observer received %d events, want 2", first.count)
	}
	if second.count != 2 {
		t.Errorf("second observer received %d events, want 2", second.count)
	}
}
