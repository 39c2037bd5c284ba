package logger

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Config{Level: WarnLevel})
	l.Info("hidden")
	l.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered: %q", out)
	}
	if !strings.Contains(out, "WARN shown k=v") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestLogger_WithDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, Config{Level: DebugLevel})
	child := base.With("where", "store")
	child.Debug("a")
	base.Debug("b")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.HasSuffix(lines[0], "DEBUG a where=store") {
		t.Fatalf("child line: %q", lines[0])
	}
	if strings.Contains(lines[1], "where=") {
		t.Fatalf("base logger picked up child fields: %q", lines[1])
	}
}

func TestLogger_QuotesSpaces(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Config{}).Info("m", "title", "Buy milk")
	if !strings.Contains(buf.String(), `title="Buy milk"`) {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"":        InfoLevel,
		"bogus":   InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFromContext_NoOpFallback(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatalf("FromContext returned nil")
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := New(&buf, Config{})
	var sawLogger bool
	h := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawLogger = FromContext(r.Context()).(*textLogger)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if !sawLogger {
		t.Fatalf("handler did not receive request logger")
	}
	if _, err := uuid.Parse(rec.Header().Get("X-Request-Id")); err != nil {
		t.Fatalf("X-Request-Id is not a uuid: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "status=418") || !strings.Contains(out, "path=/x") {
		t.Fatalf("unexpected log: %q", out)
	}
}
