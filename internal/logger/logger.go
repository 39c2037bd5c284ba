package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type key int

const loggerKey key = iota

func NewContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext never returns nil; without a logger in ctx it returns a no-op.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok && l != nil {
		return l
	}
	return NewNoOpLogger()
}

type Level int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
)

func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

type Config struct {
	Level        Level
	IsProduction bool
}

type Logger interface {
	Debug(msg string, fields ...any)
	Info(msg string, fields ...any)
	Warn(msg string, fields ...any)
	Error(msg string, fields ...any)
	With(fields ...any) Logger
}

type textLogger struct {
	cfg    Config
	out    *log.Logger
	fields []any
	now    func() time.Time
}

// New writes one key=value line per entry to w.
func New(w io.Writer, cfg Config) Logger {
	return &textLogger{cfg: cfg, out: log.New(w, "", 0), now: time.Now}
}

func (l *textLogger) Debug(msg string, fields ...any) { l.log(DebugLevel, "DEBUG", msg, fields) }
func (l *textLogger) Info(msg string, fields ...any)  { l.log(InfoLevel, "INFO", msg, fields) }
func (l *textLogger) Warn(msg string, fields ...any)  { l.log(WarnLevel, "WARN", msg, fields) }
func (l *textLogger) Error(msg string, fields ...any) { l.log(ErrorLevel, "ERROR", msg, fields) }

func (l *textLogger) With(fields ...any) Logger {
	n := *l
	n.fields = make([]any, 0, len(l.fields)+len(fields))
	n.fields = append(n.fields, l.fields...)
	n.fields = append(n.fields, fields...)
	return &n
}

func (l *textLogger) log(lvl Level, name, msg string, fields []any) {
	if lvl < l.cfg.Level {
		return
	}
	var sb strings.Builder
	if l.cfg.IsProduction {
		sb.WriteString(l.now().UTC().Format(time.RFC3339Nano))
	} else {
		sb.WriteString(l.now().Format(time.TimeOnly))
	}
	sb.WriteString(" ")
	sb.WriteString(name)
	sb.WriteString(" ")
	sb.WriteString(msg)

	all := make([]any, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)
	all = append(all, fields...)
	for i := 0; i < len(all); i += 2 {
		k, ok := all[i].(string)
		if !ok {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString("=")
		if i+1 < len(all) {
			appendValue(&sb, all[i+1])
		}
	}
	l.out.Println(sb.String())
}

func appendValue(sb *strings.Builder, value any) {
	switch v := value.(type) {
	case string:
		if strings.ContainsAny(v, " \t\n\"=") {
			sb.WriteString(strconv.Quote(v))
			return
		}
		sb.WriteString(v)
	case int:
		sb.WriteString(strconv.Itoa(v))
	case int64:
		sb.WriteString(strconv.FormatInt(v, 10))
	case uint64:
		sb.WriteString(strconv.FormatUint(v, 10))
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case error:
		sb.WriteString(strconv.Quote(v.Error()))
	default:
		sb.WriteString(fmt.Sprintf("%v", v))
	}
}

type noOpLogger struct{}

func (noOpLogger) Debug(string, ...any) {}
func (noOpLogger) Info(string, ...any)  {}
func (noOpLogger) Warn(string, ...any)  {}
func (noOpLogger) Error(string, ...any) {}
func (n noOpLogger) With(...any) Logger { return n }

func NewNoOpLogger() Logger { return noOpLogger{} }

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger attaches a request-scoped logger, tagged with a fresh
// request id, to every request context.
func RequestLogger(base Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			reqLog := base.With("request_id", reqID)
			w.Header().Set("X-Request-Id", reqID)

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(NewContext(r.Context(), reqLog)))

			reqLog.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start))
		})
	}
}
