package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/graph-gophers/graphql-guard/errors"
	guardctx "github.com/graph-gophers/graphql-guard/internal/context"
)

// Logger is the interface used to report rejected queries, panics recovered while
// serving a request and failures of best effort side tasks such as recording statistics.
type Logger interface {
	LogPanic(ctx context.Context, value interface{})
	LogRejection(ctx context.Context, queryString string, errs []*errors.QueryError)
	LogError(ctx context.Context, msg string, err error)
}

// New builds a zap logger writing to stderr. Format is "json" or "console". The returned
// AtomicLevel changes the level at runtime and doubles as an http.Handler.
func New(level, format string) (*zap.Logger, zap.AtomicLevel, error) {
	return NewWithWriter(level, format, os.Stderr)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(level, format string, w io.Writer) (*zap.Logger, zap.AtomicLevel, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	atomicLevel := zap.NewAtomicLevelAt(lvl)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	switch format {
	case "", "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, zap.AtomicLevel{}, fmt.Errorf("unknown log format %q", format)
	}

	logger := zap.New(
		zapcore.NewCore(encoder, zapcore.AddSync(w), atomicLevel),
		zap.AddCaller(),
	)
	return logger, atomicLevel, nil
}

// ParseLevel maps debug, info, warn and error to zap levels. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel, nil
	case "", "info":
		return zap.InfoLevel, nil
	case "warn":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	}
	return zap.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// ZapLogger logs through a zap.Logger, adding the request ID and operation name carried by
// the context.
type ZapLogger struct {
	l *zap.Logger
}

func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{l: l.Named("guard")}
}

// LogPanic is used to log recovered panic values together with the stack of the
// recovering goroutine.
func (z *ZapLogger) LogPanic(ctx context.Context, value interface{}) {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]
	z.l.Error("panic occurred", append(contextFields(ctx),
		zap.String("panic", fmt.Sprint(value)),
		zap.ByteString("stack", buf),
	)...)
}

// LogRejection logs a query refused by the limiter at warn level. The query text is only
// included at debug level.
func (z *ZapLogger) LogRejection(ctx context.Context, queryString string, errs []*errors.QueryError) {
	rules := make([]string, 0, len(errs))
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		rules = append(rules, err.Rule)
		messages = append(messages, err.Message)
	}

	fields := append(contextFields(ctx),
		zap.Strings("rules", rules),
		zap.Strings("errors", messages),
	)
	z.l.Warn("query rejected", fields...)

	if ce := z.l.Check(zap.DebugLevel, "rejected query text"); ce != nil {
		ce.Write(append(contextFields(ctx), zap.String("query", queryString))...)
	}
}

// LogError logs a failure that did not change the outcome of the request.
func (z *ZapLogger) LogError(ctx context.Context, msg string, err error) {
	z.l.Error(msg, append(contextFields(ctx), zap.Error(err))...)
}

func contextFields(ctx context.Context) []zap.Field {
	fields := make([]zap.Field, 0, 4)
	if id, ok := guardctx.RequestID(ctx); ok {
		fields = append(fields, zap.String("request_id", id))
	}
	if name, ok := guardctx.OperationName(ctx); ok && name != "" {
		fields = append(fields, zap.String("operation", name))
	}
	return fields
}

// Nop discards everything.
type Nop struct{}

func (Nop) LogPanic(context.Context, interface{}) {}

func (Nop) LogRejection(context.Context, string, []*errors.QueryError) {}

func (Nop) LogError(context.Context, string, error) {}
