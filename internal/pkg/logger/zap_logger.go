package logger

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ILogger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
	// WithContext tags every entry with the trace and span of ctx, if any.
	WithContext(ctx context.Context) ILogger
	Sync() error
}

// Options configures NewZapLogger. An empty FilePath logs to the console only.
type Options struct {
	FilePath   string
	Production bool
	Level      string // debug, info, warn, error
}

type ZapLogger struct {
	logger *zap.Logger
}

// redactedKeys never reach the log: chat text and credentials.
var redactedKeys = map[string]struct{}{
	"message":            {},
	"reply":              {},
	"arguments":          {},
	"token":              {},
	"continuation_token": {},
	"authorization":      {},
	"api_key":            {},
}

const redacted = "[redacted]"

func newRotator(logFilePath string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    10,   // Megabytes
		MaxBackups: 5,    // Files
		MaxAge:     30,   // Days
		Compress:   true, // gzip
	}
}

func newJSONEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}

func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return zap.InfoLevel
	}
	return l
}

func NewZapLogger(opts Options) *ZapLogger {
	level := parseLevel(opts.Level)

	var consoleEncoder zapcore.Encoder
	if opts.Production {
		consoleEncoder = newJSONEncoder()
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}
	cores := []zapcore.Core{zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), level)}

	if opts.FilePath != "" {
		cores = append(cores, zapcore.NewCore(newJSONEncoder(), zapcore.AddSync(newRotator(opts.FilePath)), level))
	}

	return newZapLogger(zapcore.NewTee(cores...))
}

// NewIsolatedLogger writes only to its own file. The completion trace goes
// here so the main log stays readable.
func NewIsolatedLogger(logFilePath string) *ZapLogger {
	return newZapLogger(zapcore.NewCore(
		newJSONEncoder(),
		zapcore.AddSync(newRotator(logFilePath)),
		zap.InfoLevel,
	))
}

// NewNopLogger discards everything. Tests and tools use it.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

func newZapLogger(core zapcore.Core) *ZapLogger {
	// Skip 2: write and the level method
	return &ZapLogger{logger: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))}
}

func (l *ZapLogger) Debug(module, message string, details map[string]interface{}) {
	l.write(zap.DebugLevel, module, message, details)
}

func (l *ZapLogger) Info(module, message string, details map[string]interface{}) {
	l.write(zap.InfoLevel, module, message, details)
}

func (l *ZapLogger) Warn(module, message string, details map[string]interface{}) {
	l.write(zap.WarnLevel, module, message, details)
}

func (l *ZapLogger) Error(module, message string, details map[string]interface{}) {
	l.write(zap.ErrorLevel, module, message, details)
}

func (l *ZapLogger) WithContext(ctx context.Context) ILogger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return &ZapLogger{logger: l.logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)}
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func (l *ZapLogger) write(level zapcore.Level, module, message string, details map[string]interface{}) {
	ce := l.logger.Check(level, message)
	if ce == nil {
		return
	}

	fields := []zap.Field{zap.String("module", module), zap.Any("details", redact(details))}
	if err, ok := details["error"].(error); ok && level >= zap.ErrorLevel {
		fields = append(fields, zap.NamedError("error_ref", err))
	}
	ce.Write(fields...)
}

func redact(details map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(details))
	for k, v := range details {
		if _, hidden := redactedKeys[strings.ToLower(k)]; hidden {
			v = redacted
		}
		out[k] = v
	}
	return out
}
