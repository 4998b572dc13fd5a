// Package logger provides structured logging for the catalog
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"

	"github.com/bluesky/catalog-server-from-scratch/pkg/catalog"
)

// Logger wraps zerolog with catalog-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(name string) zerolog.Level {
	switch name {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	// Pretty printing for development
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "catalog").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info logs an info message
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) *zerolog.Event {
	return l.zlog.Debug().Str("msg", msg)
}

// WithFields returns a logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return &Logger{zlog: ctx.Logger()}
}

// CatalogLogger returns a logger for one catalog operation
func (l *Logger) CatalogLogger(operation string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "catalog").
			Str("operation", operation).
			Logger(),
	}
}

// LogSearch logs a dispatched search with structured fields
func (l *Logger) LogSearch(queryType string, duration time.Duration, matched int, err error) {
	event := l.zlog.Debug().
		Str("component", "search").
		Str("query_type", queryType).
		Dur("duration_ms", duration).
		Int("matched", matched)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "search").
			Str("query_type", queryType).
			Dur("duration_ms", duration).
			Str("code", catalog.Code(err).String()).
			Err(err)
	}

	event.Msg("Search completed")
}

// LogPage logs one served page of entries
func (l *Logger) LogPage(path string, offset, limit, returned, total int) {
	l.zlog.Info().
		Str("component", "catalog").
		Str("path", path).
		Int("offset", offset).
		Int("limit", limit).
		Int("returned", returned).
		Int("total", total).
		Msg("Page served")
}

// LogTreeLoaded logs a catalog tree becoming available
func (l *Logger) LogTreeLoaded(source string, collections, arrays int) {
	l.zlog.Info().
		Str("event", "tree_loaded").
		Str("source", source).
		Int("collections", collections).
		Int("arrays", arrays).
		Msg("Catalog tree loaded")
}

// LogFailure logs a failed operation with its mapped status code. Client
// side codes log at warn level.
func (l *Logger) LogFailure(operation string, err error) {
	code := catalog.Code(err)
	event := l.zlog.Error()
	switch code {
	case codes.NotFound, codes.OutOfRange, codes.InvalidArgument, codes.Unimplemented:
		event = l.zlog.Warn()
	}
	event.
		Str("operation", operation).
		Str("code", code.String()).
		Err(err).
		Msg("Operation failed")
}

// SearchObserver adapts a Logger to catalog.Observer
type SearchObserver struct {
	Logger *Logger
}

// ObserveSearch implements catalog.Observer
func (o SearchObserver) ObserveSearch(queryType string, d time.Duration, matched int, err error) {
	o.Logger.LogSearch(queryType, d, matched, err)
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		// Initialize with defaults if not set
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
