package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging settings. Fields are parsed from the environment
// with the LOG_ prefix (see config.Settings).
type Config struct {
	Level  string `env:"LEVEL" envDefault:"info"`   // trace, debug, info, warn, error
	Format string `env:"FORMAT" envDefault:"text"`  // text, json
	Output string `env:"OUTPUT" envDefault:"stdout"` // stdout, file, both

	Path       string `env:"PATH" envDefault:"./logs"`
	File       string `env:"FILE" envDefault:"catalogdemo.log"`
	MaxSize    int    `env:"MAX_SIZE" envDefault:"100"` // MB
	MaxBackups int    `env:"MAX_BACKUPS" envDefault:"7"`
	MaxAge     int    `env:"MAX_AGE" envDefault:"7"` // days
	Compress   bool   `env:"COMPRESS" envDefault:"true"`
}

// DefaultConfig returns the settings used when Init was never called.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "text",
		Output:     "stdout",
		Path:       "./logs",
		File:       "catalogdemo.log",
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     7,
		Compress:   true,
	}
}

var (
	mu  sync.Mutex
	app *logrus.Logger
)

// Init builds the application logger from cfg and replaces any previous one.
func Init(cfg Config) (*logrus.Logger, error) {
	l, err := New(cfg)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	app = l
	mu.Unlock()
	return l, nil
}

// Get returns the application logger, initializing it with DefaultConfig
// on first use.
func Get() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()

	if app == nil {
		l, err := New(DefaultConfig())
		if err != nil {
			panic(fmt.Sprintf("failed to initialize logger: %v", err))
		}
		app = l
	}
	return app
}

// New creates a standalone logger without touching the package default.
func New(cfg Config) (*logrus.Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	l.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "function",
				logrus.FieldKeyFile:  "file",
			},
		})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				s := strings.Split(f.Function, ".")
				return s[len(s)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	out, err := writer(cfg)
	if err != nil {
		return nil, err
	}
	l.SetOutput(out)

	return l, nil
}

func writer(cfg Config) (io.Writer, error) {
	var writers []io.Writer

	output := strings.ToLower(cfg.Output)
	if output == "file" || output == "both" {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Path, cfg.File),
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}
	if output == "" || output == "stdout" || output == "both" {
		writers = append(writers, os.Stdout)
	}

	if len(writers) == 0 {
		return nil, fmt.Errorf("invalid log output %q", cfg.Output)
	}
	if len(writers) == 1 {
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}
