package utils

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	gormlogger "gorm.io/gorm/logger"
)

// LoggerConfig определяет конфигурацию для логгера
type LoggerConfig struct {
	// Формат логов: text или json (одна JSON-запись на строку)
	Format string
	// Выходной поток (os.Stdout, файл и т.д.)
	Output io.Writer
	// Включить/выключить цвета для консоли
	EnableColors bool
}

// InitLogger инициализирует и возвращает логгер
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	prefix := "[Quiz Server] "

	if cfg.Format == "json" {
		return log.New(&jsonLineWriter{out: cfg.Output, service: "Quiz Server"}, "", 0)
	}
	if cfg.EnableColors {
		prefix = "\033[36m" + prefix + "\033[0m" // Голубой цвет
	}
	return log.New(cfg.Output, prefix, log.LstdFlags|log.Lshortfile|log.LUTC)
}

// NewGormLogger пишет SQL-предупреждения и медленные запросы через общий логгер
func NewGormLogger(logger *log.Logger, colorful bool) gormlogger.Interface {
	return gormlogger.New(logger, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  colorful,
	})
}

type jsonLine struct {
	Time    string `json:"time"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// jsonLineWriter превращает каждую запись log.Logger в одну JSON-строку
type jsonLineWriter struct {
	mu      sync.Mutex
	out     io.Writer
	service string
}

func (w *jsonLineWriter) Write(p []byte) (int, error) {
	line, err := json.Marshal(jsonLine{
		Time:    time.Now().UTC().Format(time.RFC3339Nano),
		Service: w.service,
		Message: strings.TrimRight(string(p), "\n"),
	})
	if err != nil {
		return 0, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.out.Write(append(line, '\n')); err != nil {
		return 0, err
	}
	return len(p), nil
}
