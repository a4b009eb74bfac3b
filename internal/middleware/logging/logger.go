package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Enabled    bool   // Включено ли логирование
	Level      string // DEBUG, INFO, WARN, ERROR
	LogsDir    string // Директория для логов
	SavingDays uint   // Сколько дней хранить логи
}

type Logger struct {
	config *Config
	entry  *logrus.Entry
	file   *os.File
	prefix string
}

func NewLogger(cfg *Config, prefix string) *Logger {
	return newLogger(cfg, prefix, os.Stdout)
}

func newLogger(cfg *Config, prefix string, stdout io.Writer) *Logger {
	l := &Logger{
		config: cfg,
		prefix: prefix,
	}

	base := logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	base.SetLevel(parseLevel(cfg.Level))

	var output io.Writer = stdout
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err == nil {
			logFile := filepath.Join(cfg.LogsDir, time.Now().Format("2006-01-02")+".log")
			if file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
				l.file = file
				output = io.MultiWriter(stdout, file)
			}
		}
	}
	base.SetOutput(output)

	l.entry = logrus.NewEntry(base)
	if prefix != "" {
		l.entry = l.entry.WithField("component", prefix)
	}

	if cfg.Enabled && cfg.LogsDir != "" && cfg.SavingDays > 0 {
		go l.cleanOldLogs()
	}

	return l
}

func parseLevel(level string) logrus.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return logrus.DebugLevel
	case "WARN", "WARNING":
		return logrus.WarnLevel
	case "ERROR":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// WithPrefix возвращает логгер того же вывода с уточненным компонентом
func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := l.prefix
	if newPrefix != "" {
		newPrefix += " "
	}
	newPrefix += "[" + prefix + "]"

	return &Logger{
		config: l.config,
		entry:  l.entry.WithField("component", newPrefix),
		file:   l.file,
		prefix: newPrefix,
	}
}

func (l *Logger) cleanOldLogs() {
	for range time.Tick(24 * time.Hour) {
		files, err := os.ReadDir(l.config.LogsDir)
		if err != nil {
			l.Error("Failed to read logs directory", "error", err)
			continue
		}

		cutoff := time.Now().AddDate(0, 0, int(-l.config.SavingDays))
		for _, file := range files {
			if info, err := file.Info(); err == nil && !file.IsDir() && info.ModTime().Before(cutoff) {
				if err := os.Remove(filepath.Join(l.config.LogsDir, file.Name())); err != nil {
					l.Error("Failed to delete old log file", "file", file.Name(), "error", err)
				}
			}
		}
	}
}

func toFields(fields []interface{}) logrus.Fields {
	out := make(logrus.Fields, len(fields)/2+1)
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		var val interface{} = "?"
		if i+1 < len(fields) {
			val = fields[i+1]
		}
		if err, ok := val.(error); ok && err != nil {
			val = err.Error()
		}
		out[key] = val
	}
	return out
}

func (l *Logger) log(level logrus.Level, msg string, fields ...interface{}) {
	if !l.config.Enabled {
		return
	}
	l.entry.WithFields(toFields(fields)).Log(level, msg)
}

// ShouldLog сообщает, будет ли записано сообщение указанного уровня
func (l *Logger) ShouldLog(level string) bool {
	if !l.config.Enabled {
		return false
	}
	return l.entry.Logger.IsLevelEnabled(parseLevel(level))
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.log(logrus.DebugLevel, msg, fields...) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.log(logrus.InfoLevel, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.log(logrus.WarnLevel, msg, fields...) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.log(logrus.ErrorLevel, msg, fields...) }

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// NewNopLogger - логгер без вывода, для тестов
func NewNopLogger() *Logger {
	return newLogger(&Config{Enabled: false}, "", io.Discard)
}
