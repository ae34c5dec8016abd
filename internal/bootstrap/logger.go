package bootstrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/osgood/armorytrack/internal/config"
	"github.com/osgood/armorytrack/internal/logger"
)

const keepLogFiles = 9

// SetupLogger initializes the application logger with file and stdout output.
// It creates the log directory, cleans up old logs, and installs the slog
// default handler writing to a MultiWriter. Returns the log file handle
// (caller must close).
func SetupLogger(cfg *config.Config) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	cleanupLogs(cfg.LogDir)

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFileName := filepath.Join(cfg.LogDir, fmt.Sprintf("session_%s.log", timestamp))

	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	mw := io.MultiWriter(os.Stdout, logFile)
	loggerConfig := logger.ProductionConfig()
	loggerConfig.Level = cfg.LogLevel
	loggerConfig.Format = logger.LogFormatText
	logger.InitLoggerWithWriter(loggerConfig, mw)

	logger.Info("Logging initialized", "level", cfg.LogLevel)
	logger.Debug("Configuration loaded",
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"characters", len(cfg.Characters))

	return logFile, nil
}

// cleanupLogs removes old log files, keeping only the most recent ones
func cleanupLogs(logDir string) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var logFiles []os.DirEntry
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".log") {
			logFiles = append(logFiles, entry)
		}
	}

	if len(logFiles) > keepLogFiles {
		toDelete := len(logFiles) - keepLogFiles
		for i := 0; i < toDelete; i++ {
			if err := os.Remove(filepath.Join(logDir, logFiles[i].Name())); err != nil {
				fmt.Printf("Failed to delete old log file %s: %v\n", logFiles[i].Name(), err)
			}
		}
	}
}
