package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// JobLogger writes a per-run log file for batch jobs while mirroring output
// to stdout.
type JobLogger struct {
	file       *os.File
	logger     *log.Logger
	multiWrite io.Writer
}

func NewJobLogger(jobName string) (*JobLogger, error) {
	sanitized := strings.ReplaceAll(strings.ToLower(jobName), " ", "_")

	logsDir := "logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	jobDir := filepath.Join(logsDir, sanitized)
	if err := os.MkdirAll(jobDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create job directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(jobDir, fmt.Sprintf("run_%s_%s.log", sanitized, timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	multiWrite := io.MultiWriter(os.Stdout, file)
	logger := log.New(multiWrite, "", log.Ldate|log.Ltime|log.Lmicroseconds)

	return &JobLogger{
		file:       file,
		logger:     logger,
		multiWrite: multiWrite,
	}, nil
}

func (jl *JobLogger) LogInfo(format string, v ...interface{}) {
	jl.log("INFO", format, v...)
}

func (jl *JobLogger) LogError(format string, v ...interface{}) {
	jl.log("ERROR", format, v...)
}

func (jl *JobLogger) LogDebug(format string, v ...interface{}) {
	jl.log("DEBUG", format, v...)
}

func (jl *JobLogger) log(level string, format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	jl.logger.Printf("[%s] %s", level, message)
}

func (jl *JobLogger) Close() error {
	return jl.file.Close()
}
