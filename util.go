package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// runCommand executes an external command and logs its output.
// It returns an error if the command fails to start or exits non-zero.
func runCommand(ctx context.Context, logger *slog.Logger, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	logger = logger.With("command", name, "args", strings.Join(args, " "))
	logger.Info("Executing command")

	startTime := time.Now()
	output, err := cmd.CombinedOutput()
	duration := time.Since(startTime)

	if err != nil {
		logger.Error("Command execution failed", "duration", duration, "error", err, "output", string(output))
		return nil, fmt.Errorf("command '%s %s' failed: %w\nOutput: %s", name, strings.Join(args, " "), err, string(output))
	}

	logger.Info("Command executed successfully", "duration", duration)
	return output, nil
}

// ensureDir creates a directory if it doesn't exist.
func ensureDir(logger *slog.Logger, dirPath string) error {
	if err := os.MkdirAll(dirPath, 0750); err != nil {
		logger.Error("Failed to create directory", "path", dirPath, "error", err)
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	logger.Debug("Ensured directory exists", "path", dirPath)
	return nil
}

// checkExecutable verifies if an executable exists in the system's PATH.
func checkExecutable(logger *slog.Logger, name string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		logger.Error("Required executable not found in PATH", "executable", name, "error", err)
		return fmt.Errorf("executable '%s' not found in PATH: %w. Please ensure it is installed and accessible", name, err)
	}
	logger.Debug("Executable found", "name", name, "path", path)
	return nil
}

var videoIDRe = regexp.MustCompile(`(?:v=|youtu\.be/|youtube\.com/watch\?v=)([A-Za-z0-9_-]{6,})`)

// extractVideoID pulls the video ID out of a watch URL or short URL; a bare
// ID passes through unchanged.
func extractVideoID(urlOrID string) string {
	if m := videoIDRe.FindStringSubmatch(urlOrID); m != nil {
		return m[1]
	}
	return strings.TrimSpace(urlOrID)
}

// getWorkDir creates a unique working directory for processing a video.
func getWorkDir(baseDir, videoID string) (string, error) {
	workDir := filepath.Join(baseDir, "processing_"+videoID)
	if err := os.MkdirAll(workDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create working directory %s: %w", workDir, err)
	}
	return workDir, nil
}
