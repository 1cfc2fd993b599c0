package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	ytDlpExecutable = "yt-dlp"

	audioFormat  = "bestaudio/best"
	audioCodec   = "mp3"
	audioQuality = "192K"
	audioName    = "song"
)

// downloadAudio uses yt-dlp to fetch the best audio stream and extract it to
// MP3. It returns the path to the resulting file.
func downloadAudio(ctx context.Context, logger *slog.Logger, url, outputDir string) (string, error) {
	logger = logger.With("step", "downloadAudio", "url", url)
	logger.Info("Starting audio download")

	if err := checkExecutable(logger, ytDlpExecutable); err != nil {
		return "", err
	}

	// yt-dlp replaces %(ext)s; the mp3 postprocessor decides the final one.
	outputTemplate := filepath.Join(outputDir, audioName+".%(ext)s")

	args := []string{
		"-f", audioFormat,
		"-x",
		"--audio-format", audioCodec,
		"--audio-quality", audioQuality,
		"-o", outputTemplate,
		"--no-playlist",
		"--no-warnings",
		url,
	}

	if _, err := runCommand(ctx, logger, ytDlpExecutable, args...); err != nil {
		return "", fmt.Errorf("yt-dlp execution failed: %w", err)
	}

	mp3Path := filepath.Join(outputDir, audioName+"."+audioCodec)
	if _, err := os.Stat(mp3Path); err != nil {
		logger.Error("yt-dlp finished but MP3 not found", "path", mp3Path, "error", err)
		return "", fmt.Errorf("expected MP3 not found at %s: %w", mp3Path, err)
	}

	logger.Info("Audio downloaded successfully", "path", mp3Path)
	return mp3Path, nil
}
