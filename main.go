package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	sentencesFileName = "youtube_autosubs.sentences.txt"
	wordsFileName     = "youtube_autosubs.words.txt"
	srtFileName       = "youtube_autosubs.srt"
	audioFileName     = audioName + "." + audioCodec
)

func main() {
	videoURL := flag.String("url", "", "YouTube video URL or video ID (required)")
	outputDir := flag.String("output", "./output", "Directory for produced artifacts")
	lang := flag.String("lang", "th", "Target caption language code")
	keepWorkDir := flag.Bool("keep-workdir", false, "Keep the temporary working directory after processing")
	logLevelStr := flag.String("log-level", os.Getenv("LOG_LEVEL"), "Log level (DEBUG, INFO, WARN, ERROR). Overrides LOG_LEVEL env var.")
	skipAudio := flag.Bool("skip-audio", false, "Skip the MP3 download")
	writeSubs := flag.Bool("srt", true, "Write a word-level SRT when the srv3 format was fetched")
	upload := flag.Bool("upload", false, "Upload artifacts to S3 and rewrite the manifest with public URLs")
	brief := flag.Bool("brief", false, "Generate the karaoke-player vibe prompt (uses the LLM when configured)")
	ping := flag.Bool("ping-llm", false, "Check LLM endpoint connectivity and exit")
	flag.Parse()

	var logLevel slog.Level
	switch *logLevelStr {
	case "DEBUG":
		logLevel = slog.LevelDebug
	case "WARN":
		logLevel = slog.LevelWarn
	case "ERROR":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(logHandler).With("service", "karaoke-yt")
	slog.SetDefault(logger)

	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
	defer cancel()

	if *ping {
		if err := pingLLM(ctx, logger, cfg); err != nil {
			logger.Error("LLM ping failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if *videoURL == "" {
		fmt.Println("Error: -url flag is required")
		flag.Usage()
		os.Exit(1)
	}

	logger.Info("Starting caption pipeline",
		"url", *videoURL,
		"lang", *lang,
		"outputDir", *outputDir,
		"logLevel", logLevel.String(),
	)

	opts := pipelineOptions{
		lang:        *lang,
		keepWorkDir: *keepWorkDir,
		skipAudio:   *skipAudio,
		writeSubs:   *writeSubs,
		upload:      *upload,
		brief:       *brief,
	}
	if err := runPipeline(ctx, logger, cfg, *videoURL, *outputDir, opts); err != nil {
		logger.Error("Caption pipeline failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Pipeline completed successfully!")
}

type pipelineOptions struct {
	lang        string
	keepWorkDir bool
	skipAudio   bool
	writeSubs   bool
	upload      bool
	brief       bool
}

// runPipeline executes the whole workflow sequentially: track selection,
// caption fetch with format fallback, parsing, artifact emission, then the
// optional audio/upload/brief stages.
func runPipeline(ctx context.Context, logger *slog.Logger, cfg config, videoURL, outputBaseDir string, opts pipelineOptions) error {
	startTime := time.Now()

	videoID := extractVideoID(videoURL)
	if videoID == "" {
		return fmt.Errorf("could not extract video ID from %q", videoURL)
	}
	logger = logger.With("videoID", videoID)
	logger.Info("Extracted video ID")

	watchURL := fmt.Sprintf(watchURLFormat, videoID)

	if err := ensureDir(logger, outputBaseDir); err != nil {
		return fmt.Errorf("failed to ensure output directory %s: %w", outputBaseDir, err)
	}
	workDir, err := getWorkDir(outputBaseDir, videoID)
	if err != nil {
		return fmt.Errorf("failed to create working directory: %w", err)
	}
	if !opts.keepWorkDir {
		defer func() {
			logger.Info("Cleaning up working directory", "path", workDir)
			if rmErr := os.RemoveAll(workDir); rmErr != nil {
				logger.Error("Failed to remove working directory", "path", workDir, "error", rmErr)
			}
		}()
	}

	// 1. Captions: list, select, fetch with fallback, parse, emit.
	format, err := processCaptions(ctx, logger, videoID, opts, outputBaseDir, workDir)
	if err != nil {
		return fmt.Errorf("step 1: captions failed: %w", err)
	}

	// 2. Audio.
	m := manifest{
		OriginalURL: watchURL,
		Words:       wordsFileName,
		Sentences:   sentencesFileName,
	}
	if format == formatSRV3 && opts.writeSubs {
		m.Subtitles = srtFileName
	}
	if !opts.skipAudio {
		mp3Path, err := downloadAudio(ctx, logger, watchURL, workDir)
		if err != nil {
			return fmt.Errorf("step 2: download audio failed: %w", err)
		}
		finalPath := filepath.Join(outputBaseDir, audioFileName)
		if err := os.Rename(mp3Path, finalPath); err != nil {
			return fmt.Errorf("failed to move MP3 into output directory: %w", err)
		}
		m.AudioFile = audioFileName
	}

	// 3. Manifest.
	manifestPath, err := writeManifest(m, outputBaseDir)
	if err != nil {
		return fmt.Errorf("step 3: write manifest failed: %w", err)
	}
	logger.Info("Wrote manifest", "path", manifestPath)

	// 4. Optional upload; the brief uses the rewritten manifest when the
	// artifacts went public.
	if opts.upload {
		manifestURL, rewritten, err := uploadOutput(ctx, logger, cfg, outputBaseDir, m)
		if err != nil {
			return fmt.Errorf("step 4: upload failed: %w", err)
		}
		logger.Info("Artifacts uploaded", "manifestURL", manifestURL)
		m = rewritten
	}

	// 5. Optional vibe prompt.
	if opts.brief {
		if _, err := generateVibePrompt(ctx, logger, cfg, outputBaseDir, m); err != nil {
			return fmt.Errorf("step 5: vibe prompt failed: %w", err)
		}
	}

	logger.Info("Processing finished", "totalDuration", time.Since(startTime))
	return nil
}

// processCaptions runs the caption core and writes the sentence/word
// artifacts. It returns the wire format that was accepted.
func processCaptions(ctx context.Context, logger *slog.Logger, videoID string, opts pipelineOptions, outputDir, workDir string) (string, error) {
	lister := newTrackLister(opts.lang, strings.ToUpper(opts.lang))
	tracks, err := lister.listCaptionTracks(ctx, logger, videoID)
	if err != nil {
		return "", err
	}

	track, ok := pickTrack(tracks, opts.lang)
	if !ok || track.BaseURL == "" {
		return "", fmt.Errorf("could not select a caption track for language %q", opts.lang)
	}
	logger.Info("Selected caption track", "languageCode", track.LanguageCode, "vssId", track.VssID, "kind", track.Kind)

	client := &http.Client{Timeout: captionRequestTimeout}
	format, payload, err := downloadCaption(ctx, logger, client, track.BaseURL, preferredFormats)
	if err != nil {
		return "", err
	}

	// Keep the raw payload for the lifetime of the run; the workdir cleanup
	// removes it.
	rawPath := filepath.Join(workDir, "captions."+format)
	if err := os.WriteFile(rawPath, payload, 0644); err != nil {
		logger.Warn("Failed to persist raw caption payload", "path", rawPath, "error", err)
	}

	var sentences, words []token
	var cues []cue
	switch format {
	case formatJSON3:
		if sentences, err = parseJSON3Sentences(payload); err != nil {
			return "", err
		}
		if words, err = parseJSON3Words(payload); err != nil {
			return "", err
		}
	default:
		if sentences, err = parseSRV3Sentences(payload); err != nil {
			return "", err
		}
		if words, err = parseSRV3Words(payload); err != nil {
			return "", err
		}
		if opts.writeSubs {
			if cues, err = parseSRV3WordCues(payload); err != nil {
				return "", err
			}
		}
	}

	if err := writeTimedLines(sentences, filepath.Join(outputDir, sentencesFileName)); err != nil {
		return "", err
	}
	if err := writeTimedLines(words, filepath.Join(outputDir, wordsFileName)); err != nil {
		return "", err
	}
	logger.Info("Wrote caption artifacts", "format", format, "sentences", len(sentences), "words", len(words))

	if format == formatSRV3 && opts.writeSubs {
		if err := writeSRT(cues, filepath.Join(outputDir, srtFileName)); err != nil {
			return "", err
		}
		logger.Info("Wrote word-level SRT", "cues", len(cues))
	}

	return format, nil
}
