package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	vibePromptFileName = "vibe_prompt.txt"

	briefTemperature = 0.7
	briefMaxTokens   = 600

	// Tail buffer added to the last sentence start when estimating the
	// track duration from the TSV alone.
	durationTailSeconds = 5.0

	excerptLines = 12
	maxTSVLines  = 5000
)

// tsvPair is one parsed "<start_seconds>\t<text>" line.
type tsvPair struct {
	seconds float64
	text    string
}

// newLLMClient builds a go-openai client pointed at the configured
// OpenAI-compatible endpoint.
func newLLMClient(cfg config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.LLMAPIKey)
	clientCfg.BaseURL = strings.TrimRight(cfg.LLMEndpoint, "/")
	return openai.NewClientWithConfig(clientCfg)
}

// queryLLM sends a single-turn chat completion and returns the assistant
// text content.
func queryLLM(ctx context.Context, client *openai.Client, model, prompt string, temperature float32, maxTokens int) (string, error) {
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("LLM returned an empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// pingLLM checks endpoint connectivity with a one-token round trip.
func pingLLM(ctx context.Context, logger *slog.Logger, cfg config) error {
	logger = logger.With("step", "pingLLM", "endpoint", cfg.LLMEndpoint, "model", cfg.LLMModel)

	if err := cfg.validateLLM(); err != nil {
		return err
	}

	client := newLLMClient(cfg)
	prompt := "Respond with exactly: ok\nDo not add punctuation, explanation, or quotes. Answer with a single token: ok"

	start := time.Now()
	reply, err := queryLLM(ctx, client, cfg.LLMModel, prompt, 0, 16)
	latency := time.Since(start)
	if err != nil {
		logger.Error("Ping failed", "latency", latency, "error", err)
		return err
	}
	if strings.ToLower(strings.TrimSpace(reply)) != "ok" {
		logger.Error("Ping returned unexpected content", "latency", latency, "reply", reply)
		return fmt.Errorf("unexpected ping reply: %q", reply)
	}

	logger.Info("Ping OK", "latency", latency)
	return nil
}

// generateVibePrompt composes the karaoke-player build prompt: asset URLs
// from the manifest, a TSV format description, and a song-specific style
// brief synthesized by the LLM (with a generic fallback when the API is
// unavailable). The result is written next to the other artifacts.
func generateVibePrompt(ctx context.Context, logger *slog.Logger, cfg config, outputDir string, m manifest) (string, error) {
	logger = logger.With("step", "generateVibePrompt")
	logger.Info("Generating vibe prompt")

	sentences, err := readTSVPairs(filepath.Join(outputDir, m.sentencesFileName()), maxTSVLines)
	if err != nil {
		return "", fmt.Errorf("failed to read sentences TSV: %w", err)
	}
	duration := durationFromSentences(sentences)

	brief := styleBrief(ctx, logger, cfg, sentences, duration)
	prompt := buildVibePrompt(m, brief)

	path := filepath.Join(outputDir, vibePromptFileName)
	if err := os.WriteFile(path, []byte(prompt+"\n"), 0644); err != nil {
		return "", fmt.Errorf("failed to write vibe prompt %s: %w", path, err)
	}
	logger.Info("Vibe prompt written", "path", path)
	return path, nil
}

// sentencesFileName returns the local file name for the sentences artifact
// even after the manifest was rewritten to absolute URLs.
func (m manifest) sentencesFileName() string {
	if idx := strings.LastIndex(m.Sentences, "/"); idx >= 0 {
		return m.Sentences[idx+1:]
	}
	return m.Sentences
}

// styleBrief asks the LLM for a song-specific style brief and falls back to
// a deterministic generic brief when the call cannot be made or fails.
func styleBrief(ctx context.Context, logger *slog.Logger, cfg config, sentences []tsvPair, duration float64) string {
	if err := cfg.validateLLM(); err != nil {
		logger.Warn("LLM unavailable, using fallback brief", "reason", err)
		return fallbackBrief(duration)
	}

	client := newLLMClient(cfg)
	brief, err := queryLLM(ctx, client, cfg.LLMModel, buildBriefPrompt(sentences, duration), briefTemperature, briefMaxTokens)
	if err != nil {
		logger.Warn("Style brief request failed, using fallback brief", "error", err)
		return fallbackBrief(duration)
	}
	return strings.TrimSpace(brief)
}

func buildBriefPrompt(sentences []tsvPair, duration float64) string {
	var excerpt strings.Builder
	for i, p := range sentences {
		if i >= excerptLines {
			break
		}
		fmt.Fprintf(&excerpt, "%s\t%s\n", mmss(p.seconds), p.text)
	}

	var anchors []string
	if duration > 0 {
		for _, frac := range []float64{0.25, 0.50, 0.75} {
			anchors = append(anchors, mmss(duration*frac))
		}
	}
	anchorsText := "0:45, 1:30, 2:15"
	if len(anchors) > 0 {
		anchorsText = strings.Join(anchors, ", ")
	}

	var sb strings.Builder
	sb.WriteString("You are a senior music visual designer. Given Thai lyrics excerpts with timestamps,\n")
	sb.WriteString("produce a SONG-SPECIFIC STYLE BRIEF for a web karaoke player. Do NOT translate lyrics;\n")
	sb.WriteString("infer mood, themes, and arc from the Thai as-is. Keep it concise but evocative.\n\n")
	sb.WriteString("Provide:\n")
	sb.WriteString("- Title: short title for the visual concept\n")
	sb.WriteString("- Mood & Themes: 2-3 lines\n")
	sb.WriteString("- Color Palette: 4-6 colors with roles (bg, accents)\n")
	sb.WriteString("- Typography: primary + accent style guidance\n")
	sb.WriteString("- FX Motifs: particles, glows, shaders, transitions\n")
	sb.WriteString("- Timeline Cues: 6-10 cue points with mm:ss and effect notes\n")
	fmt.Fprintf(&sb, "  - Use anchor times like %s and add others you deem right\n", anchorsText)
	sb.WriteString("  - Include at least one mid-song shift (e.g., happy -> melancholic)\n\n")
	sb.WriteString("Constraints:\n")
	sb.WriteString("- Output in plain text, compact bullets.\n")
	sb.WriteString("- Do not ask questions or add closing remarks.\n")
	sb.WriteString("- Do not use code fences or markdown tables.\n")
	sb.WriteString("- Keep technical details implementable in a web canvas/WebGL/CSS environment.\n")
	sb.WriteString("- Avoid copyrighted brand names.\n\n")
	sb.WriteString("Thai lyric excerpt (time\ttext):\n")
	sb.WriteString(excerpt.String())
	fmt.Fprintf(&sb, "Total approximate duration: %s", mmss(duration))
	return sb.String()
}

// fallbackBrief is the generic brief used when the LLM is unavailable.
func fallbackBrief(duration float64) string {
	var sb strings.Builder
	sb.WriteString("Title: Neon Silk Pulse\n")
	sb.WriteString("Mood & Themes: Dreamy, emotive, intimate performance with gradual introspection.\n")
	sb.WriteString("Color Palette: Deep indigo (bg), electric magenta (primary), cyan glow (accent), warm amber (highlight).\n")
	sb.WriteString("Typography: Rounded sans for lyrics; high-contrast italic for emphasized words.\n")
	sb.WriteString("FX Motifs: Soft bloom, chromatic aberration on peaks, floating bokeh particles synced to beat.\n")
	sb.WriteString("Timeline Cues:")
	for _, frac := range []float64{0.25, 0.5, 0.75} {
		fmt.Fprintf(&sb, "\n- %s: subtle color shift and particle density change", mmss(duration*frac))
	}
	return sb.String()
}

func buildVibePrompt(m manifest, brief string) string {
	var sb strings.Builder
	sb.WriteString("Build a visually stunning, modern web karaoke player for THAI lyrics.\n\n")
	sb.WriteString("Core features:\n")
	sb.WriteString("- Highlight the currently sung word, smooth crossfade to next word\n")
	sb.WriteString("- Show the current sentence prominently and preview the next sentence\n")
	sb.WriteString("- Accurate MP3 timeline with seek-on-click, play/pause, and scrub\n")
	sb.WriteString("- Time-synchronized visuals and transitions tied to lyric timestamps\n\n")
	sb.WriteString("Assets (public URLs from S3):\n")
	fmt.Fprintf(&sb, "- Audio (MP3): %s\n", m.AudioFile)
	fmt.Fprintf(&sb, "- Word lyrics (TSV): %s\n", m.Words)
	fmt.Fprintf(&sb, "- Sentence lyrics (TSV): %s\n\n", m.Sentences)
	sb.WriteString("TSV format (UTF-8, LF, tab-separated)\n\n")
	sb.WriteString("Sentences TSV: start_seconds\tfull_sentence_text\n")
	sb.WriteString("Example: 4.220\t[เพลง]\n\n")
	sb.WriteString("Words TSV: start_seconds\tword_text\n")
	sb.WriteString("Example: 18.680\tหน้า\n\n")
	sb.WriteString("Implementation notes:\n")
	sb.WriteString("- Parse TSVs client-side; each row is start_seconds (float) and text.\n")
	sb.WriteString("- Use the audio element currentTime to find the active word/sentence via binary search.\n")
	sb.WriteString("- Render lyrics with the active word highlighted and next sentence visible.\n")
	sb.WriteString("- Animate visuals using Canvas/WebGL/CSS variables; target 60fps with requestAnimationFrame.\n")
	sb.WriteString("- Ensure mobile responsiveness; large, legible Thai typography.\n\n")
	sb.WriteString("Song-specific style brief (use this to tailor visuals):\n")
	sb.WriteString(brief)
	sb.WriteString("\n\nDeliver a single-page app (HTML/CSS/JS or a small React/Vite setup). ")
	sb.WriteString("Prioritize jaw-dropping visuals with tasteful effects that enhance readability and timing precision.")
	return sb.String()
}

// readTSVPairs reads up to maxLines "<start_seconds>\t<text>" lines,
// skipping blank or malformed rows.
func readTSVPairs(path string, maxLines int) ([]tsvPair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []tsvPair
	scanner := bufio.NewScanner(f)
	for len(out) < maxLines && scanner.Scan() {
		pair, ok := parseTSVLine(scanner.Text())
		if !ok {
			continue
		}
		out = append(out, pair)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseTSVLine(line string) (tsvPair, bool) {
	if strings.TrimSpace(line) == "" {
		return tsvPair{}, false
	}
	tsStr, text, found := strings.Cut(line, "\t")
	if !found {
		return tsvPair{}, false
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(tsStr), 64)
	if err != nil {
		return tsvPair{}, false
	}
	return tsvPair{seconds: seconds, text: text}, true
}

// durationFromSentences estimates the track length as the last start time
// plus a small tail buffer.
func durationFromSentences(pairs []tsvPair) float64 {
	if len(pairs) == 0 {
		return 0
	}
	var last float64
	for _, p := range pairs {
		if p.seconds > last {
			last = p.seconds
		}
	}
	return last + durationTailSeconds
}

// mmss formats seconds as "m:ss" for prompt text.
func mmss(seconds float64) string {
	if seconds <= 0 {
		return "0:00"
	}
	m := int(seconds) / 60
	s := int(seconds+0.5) - m*60
	if s == 60 {
		m++
		s = 0
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
