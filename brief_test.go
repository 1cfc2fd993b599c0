package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTSVLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   tsvPair
		wantOK bool
	}{
		{
			name:   "valid pair",
			line:   "18.680\tหน้า",
			want:   tsvPair{seconds: 18.68, text: "หน้า"},
			wantOK: true,
		},
		{
			name:   "text may contain further tabs",
			line:   "1.000\ta\tb",
			want:   tsvPair{seconds: 1.0, text: "a\tb"},
			wantOK: true,
		},
		{name: "blank line", line: "   "},
		{name: "no tab", line: "4.220 text"},
		{name: "non-numeric timestamp", line: "abc\ttext"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTSVLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("parseTSVLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseTSVLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestReadTSVPairs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentences.txt")
	content := "4.220\t[เพลง]\n\nbroken line\n18.680\tหน้า\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := readTSVPairs(path, 100)
	if err != nil {
		t.Fatalf("readTSVPairs() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("readTSVPairs() returned %d pairs, want 2", len(got))
	}
	if got[1].text != "หน้า" {
		t.Errorf("readTSVPairs()[1] = %+v", got[1])
	}
}

func TestDurationFromSentences(t *testing.T) {
	if got := durationFromSentences(nil); got != 0 {
		t.Errorf("durationFromSentences(nil) = %v, want 0", got)
	}
	pairs := []tsvPair{{seconds: 10}, {seconds: 95.5}, {seconds: 40}}
	if got := durationFromSentences(pairs); got != 100.5 {
		t.Errorf("durationFromSentences() = %v, want 100.5", got)
	}
}

func TestMMSS(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{-3, "0:00"},
		{59.4, "0:59"},
		{60, "1:00"},
		{95.5, "1:36"},
		{119.7, "2:00"},
	}
	for _, tt := range tests {
		if got := mmss(tt.seconds); got != tt.want {
			t.Errorf("mmss(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestBuildBriefPrompt(t *testing.T) {
	sentences := []tsvPair{
		{seconds: 4.22, text: "[เพลง]"},
		{seconds: 18.68, text: "หน้าฝน"},
	}
	prompt := buildBriefPrompt(sentences, 180)

	if !strings.Contains(prompt, "0:04\t[เพลง]") {
		t.Errorf("prompt missing excerpt line:\n%s", prompt)
	}
	// Anchors at 25/50/75% of a 3-minute track.
	for _, anchor := range []string{"0:45", "1:30", "2:15"} {
		if !strings.Contains(prompt, anchor) {
			t.Errorf("prompt missing anchor %q", anchor)
		}
	}
	if !strings.Contains(prompt, "Total approximate duration: 3:00") {
		t.Errorf("prompt missing duration line:\n%s", prompt)
	}
}

func TestFallbackBrief(t *testing.T) {
	brief := fallbackBrief(200)
	if !strings.Contains(brief, "Timeline Cues:") {
		t.Errorf("fallback brief missing cue section:\n%s", brief)
	}
	// 25/50/75% of 200s.
	for _, anchor := range []string{"0:50", "1:40", "2:30"} {
		if !strings.Contains(brief, anchor) {
			t.Errorf("fallback brief missing anchor %q", anchor)
		}
	}
}

func TestBuildVibePrompt(t *testing.T) {
	m := manifest{
		OriginalURL: "https://www.youtube.com/watch?v=abc123def",
		Words:       "https://b.s3.amazonaws.com/run/words.txt",
		Sentences:   "https://b.s3.amazonaws.com/run/sentences.txt",
		AudioFile:   "https://b.s3.amazonaws.com/run/song.mp3",
	}
	prompt := buildVibePrompt(m, "Title: Test Brief")

	for _, want := range []string{m.Words, m.Sentences, m.AudioFile, "Title: Test Brief"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("vibe prompt missing %q", want)
		}
	}
}

func TestManifestSentencesFileName(t *testing.T) {
	local := manifest{Sentences: "youtube_autosubs.sentences.txt"}
	if got := local.sentencesFileName(); got != "youtube_autosubs.sentences.txt" {
		t.Errorf("sentencesFileName() = %q", got)
	}
	remote := manifest{Sentences: "https://b.s3.amazonaws.com/run/youtube_autosubs.sentences.txt"}
	if got := remote.sentencesFileName(); got != "youtube_autosubs.sentences.txt" {
		t.Errorf("sentencesFileName() for URL = %q", got)
	}
}
