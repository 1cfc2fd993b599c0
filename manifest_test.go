package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	m := manifest{
		OriginalURL: "https://www.youtube.com/watch?v=abc123def",
		Words:       wordsFileName,
		Sentences:   sentencesFileName,
		AudioFile:   "song.mp3",
	}
	path, err := writeManifest(m, dir)
	if err != nil {
		t.Fatalf("writeManifest() error = %v", err)
	}
	if filepath.Base(path) != manifestFileName {
		t.Errorf("writeManifest() path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got manifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if got != m {
		t.Errorf("round-tripped manifest = %+v, want %+v", got, m)
	}
}

func TestManifestWithAbsoluteURLs(t *testing.T) {
	m := manifest{
		OriginalURL: "https://www.youtube.com/watch?v=abc123def",
		Words:       "words.txt",
		Sentences:   "sentences.txt",
		AudioFile:   "song.mp3",
	}
	got := m.withAbsoluteURLs("https://bucket.s3.ap-southeast-1.amazonaws.com", "karaoke_run_1/")

	if got.Words != "https://bucket.s3.ap-southeast-1.amazonaws.com/karaoke_run_1/words.txt" {
		t.Errorf("Words = %q", got.Words)
	}
	if got.AudioFile != "https://bucket.s3.ap-southeast-1.amazonaws.com/karaoke_run_1/song.mp3" {
		t.Errorf("AudioFile = %q", got.AudioFile)
	}
	// The source URL is already absolute and must not be rewritten.
	if got.OriginalURL != m.OriginalURL {
		t.Errorf("OriginalURL = %q, want unchanged", got.OriginalURL)
	}
	// Absent optional entries stay absent.
	if got.Subtitles != "" {
		t.Errorf("Subtitles = %q, want empty", got.Subtitles)
	}
}

func TestS3BaseURL(t *testing.T) {
	if got := s3BaseURL("b", "ap-southeast-1"); got != "https://b.s3.ap-southeast-1.amazonaws.com" {
		t.Errorf("s3BaseURL() = %q", got)
	}
	if got := s3BaseURL("b", "us-east-1"); got != "https://b.s3.amazonaws.com" {
		t.Errorf("s3BaseURL() for us-east-1 = %q", got)
	}
}
