package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const manifestFileName = "manifest.json"

// manifest describes the artifacts a run produced. Entries are file names
// relative to the output directory until the uploader rewrites them to
// absolute URLs.
type manifest struct {
	OriginalURL string `json:"original_url"`
	Words       string `json:"words"`
	Sentences   string `json:"sentences"`
	AudioFile   string `json:"audio_file,omitempty"`
	Subtitles   string `json:"subtitles,omitempty"`
}

func writeManifest(m manifest, outputDir string) (string, error) {
	path := filepath.Join(outputDir, manifestFileName)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return "", fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return path, nil
}

// withAbsoluteURLs returns a copy of the manifest whose relative file
// entries point at baseURL/folderPrefix. The original URL stays as is.
func (m manifest) withAbsoluteURLs(baseURL, folderPrefix string) manifest {
	abs := func(name string) string {
		if name == "" || strings.Contains(name, "://") {
			return name
		}
		return fmt.Sprintf("%s/%s%s", strings.TrimRight(baseURL, "/"), folderPrefix, name)
	}
	out := m
	out.Words = abs(m.Words)
	out.Sentences = abs(m.Sentences)
	out.AudioFile = abs(m.AudioFile)
	out.Subtitles = abs(m.Subtitles)
	return out
}
