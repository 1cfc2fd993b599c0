package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// token is the normalized unit every parser produces: an absolute start time
// in milliseconds and a text fragment.
type token struct {
	ms   int64
	text string
}

// cue is a bounded subtitle unit; only the srv3 word path produces these.
type cue struct {
	startMs int64
	endMs   int64
	text    string
}

// writeTimedLines writes tokens as "<start_seconds>\t<text>" lines, start
// formatted with 3 decimals, sorted ascending by start time. Tokens with
// equal timestamps keep their input order.
func writeTimedLines(tokens []token, path string) error {
	sorted := make([]token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ms < sorted[j].ms })

	var sb strings.Builder
	for _, tk := range sorted {
		fmt.Fprintf(&sb, "%.3f\t%s\n", float64(tk.ms)/1000.0, tk.text)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write timed lines to %s: %w", path, err)
	}
	return nil
}

// writeSRT renders cues as sequentially numbered SRT blocks. Cues whose end
// does not lie strictly after their start are dropped, not reported.
func writeSRT(cues []cue, path string) error {
	sorted := make([]cue, len(cues))
	copy(sorted, cues)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].startMs != sorted[j].startMs {
			return sorted[i].startMs < sorted[j].startMs
		}
		return sorted[i].endMs < sorted[j].endMs
	})

	var sb strings.Builder
	idx := 1
	for _, c := range sorted {
		if c.endMs <= c.startMs {
			continue
		}
		fmt.Fprintf(&sb, "%d\n", idx)
		fmt.Fprintf(&sb, "%s --> %s\n", msToSRTTimestamp(c.startMs), msToSRTTimestamp(c.endMs))
		fmt.Fprintf(&sb, "%s\n\n", c.text)
		idx++
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write SRT file %s: %w", path, err)
	}
	return nil
}

// msToSRTTimestamp formats milliseconds as "HH:MM:SS,mmm".
func msToSRTTimestamp(ms int64) string {
	totalSeconds := ms / 1000
	millis := ms % 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
