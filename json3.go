package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

// json3 wire shapes. tStartMs is a pointer so an event without a start time
// (which cannot be anchored) is distinguishable from one starting at 0.
type json3Body struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs *int64     `json:"tStartMs"`
	Segs    []json3Seg `json:"segs"`
}

type json3Seg struct {
	UTF8     string `json:"utf8"`
	OffsetMs int64  `json:"tOffsetMs"`
}

func decodeJSON3(data []byte) (*json3Body, error) {
	var body json3Body
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("failed to decode json3 payload: %w", err)
	}
	return &body, nil
}

// parseJSON3Sentences returns one token per event: all segment texts joined,
// newlines flattened to spaces. Events without a start time or without
// segments are skipped.
func parseJSON3Sentences(data []byte) ([]token, error) {
	body, err := decodeJSON3(data)
	if err != nil {
		return nil, err
	}
	var out []token
	for _, ev := range body.Events {
		if ev.StartMs == nil || len(ev.Segs) == 0 {
			continue
		}
		var sb strings.Builder
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text == "" {
			continue
		}
		out = append(out, token{ms: *ev.StartMs, text: text})
	}
	return out, nil
}

// parseJSON3Words returns one token per segment at event start plus segment
// offset. Empty and bracket-wrapped marker tokens are skipped; the bracket
// filter applies only here, not in sentence mode.
func parseJSON3Words(data []byte) ([]token, error) {
	body, err := decodeJSON3(data)
	if err != nil {
		return nil, err
	}
	var out []token
	for _, ev := range body.Events {
		if ev.StartMs == nil || len(ev.Segs) == 0 {
			continue
		}
		for _, seg := range ev.Segs {
			text := strings.TrimSpace(seg.UTF8)
			if text == "" || isBracketMarker(text) {
				continue
			}
			out = append(out, token{ms: *ev.StartMs + seg.OffsetMs, text: text})
		}
	}
	return out, nil
}
