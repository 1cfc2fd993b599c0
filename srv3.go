package main

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// musicMarker is the non-lyrical interlude tag the auto captions use for
// instrumental sections. As a word cue it is widened to at least 500ms.
const musicMarker = "[เพลง]"

// minWordSpanMs is the span given to a final word when neither a following
// segment nor a paragraph duration can bound it.
const minWordSpanMs = 250

// srv3 timedtext document. Attribute values stay strings so that an absent
// attribute is distinguishable from zero.
type timedText struct {
	XMLName    xml.Name        `xml:"timedtext"`
	Paragraphs []srv3Paragraph `xml:"body>p"`
}

type srv3Paragraph struct {
	Start    string        `xml:"t,attr"`
	Duration string        `xml:"d,attr"`
	Text     string        `xml:",chardata"`
	Segments []srv3Segment `xml:"s"`
}

type srv3Segment struct {
	Offset string `xml:"t,attr"`
	Text   string `xml:",chardata"`
}

func decodeSRV3(data []byte) (*timedText, error) {
	var doc timedText
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode srv3 payload: %w", err)
	}
	return &doc, nil
}

// startMs returns the paragraph's absolute start. Paragraphs without a start
// time cannot be anchored and are skipped by every extraction mode.
func (p *srv3Paragraph) startMs() (int64, bool) {
	if p.Start == "" {
		return 0, false
	}
	ms, err := strconv.ParseInt(p.Start, 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}

func (p *srv3Paragraph) durationMs() (int64, bool) {
	if p.Duration == "" {
		return 0, false
	}
	ms, err := strconv.ParseInt(p.Duration, 10, 64)
	if err != nil {
		return 0, false
	}
	return ms, true
}

// offsetMs returns the segment offset relative to the owning paragraph;
// a missing attribute means offset 0.
func (s *srv3Segment) offsetMs() int64 {
	if s.Offset == "" {
		return 0
	}
	ms, err := strconv.ParseInt(s.Offset, 10, 64)
	if err != nil {
		return 0
	}
	return ms
}

// parseSRV3Sentences returns one token per paragraph. Segment texts are
// concatenated with no separator (Thai has no word spacing); paragraphs
// without segments contribute their own text.
func parseSRV3Sentences(data []byte) ([]token, error) {
	doc, err := decodeSRV3(data)
	if err != nil {
		return nil, err
	}
	var out []token
	for i := range doc.Paragraphs {
		p := &doc.Paragraphs[i]
		start, ok := p.startMs()
		if !ok {
			continue
		}
		var text string
		if len(p.Segments) > 0 {
			var parts []string
			for _, s := range p.Segments {
				if t := strings.TrimSpace(s.Text); t != "" {
					parts = append(parts, t)
				}
			}
			text = strings.TrimSpace(strings.Join(parts, ""))
		} else {
			text = strings.TrimSpace(p.Text)
		}
		if text == "" {
			continue
		}
		out = append(out, token{ms: start, text: text})
	}
	return out, nil
}

// parseSRV3Words returns one token per segment at base+offset, skipping empty
// and bracket-wrapped marker tokens.
func parseSRV3Words(data []byte) ([]token, error) {
	doc, err := decodeSRV3(data)
	if err != nil {
		return nil, err
	}
	var out []token
	for i := range doc.Paragraphs {
		p := &doc.Paragraphs[i]
		base, ok := p.startMs()
		if !ok {
			continue
		}
		for _, s := range p.Segments {
			text := strings.TrimSpace(s.Text)
			if text == "" || isBracketMarker(text) {
				continue
			}
			out = append(out, token{ms: base + s.offsetMs(), text: text})
		}
	}
	return out, nil
}

// parseSRV3WordCues reconstructs bounded word cues from a timedtext payload.
// A word ends where the next word starts; the last word ends at the
// paragraph boundary when the duration is known, else after a minimal span.
func parseSRV3WordCues(data []byte) ([]cue, error) {
	doc, err := decodeSRV3(data)
	if err != nil {
		return nil, err
	}
	var cues []cue
	for i := range doc.Paragraphs {
		p := &doc.Paragraphs[i]
		start, ok := p.startMs()
		if !ok {
			continue
		}
		dur, hasDur := p.durationMs()

		if len(p.Segments) == 0 {
			// Plain-text paragraphs (e.g. a solo music marker) need a
			// duration to be bounded at all.
			text := strings.TrimSpace(p.Text)
			if text == "" || !hasDur {
				continue
			}
			cues = append(cues, cue{startMs: start, endMs: start + dur, text: text})
			continue
		}

		var offsets []int64
		var texts []string
		for _, s := range p.Segments {
			text := strings.TrimSpace(s.Text)
			if text == "" {
				continue
			}
			offsets = append(offsets, s.offsetMs())
			texts = append(texts, text)
		}

		for j, text := range texts {
			wordStart := start + offsets[j]
			var wordEnd int64
			switch {
			case j+1 < len(offsets):
				wordEnd = start + offsets[j+1]
			case hasDur:
				wordEnd = start + dur
			default:
				wordEnd = wordStart + minWordSpanMs
			}
			if text == musicMarker && wordEnd < wordStart+500 {
				wordEnd = wordStart + 500
			}
			cues = append(cues, cue{startMs: wordStart, endMs: wordEnd, text: text})
		}
	}
	return cues, nil
}

// isBracketMarker reports whether a token is a non-lyrical marker such as
// the music tag, i.e. fully wrapped in square brackets.
func isBracketMarker(s string) bool {
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}
