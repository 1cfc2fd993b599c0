package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	watchURLFormat  = "https://www.youtube.com/watch?v=%s"
	playerURLFormat = "https://www.youtube.com/youtubei/v1/player?key=%s"

	desktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	defaultClientName    = "WEB"
	defaultClientVersion = "2.20240901.00.00"

	trackRequestTimeout = 30 * time.Second
)

// captionTrack describes one caption stream offered for a video.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	VssID        string `json:"vssId"`
	Kind         string `json:"kind"`
}

// apiContext carries the credentials the player endpoint needs, scraped from
// the watch page.
type apiContext struct {
	APIKey        string
	ClientName    string
	ClientVersion string
}

// apiContextExtractor pulls an apiContext out of a watch page body. It is a
// standalone function type so the fragile page scrape can be swapped out in
// tests without touching the rest of the track listing.
type apiContextExtractor func(pageBody string) (apiContext, bool)

var (
	apiKeyRe        = regexp.MustCompile(`"INNERTUBE_API_KEY"\s*:\s*"([^"]+)"`)
	clientNameRe    = regexp.MustCompile(`"INNERTUBE_CLIENT_NAME"\s*:\s*"([^"]+)"`)
	clientVersionRe = regexp.MustCompile(`"INNERTUBE_CLIENT_VERSION"\s*:\s*"([^"]+)"`)
)

// extractAPIContext is the production extractor: regex scraping over the raw
// watch page HTML. Client name and version fall back to known-good defaults
// when the page layout hides them.
func extractAPIContext(pageBody string) (apiContext, bool) {
	keyMatch := apiKeyRe.FindStringSubmatch(pageBody)
	if keyMatch == nil {
		return apiContext{}, false
	}
	ctx := apiContext{
		APIKey:        keyMatch[1],
		ClientName:    defaultClientName,
		ClientVersion: defaultClientVersion,
	}
	if m := clientNameRe.FindStringSubmatch(pageBody); m != nil {
		ctx.ClientName = m[1]
	}
	if m := clientVersionRe.FindStringSubmatch(pageBody); m != nil {
		ctx.ClientVersion = m[1]
	}
	return ctx, true
}

// trackLister lists the caption tracks a video offers via the innertube
// player endpoint.
type trackLister struct {
	client  *http.Client
	extract apiContextExtractor
	lang    string
	geo     string

	// Endpoint formats, overridable in tests.
	watchFormat  string
	playerFormat string
}

func newTrackLister(lang, geo string) *trackLister {
	return &trackLister{
		client:       &http.Client{Timeout: trackRequestTimeout},
		extract:      extractAPIContext,
		lang:         lang,
		geo:          geo,
		watchFormat:  watchURLFormat,
		playerFormat: playerURLFormat,
	}
}

func (tl *trackLister) fetchWatchHTML(ctx context.Context, videoID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(tl.watchFormat, videoID), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", desktopUserAgent)
	req.Header.Set("Accept-Language", fmt.Sprintf("%s,en-US;q=0.9,en;q=0.8", tl.lang))

	resp, err := tl.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page returned status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read watch page: %w", err)
	}
	return string(body), nil
}

// playerResponse models only the slice of the player payload we consume.
type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

// listCaptionTracks fetches the watch page, extracts the API context, and
// asks the player endpoint for the video's caption tracks.
func (tl *trackLister) listCaptionTracks(ctx context.Context, logger *slog.Logger, videoID string) ([]captionTrack, error) {
	logger = logger.With("step", "listCaptionTracks", "videoID", videoID)

	html, err := tl.fetchWatchHTML(ctx, videoID)
	if err != nil {
		return nil, err
	}

	apiCtx, ok := tl.extract(html)
	if !ok {
		return nil, fmt.Errorf("could not extract API context from watch page")
	}
	logger.Debug("Extracted API context", "clientName", apiCtx.ClientName, "clientVersion", apiCtx.ClientVersion)

	reqBody := map[string]any{
		"videoId": videoID,
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    apiCtx.ClientName,
				"clientVersion": apiCtx.ClientVersion,
				"hl":            tl.lang,
				"gl":            tl.geo,
			},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf(tl.playerFormat, apiCtx.APIKey), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", desktopUserAgent)
	req.Header.Set("Accept-Language", fmt.Sprintf("%s,en-US;q=0.9,en;q=0.8", tl.lang))
	req.Header.Set("Content-Type", "application/json")

	resp, err := tl.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("player request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("player endpoint returned status %s", resp.Status)
	}

	var pr playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("failed to decode player response: %w", err)
	}

	tracks := pr.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	logger.Info("Listed caption tracks", "count", len(tracks))
	return tracks, nil
}

// trackScore orders tracks by (exact language match, language-prefix match,
// auto-generated). Higher is better on each axis.
type trackScore struct {
	exact  int
	prefix int
	asr    int
}

func (a trackScore) betterThan(b trackScore) bool {
	if a.exact != b.exact {
		return a.exact > b.exact
	}
	if a.prefix != b.prefix {
		return a.prefix > b.prefix
	}
	return a.asr > b.asr
}

func scoreTrack(t captionTrack, lang string) trackScore {
	code := t.LanguageCode
	if code == "" {
		code = t.VssID
	}
	var s trackScore
	if code == lang {
		s.exact = 1
	}
	if lang != "" && strings.HasPrefix(code, lang) {
		s.prefix = 1
	}
	if t.Kind == "asr" || strings.HasPrefix(t.VssID, "a.") {
		s.asr = 1
	}
	return s
}

// pickTrack selects the best-scoring track for the target language. Among
// equally scored tracks the first-listed one wins. Returns false when no
// track is selectable.
func pickTrack(tracks []captionTrack, lang string) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}
	best := 0
	bestScore := scoreTrack(tracks[0], lang)
	for i := 1; i < len(tracks); i++ {
		if s := scoreTrack(tracks[i], lang); s.betterThan(bestScore) {
			best = i
			bestScore = s
		}
	}
	return tracks[best], true
}
