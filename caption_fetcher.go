package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	formatJSON3 = "json3"
	formatSRV3  = "srv3"

	captionRequestTimeout = 30 * time.Second
)

// preferredFormats is the fallback order: json3 first, srv3 second.
var preferredFormats = []string{formatJSON3, formatSRV3}

// antiHijackPrefix is the line some json3 responses prepend to defeat JSON
// hijacking; it must be removed before decoding.
var antiHijackPrefix = []byte(")]}'\n")

// downloadCaption tries each candidate format against the track's base URL
// and returns the first format whose response passes structural validation,
// together with the (prefix-stripped) payload. Exhausting every format is a
// terminating error; there is no partial success.
func downloadCaption(ctx context.Context, logger *slog.Logger, client *http.Client, baseURL string, formats []string) (string, []byte, error) {
	logger = logger.With("step", "downloadCaption")

	for _, format := range formats {
		body, err := fetchCaptionFormat(ctx, client, baseURL, format)
		if err != nil {
			logger.Warn("Caption format rejected", "format", format, "reason", err)
			continue
		}
		logger.Info("Accepted caption payload", "format", format, "bytes", len(body))
		return format, body, nil
	}
	return "", nil, fmt.Errorf("no usable caption data")
}

func fetchCaptionFormat(ctx context.Context, client *http.Client, baseURL, format string) ([]byte, error) {
	url := baseURL
	if !strings.Contains(url, "fmt=") {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + "fmt=" + format
	}
	if format == formatJSON3 && !strings.Contains(url, "xorb=") {
		url += "&xorb=2&xobt=3&xovt=3"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %s", resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty body")
	}

	body := bytes.TrimLeft(raw, " \t\r\n")
	switch format {
	case formatJSON3:
		body = bytes.TrimPrefix(body, antiHijackPrefix)
		if !bytes.Contains(body, []byte(`"events"`)) {
			return nil, fmt.Errorf("missing events marker")
		}
		return body, nil
	default:
		if !bytes.Contains(body, []byte("<p ")) {
			return nil, fmt.Errorf("missing paragraph marker")
		}
		return body, nil
	}
}
