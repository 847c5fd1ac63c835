// Package reddit acquires a reddit discussion thread as raw JSON and
// extracts comment bodies and thread metadata from it.
package reddit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds a single thread fetch.
const DefaultTimeout = 10 * time.Second

// Reddit rejects requests without a browser-style user agent.
const userAgent = "Mozilla/5.0"

var threadURLPattern = regexp.MustCompile(`^https?://(www\.)?reddit\.com/r/[^/]+/comments/\w+`)

// IsThreadURL reports whether u looks like a reddit comment thread URL.
func IsThreadURL(u string) bool {
	return threadURLPattern.MatchString(u)
}

// NormalizeJSONURL rewrites a thread URL so its last path segment carries the
// .json suffix reddit requires for the JSON rendering of a thread.
func NormalizeJSONURL(u string) string {
	u = strings.TrimRight(u, "/")
	if strings.HasSuffix(u, ".json") {
		return u
	}
	return u + ".json"
}

// FetchThread performs a single GET of the thread JSON. There is no retry;
// any transport error, non-2xx status, or non-JSON body is returned as a
// *FetchError. A nil client gets a default one with DefaultTimeout.
func FetchThread(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if !gjson.ValidBytes(b) {
		return nil, &FetchError{URL: url, Err: errors.New("response body is not valid JSON")}
	}
	return b, nil
}
