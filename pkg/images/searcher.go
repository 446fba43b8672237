package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/contentforge/contentforge/pkg/config"
)

// Client queries a Pexels-compatible image search API. Image enrichment is
// optional everywhere: failures and empty results both degrade to "no image",
// they never fail a keyword.
type Client struct {
	apiKey   string
	endpoint string
	perPage  int
	client   *http.Client
}

// errStopRetry is the sentinel registered with repeater; any error matching
// it stops the retry loop immediately
var errStopRetry = errors.New("non-retryable")

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error {
	return e.err
}

// Is matches errStopRetry so repeater treats the wrapped error as terminal
func (e *criticalError) Is(target error) bool {
	return target == errStopRetry
}

// searchResponse mirrors the Pexels photo search payload
type searchResponse struct {
	Photos []struct {
		Width  int `json:"width"`
		Height int `json:"height"`
		Src    struct {
			Original  string `json:"original"`
			Landscape string `json:"landscape"`
		} `json:"src"`
	} `json:"photos"`
}

// NewClient creates an image search client
func NewClient(cfg config.ImagesConfig, apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		perPage:  cfg.PerPage,
		client:   &http.Client{Timeout: cfg.Timeout},
	}
}

// LoadKey reads the image search API key file. A missing file disables image
// enrichment rather than failing the run.
func LoadKey(path string) string {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		if !os.IsNotExist(err) {
			lgr.Printf("[WARN] failed to read image key file %s: %v", path, err)
		}
		return ""
	}
	return strings.TrimSpace(string(data))
}

// FirstLandscape returns the URL of the first landscape-oriented result for
// the query, or an empty string when nothing suitable is found. Rate-limit
// and server errors are retried with backoff; client errors are not.
func (c *Client) FirstLandscape(ctx context.Context, query string) (string, error) {
	reqURL := c.endpoint + "/v1/search?query=" + url.QueryEscape(query) + "&per_page=" + strconv.Itoa(c.perPage)

	var result string
	retrier := repeater.NewBackoff(3, 500*time.Millisecond, repeater.WithMaxDelay(5*time.Second))

	err := retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return &criticalError{err: fmt.Errorf("build image search request: %w", err)}
		}
		req.Header.Set("Authorization", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("image search request: %w", err) // retry network errors
		}
		defer resp.Body.Close() //nolint:errcheck // read-only body

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("image search status %d", resp.StatusCode) // retry
		}
		if resp.StatusCode != http.StatusOK {
			return &criticalError{err: fmt.Errorf("image search status %d", resp.StatusCode)}
		}

		var payload searchResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return &criticalError{err: fmt.Errorf("decode image search response: %w", err)}
		}

		for _, photo := range payload.Photos {
			if photo.Width <= photo.Height {
				continue
			}
			if photo.Src.Landscape != "" {
				result = photo.Src.Landscape
			} else {
				result = photo.Src.Original
			}
			return nil
		}

		// no landscape hit is a valid empty result
		return nil
	}, errStopRetry)
	if err != nil {
		return "", fmt.Errorf("image search for %q: %w", query, err)
	}

	return result, nil
}
