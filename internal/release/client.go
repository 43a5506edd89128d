// Package release resolves target versions from remote release metadata.
package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/conn-castle/tool-layer/internal/asset"
	"github.com/conn-castle/tool-layer/internal/envcfg"
	"github.com/conn-castle/tool-layer/internal/messages"
	"github.com/conn-castle/tool-layer/internal/version"
)

var retrySleep = time.Sleep
var retryDelay = 250 * time.Millisecond

const latestRetryCount = 1

// Release is one published release: its tag, parsed version, and assets.
type Release struct {
	Tag     string
	Version version.Version
	Assets  []asset.Asset
}

// ResolutionError wraps a failure to resolve release metadata for one source.
// It is recipe-scoped: the orchestrator fails only the affected recipe.
type ResolutionError struct {
	Source string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf(messages.ReleaseResolutionErrFmt, e.Source, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates the metadata API rate limit was hit.
type RateLimitError struct {
	StatusCode int
	Status     string
	Remaining  *int
}

func (e *RateLimitError) Error() string {
	remainingText := "unknown"
	if e.Remaining != nil {
		remainingText = fmt.Sprintf("%d", *e.Remaining)
	}
	return fmt.Sprintf(messages.ReleaseRateLimitErrFmt, e.Status, remainingText)
}

// IsRateLimitError reports whether err represents an API rate-limit condition.
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// Client fetches release metadata from a source-hosting API. Endpoint and
// credentials come from the explicit environment config, never from ambient
// process globals.
type Client struct {
	baseURL    string
	token      string
	noNetwork  bool
	httpClient *http.Client
}

// NewClient builds a Client from the environment config.
func NewClient(cfg envcfg.Config) *Client {
	return &Client{
		baseURL:    cfg.APIBaseURL,
		token:      cfg.Token,
		noNetwork:  cfg.NoNetwork,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type latestReleaseResponse struct {
	TagName string        `json:"tag_name"`
	Assets  []asset.Asset `json:"assets"`
}

// Latest fetches the newest release for source ("owner/repo"). Transient
// network errors and 5xx responses are retried once; authoritative failures
// (404, auth) are not. All failures wrap ResolutionError.
func (c *Client) Latest(ctx context.Context, source string) (Release, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.noNetwork {
		return Release{}, &ResolutionError{Source: source, Err: errors.New(messages.ReleaseNoNetwork)}
	}

	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.baseURL, source)
	payload, err := c.fetchLatest(ctx, url)
	if err != nil {
		return Release{}, &ResolutionError{Source: source, Err: err}
	}

	tag := strings.TrimSpace(payload.TagName)
	if tag == "" {
		return Release{}, &ResolutionError{Source: source, Err: errors.New(messages.ReleaseMissingTag)}
	}
	parsed, err := version.Parse(tag)
	if err != nil {
		return Release{}, &ResolutionError{Source: source, Err: err}
	}
	return Release{Tag: tag, Version: parsed, Assets: payload.Assets}, nil
}

// fetchLatest performs the metadata request with a bounded retry budget.
func (c *Client) fetchLatest(ctx context.Context, url string) (latestReleaseResponse, error) {
	for attempt := 0; attempt <= latestRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return latestReleaseResponse{}, fmt.Errorf(messages.ReleaseCreateRequestErrFmt, err)
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("User-Agent", "tool-layer")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if shouldRetry(err, 0, attempt) {
				retrySleep(retryDelay)
				continue
			}
			return latestReleaseResponse{}, fmt.Errorf(messages.ReleaseFetchErrFmt, err)
		}

		if resp.StatusCode != http.StatusOK {
			if rateLimitErr := rateLimitErrorFromResponse(resp); rateLimitErr != nil {
				_ = resp.Body.Close()
				return latestReleaseResponse{}, rateLimitErr
			}
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetry(nil, status, attempt) {
				retrySleep(retryDelay)
				continue
			}
			return latestReleaseResponse{}, fmt.Errorf(messages.ReleaseFetchStatusFmt, statusText)
		}

		var payload latestReleaseResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			_ = resp.Body.Close()
			return latestReleaseResponse{}, fmt.Errorf(messages.ReleaseDecodeErrFmt, err)
		}
		_ = resp.Body.Close()
		return payload, nil
	}
	return latestReleaseResponse{}, fmt.Errorf(messages.ReleaseFetchErrFmt, errors.New("retry budget exhausted"))
}

// Download streams url into dest. The caller owns dest's lifetime.
func (c *Client) Download(ctx context.Context, url string, dest string) error {
	if c.noNetwork {
		return errors.New(messages.ReleaseNoNetwork)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf(messages.ReleaseCreateRequestErrFmt, err)
	}
	req.Header.Set("User-Agent", "tool-layer")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf(messages.ReleaseDownloadErrFmt, url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf(messages.ReleaseDownloadStatusFmt, resp.Status, url)
	}

	file, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf(messages.ReleaseDownloadCreateFmt, dest, err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		_ = file.Close()
		return fmt.Errorf(messages.ReleaseDownloadWriteFmt, dest, err)
	}
	return file.Close()
}

// rateLimitErrorFromResponse detects rate limiting from status and headers.
func rateLimitErrorFromResponse(resp *http.Response) *RateLimitError {
	if resp == nil {
		return nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	// GitHub returns 403 Forbidden for unauthenticated exhaustion; confirm with rate-limit headers.
	if resp.StatusCode == http.StatusForbidden {
		remainingStr := strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining"))
		if remainingStr == "" {
			return nil
		}
		remaining, err := strconv.Atoi(remainingStr)
		if err != nil {
			return nil
		}
		if remaining == 0 {
			return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status, Remaining: &remaining}
		}
	}
	return nil
}

// shouldRetry allows one retry for transient transport errors and 5xx
// responses; context cancellation and authoritative failures never retry.
func shouldRetry(err error, statusCode int, attempt int) bool {
	if attempt >= latestRetryCount {
		return false
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}
