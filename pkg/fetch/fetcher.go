package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Chunkys0up7/webvisibility/pkg/config"
	"github.com/Chunkys0up7/webvisibility/pkg/utils"
)

// maxBodyBytes caps how much of a response body is read. Pages past this
// size are truncated, not failed; the analyzer still scores what arrived.
const maxBodyBytes = 10 << 20

// Result is a completed page fetch.
type Result struct {
	HTML       string
	StatusCode int
	FinalURL   string // After redirects
	SizeBytes  int
}

// Fetcher retrieves pages with retry, per-host delays and a global
// concurrency cap. One Fetcher is shared by single and batch analysis.
type Fetcher struct {
	client  *http.Client
	cfg     *config.AppConfig
	limiter *RateLimiter
	slots   *FetchSlots
	log     *logrus.Logger
}

// NewFetcher creates a Fetcher from the application configuration.
func NewFetcher(cfg *config.AppConfig, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		client:  NewClient(cfg.HTTPClientSettings, log),
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.DelayPerHost, log),
		slots:   NewFetchSlots(cfg.MaxConcurrentFetches, cfg.SemaphoreAcquireTimeout, log),
		log:     log,
	}
}

// FetchHTML retrieves rawURL as the given user agent and returns the page
// body. Non-HTML content types fail with ErrNonHTMLContent. The status code
// is returned whenever a response was received, error or not.
func (f *Fetcher) FetchHTML(ctx context.Context, rawURL, userAgent string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", utils.ErrRequestCreation, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	if err := f.slots.Acquire(ctx); err != nil {
		return Result{}, err
	}
	defer f.slots.Release()

	host := req.URL.Hostname()
	f.limiter.ApplyDelay(host, f.cfg.DelayPerHost)

	resp, fetchErr := f.fetchWithRetry(ctx, req)
	f.limiter.UpdateLastRequestTime(host)
	if resp == nil {
		return Result{}, fetchErr
	}
	defer drainAndClose(resp)

	result := Result{
		StatusCode: resp.StatusCode,
		FinalURL:   resp.Request.URL.String(),
	}
	if fetchErr != nil {
		return result, fetchErr
	}

	contentType := resp.Header.Get("Content-Type")
	if mediaType, _, parseErr := mime.ParseMediaType(contentType); parseErr == nil {
		if mediaType != "text/html" && mediaType != "application/xhtml+xml" && !strings.HasSuffix(mediaType, "+html") {
			return result, fmt.Errorf("%w: got %q for %s", utils.ErrNonHTMLContent, mediaType, rawURL)
		}
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if readErr != nil {
		return result, fmt.Errorf("%w: %v", utils.ErrResponseBodyRead, readErr)
	}

	result.HTML = string(body)
	result.SizeBytes = len(body)
	return result, nil
}

// FetchText retrieves a small plain-text resource such as robots.txt or
// llms.txt. No content-type check is applied. A non-2xx status is reported
// through the error with the status code still returned.
func (f *Fetcher) FetchText(ctx context.Context, rawURL, userAgent string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", utils.ErrRequestCreation, err)
	}
	req.Header.Set("User-Agent", userAgent)

	if err := f.slots.Acquire(ctx); err != nil {
		return "", 0, err
	}
	defer f.slots.Release()

	host := req.URL.Hostname()
	f.limiter.ApplyDelay(host, f.cfg.DelayPerHost)

	resp, fetchErr := f.fetchWithRetry(ctx, req)
	f.limiter.UpdateLastRequestTime(host)
	if resp == nil {
		return "", 0, fetchErr
	}
	defer drainAndClose(resp)

	if fetchErr != nil {
		return "", resp.StatusCode, fetchErr
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if readErr != nil {
		return "", resp.StatusCode, fmt.Errorf("%w: %v", utils.ErrResponseBodyRead, readErr)
	}
	return string(body), resp.StatusCode, nil
}

// fetchWithRetry performs the request with exponential backoff and jitter.
// 5xx and 429 responses are retried, other 4xx are not. Context errors end
// the loop immediately.
func (f *Fetcher) fetchWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	var resp *http.Response

	reqLog := f.log.WithField("url", req.URL.String())
	maxRetries := f.cfg.MaxRetries

	for attempt := 0; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, fmt.Errorf("context cancelled (%v) during retries after: %w", ctx.Err(), lastErr)
			}
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 {
			delay := f.backoffDelay(attempt)
			reqLog.WithFields(logrus.Fields{"attempt": attempt, "max_retries": maxRetries, "delay": delay}).Warn("Retrying request")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				if lastErr != nil {
					return nil, fmt.Errorf("context cancelled (%v) during retry delay after: %w", ctx.Err(), lastErr)
				}
				return nil, ctx.Err()
			}
		}

		resp, lastErr = f.client.Do(req.WithContext(ctx))

		if lastErr != nil {
			if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
				drainAndClose(resp)
				return nil, lastErr
			}
			reqLog.WithField("attempt", attempt).Errorf("Network error: %v", lastErr)
			drainAndClose(resp)
			continue
		}

		statusCode := resp.StatusCode
		resLog := reqLog.WithFields(logrus.Fields{"status_code": statusCode, "attempt": attempt})

		switch {
		case statusCode >= 200 && statusCode < 300:
			resLog.Debug("Fetched")
			return resp, nil

		case statusCode >= 500:
			resLog.Warn("Server error, retrying")
			lastErr = fmt.Errorf("%w: status %d %s", utils.ErrServerHTTPError, statusCode, resp.Status)
			drainAndClose(resp)
			continue

		case statusCode == http.StatusTooManyRequests:
			resLog.Warn("Rate limited by server, retrying")
			lastErr = fmt.Errorf("%w: status %d %s", utils.ErrClientHTTPError, statusCode, resp.Status)
			drainAndClose(resp)
			continue

		case statusCode >= 400 && statusCode < 500:
			resLog.Warn("Client error, not retrying")
			return resp, fmt.Errorf("%w: status %d %s", utils.ErrClientHTTPError, statusCode, resp.Status)

		default:
			resLog.Warnf("Unexpected status: %d", statusCode)
			return resp, fmt.Errorf("%w: status %d %s", utils.ErrOtherHTTPError, statusCode, resp.Status)
		}
	}

	reqLog.Errorf("All %d fetch attempts failed. Last error: %v", maxRetries+1, lastErr)
	drainAndClose(resp)

	if lastErr != nil {
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return nil, lastErr
		}
		return nil, fmt.Errorf("%w: %w", utils.ErrRetryFailed, lastErr)
	}
	return nil, utils.ErrRetryFailed
}

// backoffDelay is initial * 2^(attempt-1) capped at the maximum, with
// +/- 10% jitter.
func (f *Fetcher) backoffDelay(attempt int) time.Duration {
	backoff := float64(f.cfg.InitialRetryDelay) * math.Pow(2, float64(attempt-1))
	delay := time.Duration(backoff)
	if delay <= 0 || delay > f.cfg.MaxRetryDelay {
		delay = f.cfg.MaxRetryDelay
	}

	var jitter time.Duration
	if delay > 0 {
		if jitterRange := int64(delay) / 5; jitterRange > 0 {
			jitter = time.Duration(rand.Int63n(jitterRange)) - (delay / 10)
		}
	}
	if final := delay + jitter; final > 0 {
		return final
	}
	return 0
}

func drainAndClose(resp *http.Response) {
	if resp == nil {
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
