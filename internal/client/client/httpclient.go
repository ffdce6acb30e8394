package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tracetrail/tracetrail/internal/common"
	"github.com/tracetrail/tracetrail/internal/logging"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 16 << 20
)

// TokenSource supplies the bearer token attached to outbound requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Options configures an HTTPClient. Only BaseURL is required.
type Options struct {
	BaseURL string
	// Timeout bounds a whole request; zero means 15s.
	Timeout time.Duration
	// RateLimit is the sustained request rate per second; zero disables pacing.
	RateLimit float64
	RateBurst int

	Tokens     TokenSource
	Metrics    MetricsCollector
	Logger     logging.Logger
	HTTPClient *http.Client
	UserAgent  string
}

type HTTPClient struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    TokenSource
	limiter   *rate.Limiter
	metrics   MetricsCollector
	logger    logging.Logger
	userAgent string
}

func New(opts Options) (*HTTPClient, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("base url is required")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}

	c := &HTTPClient{
		baseURL:   base,
		http:      opts.HTTPClient,
		tokens:    opts.Tokens,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		userAgent: opts.UserAgent,
	}

	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.metrics == nil {
		c.metrics = nopMetrics{}
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.userAgent == "" {
		c.userAgent = common.AppName + "-cli/1.0"
	}

	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	} else {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return c, nil
}

func (c *HTTPClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

func (c *HTTPClient) Post(ctx context.Context, path string, in, out any) error {
	body, err := c.do(ctx, http.MethodPost, path, nil, in)
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

func (c *HTTPClient) Put(ctx context.Context, path string, in, out any) error {
	body, err := c.do(ctx, http.MethodPut, path, nil, in)
	if err != nil {
		return err
	}
	return c.decode(body, out)
}

func (c *HTTPClient) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// GetRaw returns the response body untouched. Used for binary downloads.
func (c *HTTPClient) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *HTTPClient) decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.RecordError(KindDecode)
		return &Error{Kind: KindDecode, Err: err}
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, &Error{Kind: KindLocal, Err: fmt.Errorf("encode request: %w", err)}
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, &Error{Kind: KindLocal, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, &Error{Kind: KindLocal, Err: fmt.Errorf("read token: %w", err)}
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordError(KindNetwork)
		c.logger.Warn(ctx, "api request failed", "method", method, "path", path, "error", err)
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	c.metrics.ObserveRequest(method, resp.StatusCode, elapsed)
	if err != nil {
		c.metrics.RecordError(KindNetwork)
		return nil, &Error{Kind: KindNetwork, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.logger.Debug(ctx, "api request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", elapsed)

	if resp.StatusCode >= 400 {
		apiErr := newStatusError(resp.StatusCode, body)
		c.metrics.RecordError(apiErr.Kind)
		return nil, apiErr
	}

	return body, nil
}
