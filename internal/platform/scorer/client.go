package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/anchorrisk/anchorrisk-backend/internal/domain/household"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/envutil"
	"github.com/anchorrisk/anchorrisk-backend/internal/platform/logger"
)

const analyzePath = "/analyze-household"

type Options struct {
	BaseURL string
	APIKey  string

	Timeout    time.Duration
	MaxRetries int
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration

	HTTPClient *http.Client
}

// Client is the HTTP fragility scorer. It retries transport failures, 429 and
// 5xx answers; every other failure is returned on the first attempt.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	httpClient *http.Client
	log        *logger.Logger
}

func New(log *logger.Logger, opts Options) (*Client, error) {
	if log == nil {
		return nil, errors.New("scorer: logger required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("scorer: baseURL required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 250 * time.Millisecond
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(opts.APIKey),
		timeout:    timeout,
		maxRetries: maxRetries,
		backoff:    backoff,
		httpClient: hc,
		log:        log.With("client", "FragilityScorer"),
	}, nil
}

// NewFromEnv returns nil, nil when ML_SERVICE_URL is unset.
func NewFromEnv(log *logger.Logger) (*Client, error) {
	baseURL := envutil.String("ML_SERVICE_URL", "")
	if baseURL == "" {
		return nil, nil
	}
	return New(log, Options{
		BaseURL:    baseURL,
		APIKey:     envutil.String("ML_SERVICE_API_KEY", ""),
		Timeout:    envutil.Seconds("ML_SERVICE_TIMEOUT_SECONDS", 15*time.Second),
		MaxRetries: envutil.Int("ML_SERVICE_MAX_RETRIES", 2),
	})
}

func (c *Client) BaseURL() string { return c.baseURL }

type scoreResponse struct {
	FragilityScore *float64       `json:"fragility_score"`
	RiskBand       string         `json:"risk_band"`
	Features       map[string]any `json:"features"`
}

func (c *Client) Score(ctx context.Context, payload household.ScorePayload) (*household.ScoreResult, error) {
	if len(payload.Members) == 0 {
		return nil, fmt.Errorf("scorer: %w", household.ErrNoMembers)
	}
	if payload.Supports == nil {
		payload.Supports = []household.ScoreSupport{}
	}

	var resp scoreResponse
	if err := c.doJSON(ctx, http.MethodPost, analyzePath, payload, &resp); err != nil {
		c.log.Warn("fragility scorer call failed", "error", err, "members", len(payload.Members))
		return nil, fmt.Errorf("%w: %w", household.ErrScorerUnavailable, err)
	}
	if resp.FragilityScore == nil {
		return nil, fmt.Errorf("%w: response has no fragility_score", household.ErrScorerUnavailable)
	}
	out := &household.ScoreResult{
		FragilityScore: *resp.FragilityScore,
		RiskBand:       resp.RiskBand,
		Features:       resp.Features,
	}
	if out.RiskBand == "" {
		out.RiskBand = "UNKNOWN"
	}
	if out.Features == nil {
		out.Features = map[string]any{}
	}
	return out, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var lastErr error
	backoff := c.backoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx2.Err() != nil {
			return ctx2.Err()
		}

		req, err := http.NewRequestWithContext(ctx2, method, c.baseURL+path, bytes.NewReader(buf.Bytes()))
		if err != nil {
			return err
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				return readErr
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				herr := parseHTTPError(resp.StatusCode, raw)
				if !herr.Retryable() {
					return herr
				}
				lastErr = herr
			} else {
				if out == nil {
					return nil
				}
				return json.Unmarshal(raw, out)
			}
		}

		if attempt < c.maxRetries {
			c.log.Debug("retrying fragility scorer", "attempt", attempt+1, "backoff", backoff.String(), "error", lastErr)
			select {
			case <-ctx2.Done():
				return ctx2.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	if lastErr == nil {
		lastErr = errors.New("request failed")
	}
	return lastErr
}
