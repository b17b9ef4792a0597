package taggate

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
)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 4 << 20
)

// Client is the taggate gateway client. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	obs     *observer
}

type tagRequest struct {
	Texts []string `json:"texts"`
}

type tagResponse struct {
	Tags [][]string `json:"tags"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a Client for the gateway at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("taggate: base URL must be an absolute http(s) URL, got %q", baseURL)
	}

	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.apiKey,
		http:    hc,
		obs:     obs,
	}, nil
}

// Tag sends a batch of texts and returns one tag list per text, in order.
func (c *Client) Tag(ctx context.Context, texts []string) (tags [][]string, err error) {
	defer func(start time.Time) { c.obs.observe("tag", start, err) }(time.Now())

	if texts == nil {
		texts = []string{}
	}
	body, err := json.Marshal(tagRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("taggate: encode request: %w", err)
	}

	endpoint := c.baseURL + "/tagging?" + url.Values{"api_key": {c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("taggate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("taggate: tag: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var out tagResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("taggate: decode response: %w", err)
	}
	if len(out.Tags) != len(texts) {
		return nil, fmt.Errorf("taggate: got %d tag lists for %d texts", len(out.Tags), len(texts))
	}
	return out.Tags, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Join(apiErr, err)
	}
	var e errorResponse
	if json.Unmarshal(raw, &e) == nil && e.Error != "" {
		apiErr.Message = e.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
