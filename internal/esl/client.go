package esl

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config holds the fixed platform parameters for one store.
type Config struct {
	BaseURL      string
	Username     string
	Password     string
	CustomerCode string
	StoreCode    string
	BatchSize    int
	Timeout      time.Duration
	// TLSSkipVerify disables certificate verification; the platform in the
	// field runs on a self-signed certificate.
	TLSSkipVerify bool
}

// Client talks to the ESL platform: token exchange plus batched item upserts.
type Client struct {
	client *http.Client
	cfg    Config
	log    *zap.Logger
	now    func() time.Time
}

// NewClient creates a platform client from a fixed configuration.
func NewClient(cfg Config, log *zap.Logger) *Client {
	transport := &http.Transport{}
	if cfg.TLSSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		cfg: cfg,
		log: log,
		now: time.Now,
	}
}

// Token exchanges the basic-auth credentials for a bearer token.
func (c *Client) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/proxy/token", nil)
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token response has no access_token")
	}
	return tr.AccessToken, nil
}

// Publish sends items to the platform in consecutive batches of at most
// BatchSize, preserving item order. The initial token acquisition is fatal;
// after that every batch outcome, good or bad, lands in the report and the
// next batch is attempted regardless. A 401 on a batch triggers exactly one
// token refresh and one resend of that batch.
func (c *Client) Publish(ctx context.Context, items []Item) (*Report, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire token: %w", err)
	}

	report := &Report{}
	for start := 0; start < len(items); start += c.cfg.BatchSize {
		end := start + c.cfg.BatchSize
		if end > len(items) {
			end = len(items)
		}
		chunk := items[start:end]
		batchIdx := start/c.cfg.BatchSize + 1

		c.log.Info("sending batch",
			zap.Int("batch", batchIdx),
			zap.Int("items", len(chunk)))

		status, body, err := c.sendBatch(ctx, token, chunk)
		if err == nil && status == http.StatusUnauthorized {
			c.log.Warn("token expired, refreshing once", zap.Int("batch", batchIdx))
			fresh, tokenErr := c.Token(ctx)
			if tokenErr != nil {
				c.log.Error("token refresh failed", zap.Int("batch", batchIdx), zap.Error(tokenErr))
			} else {
				token = fresh
				status, body, err = c.sendBatch(ctx, token, chunk)
			}
		}

		var response interface{}
		switch {
		case err != nil:
			c.log.Error("batch send failed", zap.Int("batch", batchIdx), zap.Error(err))
			response = map[string]interface{}{"error": err.Error()}
		default:
			if jsonErr := json.Unmarshal(body, &response); jsonErr != nil {
				response = map[string]interface{}{
					"error": "failed to decode response body",
					"text":  string(body),
				}
			}
			c.log.Info("batch response",
				zap.Int("batch", batchIdx),
				zap.Int("status", status),
				zap.Int("bytes", len(body)))
		}

		report.Results = append(report.Results, BatchResult{
			Batch:    batchIdx,
			Status:   status,
			Response: response,
		})
	}

	report.BatchesSent = len(report.Results)
	return report, nil
}

// sendBatch posts one chunk and returns the raw status and body. Transport
// failures are returned as err with status 0; HTTP error statuses are not
// errors here, the caller records them.
func (c *Client) sendBatch(ctx context.Context, token string, chunk []Item) (int, []byte, error) {
	payload := batchPayload{
		CustomerStoreCode: c.cfg.CustomerCode,
		StoreCode:         c.cfg.StoreCode,
		BatchNo:           "batch-" + c.now().Format("20060102150405"),
		Items:             chunk,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal batch: %w", err)
	}

	url := fmt.Sprintf("%s/proxy/integration/%s/%s", c.cfg.BaseURL, c.cfg.CustomerCode, c.cfg.StoreCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return 0, nil, fmt.Errorf("create batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("batch request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read batch response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// HTTPError represents a non-2xx response from the platform.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}
