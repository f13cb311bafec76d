// Package cj talks to the CJ Dropshipping API. Authentication uses a
// short-lived access token cached in process memory with the provider's
// expiry; the cache is per instance and best-effort, safe to recompute from
// scratch at any time.
package cj

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/beezio/beezio-backend/pkg/config"
	pkgerrors "github.com/beezio/beezio-backend/pkg/errors"
	"github.com/beezio/beezio-backend/pkg/logger"
)

const tokenPath = "/authentication/getAccessToken"

// Client is a minimal CJ API client with a get-or-refresh token cache.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logg    *logger.Logger
	clock   func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg config.SupplierConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "supplier api key is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
		logg:    logg,
		clock:   time.Now,
	}, nil
}

type tokenResponse struct {
	Result  bool   `json:"result"`
	Message string `json:"message"`
	Data    struct {
		AccessToken           string `json:"accessToken"`
		AccessTokenExpiryDate string `json:"accessTokenExpiryDate"`
	} `json:"data"`
}

// AccessToken returns the cached token, refreshing it when absent or past
// the provider-supplied expiry.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.clock().Before(c.tokenExpiry) {
		return c.token, nil
	}
	return c.refreshTokenLocked(ctx)
}

func (c *Client) refreshTokenLocked(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{"apiKey": c.apiKey})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode token request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, bytes.NewReader(body))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build token request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch supplier access token")
	}
	defer resp.Body.Close()

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode supplier token response")
	}
	if resp.StatusCode != http.StatusOK || !parsed.Result || parsed.Data.AccessToken == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("supplier token error: %d %s", resp.StatusCode, parsed.Message))
	}

	c.token = parsed.Data.AccessToken
	c.tokenExpiry = parseExpiry(parsed.Data.AccessTokenExpiryDate, c.clock())
	if c.logg != nil {
		c.logg.Info(ctx, "supplier access token refreshed")
	}
	return c.token, nil
}

// parseExpiry reads the provider's expiry timestamp, falling back to a short
// window so an unparseable value forces an early refresh rather than a
// stale-token failure.
func parseExpiry(raw string, now time.Time) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return now.Add(time.Hour)
}

// apiEnvelope is CJ's uniform response wrapper.
type apiEnvelope struct {
	Result  bool            `json:"result"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode supplier request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build supplier request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("CJ-Access-Token", token)

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "call supplier api")
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode supplier response")
	}
	if resp.StatusCode != http.StatusOK || !envelope.Result {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("supplier api error: %d %s", resp.StatusCode, envelope.Message))
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode supplier payload")
		}
	}
	return nil
}

// ProductCost is a variant's current wholesale price.
type ProductCost struct {
	ProductID string  `json:"pid"`
	VariantID string  `json:"vid,omitempty"`
	SellPrice float64 `json:"sellPrice"`
}

// QueryProductCost fetches the current wholesale cost for a product variant.
func (c *Client) QueryProductCost(ctx context.Context, productID, variantID string) (*ProductCost, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	payload := map[string]string{"pid": productID}
	if variantID != "" {
		payload["vid"] = variantID
	}
	var cost ProductCost
	if err := c.post(ctx, "/product/variant/query", payload, &cost); err != nil {
		return nil, err
	}
	return &cost, nil
}
