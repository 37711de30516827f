package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/tair/digital-market/internal/checkout/domain"
	"github.com/tair/digital-market/pkg/logger"
)

// Config holds hosted checkout gateway credentials and endpoints
type Config struct {
	APIURL     string
	StoreID    string
	AuthKey    string
	SuccessURL string
	CancelURL  string
	TestMode   bool
}

// HostedCheckoutClient talks to the hosted payment gateway over HTTP
type HostedCheckoutClient struct {
	cfg    Config
	client *http.Client
}

// NewHostedCheckoutClient creates a new hosted checkout client
func NewHostedCheckoutClient(cfg Config) *HostedCheckoutClient {
	return &HostedCheckoutClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type sessionResponse struct {
	Order struct {
		Ref string `json:"ref"`
		URL string `json:"url"`
	} `json:"order"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateSession creates a hosted payment session and returns the redirect
// target for the customer
func (c *HostedCheckoutClient) CreateSession(ctx context.Context, req domain.SessionRequest) (*domain.Session, error) {
	testMode := 0
	if c.cfg.TestMode {
		testMode = 1
	}

	payload := map[string]interface{}{
		"method":  "create",
		"store":   c.cfg.StoreID,
		"authkey": c.cfg.AuthKey,
		"order": map[string]interface{}{
			"cartid":      req.Reference,
			"test":        testMode,
			"amount":      strconv.Itoa(req.Amount),
			"currency":    req.Currency,
			"description": req.Description,
		},
		"return": map[string]string{
			"authorised": c.cfg.SuccessURL,
			"declined":   c.cfg.CancelURL,
			"cancelled":  c.cfg.CancelURL,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, respBody)
	}

	var sr sessionResponse
	if err := json.Unmarshal(respBody, &sr); err != nil {
		return nil, fmt.Errorf("%w: bad response: %v", domain.ErrProviderFailure, err)
	}
	if sr.Error != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderFailure, sr.Error.Message)
	}
	if sr.Order.URL == "" {
		return nil, fmt.Errorf("%w: empty redirect url", domain.ErrProviderFailure)
	}

	logger.Logger.Info().
		Str("reference", req.Reference).
		Str("session_ref", sr.Order.Ref).
		Int("amount", req.Amount).
		Msg("Hosted payment session created")

	return &domain.Session{
		Reference:   sr.Order.Ref,
		RedirectURL: sr.Order.URL,
	}, nil
}
