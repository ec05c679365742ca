// Package paypal is a client for PayPal's classic Adaptive/Invoicing web
// APIs, which run over two parallel wire formats: a JSON protocol for the
// Invoicing operations and the legacy NVP protocol for button management.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mutinyhq/paypal-go/nvp"
	"github.com/mutinyhq/paypal-go/ordered"
	pkgerrors "github.com/mutinyhq/paypal-go/pkg/errors"
	pkghttp "github.com/mutinyhq/paypal-go/pkg/http"
	"github.com/mutinyhq/paypal-go/pkg/resilience"
	"go.uber.org/zap"
)

// Protocol identifies which of the provider's two wire formats a request
// used.
type Protocol string

const (
	ProtocolJSON Protocol = "json"
	ProtocolNVP  Protocol = "nvp"
)

const (
	// Total attempts per request, including the first.
	maxAttempts = 3

	// NVP API version pinned by the provider's button-manager methods.
	nvpVersion = "94.0"

	// Error codes the provider documents as transient (throttling /
	// concurrent-modification conflicts). Only these trigger a retry.
	retryErrorCodeJSON = "520002"
	retryErrorCodeNVP  = "10001"

	errorLanguage = "en_US"
)

// reservedNVPFields cannot be overridden by caller-supplied data; they carry
// authentication and method routing.
var reservedNVPFields = map[string]bool{
	"USER":      true,
	"PWD":       true,
	"SIGNATURE": true,
	"VERSION":   true,
	"METHOD":    true,
}

// HTTPClient is a minimal HTTP client interface for making requests
// This allows for easy mocking and testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Observer receives request lifecycle callbacks. Implementations must be
// safe for concurrent use; the client invokes them synchronously on the
// calling goroutine.
type Observer interface {
	RequestSent(protocol Protocol, method string, attempt int)
	ResponseReceived(protocol Protocol, method string, attempt int, duration time.Duration, err error)
	RetryScheduled(protocol Protocol, method string, attempt int, delay time.Duration)
}

// Client issues authenticated requests against both protocol endpoints. All
// request methods block until a final response is obtained (after up to
// maxAttempts tries) and mutate no client state, so one Client can be shared
// across goroutines.
type Client struct {
	cfg        *Config
	httpClient HTTPClient
	logger     *zap.Logger
	backoff    resilience.BackoffStrategy
	observer   Observer
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client with dependency injection.
func NewClient(cfg *Config, httpClient HTTPClient, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
		backoff:    resilience.InvoicingBackoff(),
		sleep:      sleepContext,
	}
}

// NewClientWithDefaults creates a client with a pooled HTTP client using the
// timeout from cfg (30s when unset).
func NewClientWithDefaults(cfg *Config, logger *zap.Logger) *Client {
	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}
	return NewClient(cfg, pkghttp.NewHTTPClient(pkghttp.GatewayClientConfig(), timeout), logger)
}

// SetObserver installs a request lifecycle hook. Call before the client is
// shared between goroutines.
func (c *Client) SetObserver(o Observer) { c.observer = o }

// MerchantInfo returns the configured merchant identity in the field order
// the invoice schema documents.
func (c *Client) MerchantInfo() *ordered.Map {
	info := ordered.New()
	info.Set("businessName", ordered.String(c.cfg.MerchantInfo.BusinessName))
	info.Set("website", ordered.String(c.cfg.MerchantInfo.Website))
	return info
}

// JSONRequest POSTs data to {endpoint}/{method} with the security headers
// the JSON protocol requires and returns the decoded response document.
//
// When the response acknowledges failure with the transient error code, the
// request is retried with exponential backoff, up to three attempts in
// total. After the cap the last response is returned without error; callers
// inspect responseEnvelope.ack themselves.
func (c *Client) JSONRequest(ctx context.Context, method string, data *ordered.Map) (map[string]interface{}, error) {
	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/" + method

	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	header := http.Header{}
	header.Set("X-PAYPAL-SECURITY-USERID", c.cfg.Username)
	header.Set("X-PAYPAL-SECURITY-PASSWORD", c.cfg.Password)
	header.Set("X-PAYPAL-SECURITY-SIGNATURE", c.cfg.Signature)
	header.Set("X-PAYPAL-APPLICATION-ID", c.cfg.AppID)
	header.Set("X-PAYPAL-REQUEST-DATA-FORMAT", "JSON")
	header.Set("X-PAYPAL-RESPONSE-DATA-FORMAT", "JSON")
	header.Set("Content-Type", "application/json")

	for attempt := 0; ; attempt++ {
		respBody, err := c.post(ctx, ProtocolJSON, method, url, header, body, attempt)
		if err != nil {
			return nil, err
		}

		var res map[string]interface{}
		if err := json.Unmarshal(respBody, &res); err != nil {
			return nil, &pkgerrors.DecodeError{Format: "json", Detail: err.Error()}
		}

		if attempt == maxAttempts-1 || !shouldRetryJSON(res) {
			return res, nil
		}

		if err := c.waitBeforeRetry(ctx, ProtocolJSON, method, attempt); err != nil {
			return nil, err
		}
	}
}

// NVPRequest POSTs the NVP encoding of the auth fields plus data to the NVP
// endpoint and returns the decoded response mapping. Caller-supplied entries
// for the reserved fields (USER, PWD, SIGNATURE, VERSION, METHOD) are
// discarded; the reserved fields always come first on the wire.
//
// Retry behavior mirrors JSONRequest, keyed on ACK and the first
// L_ERRORCODE entry.
func (c *Client) NVPRequest(ctx context.Context, method string, data *ordered.Map) (*ordered.Map, error) {
	payload := ordered.New()
	payload.Set("USER", ordered.String(c.cfg.Username))
	payload.Set("PWD", ordered.String(c.cfg.Password))
	payload.Set("SIGNATURE", ordered.String(c.cfg.Signature))
	payload.Set("VERSION", ordered.String(nvpVersion))
	payload.Set("METHOD", ordered.String(method))

	if data != nil {
		for _, p := range data.Pairs() {
			if reservedNVPFields[p.Key] {
				c.logger.Warn("Dropping reserved NVP field from caller data",
					zap.String("field", p.Key),
					zap.String("api_method", method),
				)
				continue
			}
			payload.Set(p.Key, p.Value)
		}
	}

	body, err := nvp.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	for attempt := 0; ; attempt++ {
		respBody, err := c.post(ctx, ProtocolNVP, method, c.cfg.EndpointNVP, header, []byte(body), attempt)
		if err != nil {
			return nil, err
		}

		res, err := nvp.Decode(string(respBody))
		if err != nil {
			return nil, err
		}

		if attempt == maxAttempts-1 || !shouldRetryNVP(res) {
			return res, nil
		}

		if err := c.waitBeforeRetry(ctx, ProtocolNVP, method, attempt); err != nil {
			return nil, err
		}
	}
}

// post performs one HTTP attempt and returns the raw response body. Non-2xx
// statuses surface as a StatusError rather than being parsed as a payload.
func (c *Client) post(ctx context.Context, proto Protocol, method, url string, header http.Header, body []byte, attempt int) ([]byte, error) {
	requestID := uuid.New().String()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = header.Clone()

	c.logger.Debug("Sending request",
		zap.String("protocol", string(proto)),
		zap.String("api_method", method),
		zap.String("request_id", requestID),
		zap.Int("attempt", attempt),
		zap.ByteString("body", body),
	)

	if c.observer != nil {
		c.observer.RequestSent(proto, method, attempt)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	if err != nil {
		if c.observer != nil {
			c.observer.ResponseReceived(proto, method, attempt, duration, err)
		}
		c.logger.Error("Failed to send request",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", duration),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	duration = time.Since(startTime)
	if err != nil {
		if c.observer != nil {
			c.observer.ResponseReceived(proto, method, attempt, duration, err)
		}
		c.logger.Error("Failed to read response body",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var statusErr error
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr = pkgerrors.NewStatusError(resp.StatusCode, url, string(respBody))
	}

	if c.observer != nil {
		c.observer.ResponseReceived(proto, method, attempt, duration, statusErr)
	}

	c.logger.Debug("Received response",
		zap.String("protocol", string(proto)),
		zap.String("api_method", method),
		zap.String("request_id", requestID),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("elapsed", duration),
		zap.ByteString("body", respBody),
	)

	if statusErr != nil {
		return nil, statusErr
	}

	return respBody, nil
}

// waitBeforeRetry sleeps for the backoff delay of the given attempt,
// respecting context cancellation.
func (c *Client) waitBeforeRetry(ctx context.Context, proto Protocol, method string, attempt int) error {
	delay := c.backoff.NextDelay(attempt)

	c.logger.Info("Retrying after transient gateway error",
		zap.String("protocol", string(proto)),
		zap.String("api_method", method),
		zap.Int("attempt", attempt+1),
		zap.Duration("backoff_delay", delay),
	)

	if c.observer != nil {
		c.observer.RetryScheduled(proto, method, attempt, delay)
	}

	return c.sleep(ctx, delay)
}

// shouldRetryJSON reports whether the decoded JSON response is the transient
// failure the provider documents: a Failure ack whose first error carries
// the throttling error id.
func shouldRetryJSON(res map[string]interface{}) bool {
	env, ok := res["responseEnvelope"].(map[string]interface{})
	if !ok {
		return false
	}
	ack, _ := env["ack"].(string)
	if !strings.HasPrefix(ack, "Failure") {
		return false
	}
	errs, ok := res["error"].([]interface{})
	if !ok || len(errs) == 0 {
		return false
	}
	first, ok := errs[0].(map[string]interface{})
	if !ok {
		return false
	}
	id, _ := first["errorId"].(string)
	return id == retryErrorCodeJSON
}

// shouldRetryNVP is the NVP counterpart of shouldRetryJSON, keyed on ACK and
// the suffix-numbered L_ERRORCODE list.
func shouldRetryNVP(res *ordered.Map) bool {
	if !strings.HasPrefix(res.GetScalar("ACK"), "Failure") {
		return false
	}
	codes := res.GetList("L_ERRORCODE")
	return len(codes) > 0 && codes[0].Scalar() == retryErrorCodeNVP
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("retry cancelled: %w", ctx.Err())
	case <-time.After(d):
		return nil
	}
}
