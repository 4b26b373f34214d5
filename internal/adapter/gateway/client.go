package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/melodix/vipgate/internal/domain/errors"
)

// LinkRequest carries everything the gateway needs to issue a checkout link.
type LinkRequest struct {
	Code        int64
	Amount      int64
	Description string
	ReturnURL   string
	CancelURL   string
}

// PaymentLink is the gateway's answer to a successful link request.
type PaymentLink struct {
	LinkID      string
	CheckoutURL string
}

// Client exposes the outbound payment gateway operation.
type Client interface {
	CreateLink(ctx context.Context, req LinkRequest) (*PaymentLink, error)
}

// HTTPClient implements Client via the gateway's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// linkRequestBody mirrors the JSON payload sent to the gateway.
type linkRequestBody struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
}

// linkResponseBody mirrors the JSON payload returned by the gateway.
type linkResponseBody struct {
	PaymentLinkID string `json:"paymentLinkId"`
	CheckoutURL   string `json:"checkoutUrl"`
}

// NewHTTPClient creates an HTTP gateway client with a bounded timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreateLink asks the gateway for a checkout link for the given order. Any
// transport failure or non-200 answer surfaces as ErrGatewayUnavailable so
// callers never persist an order the gateway does not know about.
func (c *HTTPClient) CreateLink(ctx context.Context, req LinkRequest) (*PaymentLink, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v2/payment-requests")

	payload, err := json.Marshal(linkRequestBody{
		OrderCode:   req.Code,
		Amount:      req.Amount,
		Description: req.Description,
		ReturnURL:   req.ReturnURL,
		CancelURL:   req.CancelURL,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("gateway request failed", slog.Int64("code", req.Code), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway rejected link request",
			slog.Int64("code", req.Code),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrGatewayUnavailable, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainErrors.ErrGatewayUnavailable, err)
	}

	var data linkResponseBody
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domainErrors.ErrGatewayUnavailable, err)
	}
	if data.PaymentLinkID == "" || data.CheckoutURL == "" {
		return nil, fmt.Errorf("%w: incomplete response", domainErrors.ErrGatewayUnavailable)
	}

	return &PaymentLink{LinkID: data.PaymentLinkID, CheckoutURL: data.CheckoutURL}, nil
}
