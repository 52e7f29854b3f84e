package orderapi

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
	"strconv"
	"time"

	domainErrors "github.com/patisserie-shop/storefront/internal/domain/errors"
	"github.com/patisserie-shop/storefront/internal/domain/model"
	"github.com/patisserie-shop/storefront/internal/pkg/auth"
)

// Client exposes the authoritative REST order API. Every call may fail with
// one of the sentinel errors from internal/domain/errors; callers classify
// rather than inspect status codes.
type Client interface {
	FetchAllOrders(ctx context.Context) ([]model.Order, error)
	FetchUserOrders(ctx context.Context) ([]model.Order, error)
	WriteOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, comment string) (*model.Order, error)
	FetchStatusHistory(ctx context.Context, orderID int64) ([]model.StatusUpdate, error)
}

// HTTPClient implements Client against the storefront backend.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     auth.Provider
	logger     *slog.Logger
}

// statusRequest is the write payload for PUT /orders/{id}/status.
type statusRequest struct {
	Status  model.OrderStatus `json:"status"`
	Comment string            `json:"comment,omitempty"`
}

// errorResponse carries the server's stated reason for a refusal.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPClient creates an order API client with a default timeout.
func NewHTTPClient(baseURL string, tokens auth.Provider, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse order api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("order api url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		tokens:  tokens,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// FetchAllOrders retrieves every order. Admin-only on the server side.
func (c *HTTPClient) FetchAllOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FetchUserOrders retrieves the calling user's own orders.
func (c *HTTPClient) FetchUserOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.do(ctx, http.MethodGet, "/client/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// WriteOrderStatus submits a status transition and returns the server's
// resulting view of the order, which may include appended history.
func (c *HTTPClient) WriteOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, comment string) (*model.Order, error) {
	var order model.Order
	endpoint := path.Join("/orders", strconv.FormatInt(orderID, 10), "status")
	if err := c.do(ctx, http.MethodPut, endpoint, statusRequest{Status: status, Comment: comment}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// FetchStatusHistory retrieves the audit trail of one order.
func (c *HTTPClient) FetchStatusHistory(ctx context.Context, orderID int64) ([]model.StatusUpdate, error) {
	var history []model.StatusUpdate
	endpoint := path.Join("/orders", strconv.FormatInt(orderID, 10), "status-history")
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, payload, out any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: %v", domainErrors.ErrUnavailable, err)
		}
		if len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return domainErrors.ErrUnauthenticated
	case resp.StatusCode == http.StatusForbidden:
		return domainErrors.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return domainErrors.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest ||
		resp.StatusCode == http.StatusConflict ||
		resp.StatusCode == http.StatusUnprocessableEntity:
		return &domainErrors.RejectedError{Reason: serverReason(resp.Body)}
	default:
		raw, _ := io.ReadAll(resp.Body)
		c.logger.Error("order api request failed",
			slog.String("method", method),
			slog.String("path", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return fmt.Errorf("%w: %s", domainErrors.ErrUnavailable, resp.Status)
	}
}

func serverReason(body io.Reader) string {
	raw, err := io.ReadAll(body)
	if err != nil {
		return ""
	}
	var parsed errorResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ""
	}
	return parsed.Message
}
