package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eapache/go-resiliency/retrier"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
)

type Config struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	RetryAttempts  int    `json:"retry_attempts"`
	RetryBackoffMS int    `json:"retry_backoff_ms"`
}

// Client is the HTTP implementation of the Cart API collaborator.
// Transport failures and 5xx responses are retried with exponential
// backoff; client-class responses are never retried.
type Client struct {
	cfg   Config
	creds Credentials
	http  *http.Client
	retry *retrier.Retrier
}

func New(cfg Config, creds Credentials) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = defaultAttempts
	}
	backoff := defaultBackoff
	if cfg.RetryBackoffMS > 0 {
		backoff = time.Duration(cfg.RetryBackoffMS) * time.Millisecond
	}

	return &Client{
		cfg:   cfg,
		creds: creds,
		http:  &http.Client{Timeout: timeout},
		retry: retrier.New(retrier.ExponentialBackoff(attempts-1, backoff), transientClassifier{}),
	}
}

type transientClassifier struct{}

func (transientClassifier) Classify(err error) retrier.Action {
	if err == nil {
		return retrier.Succeed
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return retrier.Retry
	}
	return retrier.Fail
}

type cartEnvelope struct {
	Cart Cart `json:"cart"`
}

type orderEnvelope struct {
	Order Order `json:"order"`
}

type discountEnvelope struct {
	DiscountPercent int64 `json:"discount_percent"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) GetCart(ctx context.Context) (Cart, error) {
	var env cartEnvelope
	err := c.do(ctx, http.MethodGet, "/cart", nil, &env, "get cart")
	return env.Cart, err
}

func (c *Client) AddItem(ctx context.Context, req AddItemRequest) (Cart, error) {
	var env cartEnvelope
	err := c.do(ctx, http.MethodPost, "/cart/items", req, &env, "add cart item")
	return env.Cart, err
}

func (c *Client) UpdateItemQuantity(ctx context.Context, itemID, quantity int64) (Cart, error) {
	var env cartEnvelope
	body := struct {
		Quantity int64 `json:"quantity"`
	}{Quantity: quantity}
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), body, &env, "update cart item")
	return env.Cart, err
}

func (c *Client) RemoveItem(ctx context.Context, itemID int64) (Cart, error) {
	var env cartEnvelope
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil, &env, "remove cart item")
	return env.Cart, err
}

func (c *Client) ClearCart(ctx context.Context) (Cart, error) {
	var env cartEnvelope
	err := c.do(ctx, http.MethodDelete, "/cart/clear", nil, &env, "clear cart")
	return env.Cart, err
}

func (c *Client) AssociateGuestCart(ctx context.Context) (Cart, error) {
	var env cartEnvelope
	err := c.do(ctx, http.MethodPost, "/cart/associate", struct{}{}, &env, "associate guest cart")
	return env.Cart, err
}

func (c *Client) VerifyDiscountCode(ctx context.Context, code string) (int64, error) {
	var env discountEnvelope
	body := struct {
		Code string `json:"code"`
	}{Code: code}
	err := c.do(ctx, http.MethodPost, "/discounts/verify", body, &env, "verify discount code")
	return env.DiscountPercent, err
}

func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (Order, error) {
	var env orderEnvelope
	err := c.do(ctx, http.MethodPost, "/orders", req, &env, "place order")
	return env.Order, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, op string) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
	}

	return c.retry.RunCtx(ctx, func(ctx context.Context) error {
		return c.once(ctx, method, path, payload, out, op)
	})
}

func (c *Client) once(ctx context.Context, method, path string, payload []byte, out any, op string) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if guest := c.creds.GuestSession(); guest != "" {
		req.Header.Set("X-Guest-Session", guest)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return &NetworkError{Op: op, Err: fmt.Errorf("server status %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", op, ErrAuthExpired)
	case resp.StatusCode >= 400:
		var env errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.Message == "" {
			env.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Op: op, Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}
