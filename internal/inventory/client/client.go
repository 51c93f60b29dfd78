// Package client talks to the remote HAL car resource.
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

	"github.com/go-logr/logr"

	"github.com/autopeer-io/carstock/internal/inventory/model"
	"github.com/autopeer-io/carstock/internal/pkg/metrics"
)

const maxErrorBody = 512

// StatusError is returned when the resource answers with a non-2xx status.
// A StatusError means a response was received, unlike a transport error.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsStatus reports whether err carries a non-2xx response.
func IsStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// Client is a REST client for a car collection exposed HAL style.
type Client struct {
	base      *url.URL
	http      *http.Client
	log       logr.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logr.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a client for the collection at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("base URL %q is not absolute", baseURL)
	}

	c := &Client{
		base: u,
		http: &http.Client{},
		log:  logr.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the collection endpoint.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Resolve turns a possibly relative self link into an absolute URL.
func (c *Client) Resolve(link string) (string, error) {
	if strings.TrimSpace(link) == "" {
		return "", errors.New("empty link")
	}
	return model.ResolveHref(c.base, link)
}

// List fetches the whole collection. Self links in the result are absolute.
func (c *Client) List(ctx context.Context) ([]model.Record, error) {
	resp, err := c.do(ctx, http.MethodGet, c.base.String(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env model.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "decode").Inc()
		return nil, fmt.Errorf("decode car collection: %w", err)
	}
	if err := env.Validate(); err != nil {
		metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "decode").Inc()
		return nil, fmt.Errorf("decode car collection: %w", err)
	}
	if err := env.ResolveLinks(c.base); err != nil {
		return nil, fmt.Errorf("resolve links: %w", err)
	}

	cars := env.Cars()
	c.log.V(1).Info("Fetched car collection", "count", len(cars))
	return cars, nil
}

// Create posts a new car. The created record in the response is not read.
func (c *Client) Create(ctx context.Context, car model.Car) error {
	resp, err := c.do(ctx, http.MethodPost, c.base.String(), car)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// Update replaces the record at link with car.
func (c *Client) Update(ctx context.Context, link string, car model.Car) error {
	target, err := c.Resolve(link)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPut, target, car)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// Delete removes the record at link.
func (c *Client) Delete(ctx context.Context, link string) error {
	target, err := c.Resolve(link)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	resp, err := c.do(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// do sends one request and returns the response only for 2xx answers.
// Any other answer is turned into a *StatusError and the body is closed.
func (c *Client) do(ctx context.Context, method, target string, body any) (*http.Response, error) {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/hal+json, application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveAPI(method, "error", elapsed)
		c.log.Error(err, "Car resource request failed", "method", method, "url", target)
		return nil, fmt.Errorf("%s %s: %w", method, target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveAPI(method, "status", elapsed)
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		c.log.Info("Car resource answered with an error status", "method", method, "url", target, "status", resp.StatusCode)
		return nil, &StatusError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	metrics.ObserveAPI(method, "success", elapsed)
	c.log.V(1).Info("Car resource request done", "method", method, "url", target, "status", resp.StatusCode, "elapsed", elapsed.String())
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()
}
