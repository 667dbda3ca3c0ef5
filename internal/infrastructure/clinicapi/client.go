// Package clinicapi is the HTTP client for the clinic's REST API: full
// collection reads and create-only writes, JSON in both directions.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clinic-console/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// Collection endpoints.
const (
	EndpointPatients      = "/pacientes"
	EndpointDoctors       = "/medicos"
	EndpointAppointments  = "/citas"
	EndpointPrescriptions = "/recetas"
	EndpointReceipts      = "/boletas"
)

// Collections are read whole. Failure bodies only feed the error message.
const (
	maxResponseBytes  = 32 << 20
	maxErrorBodyBytes = 64 << 10
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout bounds every request made by the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.httpClient = &http.Client{Timeout: d}
	}
}

func WithLogger(log *logrus.Logger) Option {
	return func(cl *Client) {
		cl.log = log
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListPatients fetches the whole patient collection.
func (c *Client) ListPatients(ctx context.Context) (entity.Patients, error) {
	var patients entity.Patients
	if err := c.list(ctx, EndpointPatients, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

// ListDoctors fetches the whole doctor collection.
func (c *Client) ListDoctors(ctx context.Context) (entity.Doctors, error) {
	var doctors entity.Doctors
	if err := c.list(ctx, EndpointDoctors, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// Create posts payload to a collection endpoint and returns the raw response
// body. A non-2xx status yields an *APIError.
func (c *Client) Create(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.do(req, endpoint)
}

func (c *Client) list(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	failed := resp.StatusCode < 200 || resp.StatusCode >= 300
	limit := int64(maxResponseBytes)
	if failed {
		limit = maxErrorBodyBytes
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	if int64(len(body)) > limit {
		if !failed {
			return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("response exceeds %d bytes", limit)}
		}
		body = body[:limit]
	}

	c.log.WithFields(logrus.Fields{
		"method":   req.Method,
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("clinic api call")

	if failed {
		return nil, newAPIError(endpoint, resp.StatusCode, body)
	}
	return body, nil
}
