// Package controlplane is the HTTP client for the central tenant registry
// (the admin backend). It is used by the provisioning lifecycle and by the
// registry credential strategy, never on the per-request hot path.
package controlplane

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/eatwithme/etm-core/sdk/pkg/json"
)

var (
	// ErrNotFound means the registry has no record for the tenant.
	ErrNotFound = errors.New("tenant not found in control plane")

	// ErrUnavailable means the registry could not be reached or answered 5xx.
	ErrUnavailable = errors.New("control plane unavailable")
)

// Tenant is the registry record for one restaurant.
type Tenant struct {
	RestaurantID string `json:"restaurantId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PlanID       string `json:"planId,omitempty"`
	PosType      string `json:"posType,omitempty"`

	DBName string `json:"dbName"`
	DBUser string `json:"dbUser"`
	DBHost string `json:"dbHost,omitempty"`
	DBPort int    `json:"dbPort,omitempty"`
	// DBPassword is encrypted at rest when the deployment configures an
	// encryption key; see credentials.RegistryProvider.
	DBPassword string `json:"dbPassword,omitempty"`
	// PasswordRef points at a secret store entry instead of an inline password.
	PasswordRef string `json:"passwordRef,omitempty"`
}

// Client talks to the admin backend tenant API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetByID fetches a tenant record. Returns ErrNotFound on 404.
func (c *Client) GetByID(ctx context.Context, restaurantID string) (*Tenant, error) {
	u := fmt.Sprintf("%s/api/tenants/%s", c.baseURL, url.PathEscape(restaurantID))
	return c.getTenant(ctx, u)
}

// FindByEmail looks up a tenant by signup email. Returns ErrNotFound when no
// tenant uses the email.
func (c *Client) FindByEmail(ctx context.Context, email string) (*Tenant, error) {
	u := fmt.Sprintf("%s/api/tenants?email=%s", c.baseURL, url.QueryEscape(email))
	return c.getTenant(ctx, u)
}

// Create registers a freshly provisioned tenant. The registry may assign its
// own canonical restaurant id; the returned record is authoritative.
func (c *Client) Create(ctx context.Context, t *Tenant) (*Tenant, error) {
	body, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/tenants", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var created Tenant
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("decoding control plane response: %w", err)
	}
	if created.RestaurantID == "" {
		created.RestaurantID = t.RestaurantID
	}
	return &created, nil
}

// Delete removes the registry record. Missing records are not an error so the
// call stays safe during rollback.
func (c *Client) Delete(ctx context.Context, restaurantID string) error {
	u := fmt.Sprintf("%s/api/tenants/%s", c.baseURL, url.PathEscape(restaurantID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	return nil
}

func (c *Client) getTenant(ctx context.Context, u string) (*Tenant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var t Tenant
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("decoding control plane response: %w", err)
	}
	if t.RestaurantID == "" {
		// empty body counts as absent, matching the admin backend behavior
		return nil, ErrNotFound
	}
	return &t, nil
}

func statusError(resp *http.Response) error {
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return fmt.Errorf("control plane returned status %d", resp.StatusCode)
}
