// Package client provides HTTP clients for the order service's remote collaborators.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CustomerClient consults the customer directory over its REST API.
type CustomerClient struct {
	baseURL string
	http    *http.Client
}

func NewCustomerClient(baseURL string, timeout time.Duration) *CustomerClient {
	return &CustomerClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Exists reports whether the directory knows a customer with the given ID.
// A 404 is a definite "no", not an error.
func (c *CustomerClient) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	url := fmt.Sprintf("%s/api/v1/customers/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build customer request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("customer directory unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("customer directory returned unexpected status %d", resp.StatusCode)
	}
}
