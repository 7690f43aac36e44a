package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Cheertaboi/billing-cohort-mrr-service/internal/models"
)

const defaultBaseURL = "https://api.stripe.com/v1"

// Client talks to the billing provider's customer listing endpoint.
// It implements fetch.CustomerLister.
type Client struct {
	APIKey  string
	BaseURL string

	HTTPClient *http.Client
}

// NewClient builds a Client against the provider's public API.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  strings.TrimSpace(apiKey),
		BaseURL: defaultBaseURL,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListCustomers fetches one page of customers created inside the given
// window. Failures are reported opaquely with the response status and a
// body snippet; retrying is the caller's call, not this client's.
func (c *Client) ListCustomers(ctx context.Context, created models.CreatedRange, limit, offset int) (*models.Page, error) {
	if c.APIKey == "" {
		return nil, errors.New("provider: API key is not configured")
	}

	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	u, err := url.Parse(base + "/customers")
	if err != nil {
		return nil, fmt.Errorf("provider: invalid base URL: %w", err)
	}

	q := u.Query()
	if created.GTE > 0 {
		q.Set("created[gte]", strconv.FormatInt(created.GTE, 10))
	}
	if created.LTE > 0 {
		q.Set("created[lte]", strconv.FormatInt(created.LTE, 10))
	}
	q.Set("count", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	q.Set("include[]", "total_count")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("provider: list customers failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var page models.Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("provider: decode customer page: %w", err)
	}
	return &page, nil
}
