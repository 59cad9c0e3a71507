package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to an external checkout-session endpoint over HTTP.
type Client struct {
	baseURL    string
	successURL string
	cancelURL  string
	httpClient *http.Client
}

func NewClient(baseURL, publicBaseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		successURL: publicBaseURL + "/success",
		cancelURL:  publicBaseURL + "/cancel",
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type createSessionRequest struct {
	Mode       string     `json:"mode"`
	Currency   string     `json:"currency"`
	LineItems  []LineItem `json:"line_items"`
	Reference  uint       `json:"reference"`
	SuccessURL string     `json:"success_url"`
	CancelURL  string     `json:"cancel_url"`
}

type createSessionResponse struct {
	URL string `json:"url"`
}

func (c *Client) CreateSession(ctx context.Context, orderID uint, items []LineItem) (string, error) {
	body := createSessionRequest{
		Mode:       "payment",
		Currency:   "usd",
		LineItems:  items,
		Reference:  orderID,
		SuccessURL: c.successURL,
		CancelURL:  c.cancelURL,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sessions", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("payment session failed with status: %d", resp.StatusCode)
	}

	var result createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.URL == "" {
		return "", fmt.Errorf("payment session response missing url")
	}

	return result.URL, nil
}
