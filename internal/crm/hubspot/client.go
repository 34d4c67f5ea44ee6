// Package hubspot talks to the HubSpot contacts API: an equality search on
// the email property and a single-field patch of join_date.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ezekielswanson/join-date-serverless-function/internal/app/ports"
)

// DefaultBaseURL is the public HubSpot API host.
const DefaultBaseURL = "https://api.hubapi.com"

// JoinDateProperty is the contact property carrying the write-once date.
const JoinDateProperty = "join_date"

const maxResponseBytes = 1 << 20

// Client is a ContactDirectory backed by the HubSpot contacts API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// NewClient constructs a client for the given API host and private app token.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(token),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchFilterGroup struct {
	Filters []searchFilter `json:"filters"`
}

type searchRequest struct {
	FilterGroups []searchFilterGroup `json:"filterGroups"`
	Properties   []string            `json:"properties"`
	Limit        int                 `json:"limit"`
}

type contactResult struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// decodeSearchResults normalizes the two response shapes the search API has
// been observed to return: a flat result list, or a list nested under a
// "results" wrapper.
func decodeSearchResults(body []byte) ([]contactResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var flat []contactResult
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return nil, fmt.Errorf("decode flat result list: %w", err)
		}
		return flat, nil
	}
	var wrapped struct {
		Results []contactResult `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode wrapped result list: %w", err)
	}
	return wrapped.Results, nil
}

// FindContactByEmail searches for a contact by exact email match,
// projecting only the join-date property and limiting to one result.
// A nil contact with nil error means no match.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (*ports.Contact, error) {
	payload := searchRequest{
		FilterGroups: []searchFilterGroup{{
			Filters: []searchFilter{{PropertyName: "email", Operator: "EQ", Value: email}},
		}},
		Properties: []string{JoinDateProperty},
		Limit:      1,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/crm/v3/objects/contacts/search", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("contact search returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	results, err := decodeSearchResults(body)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &ports.Contact{
		ID:       results[0].ID,
		JoinDate: strings.TrimSpace(results[0].Properties[JoinDateProperty]),
	}, nil
}

// SetJoinDate patches the join-date property of the contact record.
func (c *Client) SetJoinDate(ctx context.Context, contactID, joinDate string) error {
	payload := map[string]map[string]string{
		"properties": {JoinDateProperty: joinDate},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/crm/v3/objects/contacts/"+contactID, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("contact update returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
}
