package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/adeemgetnoor/customer-profile-manager/internal/config"
)

type Client struct {
	shopDomain  string
	accessToken string
	apiVersion  string
	baseURL     string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new Shopify Admin GraphQL client
func NewClient(cfg config.ShopifyConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	// Normalize shop domain - remove https://, http://, and trailing slashes
	shopDomain := cfg.ShopDomain
	shopDomain = strings.TrimPrefix(shopDomain, "https://")
	shopDomain = strings.TrimPrefix(shopDomain, "http://")
	shopDomain = strings.TrimSuffix(shopDomain, "/")

	return &Client{
		shopDomain:  shopDomain,
		accessToken: cfg.AccessToken,
		apiVersion:  cfg.APIVersion,
		baseURL:     "https://" + shopDomain,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// ShopDomain returns the normalized shop domain (no scheme, no trailing slash).
func (c *Client) ShopDomain() string {
	return c.shopDomain
}

// RestURL builds an Admin REST endpoint URL for the given path (e.g. "products/123.json").
func (c *Client) RestURL(path string) string {
	return fmt.Sprintf("%s/admin/api/%s/%s", c.baseURL, c.apiVersion, path)
}

// AccessToken returns the static admin token used for both GraphQL and REST calls.
func (c *Client) AccessToken() string {
	return c.accessToken
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// UserError is the userErrors element returned by Admin API mutations.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
}

// Execute executes a GraphQL query/mutation
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	url := fmt.Sprintf("%s/admin/api/%s/graphql.json", c.baseURL, c.apiVersion)

	reqBody := GraphQLRequest{
		Query:     query,
		Variables: variables,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(body, &graphQLResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	if len(graphQLResp.Errors) > 0 {
		errorMessages := make([]string, len(graphQLResp.Errors))
		for i, err := range graphQLResp.Errors {
			errorMessages[i] = err.Message
		}
		return nil, fmt.Errorf("graphQL errors: %s", strings.Join(errorMessages, "; "))
	}

	return &graphQLResp, nil
}
